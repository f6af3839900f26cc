package config

import (
	"fmt"
	"strings"

	"github.com/Veraticus/financelama/internal/categorize"
	"github.com/Veraticus/financelama/internal/common"
	"github.com/Veraticus/financelama/internal/format"
	"github.com/Veraticus/financelama/internal/importer"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyDatabasePath     = "database.path"
	KeyLogLevel         = "logging.level"
	KeyLogFormat        = "logging.format"
	KeyFormatsFile      = "formats_file"
	KeyFallbackCategory = "fallback_category"
	KeyCategories       = "categories"
	KeyDropRules        = "drop_rules"
)

// DefaultDatabasePath is used when database.path is unset.
const DefaultDatabasePath = "$HOME/.local/share/lama/lama.db"

// Config is the resolved application configuration.
type Config struct {
	DatabasePath     string
	LogLevel         string
	LogFormat        string
	FormatsFile      string
	FallbackCategory string
	Categories       categorize.Table
	DropRules        []importer.DropRule
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyFallbackCategory, categorize.FallbackCategory)
}

// Load resolves the configuration held by v. An unset categories list
// selects the built-in keyword table; unset drop_rules select the built-in
// rules, while an explicit empty list disables dropping.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabasePath:     ExpandPath(v.GetString(KeyDatabasePath)),
		LogLevel:         v.GetString(KeyLogLevel),
		LogFormat:        v.GetString(KeyLogFormat),
		FormatsFile:      ExpandPath(v.GetString(KeyFormatsFile)),
		FallbackCategory: strings.TrimSpace(v.GetString(KeyFallbackCategory)),
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = ExpandPath(DefaultDatabasePath)
	}
	if cfg.FallbackCategory == "" {
		cfg.FallbackCategory = categorize.FallbackCategory
	}

	if v.IsSet(KeyCategories) {
		if err := v.UnmarshalKey(KeyCategories, &cfg.Categories); err != nil {
			return nil, &common.ConfigurationError{Reason: fmt.Sprintf("invalid %s: %v", KeyCategories, err)}
		}
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = categorize.DefaultTable()
	}
	if err := cfg.Categories.Validate(); err != nil {
		return nil, err
	}

	if v.IsSet(KeyDropRules) {
		cfg.DropRules = []importer.DropRule{}
		if err := v.UnmarshalKey(KeyDropRules, &cfg.DropRules); err != nil {
			return nil, &common.ConfigurationError{Reason: fmt.Sprintf("invalid %s: %v", KeyDropRules, err)}
		}
	} else {
		cfg.DropRules = importer.DefaultDropRules()
	}
	for _, rule := range cfg.DropRules {
		if err := rule.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Registry builds the format registry: built-in layouts plus formats_file.
func (c *Config) Registry() (*format.Registry, error) {
	return format.NewRegistryWithFile(c.FormatsFile)
}

// Categorizer builds the keyword categorizer.
func (c *Config) Categorizer() (*categorize.Categorizer, error) {
	return categorize.New(c.Categories, c.FallbackCategory)
}

// Importer builds an importer over the configured registry and drop rules.
func (c *Config) Importer() (*importer.Importer, error) {
	registry, err := c.Registry()
	if err != nil {
		return nil, err
	}
	return importer.New(registry, importer.WithDropRules(c.DropRules)), nil
}
