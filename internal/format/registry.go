package format

import (
	"fmt"
	"os"

	"github.com/Veraticus/financelama/internal/common"
	"gopkg.in/yaml.v3"
)

// Registry is an ordered set of formats. Detection tries formats in
// registration order.
type Registry struct {
	byName  map[string]int
	formats []Format
}

// NewRegistry validates and registers the given formats.
func NewRegistry(formats ...Format) (*Registry, error) {
	r := &Registry{byName: make(map[string]int)}
	for _, f := range formats {
		if err := r.Register(f); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register validates f and adds it. A format with an already registered name
// replaces the earlier definition in place.
func (r *Registry) Register(f Format) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if i, ok := r.byName[f.Name]; ok {
		r.formats[i] = f
		return nil
	}
	r.byName[f.Name] = len(r.formats)
	r.formats = append(r.formats, f)
	return nil
}

// Lookup returns the format registered under name.
func (r *Registry) Lookup(name string) (Format, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Format{}, false
	}
	return r.formats[i], true
}

// Formats returns all formats in registration order.
func (r *Registry) Formats() []Format {
	out := make([]Format, len(r.formats))
	copy(out, r.formats)
	return out
}

// Len returns the number of registered formats.
func (r *Registry) Len() int {
	return len(r.formats)
}

// File is the on-disk shape of a formats file.
type File struct {
	Formats []Format `yaml:"formats"`
}

// LoadFile reads additional format definitions from a YAML file.
func LoadFile(path string) ([]Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read formats file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &common.ConfigurationError{Reason: fmt.Sprintf("failed to parse %s: %v", path, err)}
	}

	return file.Formats, nil
}

// NewRegistryWithFile returns the builtin registry extended by the formats in
// path. An empty path yields the builtin registry.
func NewRegistryWithFile(path string) (*Registry, error) {
	r, err := NewRegistry(Builtin()...)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return r, nil
	}

	extra, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	for _, f := range extra {
		if err := r.Register(f); err != nil {
			return nil, err
		}
	}
	return r, nil
}
