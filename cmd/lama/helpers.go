package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/financelama/internal/common"
	"github.com/Veraticus/financelama/internal/config"
	"github.com/Veraticus/financelama/internal/model"
	"github.com/Veraticus/financelama/internal/pipeline"
	"github.com/Veraticus/financelama/internal/storage"
	"github.com/spf13/viper"
)

func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context, cfg *config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initPipeline builds the pipeline over the configured store. The returned
// cleanup closes the store.
func initPipeline(ctx context.Context) (*pipeline.Pipeline, *config.Config, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	imp, err := cfg.Importer()
	if err != nil {
		return nil, nil, nil, err
	}
	categorizer, err := cfg.Categorizer()
	if err != nil {
		return nil, nil, nil, err
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	cleanup := func() { _ = store.Close() }
	return pipeline.New(store, imp, categorizer), cfg, cleanup, nil
}

// parseSelector parses row arguments such as "617-620" or "42".
func parseSelector(args []string) (model.RowSelector, error) {
	var sel model.RowSelector
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			r, err := model.ParseIDRange(part)
			if err != nil {
				return model.RowSelector{}, common.NewUserError("invalid row selection", err)
			}
			if r.From == r.To {
				sel.IDs = append(sel.IDs, r.From)
			} else {
				sel.Ranges = append(sel.Ranges, r)
			}
		}
	}
	if sel.IsEmpty() {
		return sel, common.ErrEmptySelection
	}
	return sel, nil
}
