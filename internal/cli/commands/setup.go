// Package commands implements the fmsboard subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/fmsboard/internal/cli/config"
	"github.com/leapstack-labs/fmsboard/internal/fms"
	"github.com/leapstack-labs/fmsboard/internal/store"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Store  *store.Postgres
	FMS    *fms.Service
}

// NewCommandContext opens the database and builds the FMS service.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg, err := getConfig(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.RequireDatabase(); err != nil {
		return nil, nil, err
	}
	logger := config.GetLogger(cmd.Context())

	db, err := store.Open(cmd.Context(), cfg.StoreConfig(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.Warn("closing database", "error", err)
		}
	}

	return &CommandContext{
		Cfg:    cfg,
		Logger: logger,
		Store:  db,
		FMS:    fms.NewService(db, cfg.FMSServiceConfig(), logger),
	}, cleanup, nil
}

// getConfig returns the configuration loaded by the root command.
func getConfig(ctx context.Context) (*config.Config, error) {
	cfg := config.FromContext(ctx)
	if cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	return cfg, nil
}
