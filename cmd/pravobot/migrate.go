package main

import (
	"log/slog"

	"github.com/pravobot/pravobot/internal/config"
	"github.com/pravobot/pravobot/internal/store"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadWithOptions(config.LoadOptions{RequireDatabaseURL: true})
		if err != nil {
			return err
		}

		if err := store.Migrate(cfg.DatabaseURL); err != nil {
			return err
		}

		slog.Info("migrations applied successfully")
		return nil
	},
}
