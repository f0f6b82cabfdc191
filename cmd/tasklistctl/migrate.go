package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fastygo/tasklists/internal/config"
	pgInfra "github.com/fastygo/tasklists/internal/infrastructure/postgres"
	"github.com/fastygo/tasklists/pkg/logger"
)

func migrateCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back the postgres schema",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{pgInfra.Up, pgInfra.Down},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := pgInfra.Up
			if len(args) == 1 {
				direction = args[0]
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if path == "" {
				path = cfg.Migrations.Path
			}

			log, err := logger.New(logger.Config{Level: cfg.Logger.Level, Encoding: "console"})
			if err != nil {
				return err
			}
			defer log.Sync()

			if err := pgInfra.Migrate(cfg.Database, path, direction, log); err != nil {
				return fmt.Errorf("migrate %s: %w", direction, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "migrations directory (defaults to MIGRATIONS_PATH)")
	return cmd
}
