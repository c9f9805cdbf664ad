package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/persistorai/kinnet/internal/config"
	"github.com/persistorai/kinnet/internal/db"
	"github.com/persistorai/kinnet/internal/dbpool"
	"github.com/persistorai/kinnet/internal/store"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the person-store schema to the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := newLogger(cfg.LogLevel)

			if cfg.StoreDriver == config.DriverSQLite {
				s, err := store.OpenSQLite(ctx, cfg.SQLitePath, true, log)
				if err != nil {
					return err
				}
				defer s.Close()

				if err := db.MigrateSQLite(ctx, s.DB(), log); err != nil {
					return err
				}
			} else {
				pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value(), cfg.DBMaxConns)
				if err != nil {
					return fmt.Errorf("connecting to database: %w", err)
				}
				defer pool.Close()

				if err := db.RunMigrations(ctx, pool, log, db.Migrations()); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d (%s)\n", db.SchemaVersion(), cfg.StoreDriver)
			return nil
		},
	}
}
