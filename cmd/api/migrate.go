package main

import (
	"fmt"

	"github.com/orda-service/internal/config"
	"github.com/orda-service/internal/repo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the Postgres schema or create the Mongo unique indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(*configPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			switch cfg.Store.Driver {
			case config.DriverPostgres:
				db, err := openPostgres(ctx, cfg.Store.DatabaseURL)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := repo.RunMigrations(ctx, db, repo.Migrations()); err != nil {
					return err
				}
			case config.DriverMongo:
				store, err := repo.OpenMongo(ctx, cfg.Store.MongoURI, cfg.Store.MongoDatabase)
				if err != nil {
					return err
				}
				defer store.Close(ctx)
				if err := store.EnsureIndexes(ctx, collectionKeys); err != nil {
					return err
				}
			default:
				return fmt.Errorf("store driver %q has no schema to migrate", cfg.Store.Driver)
			}

			log.Info("migrations applied", zap.String("driver", cfg.Store.Driver))
			return nil
		},
	}
}
