package main

import (
	"fmt"

	"github.com/orda-service/internal/config"
	"github.com/orda-service/internal/seed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func seedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample customers, orders and items",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(*configPath)
			if err != nil {
				return err
			}
			if cfg.Store.Driver == config.DriverMemory {
				return fmt.Errorf("store driver %q does not persist, nothing to seed", cfg.Store.Driver)
			}
			ctx := cmd.Context()

			store, err := openStore(ctx, cfg.Store, log)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			res, err := seed.Load(ctx, store, log)
			if err != nil {
				return err
			}

			log.Info("seed complete", zap.Int("inserted", res.Inserted), zap.Int("skipped", res.Skipped))
			fmt.Fprintf(cmd.OutOrStdout(), "Data inserted successfully! (%d new, %d existing)\n", res.Inserted, res.Skipped)
			return nil
		},
	}
}
