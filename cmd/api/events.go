package main

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/orda-service/internal/config"
	"github.com/orda-service/internal/events"
	"github.com/spf13/cobra"
)

func eventsCmd(configPath *string) *cobra.Command {
	var patterns []string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print change events published over Redis until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup(*configPath)
			if err != nil {
				return err
			}
			if cfg.Events.Driver != config.EventsRedis {
				return errors.New("events: tailing requires EVENTS_DRIVER=redis")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			client, err := openRedis(ctx, cfg.Events.RedisURL)
			if err != nil {
				return err
			}
			defer client.Close()

			out := cmd.OutOrStdout()
			return events.NewConsumer(client).Subscribe(ctx, func(channel, payload string) {
				fmt.Fprintf(out, "%s %s\n", channel, payload)
			}, patterns...)
		},
	}

	cmd.Flags().StringSliceVarP(&patterns, "pattern", "p", []string{"*"}, "channel glob patterns to follow")
	return cmd
}
