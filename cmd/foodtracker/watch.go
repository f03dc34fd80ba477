package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/foodtracker/pkg/adapters/lifecycle"
	"github.com/aretw0/foodtracker/pkg/core"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow changes made to the meal archive by other processes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store := openStore(ctx)
		events, err := store.Watch(ctx)
		if err != nil {
			fatal("Failed to watch meal store", err)
		}

		source := lifecycle.NewSource(events, lifecycle.WithEventTypes(core.EventExternalModify))
		if err := source.Start(ctx); err != nil {
			fatal("Failed to start event source", err)
		}

		fmt.Printf("Watching %d meals. Press Ctrl+C to stop.\n", store.Len())
		for e := range source.Events() {
			if err := store.Reload(ctx); err != nil {
				slog.Warn("archive changed but cannot be loaded", "event", e.String(), "error", err)
				continue
			}
			fmt.Printf("%s: reloaded %d meals\n", e, store.Len())
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
