package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the saved revisions of the meal list (requires versioning)",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store := openStore(ctx)

		revisions, err := store.History(ctx, historyLimit)
		if err != nil {
			fatal("Failed to read history", err)
		}

		for _, r := range revisions {
			hash := r.Hash
			if len(hash) > 7 {
				hash = hash[:7]
			}
			fmt.Printf("%s %s %s\n", hash, r.Time.Format("2006-01-02 15:04"), r.Message)
		}
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of revisions (0 for all)")
}
