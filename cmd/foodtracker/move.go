package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move FROM TO",
	Short: "Move the meal at FROM so that it ends up at TO",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := mutationContext()
		store := openStore(ctx)

		from, to := parseIndex(args[0]), parseIndex(args[1])
		if err := store.Move(ctx, from, to); err != nil {
			fatal("Failed to move meal", err)
		}
		checkSaved(store)

		fmt.Printf("Meal moved from %d to %d.\n", from, to)
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
}
