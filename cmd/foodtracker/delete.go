package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete INDEX",
	Short: "Delete the meal at INDEX",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := mutationContext()
		store := openStore(ctx)

		index := parseIndex(args[0])
		meal, err := store.At(index)
		if err != nil {
			fatal("Failed to find meal", err)
		}
		if err := store.RemoveAt(ctx, index); err != nil {
			fatal("Failed to delete meal", err)
		}
		checkSaved(store)

		fmt.Printf("Meal '%s' deleted.\n", meal.Name())
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
