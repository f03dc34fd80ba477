package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aretw0/foodtracker/pkg/core"
	"github.com/aretw0/foodtracker/pkg/rating"
)

var rateCmd = &cobra.Command{
	Use:   "rate INDEX STAR",
	Short: "Tap a star of the meal at INDEX",
	Long: `Tap star STAR (1 to 5) of the meal at INDEX.
Tapping the star that matches the current rating resets it to zero.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := mutationContext()
		store := openStore(ctx)

		index := parseIndex(args[0])
		star, err := strconv.Atoi(args[1])
		if err != nil {
			fatal("Invalid star", err)
		}

		meal, err := store.At(index)
		if err != nil {
			fatal("Failed to find meal", err)
		}

		control := rating.New(core.MaxRating)
		control.SetRating(meal.Rating())
		if err := control.Tap(star - 1); err != nil {
			fatal("Invalid star", err)
		}

		rated, err := meal.WithRating(control.Rating())
		if err != nil {
			fatal("Invalid rating", err)
		}
		if err := store.Replace(ctx, index, rated); err != nil {
			fatal("Failed to rate meal", err)
		}
		checkSaved(store)

		fmt.Printf("%s %s %s\n", meal.Name(), stars(control.Rating()), control.AccessibilityValue())
	},
}

func init() {
	rootCmd.AddCommand(rateCmd)
}
