package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/foodtracker/pkg/editor"
)

var (
	editName       string
	editRating     int
	editPhoto      string
	editClearPhoto bool
)

var editCmd = &cobra.Command{
	Use:   "edit INDEX",
	Short: "Change the meal at INDEX",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := mutationContext()
		store := openStore(ctx)

		index := parseIndex(args[0])
		meal, err := store.At(index)
		if err != nil {
			fatal("Failed to find meal", err)
		}

		draft := editor.EditDraft(index, meal)
		if cmd.Flags().Changed("name") {
			draft.SetName(editName)
		}
		if cmd.Flags().Changed("rating") {
			if err := setDraftRating(draft, editRating); err != nil {
				fatal("Invalid rating", err)
			}
		}
		if editClearPhoto {
			draft.SetPhoto(nil)
		}
		draft.PickPhoto(photoFromFile(editPhoto))

		if _, err := draft.Commit(ctx, store); err != nil {
			fatal("Failed to update meal", err)
		}
		checkSaved(store)

		fmt.Printf("Meal %d updated: %s\n", index, draft.Title())
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&editName, "name", "", "New meal name")
	editCmd.Flags().IntVar(&editRating, "rating", 0, "New rating from 0 to 5")
	editCmd.Flags().StringVar(&editPhoto, "photo", "", "Path of a new photo file")
	editCmd.Flags().BoolVar(&editClearPhoto, "clear-photo", false, "Remove the photo")
	editCmd.MarkFlagsMutuallyExclusive("photo", "clear-photo")
}
