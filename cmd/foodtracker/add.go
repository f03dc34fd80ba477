package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/foodtracker/pkg/core"
	"github.com/aretw0/foodtracker/pkg/editor"
)

var (
	addName   string
	addRating int
	addPhoto  string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a meal at the end of the list",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := mutationContext()
		store := openStore(ctx)

		draft := editor.NewDraft()
		draft.SetName(addName)
		if err := setDraftRating(draft, addRating); err != nil {
			fatal("Invalid rating", err)
		}
		draft.PickPhoto(photoFromFile(addPhoto))

		index, err := draft.Commit(ctx, store)
		if err != nil {
			fatal("Failed to add meal", err)
		}
		checkSaved(store)

		fmt.Printf("Meal '%s' added at index %d.\n", draft.Title(), index)
	},
}

// setDraftRating refuses ratings the star control would silently clamp.
func setDraftRating(d *editor.Draft, r int) error {
	if r < core.MinRating || r > core.MaxRating {
		return fmt.Errorf("%w: %d", core.ErrInvalidRating, r)
	}
	d.Rating().SetRating(r)
	return nil
}

// photoFromFile picks the content of path, or nothing when path is empty.
func photoFromFile(path string) editor.PhotoPicker {
	return func() ([]byte, bool) {
		if path == "" {
			return nil, false
		}
		data, err := os.ReadFile(path)
		if err != nil {
			fatal("Failed to read photo", err)
		}
		return data, true
	}
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addName, "name", "", "Meal name")
	addCmd.Flags().IntVar(&addRating, "rating", 0, "Rating from 0 to 5")
	addCmd.Flags().StringVar(&addPhoto, "photo", "", "Path of a photo file")
	addCmd.MarkFlagRequired("name")
}
