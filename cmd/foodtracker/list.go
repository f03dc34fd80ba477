package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/foodtracker/pkg/core"
	"github.com/aretw0/foodtracker/pkg/rating"
)

var listJSON bool

type listItem struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Rating   int    `json:"rating"`
	HasPhoto bool   `json:"has_photo"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all meals in display order",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore(context.Background())
		meals := store.Meals()

		if listJSON {
			items := make([]listItem, 0, len(meals))
			for i, m := range meals {
				items = append(items, listItem{Index: i, Name: m.Name(), Rating: m.Rating(), HasPhoto: m.HasPhoto()})
			}
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(items); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		for i, m := range meals {
			fmt.Printf("%3d  %s  %s%s\n", i, stars(m.Rating()), m.Name(), photoMark(m))
		}
	},
}

// stars renders a rating the way the rating control lights its buttons.
func stars(r int) string {
	c := rating.New(core.MaxRating)
	c.SetRating(r)

	var sb strings.Builder
	for _, lit := range c.Selected() {
		if lit {
			sb.WriteString("★")
		} else {
			sb.WriteString("☆")
		}
	}
	return sb.String()
}

func photoMark(m core.Meal) string {
	if m.HasPhoto() {
		return " [photo]"
	}
	return ""
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}
