package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/foodtracker"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of foodtracker",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("foodtracker version %s\n", foodtracker.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
