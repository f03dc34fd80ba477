package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aretw0/foodtracker"
	"github.com/aretw0/foodtracker/pkg/core"
)

var (
	verbose      bool
	storeDir     string
	format       string
	versioning   bool
	unsafe       bool
	changeReason string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "foodtracker",
	Short: "Keep a list of meals with photos and star ratings",
	Long: `FoodTracker keeps an ordered list of meals, each with a name, an optional
photo and a rating from 0 to 5 stars. Every change is saved immediately.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&storeDir, "dir", "", "Store directory (default <config dir>/foodtracker/Documents)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "json", "Archive format (json, yaml, csv)")
	rootCmd.PersistentFlags().BoolVar(&versioning, "versioning", false, "Commit every save to Git (default: detect an existing repository)")
	rootCmd.PersistentFlags().BoolVar(&unsafe, "unsafe", false, "Disable the dev sandbox used under go run")
	rootCmd.PersistentFlags().StringVarP(&changeReason, "message", "m", "", "Change reason recorded with versioning")
}

// storeOptions translates the global flags into store options.
func storeOptions() []foodtracker.Option {
	opts := []foodtracker.Option{
		foodtracker.WithAutoInit(true),
		foodtracker.WithFormat(format),
		foodtracker.WithLogger(slog.Default()),
		foodtracker.WithDevSafety(!unsafe),
		foodtracker.WithWatcherErrorHandler(func(err error) {
			slog.Warn("watcher failure", "error", err)
		}),
	}
	// Only an explicit flag overrides the detection of an existing repository.
	if rootCmd.PersistentFlags().Changed("versioning") {
		opts = append(opts, foodtracker.WithVersioning(versioning))
	}
	return opts
}

func resolveDir() string {
	if storeDir != "" {
		return storeDir
	}
	dir, err := foodtracker.DefaultDir()
	if err != nil {
		fatal("Failed to resolve store directory", err)
	}
	return dir
}

// openStore opens and loads the meal store, exiting on failure.
func openStore(ctx context.Context) *foodtracker.Store {
	store, err := foodtracker.Open(ctx, resolveDir(), storeOptions()...)
	if err != nil {
		fatal("Failed to open meal store", err)
	}
	return store
}

// mutationContext carries the --message flag to versioned saves.
func mutationContext() context.Context {
	ctx := context.Background()
	if changeReason != "" {
		ctx = context.WithValue(ctx, core.ChangeReasonKey, changeReason)
	}
	return ctx
}

// checkSaved exits when the write-through save of the last change failed.
// The change itself is in memory only and is lost when the process exits.
func checkSaved(store *foodtracker.Store) {
	if err := store.LastSaveError(); err != nil {
		fatal("Change was not saved", err)
	}
}

func parseIndex(arg string) int {
	i, err := strconv.Atoi(arg)
	if err != nil {
		fatal("Invalid index", err)
	}
	return i
}
