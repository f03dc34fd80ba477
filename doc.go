// Package foodtracker is the Composition Root of the FoodTracker meal store.
//
// It connects the meal domain (pkg/core) with the filesystem adapter
// (pkg/adapters/fs) using the Hexagonal Architecture pattern.
//
// The store keeps an ordered list of meals, each with a name, an optional
// photo and a rating between 0 and 5 stars. Every change is written through
// to a single archive file, so the list survives restarts. On first launch,
// or when the archive is missing or unreadable, three sample meals are shown.
//
// Features:
//
//   - **Write-through**: Add, Replace, RemoveAt and Move save the whole list.
//   - **Atomic archive**: saves replace the archive through a temp file and a rename.
//   - **Versioned encoding**: JSON (default), YAML or CSV, all carrying a format version.
//   - **Optional history**: with versioning, every save is a Git commit.
//   - **Watch**: changes made to the archive by other processes are reported.
//   - **Dev safety**: `go run` and `go test` work in a temporary sandbox.
//
// Usage:
//
//	store, err := foodtracker.Open(ctx, dir,
//		foodtracker.WithAutoInit(true),
//		foodtracker.WithLogger(logger),
//	)
//
//	meal, err := foodtracker.NewMeal("Soup", nil, 3)
//	index, err := store.Add(ctx, meal)
package foodtracker
