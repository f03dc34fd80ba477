package core

import "context"

// Repository defines the contract for persisting the meal list.
// The list is stored as a whole in a single slot: there is no per-meal
// addressing at this level.
type Repository interface {
	// Initialize ensures the underlying storage is ready (e.g., create directories, git init).
	Initialize(ctx context.Context) error

	// Load returns the persisted meals. It returns ErrNoSavedState when there is
	// nothing usable to load (missing, unreadable or corrupt archive).
	Load(ctx context.Context) ([]Meal, error)

	// Save overwrites the persisted meals with the given sequence.
	// Either the whole sequence is persisted or nothing is.
	Save(ctx context.Context, meals []Meal) error
}

// Watchable defines an interface for repositories that report changes to the
// archive made outside the repository itself.
type Watchable interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// Historian defines an interface for repositories that keep past revisions of
// the archive.
type Historian interface {
	History(ctx context.Context, limit int) ([]Revision, error)
}

type contextKey string

// ChangeReasonKey is the context key for passing a specific change reason
// (commit message) to Save on versioned repositories.
const ChangeReasonKey contextKey = "change_reason"
