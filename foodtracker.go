package foodtracker

import (
	"context"
	"log/slog"

	"github.com/aretw0/foodtracker/internal/platform"
	"github.com/aretw0/foodtracker/pkg/adapters/fs"
	"github.com/aretw0/foodtracker/pkg/core"
)

// --- Types ---

// Meal is a public alias for the meal entity.
type Meal = core.Meal

// Store is a public alias for the meal store.
type Store = core.Service

// Event is a public alias for a meal store event.
type Event = core.Event

// NewMeal validates the inputs and returns a Meal.
func NewMeal(name string, photo []byte, rating int) (Meal, error) {
	return core.NewMeal(name, photo, rating)
}

// SampleMeals returns the meals shown on first launch.
func SampleMeals() []Meal {
	return core.SampleMeals()
}

// --- Configuration ---

// Option defines a functional option for configuring the meal store.
type Option = platform.Option

// WithAutoInit enables automatic initialization of the store directory.
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithVersioning enables or disables version control (Git).
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithFormat selects the archive encoding ("json", "yaml" or "csv").
func WithFormat(format string) Option {
	return platform.WithFormat(format)
}

// WithArchiveName overrides the archive file name.
func WithArchiveName(name string) Option {
	return platform.WithArchiveName(name)
}

// WithSerializer registers a custom fs.Serializer for a format name.
func WithSerializer(format string, s any) Option {
	return platform.WithSerializer(format, s)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist ensures the store directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAdapter allows specifying the storage adapter to use by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithSystemDir sets the name used for the lock file.
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithEventBuffer sets the buffer size of subscriber channels.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithSaveErrorHandler registers a callback for failed saves.
func WithSaveErrorHandler(fn func(error)) Option {
	return platform.WithSaveErrorHandler(fn)
}

// WithWatcherErrorHandler registers a callback for runtime watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithReadOnly enables read-only mode.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithDevSafety controls the temporary sandbox used under `go run`/`go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// --- Factory ---

// Open prepares the store at dir and loads its meals, falling back to
// sample data when nothing usable is saved.
func Open(ctx context.Context, dir string, opts ...Option) (*Store, error) {
	return platform.Open(ctx, dir, opts...)
}

// New prepares the store at dir without loading it.
func New(dir string, opts ...Option) (*Store, error) {
	return platform.New(dir, opts...)
}

// Init initializes a repository explicitly.
func Init(dir string, opts ...Option) (core.Repository, error) {
	return platform.Init(dir, opts...)
}

// --- Safety & Utils ---

// DefaultDir returns the per-user documents directory of the application.
func DefaultDir() (string, error) {
	return platform.DefaultDir()
}

// ResolveStorePath determines the actual store directory based on safety rules.
func ResolveStorePath(userPath string, forceTemp bool) string {
	return platform.ResolveStorePath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// --- Errors ---

var (
	ErrInvalidName     = core.ErrInvalidName
	ErrInvalidRating   = core.ErrInvalidRating
	ErrInvalidMeal     = core.ErrInvalidMeal
	ErrIndexOutOfRange = core.ErrIndexOutOfRange
	ErrNoSavedState    = core.ErrNoSavedState
	ErrReadOnly        = core.ErrReadOnly
	// ErrLossyName reports a save refused because the store format cannot
	// keep the meal name byte for byte.
	ErrLossyName = fs.ErrLossyName
)
