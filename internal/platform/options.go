package platform

import (
	"log/slog"

	"github.com/aretw0/foodtracker/pkg/core"
)

// options holds the internal configuration for the meal store.
type options struct {
	repository  core.Repository
	logger      *slog.Logger
	adapter     string
	config      map[string]any
	serializers map[string]any
}

// Option defines a functional option for configuring the meal store.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		repository:  nil,
		logger:      nil,
		adapter:     "fs",
		config:      make(map[string]any),
		serializers: make(map[string]any),
	}
}

// WithSerializer registers a custom serializer for a format name.
// The serializer 's' must implement fs.Serializer; this is checked in Init.
func WithSerializer(format string, s any) Option {
	return func(o *options) {
		o.serializers[format] = s
	}
}

// WithFormat selects the archive encoding ("json", "yaml" or "csv").
// Defaults to "json".
func WithFormat(format string) Option {
	return func(o *options) {
		o.config["format"] = format
	}
}

// WithArchiveName overrides the archive file name. Defaults to "meals".
func WithArchiveName(name string) Option {
	return func(o *options) {
		o.config["archive_name"] = name
	}
}

// WithAutoInit enables automatic initialization of the store (creates the
// directory and, with versioning, runs git init).
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.config["auto_init"] = auto
	}
}

// WithVersioning enables or disables version control (Git).
// When not set, versioning is enabled only if the store is already a Git
// repository.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.config["gitless"] = !enabled
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithMustExist ensures the store directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithLogger sets the logger for the store and its repository.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository allows injecting a custom storage adapter (e.g. a mock).
// If provided, the default filesystem adapter is skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAdapter selects the storage adapter by name. Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithSystemDir sets the name used for the lock file (name + ".lock").
// Defaults to ".foodtracker".
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithEventBuffer sets the buffer size of subscriber channels.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.config["event_buffer"] = size
	}
}

// WithSaveErrorHandler registers a callback for failed saves.
// Mutations never return save errors; this is where they surface.
func WithSaveErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["save_error_handler"] = fn
	}
}

// WithWatcherErrorHandler registers a callback to handle errors occurring
// during the Watch loop (e.g. permission denied), which are otherwise only
// logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Saves fail with ErrReadOnly; the in-memory list stays authoritative.
// 2. Initialization (Mkdir, Git Init) is skipped.
// 3. Dev Safety (go run temp dir) is BYPASSED (uses real path).
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or
// `go test`. By default (true) the store is re-rooted into a temporary
// directory so development runs never touch real meals.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}
