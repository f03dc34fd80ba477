package fs

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/foodtracker/pkg/core"
)

// DefaultDebounce coalesces bursts of filesystem events into one notification.
const DefaultDebounce = 50 * time.Millisecond

type watchWorker struct {
	repo     *Repository
	watcher  *fsnotify.Watcher
	events   chan<- core.Event
	ignore   []string
	debounce time.Duration
	lastSeen [sha256.Size]byte
}

// Watch reports changes to the archive made by anything other than this
// repository. The directory is watched rather than the file because every
// save replaces the file through a rename.
//
// The returned channel is closed when ctx is done.
func (r *Repository) Watch(ctx context.Context) (<-chan core.Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(r.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", r.Path, err)
	}

	events := make(chan core.Event)
	w := &watchWorker{
		repo:     r,
		watcher:  watcher,
		events:   events,
		ignore:   r.ignorePatterns(),
		debounce: DefaultDebounce,
	}

	r.setWatcherActive(true)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		return w.run(ctx)
	}, lifecycle.WithErrorHandler(func(err error) {
		r.reportWatchError(fmt.Errorf("watcher panic: %w", err))
	}))

	return events, nil
}

func (r *Repository) ignorePatterns() []string {
	patterns := []string{
		TempFilePrefix + "*",
		".git/**",
		r.git.LockName(),
	}
	return append(patterns, r.config.IgnorePatterns...)
}

func (r *Repository) reportWatchError(err error) {
	r.config.Logger.Error("watcher error", "error", err)
	if r.config.ErrorHandler != nil {
		r.config.ErrorHandler(err)
	}
}

// run is the main event loop for the watcher.
func (w *watchWorker) run(ctx context.Context) error {
	defer w.repo.setWatcherActive(false)
	defer w.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.repo.config.Logger.Debug("archive event received", "name", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			e, ok := w.inspect()
			if !ok {
				continue
			}
			select {
			case w.events <- e:
			case <-ctx.Done():
				return nil
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.repo.reportWatchError(err)
		}
	}
}

// relevant keeps the events on the archive itself, minus ignored paths.
func (w *watchWorker) relevant(event fsnotify.Event) bool {
	rel, err := filepath.Rel(w.repo.Path, event.Name)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range w.ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}

	if rel != w.repo.config.ArchiveName {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}

// inspect turns the current archive content into an event, unless the content
// is the repository's own write or was already reported.
func (w *watchWorker) inspect() (core.Event, bool) {
	data, err := os.ReadFile(w.repo.ArchivePath())
	if err != nil && !os.IsNotExist(err) {
		w.repo.reportWatchError(fmt.Errorf("failed to read archive: %w", err))
		return core.Event{}, false
	}

	digest := sha256.Sum256(data)
	if digest == w.lastSeen {
		return core.Event{}, false
	}
	if err == nil && w.repo.isOwnWrite(data) {
		w.lastSeen = digest
		return core.Event{}, false
	}
	w.lastSeen = digest

	count := 0
	if err == nil {
		if s, serr := w.repo.serializer(); serr == nil {
			if meals, perr := s.Parse(bytes.NewReader(data)); perr == nil {
				count = len(meals)
			}
		}
	}

	return core.Event{
		Type:      core.EventExternalModify,
		Index:     -1,
		Count:     count,
		Timestamp: time.Now().Unix(),
	}, true
}
