package fs

import (
	"sort"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path          string   `json:"path"`
	ArchiveName   string   `json:"archive_name"`
	Format        string   `json:"format"`
	SystemDir     string   `json:"system_dir"`
	Gitless       bool     `json:"gitless"`
	ReadOnly      bool     `json:"read_only"`
	Serializers   []string `json:"serializers"`
	WatcherActive bool     `json:"watcher_active"`
	Saves         int      `json:"saves"`

	CommitFailures int `json:"commit_failures"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	serializers := make([]string, 0, len(r.serializers))
	for name := range r.serializers {
		serializers = append(serializers, name)
	}
	sort.Strings(serializers)

	return RepositoryState{
		Path:          r.Path,
		ArchiveName:   r.config.ArchiveName,
		Format:        r.config.Format,
		SystemDir:     r.config.SystemDir,
		Gitless:       r.config.Gitless,
		ReadOnly:      r.readOnly,
		Serializers:   serializers,
		WatcherActive: r.watcherActive,
		Saves:         r.saves,

		CommitFailures: r.commitFailures,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "fs-repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}
