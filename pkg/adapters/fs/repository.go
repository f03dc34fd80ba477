package fs

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aretw0/foodtracker/pkg/core"
	"github.com/aretw0/foodtracker/pkg/git"
)

const (
	// DefaultArchiveName is the file name of the meal archive.
	DefaultArchiveName = "meals"
	// DefaultFormat is the serializer used when none is configured.
	DefaultFormat = "json"
	// DefaultSystemDir names the lock file and other bookkeeping entries.
	DefaultSystemDir = ".foodtracker"
)

// Repository implements core.Repository with a single archive file on the
// local filesystem, optionally versioned with Git.
type Repository struct {
	Path   string
	git    *git.Client
	config Config

	mu            sync.RWMutex
	serializers   map[string]Serializer
	readOnly      bool
	watcherActive bool
	lastDigest    [sha256.Size]byte
	saves         int

	commitFailures int
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path        string
	ArchiveName string // defaults to "meals"
	Format      string // serializer name, defaults to "json"
	AutoInit    bool
	Gitless     bool
	MustExist   bool
	ReadOnly    bool
	Logger      *slog.Logger
	SystemDir   string // e.g. ".foodtracker"

	// IgnorePatterns are doublestar patterns, relative to Path, the watcher
	// never reports. Temp files and .git are always ignored.
	IgnorePatterns []string
	// ErrorHandler receives runtime watcher failures.
	ErrorHandler func(error)
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.ArchiveName == "" {
		config.ArchiveName = DefaultArchiveName
	}
	if config.Format == "" {
		config.Format = DefaultFormat
	}
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Repository{
		Path:        config.Path,
		git:         git.NewClient(config.Path, config.SystemDir+".lock", config.Logger),
		config:      config,
		serializers: DefaultSerializers(),
		readOnly:    config.ReadOnly,
	}
}

// RegisterSerializer adds or replaces the serializer for a format name.
func (r *Repository) RegisterSerializer(format string, s Serializer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.serializers[strings.ToLower(format)] = s
}

// ArchivePath returns the full path of the meal archive.
func (r *Repository) ArchivePath() string {
	return filepath.Join(r.Path, r.config.ArchiveName)
}

// Initialize performs the necessary setup for the repository (mkdir, git init).
func (r *Repository) Initialize(ctx context.Context) error {
	if _, err := r.serializer(); err != nil {
		return err
	}

	// 1. Directory Initialization
	if r.config.MustExist || r.readOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("store path does not exist: %s", r.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat store path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("store path is not a directory: %s", r.Path)
		}
	} else {
		if err := os.MkdirAll(r.Path, 0755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	if r.config.Gitless || r.readOnly {
		return nil
	}

	// 2. Git Initialization
	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}

	wasNewRepo := false
	if !r.git.IsRepo() {
		if !r.config.AutoInit {
			return fmt.Errorf("path is not a git repository: %s", r.Path)
		}
		if err := r.git.Init(); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
		wasNewRepo = true
	}

	mod, err := r.ensureIgnore()
	if err != nil {
		return fmt.Errorf("failed to ensure .gitignore: %w", err)
	}

	if mod && wasNewRepo {
		if err := r.git.Add(".gitignore"); err != nil {
			return fmt.Errorf("failed to add .gitignore: %w", err)
		}
		msg := core.FormatChangeReason(core.CommitTypeChore, "", "configure foodtracker ignore", "")
		if err := r.git.Commit(msg); err != nil {
			return fmt.Errorf("failed to commit .gitignore: %w", err)
		}
	}

	return nil
}

// ensureIgnore keeps the lock file and atomic-write temp files out of Git.
func (r *Repository) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(r.Path, ".gitignore")
	entries := []string{r.git.LockName(), TempFilePrefix + "*"}

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	present := make(map[string]bool)
	for _, line := range strings.Split(string(content), "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var missing []string
	for _, e := range entries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return false, nil
	}

	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if len(content) > 0 && !bytes.HasSuffix(content, []byte("\n")) {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}
	if _, err := f.WriteString(strings.Join(missing, "\n") + "\n"); err != nil {
		return false, err
	}

	return true, nil
}

// Load reads and decodes the archive.
// A missing, unreadable or corrupt archive is reported as core.ErrNoSavedState.
func (r *Repository) Load(ctx context.Context) ([]core.Meal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s, err := r.serializer()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.ArchivePath())
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s does not exist", core.ErrNoSavedState, r.ArchivePath())
	}
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable archive: %w", core.ErrNoSavedState, err)
	}

	meals, err := s.Parse(bytes.NewReader(data))
	if err != nil {
		r.config.Logger.Debug("unable to decode meals", "path", r.ArchivePath(), "error", err)
		return nil, fmt.Errorf("%w: corrupt archive: %w", core.ErrNoSavedState, err)
	}

	r.mu.Lock()
	r.lastDigest = sha256.Sum256(data)
	r.mu.Unlock()

	return meals, nil
}

// Save serializes the meals and atomically replaces the archive.
// With versioning enabled the new archive is committed.
//
// Workflow:
//  1. Reject writes in read-only mode.
//  2. Serialize with the configured format.
//  3. Write atomically (temp file + rename).
//  4. (If Git enabled) 'git add' and 'git commit' with the context change reason.
//
// A failed commit does not fail the save: the archive is already on disk.
// It is logged and counted in RepositoryState.CommitFailures.
func (r *Repository) Save(ctx context.Context, meals []core.Meal) error {
	if r.readOnly {
		return core.ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s, err := r.serializer()
	if err != nil {
		return err
	}

	data, err := s.Serialize(meals)
	if err != nil {
		return fmt.Errorf("failed to serialize meals: %w", err)
	}

	if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	if err := writeFileAtomic(r.ArchivePath(), data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	// Set before the commit; the watcher debounce covers the gap since the rename.
	r.mu.Lock()
	r.lastDigest = sha256.Sum256(data)
	r.saves++
	r.mu.Unlock()

	if r.config.Gitless {
		return nil
	}
	if err := r.commit(ctx); err != nil {
		r.mu.Lock()
		r.commitFailures++
		r.mu.Unlock()
		r.config.Logger.Warn("meals saved but not versioned", "path", r.ArchivePath(), "error", err)
	}
	return nil
}

func (r *Repository) commit(ctx context.Context) error {
	unlock, err := r.git.Lock()
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	name := r.config.ArchiveName
	if err := r.git.Add(name); err != nil {
		return fmt.Errorf("failed to git add: %w", err)
	}

	// Saving an unchanged list leaves nothing to commit.
	status, err := r.git.Status(name)
	if err != nil {
		return fmt.Errorf("failed to git status: %w", err)
	}
	if status == "" {
		return nil
	}

	msg := core.FormatChangeReason(core.CommitTypeChore, "meals", "save meals", "")
	if val, ok := ctx.Value(core.ChangeReasonKey).(string); ok && val != "" {
		msg = core.AppendFooter(val)
	}

	if err := r.git.Commit(msg); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}
	return nil
}

// History lists the commits that touched the archive, newest first.
func (r *Repository) History(ctx context.Context, limit int) ([]core.Revision, error) {
	if r.config.Gitless {
		return nil, errors.New("history requires versioning")
	}
	if !r.git.IsRepo() {
		return nil, fmt.Errorf("path is not a git repository: %s", r.Path)
	}

	commits, err := r.git.Log(r.config.ArchiveName, limit)
	if err != nil {
		return nil, err
	}

	revisions := make([]core.Revision, 0, len(commits))
	for _, c := range commits {
		revisions = append(revisions, core.Revision{Hash: c.Hash, Message: c.Subject, Time: c.Time})
	}
	return revisions, nil
}

func (r *Repository) serializer() (Serializer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.serializers[strings.ToLower(r.config.Format)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, r.config.Format)
	}
	return s, nil
}

// isOwnWrite reports whether data is what this repository last wrote or read.
func (r *Repository) isOwnWrite(data []byte) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sha256.Sum256(data) == r.lastDigest
}
