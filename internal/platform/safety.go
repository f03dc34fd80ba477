package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DevSandboxName is the directory, under the system temp dir, that hosts
// stores opened during development runs.
const DevSandboxName = "foodtracker-dev"

// DefaultDir returns the per-user documents directory of the application:
// <UserConfigDir>/foodtracker/Documents.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return filepath.Join(base, "foodtracker", "Documents"), nil
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
// It relies on the fact that these commands build binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	// go run builds into the temp dir.
	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}

	// go test binaries end in .test.
	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolveStorePath determines the actual store directory based on safety rules.
// With forceTemp the path is re-rooted into the dev sandbox, unless it already
// lives in the system temp directory (e.g. created by t.TempDir()).
func ResolveStorePath(userPath string, forceTemp bool) string {
	if !forceTemp {
		if userPath == "" {
			return "."
		}
		return userPath
	}

	cleanUserPath := filepath.Clean(userPath)
	rel, err := filepath.Rel(os.TempDir(), cleanUserPath)
	if err == nil && filepath.IsAbs(cleanUserPath) && !strings.HasPrefix(rel, "..") {
		return cleanUserPath
	}

	subName := "default"
	if userPath != "" && userPath != "." && userPath != "./" {
		// Only the base name is kept, dropping any traversal.
		subName = filepath.Base(cleanUserPath)
		if subName == "." || subName == ".." || subName == string(os.PathSeparator) {
			subName = "default"
		}
	}

	return filepath.Join(os.TempDir(), DevSandboxName, subName)
}
