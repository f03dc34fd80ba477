package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

// TempFilePrefix names the scratch files written next to the archive while a
// save is in flight. The watcher and .gitignore both skip them.
const TempFilePrefix = "meals-tmp-"

// writeFileAtomic replaces filename with data so that a concurrent reader
// sees either the previous archive or the new one in full.
// The scratch file lives in the target directory to keep the rename on one
// filesystem, and is removed on every failure path.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(filename)

	scratch, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	name := scratch.Name()
	defer func() {
		if err != nil {
			scratch.Close()
			os.Remove(name)
		}
	}()

	if err = scratch.Chmod(perm); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", name, err)
	}
	if _, err = scratch.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err = scratch.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", name, err)
	}
	if err = scratch.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err = os.Rename(name, filename); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filename, err)
	}

	syncDir(dir)
	return nil
}

// syncDir flushes the directory entry of a completed rename.
// Errors are ignored: not every platform can sync a directory.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	defer d.Close()
	_ = d.Sync()
}
