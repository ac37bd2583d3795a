// Package host commits rewritten documents to disk. A commit either replaces
// the whole file or leaves it as it was.
package host

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrCommit = errors.New("commit failed")

// Commit writes content to path through a temporary file in the same
// directory and renames it into place. Existing files keep their mode.
func Commit(path string, content []byte) error {
	perm := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		if !fi.Mode().IsRegular() {
			return fmt.Errorf("%w: %s is not a regular file", ErrCommit, path)
		}
		perm = fi.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ErrCommit, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err = tmp.Write(content); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: write %s: %v", ErrCommit, path, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: sync %s: %v", ErrCommit, path, err)
	}
	if err = tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: close %s: %v", ErrCommit, path, err)
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		cleanup()
		return fmt.Errorf("%w: chmod %s: %v", ErrCommit, path, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("%w: rename onto %s: %v", ErrCommit, path, err)
	}
	return nil
}
