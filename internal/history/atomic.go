package history

import (
	"fmt"
	"os"
	"path/filepath"
)

// atomicWriteFile writes data via a temp file in the target directory,
// fsyncs, and renames into place. A crash mid-write leaves either the old
// file or the complete new file, never a partial transcript.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	f, err := os.CreateTemp(dir, ".tmp-")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmp := f.Name()

	cleanup := func(err error) error {
		f.Close()
		os.Remove(tmp)
		return err
	}

	if _, err := f.Write(data); err != nil {
		return cleanup(fmt.Errorf("writing data: %w", err))
	}
	if err := f.Sync(); err != nil {
		return cleanup(fmt.Errorf("syncing data: %w", err))
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmp, perm); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
