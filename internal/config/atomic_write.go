package config

import (
	"os"
	"path/filepath"
)

// AtomicWrite writes data to path so that readers never observe a partial
// file. Existing permissions are kept; new files get 0600.
func AtomicWrite(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	perm := os.FileMode(0o600)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return atomicWriteFile(path, data, perm)
}
