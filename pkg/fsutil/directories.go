// Package fsutil holds the small filesystem helpers shared by the config
// writer and the batch packer.
package fsutil

import (
	"os"
	"path/filepath"
)

// EnsureDir creates a directory and its parents with DirModeDefault.
func EnsureDir(path string) error {
	return os.MkdirAll(path, DirModeDefault)
}

// EnsureFileDir creates the parent directory of filePath.
func EnsureFileDir(filePath string) error {
	return EnsureDir(filepath.Dir(filePath))
}
