package fsutil

import (
	"fmt"
	"os"
)

// CreateFile creates (or truncates) name with FileModeDefault, creating its
// parent directory first.
func CreateFile(name string) (*os.File, error) {
	if err := EnsureFileDir(name); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", name, err)
	}
	return CreateFilePerm(name, FileModeDefault)
}

// CreateFilePerm creates a new file with the specified permissions.
func CreateFilePerm(name string, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, perm)
}
