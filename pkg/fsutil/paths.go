package fsutil

import (
	"os"
	"path/filepath"
)

const (
	// AppName is the name of the application used in paths
	AppName = "gendetect"
)

// GetConfigDir returns the platform-specific configuration directory
// On Linux: ~/.config/gendetect/
// On macOS: ~/Library/Application Support/gendetect/
// On Windows: %AppData%\gendetect\
func GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, AppName), nil
}
