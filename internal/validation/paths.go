package validation

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// PathHandler resolves and validates the files pulse writes.
type PathHandler struct {
	validator *FilePathValidator
}

func NewSecurePathHandler() *PathHandler {
	return &PathHandler{validator: NewFilePathValidator()}
}

func NewPermissivePathHandler() *PathHandler {
	return &PathHandler{validator: NewPermissiveFilePathValidator()}
}

// DefaultConfigPath is $XDG_CONFIG_HOME/pulse/config.toml.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "pulse", "config.toml")
}

// DefaultLogPath is $XDG_STATE_HOME/pulse/pulse.log.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, "pulse", "pulse.log")
}

// ConfigPath validates userPath, or the default config location when empty,
// and makes sure its directory exists.
func (ph *PathHandler) ConfigPath(userPath string) (string, error) {
	if userPath == "" {
		userPath = DefaultConfigPath()
	}
	return ph.validator.ValidateFile(userPath, true)
}

// LogPath validates userPath, or the default log location when empty, and
// makes sure its directory exists.
func (ph *PathHandler) LogPath(userPath string) (string, error) {
	if userPath == "" {
		userPath = DefaultLogPath()
	}
	return ph.validator.ValidateFile(userPath, true)
}
