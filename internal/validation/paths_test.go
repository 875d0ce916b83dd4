package validation

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultPaths(t *testing.T) {
	if !strings.HasSuffix(DefaultConfigPath(), filepath.Join("pulse", "config.toml")) {
		t.Errorf("unexpected default config path %q", DefaultConfigPath())
	}
	if !strings.HasSuffix(DefaultLogPath(), filepath.Join("pulse", "pulse.log")) {
		t.Errorf("unexpected default log path %q", DefaultLogPath())
	}
}

func TestPathHandler_LogPath(t *testing.T) {
	ph := NewPermissivePathHandler()
	want := filepath.Join(t.TempDir(), "state", "pulse.log")

	got, err := ph.LogPath(want)
	if err != nil {
		t.Fatalf("LogPath: %v", err)
	}
	if got != want {
		t.Errorf("LogPath = %q, want %q", got, want)
	}
}

func TestPathHandler_ConfigPathRejectsTraversal(t *testing.T) {
	ph := NewSecurePathHandler()
	if _, err := ph.ConfigPath("/tmp/../etc/pulse.toml"); err == nil {
		t.Error("expected traversal to be rejected")
	}
}
