package browser

import (
	"errors"
	"reflect"
	"testing"
)

func TestOpenRejectsNonHTTP(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com", false},
		{"http://example.com/a?b=c", false},
		{"file:///etc/passwd", true},
		{"javascript:alert(1)", true},
		{"ftp://example.com", true},
		{"http://localhost:8080", true},
		{"", true},
	}

	for _, tt := range tests {
		var started []string
		l := NewLauncher("")
		l.start = func(name string, args ...string) error {
			started = append([]string{name}, args...)
			return nil
		}

		err := l.Open(tt.url)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Open(%q): expected error, got nil", tt.url)
			}
			if started != nil {
				t.Errorf("Open(%q) should not start anything", tt.url)
			}
			continue
		}
		if err != nil {
			t.Errorf("Open(%q): unexpected error %v", tt.url, err)
		}
		if len(started) == 0 || started[len(started)-1] != tt.url {
			t.Errorf("Open(%q) started %v", tt.url, started)
		}
	}
}

func TestCustomOpener(t *testing.T) {
	l := NewLauncher("firefox --new-tab")
	argv, err := l.Command("https://example.com/story")
	if err != nil {
		t.Fatalf("Command() error = %v", err)
	}
	want := []string{"firefox", "--new-tab", "https://example.com/story"}
	if !reflect.DeepEqual(argv, want) {
		t.Errorf("Command() = %v, want %v", argv, want)
	}

	argv2, _ := l.Command("https://example.com/other")
	if argv2[2] != "https://example.com/other" || argv[2] != "https://example.com/story" {
		t.Error("Command() must not share the opener slice between calls")
	}
}

func TestPlatformOpener(t *testing.T) {
	tests := map[string][]string{
		"darwin":  {"open"},
		"linux":   {"xdg-open"},
		"freebsd": {"xdg-open"},
		"windows": {"rundll32", "url.dll,FileProtocolHandler"},
	}
	for goos, want := range tests {
		if got := platformOpener(goos); !reflect.DeepEqual(got, want) {
			t.Errorf("platformOpener(%s) = %v, want %v", goos, got, want)
		}
	}
}

func TestOpenStartFailure(t *testing.T) {
	l := NewLauncher("nope")
	l.start = func(string, ...string) error { return errors.New("not found") }
	if err := l.Open("https://example.com"); err == nil {
		t.Error("Open() should report start failures")
	}
}
