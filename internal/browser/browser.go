// Package browser opens article links in the user's browser.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pders01/pulse/internal/validation"
)

// Launcher starts an external opener for http and https links.
type Launcher struct {
	opener    []string
	validator *validation.URLValidator
	start     func(name string, args ...string) error
}

// NewLauncher uses opener (a command with optional arguments, the URL is
// appended) or the platform default when opener is blank.
func NewLauncher(opener string) *Launcher {
	return &Launcher{
		opener:    strings.Fields(opener),
		validator: validation.NewArticleURLValidator(),
		start:     startDetached,
	}
}

// Command returns the command line that Open would run for rawURL.
func (l *Launcher) Command(rawURL string) ([]string, error) {
	u, err := l.validator.Validate(rawURL)
	if err != nil {
		return nil, fmt.Errorf("refusing to open %q: %w", rawURL, err)
	}

	if len(l.opener) > 0 {
		return append(append([]string(nil), l.opener...), u), nil
	}
	return append(platformOpener(runtime.GOOS), u), nil
}

func (l *Launcher) Open(rawURL string) error {
	argv, err := l.Command(rawURL)
	if err != nil {
		return err
	}
	if err := l.start(argv[0], argv[1:]...); err != nil {
		return fmt.Errorf("failed to start %s: %w", argv[0], err)
	}
	return nil
}

func platformOpener(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"open"}
	case "windows":
		// rundll32 avoids cmd.exe interpreting the URL
		return []string{"rundll32", "url.dll,FileProtocolHandler"}
	default:
		return []string{"xdg-open"}
	}
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
