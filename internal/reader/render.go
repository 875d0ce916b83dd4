package reader

import (
	"github.com/charmbracelet/glamour"
)

// Renderer renders markdown with glamour, rebuilding the underlying
// renderer only when the wrap width moves noticeably.
type Renderer struct {
	style    string
	maxWidth int
	minWidth int

	r     *glamour.TermRenderer
	width int
}

// NewRenderer returns a renderer using the named glamour style, or the
// style matching the terminal background when style is empty.
func NewRenderer(style string, minWidth, maxWidth int) *Renderer {
	if minWidth <= 0 {
		minWidth = 40
	}
	if maxWidth < minWidth {
		maxWidth = minWidth
	}
	return &Renderer{style: style, minWidth: minWidth, maxWidth: maxWidth}
}

// WrapWidth derives the word wrap width for a terminal of the given width.
func (r *Renderer) WrapWidth(termWidth int) int {
	w := (termWidth * 9) / 10
	if w > r.maxWidth {
		w = r.maxWidth
	}
	if w < r.minWidth {
		w = r.minWidth
	}
	if termWidth < 50 {
		w = termWidth - 4
		if w < 20 {
			w = 20
		}
	}
	return w
}

func (r *Renderer) Render(markdown string, termWidth int) (string, error) {
	w := r.WrapWidth(termWidth)
	if r.r == nil || abs(r.width-w) > 10 {
		opt := glamour.WithAutoStyle()
		if r.style != "" {
			opt = glamour.WithStandardStyle(r.style)
		}
		tr, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(w))
		if err != nil {
			return "", err
		}
		r.r = tr
		r.width = w
	}
	return r.r.Render(markdown)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
