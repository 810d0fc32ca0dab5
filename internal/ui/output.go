package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// Color codes for terminal output.
const (
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
	colorCyan   = "\033[0;36m"
	colorBold   = "\033[1m"
	colorReset  = "\033[0m"
)

// UI provides colored terminal output for user-facing messages.
type UI struct {
	mu    sync.Mutex
	color bool
	out   io.Writer
	err   io.Writer
}

var (
	defaultUI   *UI
	defaultOnce sync.Once
)

// Default returns a shared UI instance with auto-detected color support.
func Default() *UI {
	defaultOnce.Do(func() {
		defaultUI = New(shouldColor())
	})
	return defaultUI
}

// New creates a UI writing to stdout/stderr with explicit color control.
func New(color bool) *UI {
	return &UI{color: color, out: os.Stdout, err: os.Stderr}
}

// NewWriter creates a UI that writes every message, errors included, to w.
func NewWriter(w io.Writer, color bool) *UI {
	return &UI{color: color, out: w, err: w}
}

func shouldColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func (u *UI) colorize(color, s string) string {
	if !u.color {
		return s
	}
	return color + s + colorReset
}

// line writes one tagged message. Writes are serialized so messages from
// the supervisor never interleave mid-line.
func (u *UI) line(w io.Writer, color, tag, format string, args []any) {
	msg := fmt.Sprintf(format, args...)
	if tag != "" {
		msg = u.colorize(color, tag) + " " + msg
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintln(w, msg)
}

// Info prints an informational message.
func (u *UI) Info(format string, args ...any) { u.line(u.out, colorBlue, "[INFO]", format, args) }

// Success prints a success message.
func (u *UI) Success(format string, args ...any) { u.line(u.out, colorGreen, "[OK]", format, args) }

// Warn prints a warning message.
func (u *UI) Warn(format string, args ...any) { u.line(u.out, colorYellow, "[WARN]", format, args) }

// Error prints a failure to the error stream.
func (u *UI) Error(format string, args ...any) { u.line(u.err, colorRed, "[ERROR]", format, args) }

// Step prints a section header.
func (u *UI) Step(format string, args ...any) {
	header := "\n━━━ " + fmt.Sprintf(format, args...) + " ━━━\n"
	u.line(u.out, "", "", "%s", []any{u.colorize(colorCyan+colorBold, header)})
}

// Plain prints a line with no prefix, for listings meant to be piped.
func (u *UI) Plain(format string, args ...any) { u.line(u.out, "", "", format, args) }
