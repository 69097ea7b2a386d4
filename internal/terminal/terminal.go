// Package terminal holds the control sequences the spinner writes and the
// raw-mode and keypress helpers the command wraps around it.
package terminal

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// ANSI escape codes for terminal control.
const (
	ansiEscape = "\033["             // CSI (Control Sequence Introducer)
	CursorLeft = ansiEscape + "1D"   // move cursor left one column
	HideCursor = ansiEscape + "?25l" // hide cursor
	ShowCursor = ansiEscape + "?25h" // show cursor
)

// Cleanup erases the glyph under the cursor and makes the cursor visible again.
const Cleanup = CursorLeft + " " + CursorLeft + ShowCursor

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// MakeRaw puts f into raw mode so a single keypress is delivered without
// being echoed. The returned function restores the previous state. When f is
// not a terminal nothing is changed and the restore function is a no-op.
func MakeRaw(f *os.File) (restore func() error, err error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return func() error { return nil }, nil
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}

	return func() error {
		if err := term.Restore(fd, oldState); err != nil {
			return fmt.Errorf("failed to restore terminal: %w", err)
		}
		return nil
	}, nil
}
