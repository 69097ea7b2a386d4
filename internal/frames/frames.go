// Package frames builds the pre-encoded frames of a glyph cycle.
package frames

import (
	"unicode/utf8"

	"dotspin/internal/terminal"
)

// Braille block bounds (U+2800 to U+28FF).
const (
	BrailleBase  = '⠀'
	BrailleCount = 256
)

// Frame is one terminal write: move the cursor back one column, then print a glyph.
// Frames are shared read-only by every loop iteration and must not be modified.
type Frame []byte

// Glyph returns the rune carried by the frame.
func (f Frame) Glyph() rune {
	r, _ := utf8.DecodeRune(f[len(terminal.CursorLeft):])
	return r
}

// Build returns count frames for the code points start, start+1, ... in
// ascending order. The caller guarantees count >= 1.
func Build(start rune, count int) []Frame {
	out := make([]Frame, count)
	for i := range out {
		f := make(Frame, 0, len(terminal.CursorLeft)+utf8.UTFMax)
		f = append(f, terminal.CursorLeft...)
		f = utf8.AppendRune(f, start+rune(i))
		out[i] = f
	}
	return out
}

// Braille returns the full 256-frame braille cycle.
func Braille() []Frame {
	return Build(BrailleBase, BrailleCount)
}
