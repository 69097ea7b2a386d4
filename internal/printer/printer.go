// Package printer provides terminal output formatting with ANSI colors for status lines.
package printer

import (
	"fmt"
	"io"
	"os"

	"dotspin/internal/terminal"
)

// ANSI escape codes for terminal output
const (
	ColorReset  = "\033[0m"
	ColorDim    = "\033[2m" // Dim/faint intensity
	ColorRed    = "\033[31m"
	ColorYellow = "\033[33m"
)

// Level selects the label and color of a status line.
type Level int

const (
	Info Level = iota
	Warn
	Error
)

var levelLabels = map[Level]string{
	Info:  "",
	Warn:  "Warning: ",
	Error: "Error: ",
}

var levelColors = map[Level]string{
	Info:  ColorDim,
	Warn:  ColorYellow,
	Error: ColorRed,
}

// Printer writes single status lines. Colors are only emitted when color is true.
type Printer struct {
	out   io.Writer
	color bool
}

// New creates a Printer for out. Colors are enabled when out is a terminal.
func New(out io.Writer) *Printer {
	color := false
	if f, ok := out.(*os.File); ok {
		color = terminal.IsTerminal(f)
	}
	return &Printer{out: out, color: color}
}

// Stderr is the Printer used by the command.
var Stderr = New(os.Stderr)

// Print outputs one line at the given level.
func (p *Printer) Print(level Level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if !p.color {
		fmt.Fprintf(p.out, "%s%s\n", levelLabels[level], msg)
		return
	}
	fmt.Fprintf(p.out, "%s%s%s%s\n", levelColors[level], levelLabels[level], msg, ColorReset)
}

// Infof prints an informational line on stderr.
func Infof(format string, args ...any) { Stderr.Print(Info, format, args...) }

// Warnf prints a warning line on stderr.
func Warnf(format string, args ...any) { Stderr.Print(Warn, format, args...) }

// Errorf prints an error line on stderr.
func Errorf(format string, args ...any) { Stderr.Print(Error, format, args...) }
