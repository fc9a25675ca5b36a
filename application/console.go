package application

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	headerStyle  = color.New(color.FgMagenta, color.Bold)
	successStyle = color.New(color.FgGreen)
	warnStyle    = color.New(color.FgYellow)
	infoStyle    = color.New(color.FgCyan)
	noteStyle    = color.New(color.FgBlue)
)

// Console renders the colored status lines the commands print. Services
// write through it instead of fmt so tests can capture output.
type Console struct {
	out io.Writer
}

// NewConsole creates a console writing to stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWithWriter creates a console writing to w (tests).
func NewConsoleWithWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// Headerf prints a section header line.
func (c *Console) Headerf(format string, args ...any) {
	_, _ = headerStyle.Fprintf(c.out, format+"\n", args...)
}

// Successf prints a completed-step line.
func (c *Console) Successf(format string, args ...any) {
	_, _ = successStyle.Fprintf(c.out, format+"\n", args...)
}

// Warnf prints a warning line.
func (c *Console) Warnf(format string, args ...any) {
	_, _ = warnStyle.Fprintf(c.out, format+"\n", args...)
}

// Infof prints an informational line.
func (c *Console) Infof(format string, args ...any) {
	_, _ = infoStyle.Fprintf(c.out, format+"\n", args...)
}

// Notef prints a secondary status line.
func (c *Console) Notef(format string, args ...any) {
	_, _ = noteStyle.Fprintf(c.out, format+"\n", args...)
}

// Plainf prints an uncolored line.
func (c *Console) Plainf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format+"\n", args...)
}
