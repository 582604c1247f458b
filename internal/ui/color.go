// Package ui provides colored console output.
package ui

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	// Colors
	Red    = color.New(color.FgRed)
	Green  = color.New(color.FgGreen)
	Yellow = color.New(color.FgYellow)
	Blue   = color.New(color.FgBlue)
	Cyan   = color.New(color.FgCyan)
	Bold   = color.New(color.Bold)
)

var (
	out    io.Writer
	errOut io.Writer
)

// SetOutput routes messages to w and errors to errW. Nil restores the
// color package defaults.
func SetOutput(w, errW io.Writer) {
	out = w
	errOut = errW
}

// Stdout returns the writer used for regular messages.
func Stdout() io.Writer {
	if out != nil {
		return out
	}
	return color.Output
}

// Stderr returns the writer used for error messages.
func Stderr() io.Writer {
	if errOut != nil {
		return errOut
	}
	return color.Error
}

// ConfigureColor disables color when requested or when stdout is not a terminal.
func ConfigureColor(disable bool) {
	color.NoColor = disable || !term.IsTerminal(int(os.Stdout.Fd()))
}

// Success prints a green success message with checkmark.
func Success(format string, args ...any) {
	Green.Fprintf(Stdout(), "✓ "+format+"\n", args...)
}

// Error prints a red error message with X to stderr.
func Error(format string, args ...any) {
	Red.Fprintf(Stderr(), "✗ "+format+"\n", args...)
}

// Warning prints a yellow warning message.
func Warning(format string, args ...any) {
	Yellow.Fprintf(Stdout(), "⚠ "+format+"\n", args...)
}

// Info prints a blue info message.
func Info(format string, args ...any) {
	Blue.Fprintf(Stdout(), format+"\n", args...)
}

// Header prints a bold header.
func Header(format string, args ...any) {
	Bold.Fprintf(Stdout(), format+"\n", args...)
}
