// Package output provides consistent CLI status lines for dev-session-buddy commands.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/Aman-CERP/dev-session-buddy/internal/ui"
)

// Icons used in status lines.
const (
	IconSuccess = "✓"
	IconWarning = "!"
	IconError   = "✗"
)

// Writer provides formatted output for CLI.
type Writer struct {
	out    io.Writer
	styles ui.Styles
}

// New creates a new output Writer.
// Colors are used only when out is a terminal and NO_COLOR is unset.
func New(out io.Writer) *Writer {
	return NewWithStyles(out, ui.StylesFor(out))
}

// NewWithStyles creates a Writer with explicit styles.
func NewWithStyles(out io.Writer, styles ui.Styles) *Writer {
	return &Writer{
		out:    out,
		styles: styles,
	}
}

// Out returns the underlying writer.
func (w *Writer) Out() io.Writer {
	return w.out
}

// Styles returns the styles used by w.
func (w *Writer) Styles() ui.Styles {
	return w.styles
}

// Status prints a status message with an icon.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "  %s\n", msg)
	}
}

// Statusf prints a formatted status message with an icon.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Success prints a success message with checkmark.
func (w *Writer) Success(msg string) {
	w.Status(w.styles.Success.Render(IconSuccess), msg)
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status(w.styles.Warning.Render(IconWarning), msg)
}

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	w.Status(w.styles.Error.Render(IconError), msg)
}

// Errorf prints a formatted error message.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// Dim prints an indented secondary line.
func (w *Writer) Dim(msg string) {
	w.Status("", w.styles.Dim.Render(msg))
}

// Steps prints a blank line, a title and a numbered list.
func (w *Writer) Steps(title string, steps ...string) {
	if len(steps) == 0 {
		return
	}
	_, _ = fmt.Fprintf(w.out, "\n%s\n", w.styles.Header.Render(title))
	for i, step := range steps {
		_, _ = fmt.Fprintf(w.out, "%d. %s\n", i+1, step)
	}
}

// Code prints a code block with indentation.
func (w *Writer) Code(content string) {
	_, _ = fmt.Fprintln(w.out)
	for _, line := range strings.Split(content, "\n") {
		_, _ = fmt.Fprintf(w.out, "  %s\n", line)
	}
	_, _ = fmt.Fprintln(w.out)
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}
