// Package output provides formatted output utilities for the CLI.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color styles used by the Writer. The styles are force-enabled so that the
// Writer's own color flag is the single source of truth; fatih/color's global
// terminal detection would otherwise suppress colors in captured test output.
var (
	styleGreen   = forced(color.FgGreen)
	styleRed     = forced(color.FgRed)
	styleYellow  = forced(color.FgYellow)
	styleCyan    = forced(color.FgCyan)
	styleDim     = forced(color.Faint)
	styleSection = forced(color.Bold, color.FgCyan)
	styleDryRun  = forced(color.Bold, color.FgYellow)
)

func forced(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

// Writer handles CLI output formatting.
type Writer struct {
	out     io.Writer
	err     io.Writer
	color   bool
	quiet   bool
	verbose bool
}

// New creates a new Writer with default settings.
func New() *Writer {
	return &Writer{
		out:   os.Stdout,
		err:   os.Stderr,
		color: isTerminal(os.Stdout),
	}
}

// NewWithWriters creates a Writer with custom io.Writers (for testing).
func NewWithWriters(out, err io.Writer, color bool) *Writer {
	return &Writer{
		out:   out,
		err:   err,
		color: color,
	}
}

// SetQuiet enables or disables quiet mode.
func (w *Writer) SetQuiet(quiet bool) {
	w.quiet = quiet
}

// SetVerbose enables or disables verbose mode.
func (w *Writer) SetVerbose(verbose bool) {
	w.verbose = verbose
}

// IsVerbose reports whether verbose mode is enabled.
func (w *Writer) IsVerbose() bool {
	return w.verbose
}

// Print writes to stdout.
func (w *Writer) Print(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format, args...)
}

// Println writes a line to stdout.
func (w *Writer) Println(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Errorln writes a line to stderr.
func (w *Writer) Errorln(format string, args ...interface{}) {
	fmt.Fprintf(w.err, format+"\n", args...)
}

// Info prints an info message (skipped in quiet mode).
func (w *Writer) Info(format string, args ...interface{}) {
	if w.quiet {
		return
	}
	w.Println(format, args...)
}

// Verbose prints a message only in verbose mode.
func (w *Writer) Verbose(format string, args ...interface{}) {
	if !w.verbose {
		return
	}
	w.Println(format, args...)
}

// Success prints a success message.
func (w *Writer) Success(format string, args ...interface{}) {
	w.Println("%s", w.paint(styleGreen, format, args...))
}

// Failure prints a failure message to stdout.
func (w *Writer) Failure(format string, args ...interface{}) {
	w.Println("%s", w.paint(styleRed, format, args...))
}

// Warning prints a warning message to stderr.
func (w *Writer) Warning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Errorln("%s %s", styleYellow.Sprint("warning:"), msg)
	} else {
		w.Errorln("warning: %s", msg)
	}
}

// ErrorPrefix prints an error message with ptxgen prefix to stderr.
func (w *Writer) ErrorPrefix(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Errorln("%s %s", styleRed.Sprint("ptxgen:"), msg)
	} else {
		w.Errorln("ptxgen: %s", msg)
	}
}

// Section prints a section header.
func (w *Writer) Section(title string) {
	if w.quiet {
		return
	}
	w.Println("%s", w.paint(styleSection, "=== %s ===", title))
}

// SummaryItem prints a labeled summary item with value.
func (w *Writer) SummaryItem(label, value string) {
	if w.color {
		w.Println("  %s %s", styleDim.Sprintf("%s:", label), value)
	} else {
		w.Println("  %s: %s", label, value)
	}
}

// SummaryPassed prints a success-count summary item.
func (w *Writer) SummaryPassed(label, value string) {
	if w.color {
		w.Println("  %s %s", styleDim.Sprintf("%s:", label), styleGreen.Sprint(value))
	} else {
		w.Println("  %s: %s", label, value)
	}
}

// SummaryFailed prints a failure-count summary item.
func (w *Writer) SummaryFailed(label, value string) {
	if w.color {
		w.Println("  %s %s", styleDim.Sprintf("%s:", label), styleRed.Sprint(value))
	} else {
		w.Println("  %s: %s", label, value)
	}
}

// DryRunNotice prints a dry-run banner line.
func (w *Writer) DryRunNotice(format string, args ...interface{}) {
	w.Println("%s", w.paint(styleDryRun, format, args...))
}

// Hint prints a dim hint message.
func (w *Writer) Hint(format string, args ...interface{}) {
	if w.quiet {
		return
	}
	w.Println("%s", w.paint(styleDim, format, args...))
}

// Action prints an action message (what the CLI is doing).
func (w *Writer) Action(format string, args ...interface{}) {
	if w.quiet {
		return
	}
	w.Println("%s", w.paint(styleCyan, format, args...))
}

func (w *Writer) paint(c *color.Color, format string, args ...interface{}) string {
	msg := fmt.Sprintf(format, args...)
	if !w.color {
		return msg
	}
	return c.Sprint(msg)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
