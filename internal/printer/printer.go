// Package printer writes colored status lines for the CLI.
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Printer writes status messages to a single stream.
type Printer struct {
	out    io.Writer
	green  *color.Color
	yellow *color.Color
	red    *color.Color
	cyan   *color.Color
}

// New returns a Printer writing to w. Color is applied only when useColor is set.
func New(w io.Writer, useColor bool) *Printer {
	p := &Printer{
		out:    w,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed, color.Bold),
		cyan:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.green, p.yellow, p.red, p.cyan} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Stderr returns a Printer for os.Stderr, colored when it is a terminal and
// NO_COLOR is unset.
func Stderr() *Printer {
	useColor := os.Getenv("NO_COLOR") == "" && term.IsTerminal(int(os.Stderr.Fd()))
	return New(os.Stderr, useColor)
}

// Success prints a message in green with a checkmark prefix.
func (p *Printer) Success(format string, a ...any) {
	p.line(p.green, "✓ ", format, a...)
}

// Info prints a message in the default color.
func (p *Printer) Info(format string, a ...any) {
	p.line(nil, "", format, a...)
}

// Step prints a progress message in cyan.
func (p *Printer) Step(format string, a ...any) {
	p.line(p.cyan, "→ ", format, a...)
}

// Warning prints a message in yellow with a warning prefix.
func (p *Printer) Warning(format string, a ...any) {
	p.line(p.yellow, "⚠ ", format, a...)
}

// Error prints a red title, an explanation, and optional suggestions. The
// returned error carries only the title so cobra does not repeat the details.
func (p *Printer) Error(title, explanation string, suggestions []string) error {
	_, _ = p.red.Fprintf(p.out, "%s\n", title)
	if explanation != "" {
		_, _ = fmt.Fprintf(p.out, "\n%s\n", explanation)
	}
	switch len(suggestions) {
	case 0:
	case 1:
		_, _ = fmt.Fprintf(p.out, "\n%s\n", suggestions[0])
	default:
		_, _ = fmt.Fprintf(p.out, "\nEither:\n")
		for i, s := range suggestions {
			_, _ = fmt.Fprintf(p.out, "  %d. %s\n", i+1, s)
		}
	}
	return fmt.Errorf("%s", title)
}

func (p *Printer) line(c *color.Color, prefix, format string, a ...any) {
	msg := strings.TrimRight(fmt.Sprintf(format, a...), "\n")
	if prefix != "" && !strings.HasPrefix(msg, prefix) {
		msg = prefix + msg
	}
	if c == nil {
		_, _ = fmt.Fprintln(p.out, msg)
		return
	}
	_, _ = c.Fprintln(p.out, msg)
}
