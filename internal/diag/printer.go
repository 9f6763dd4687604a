// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package diag renders compiler exceptions against the source line they
// point at.
package diag

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/nvc-lang/nvc/internal/exc"
	"github.com/nvc-lang/nvc/internal/idl"
)

// Columns at or beyond this point get the marker drawn to the left of the
// caret so that it does not run off the start of the line.
const markerWidth = 8

type Option func(*Printer)

// WithColor enables styled output. Styling is still dropped when the output
// is not a terminal that supports it.
func WithColor(enabled bool) Option {
	return func(p *Printer) {
		p.color = enabled
	}
}

// WithReporter sets the Reporter that exceptions are forwarded to after they
// are printed. The default is exc.NewReporter(nil).
func WithReporter(r exc.Reporter) Option {
	return func(p *Printer) {
		p.inner = r
	}
}

var _ exc.Reporter = (*Printer)(nil)

// Printer is an exc.Reporter that writes each exception to an output stream
// as it is reported.
type Printer struct {
	lock    sync.Mutex
	out     io.Writer
	inner   exc.Reporter
	color   bool
	message lipgloss.Style
	caret   lipgloss.Style
}

func NewPrinter(out io.Writer, opts ...Option) *Printer {
	p := &Printer{out: out}
	for _, opt := range opts {
		opt(p)
	}
	if p.inner == nil {
		p.inner = exc.NewReporter(nil)
	}
	renderer := lipgloss.NewRenderer(out)
	p.message = renderer.NewStyle().Bold(true)
	p.caret = renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	return p
}

func (p *Printer) Report(e exc.Exception) exc.Exception {
	p.Print(e.Message(), e.Location())
	return p.inner.Report(e)
}

func (p *Printer) Reported() []exc.Exception {
	return p.inner.Reported()
}

// Print writes a single diagnostic.
func (p *Printer) Print(message string, loc idl.Location) {
	header, line, pad, marker := layout(message, loc)
	var b strings.Builder
	if p.color {
		b.WriteString(p.message.Render(header))
	} else {
		b.WriteString(header)
	}
	b.WriteByte('\n')
	if loc.Source != nil {
		b.WriteString(line)
		b.WriteByte('\n')
		b.WriteString(pad)
		if p.color {
			b.WriteString(p.caret.Render(marker))
		} else {
			b.WriteString(marker)
		}
		b.WriteByte('\n')
	}
	p.lock.Lock()
	defer p.lock.Unlock()
	_, _ = io.WriteString(p.out, b.String())
}

// Format renders a diagnostic without styling. The result is a header line
// naming the location followed, when source is attached, by the offending
// line and a caret under the column.
func Format(message string, loc idl.Location) string {
	header, line, pad, marker := layout(message, loc)
	if loc.Source == nil {
		return header + "\n"
	}
	return fmt.Sprintf("%s\n%s\n%s%s\n", header, line, pad, marker)
}

func layout(message string, loc idl.Location) (header string, line string, pad string, marker string) {
	header = fmt.Sprintf("%s: at: %s:%d:%d.", message, loc.Name, loc.Line+1, loc.Column)
	line = loc.LineText()
	col := loc.Column
	if col < 0 {
		col = 0
	}
	if col > markerWidth {
		return header, line, strings.Repeat(" ", col-markerWidth), "here ---^"
	}
	return header, line, strings.Repeat(" ", col), "^--- here"
}
