package diag

import (
	"fmt"
	"io"
)

// TextPrinter is the default Printer: it writes both guru meditations and
// trace lines as plain text to an io.Writer sink.
type TextPrinter struct {
	w io.Writer
}

// NewTextPrinter returns a TextPrinter writing to w.
func NewTextPrinter(w io.Writer) *TextPrinter {
	return &TextPrinter{w: w}
}

// GuruMeditation writes a one-line diagnostic for an internal invariant
// violation.
func (p *TextPrinter) GuruMeditation(message string, loc SourceLocation) {
	fmt.Fprintf(p.w, "*** guru meditation *** %s (%s)\n", message, loc)
}

// Trace writes a formatted trace line, unconditionally.
func (p *TextPrinter) Trace(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// NopPrinter discards everything written to it; the zero value is ready to
// use. Useful where a Printer is required but no diagnostics are wanted.
type NopPrinter struct{}

func (NopPrinter) GuruMeditation(string, SourceLocation) {}
func (NopPrinter) Trace(string, ...any)                  {}
