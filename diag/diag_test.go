package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindsFormat(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"grammar", &GrammarError{Detail: "undefined nonterminal"}, "grammar error"},
		{"tokenizer", &TokenizerError{Offset: 4}, "offset 4"},
		{"parser", &ParserError{Rule: "expr", Offset: 2, Detail: "no alternative matched"}, "expr"},
		{"ambiguity", &AmbiguityError{Candidates: []string{"a", "b"}}, "ambiguous"},
		{"invariant", &InternalInvariant{Message: "bad anchor", Location: SourceLocation{Rule: "expr", Offset: 1}}, "guru meditation"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Contains(t, tc.err.Error(), tc.want)
		})
	}
}

func TestTextPrinterWritesGuruMeditation(t *testing.T) {
	var buf bytes.Buffer
	p := NewTextPrinter(&buf)
	p.GuruMeditation("context inconsistency", SourceLocation{Rule: "expr", Offset: 3})
	assert.Contains(t, buf.String(), "guru meditation")
	assert.Contains(t, buf.String(), "expr")
}

func TestNopPrinterDiscardsEverything(t *testing.T) {
	var p Printer = NopPrinter{}
	p.GuruMeditation("anything", SourceLocation{})
	p.Trace("anything %d", 1)
}
