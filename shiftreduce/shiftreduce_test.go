package shiftreduce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadowCow/grammarkit/analysis"
	"github.com/shadowCow/grammarkit/diag"
	"github.com/shadowCow/grammarkit/grammar"
	"github.com/shadowCow/grammarkit/lexer"
	"github.com/shadowCow/grammarkit/symbol"
)

func build(t *testing.T, root symbol.Symbol) (*grammar.Grammar, *analysis.Analysis) {
	t.Helper()
	g, err := grammar.Build(root)
	require.NoError(t, err)
	a, err := analysis.Build(g)
	require.NoError(t, err)
	return g, a
}

func digitTok(d byte) lexer.Token { return lexer.Token{Value: []byte{d}} }
func litTok(s string) lexer.Token { return lexer.Token{Value: []byte(s)} }

// sum := num "+" num ; num := [0-9]
func sumGrammar(t *testing.T) (*grammar.Grammar, *analysis.Analysis) {
	t.Helper()
	root := symbol.RulesDef(
		symbol.Define(symbol.NonTerm("sum"), symbol.Concat(
			symbol.NonTerm("num"),
			symbol.Term("+"),
			symbol.NonTerm("num"),
		)),
		symbol.Define(symbol.NonTerm("num"), symbol.Range(48, 57)),
	)
	return build(t, root)
}

func TestParseShiftsAndReducesToAccept(t *testing.T) {
	g, a := sumGrammar(t)
	p := New(g, a, Options{Lookahead: true, HeuristicCtx: true})

	tree, err := p.Parse("sum", []lexer.Token{digitTok('1'), litTok("+"), digitTok('2')})
	require.NoError(t, err)
	assert.Equal(t, "sum", tree.Name)
	require.Len(t, tree.Children, 3, "num, +, num")
	assert.Equal(t, "num", tree.Children[0].Name)
	assert.Equal(t, "num", tree.Children[2].Name)
}

func TestParseFailsWhenStuck(t *testing.T) {
	g, a := sumGrammar(t)
	p := New(g, a, Options{})

	_, err := p.Parse("sum", []lexer.Token{digitTok('1'), litTok("+")})
	require.Error(t, err)
	assert.IsType(t, &diag.ParserError{}, err)
}

// ambiguousGrammar has two distinct single-terminal rules that both match
// the literal "a", with no lookahead/context information to disambiguate.
func ambiguousGrammar(t *testing.T) (*grammar.Grammar, *analysis.Analysis) {
	t.Helper()
	root := symbol.RulesDef(
		symbol.Define(symbol.NonTerm("start"), symbol.Alter(
			symbol.NonTerm("foo"),
			symbol.NonTerm("bar"),
		)),
		symbol.Define(symbol.NonTerm("foo"), symbol.Term("a")),
		symbol.Define(symbol.NonTerm("bar"), symbol.Term("a")),
	)
	return build(t, root)
}

func TestParseReportsAmbiguityWhenMultipleRulesMatch(t *testing.T) {
	g, a := ambiguousGrammar(t)
	p := New(g, a, Options{})

	_, err := p.Parse("start", []lexer.Token{litTok("a")})
	require.Error(t, err)
	aerr, ok := err.(*diag.AmbiguityError)
	require.True(t, ok, "expected *diag.AmbiguityError, got %T: %v", err, err)
	assert.Len(t, aerr.Candidates, 2)
}

func TestStateStringCoversAllValues(t *testing.T) {
	for _, s := range []State{ReadyToShift, Shifted, ReducingLoop, ReducedOnce, NoReduce, Accept} {
		assert.NotEqual(t, "Unknown", s.String())
	}
}
