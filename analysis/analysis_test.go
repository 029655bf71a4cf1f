package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadowCow/grammarkit/grammar"
	"github.com/shadowCow/grammarkit/symbol"
)

func buildOrFatal(t *testing.T, root symbol.Symbol) (*grammar.Grammar, *Analysis) {
	t.Helper()
	g, err := grammar.Build(root)
	require.NoError(t, err)
	a, err := Build(g)
	require.NoError(t, err)
	return g, a
}

// calculatorGrammar: expr := term (("+" | "-") term)* ; term := digit+ ;
func calculatorGrammar() symbol.Symbol {
	return symbol.RulesDef(
		symbol.Define(symbol.NonTerm("expr"), symbol.Concat(
			symbol.NonTerm("term"),
			symbol.Repeat(symbol.Concat(
				symbol.Alter(symbol.Term("+"), symbol.Term("-")),
				symbol.NonTerm("term"),
			)),
		)),
		symbol.Define(symbol.NonTerm("term"), symbol.RepeatAtLeast(1, symbol.NonTerm("digit"))),
		symbol.Define(symbol.NonTerm("digit"), symbol.Range('0', '9')),
	)
}

func TestRRDirectReferences(t *testing.T) {
	_, a := buildOrFatal(t, calculatorGrammar())
	assert.Contains(t, a.RR("term"), "expr")
	assert.Contains(t, a.RR("digit"), "term")
}

func TestRRStarTransitiveClosure(t *testing.T) {
	_, a := buildOrFatal(t, calculatorGrammar())
	star := a.RRStar("digit")
	assert.Contains(t, star, "term")
	assert.Contains(t, star, "expr")
	assert.NotContains(t, star, "digit", "RRStar(digit) must exclude digit itself")
}

func TestDIsComplementOfRRStar(t *testing.T) {
	_, a := buildOrFatal(t, calculatorGrammar())
	d := a.D("digit")
	assert.NotContains(t, d, "term")
	assert.NotContains(t, d, "expr")
	assert.NotContains(t, d, "digit")
}

func TestFollowOfTermIncludesOperators(t *testing.T) {
	_, a := buildOrFatal(t, calculatorGrammar())
	follow := a.Follow("term")
	assert.Contains(t, follow, "+")
	assert.Contains(t, follow, "-")
}

func TestFollowOfDigitBubblesTermsFollow(t *testing.T) {
	_, a := buildOrFatal(t, calculatorGrammar())
	follow := a.Follow("digit")
	// RepeatAtLeast(n>=1) is treated as non-nullable per §4.4: FOLLOW(digit)
	// inherits FOLLOW(term) but does not also gain digit's own FIRST set
	// back as a self-repetition follow.
	assert.Contains(t, follow, "+")
	assert.Contains(t, follow, "-")
}

func TestPrefixPosDeterministicThroughConcat(t *testing.T) {
	g := symbol.RulesDef(
		symbol.Define(symbol.NonTerm("pair"), symbol.Concat(
			symbol.Term("("),
			symbol.NonTerm("left"),
			symbol.Term(","),
			symbol.NonTerm("right"),
			symbol.Term(")"),
		)),
		symbol.Define(symbol.NonTerm("left"), symbol.Term("x")),
		symbol.Define(symbol.NonTerm("right"), symbol.Term("y")),
	)
	_, a := buildOrFatal(t, g)
	p, ok := a.PrefixPos("pair", "left")
	require.True(t, ok)
	assert.Equal(t, 1, p)

	p, ok = a.PrefixPos("pair", "right")
	require.True(t, ok)
	assert.Equal(t, 3, p)
}

func TestPostfixPosDeterministicThroughConcat(t *testing.T) {
	g := symbol.RulesDef(
		symbol.Define(symbol.NonTerm("pair"), symbol.Concat(
			symbol.Term("("),
			symbol.NonTerm("left"),
			symbol.Term(","),
			symbol.NonTerm("right"),
			symbol.Term(")"),
		)),
		symbol.Define(symbol.NonTerm("left"), symbol.Term("x")),
		symbol.Define(symbol.NonTerm("right"), symbol.Term("y")),
	)
	_, a := buildOrFatal(t, g)
	p, ok := a.PostfixPos("pair", "right")
	require.True(t, ok)
	assert.Equal(t, 1, p)

	p, ok = a.PostfixPos("pair", "left")
	require.True(t, ok)
	assert.Equal(t, 3, p)
}

func TestPositionUndefinedAcrossAlternation(t *testing.T) {
	g := symbol.RulesDef(
		symbol.Define(symbol.NonTerm("expr"), symbol.Alter(
			symbol.NonTerm("a"),
			symbol.NonTerm("b"),
		)),
		symbol.Define(symbol.NonTerm("a"), symbol.Term("x")),
		symbol.Define(symbol.NonTerm("b"), symbol.Term("y")),
	)
	_, a := buildOrFatal(t, g)
	_, ok := a.PrefixPos("expr", "a")
	assert.False(t, ok, "expected no deterministic prefix position across Alter")
}
