package ll1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadowCow/grammarkit/grammar"
	"github.com/shadowCow/grammarkit/lexer"
	"github.com/shadowCow/grammarkit/symbol"
)

func mustGrammar(t *testing.T, root symbol.Symbol) *grammar.Grammar {
	t.Helper()
	g, err := grammar.Build(root)
	require.NoError(t, err)
	return g
}

func tok(s string) lexer.Token {
	return lexer.Token{Value: []byte(s)}
}

// arithGrammar: expr := num (("+"|"-") num)* ; num := [0-9]+
func arithGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	root := symbol.RulesDef(
		symbol.Define(symbol.NonTerm("expr"), symbol.Concat(
			symbol.NonTerm("num"),
			symbol.Repeat(symbol.Concat(
				symbol.Alter(symbol.Term("+"), symbol.Term("-")),
				symbol.NonTerm("num"),
			)),
		)),
		symbol.Define(symbol.NonTerm("num"), symbol.RepeatAtLeast(1, symbol.Range(48, 57))),
	)
	return mustGrammar(t, root)
}

func digitToken(d byte) lexer.Token {
	return lexer.Token{Value: []byte{d}}
}

func TestParseConcatAndNonterminal(t *testing.T) {
	g := arithGrammar(t)
	p := New(g, PickFirst)

	tokens := []lexer.Token{digitToken('1'), tok("+"), digitToken('2')}
	tree, ok := p.Parse("expr", tokens)
	require.True(t, ok, "expected parse to succeed")
	assert.Equal(t, "expr", tree.Name)
	require.Len(t, tree.Children, 3, "num, +, num")
}

func TestParseFailsOnIncompleteInput(t *testing.T) {
	g := arithGrammar(t)
	p := New(g, PickFirst)

	tokens := []lexer.Token{digitToken('1'), tok("+")}
	_, ok := p.Parse("expr", tokens)
	assert.False(t, ok, "expected parse to fail on trailing dangling operator")
}

func TestParseRejectsUnconsumedTrailingTokens(t *testing.T) {
	g := arithGrammar(t)
	p := New(g, PickFirst)

	tokens := []lexer.Token{digitToken('1'), tok("?")}
	_, ok := p.Parse("expr", tokens)
	assert.False(t, ok, "expected parse to fail: trailing '?' is not consumable")
}

// ambiguousGrammar: word := "a" | "ab" ; used to exercise PickFirst vs
// PickLongest over an Alter where both arms can match a prefix of the input
// but consume different lengths.
func ambiguousGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	root := symbol.RulesDef(
		symbol.Define(symbol.NonTerm("word"), symbol.Alter(
			symbol.Term("a"),
			symbol.Concat(symbol.Term("a"), symbol.Term("b")),
		)),
	)
	return mustGrammar(t, root)
}

func TestAlterPickFirstAdoptsFirstMatch(t *testing.T) {
	g := ambiguousGrammar(t)
	p := New(g, PickFirst)

	tokens := []lexer.Token{tok("a"), tok("b")}
	_, ok := p.Parse("word", tokens)
	assert.False(t, ok, "PickFirst should adopt the single-terminal arm and leave 'b' unconsumed, causing overall failure")
}

func TestAlterPickLongestConsumesBothTokens(t *testing.T) {
	g := ambiguousGrammar(t)
	p := New(g, PickLongest)

	tokens := []lexer.Token{tok("a"), tok("b")}
	tree, ok := p.Parse("word", tokens)
	require.True(t, ok, "expected PickLongest to adopt the two-terminal arm and fully consume input")
	assert.Len(t, tree.Children, 2)
}

func TestOptionalSucceedsWhenAbsent(t *testing.T) {
	root := symbol.RulesDef(
		symbol.Define(symbol.NonTerm("greeting"), symbol.Concat(
			symbol.Term("hi"),
			symbol.Optional(symbol.Term("!")),
		)),
	)
	g := mustGrammar(t, root)
	p := New(g, PickFirst)

	tree, ok := p.Parse("greeting", []lexer.Token{tok("hi")})
	require.True(t, ok, "expected optional-absent parse to succeed")
	assert.Len(t, tree.Children, 1, "optional contributed nothing")
}

func TestExceptRejectsWhenExclusionAlsoMatches(t *testing.T) {
	root := symbol.RulesDef(
		symbol.Define(symbol.NonTerm("ident"), symbol.Except(
			symbol.Term("if"),
			symbol.Term("if"),
		)),
	)
	g := mustGrammar(t, root)
	p := New(g, PickFirst)

	_, ok := p.Parse("ident", []lexer.Token{tok("if")})
	assert.False(t, ok, "expected Except to reject when the exclusion also matches")
}

func TestRepeatExactRequiresExactCount(t *testing.T) {
	root := symbol.RulesDef(
		symbol.Define(symbol.NonTerm("triplet"), symbol.RepeatExact(3, symbol.Range(48, 57))),
	)
	g := mustGrammar(t, root)
	p := New(g, PickFirst)

	_, ok := p.Parse("triplet", []lexer.Token{digitToken('1'), digitToken('2')})
	assert.False(t, ok, "expected RepeatExact(3) to fail with only 2 matches available")

	_, ok = p.Parse("triplet", []lexer.Token{digitToken('1'), digitToken('2'), digitToken('3')})
	assert.True(t, ok, "expected RepeatExact(3) to succeed with exactly 3 matches available")
}

func TestRepeatRangeConsumesUpToMax(t *testing.T) {
	root := symbol.RulesDef(
		symbol.Define(symbol.NonTerm("code"), symbol.RepeatRange(1, 3, symbol.Range(48, 57))),
	)
	g := mustGrammar(t, root)
	p := New(g, PickFirst)

	tree, ok := p.Parse("code", []lexer.Token{digitToken('1'), digitToken('2')})
	require.True(t, ok, "expected RepeatRange(1,3) to succeed with 2 matches")
	assert.Len(t, tree.Children, 2)
}
