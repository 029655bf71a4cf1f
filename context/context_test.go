package context

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadowCow/grammarkit/analysis"
	"github.com/shadowCow/grammarkit/diag"
	"github.com/shadowCow/grammarkit/grammar"
	"github.com/shadowCow/grammarkit/symbol"
)

// blockGrammar defines:
//
//	block := "begin" stmt "end" ;
//	stmt  := expr ";" ;
//	expr  := [0-9] ;
//
// stmt occupies a single deterministic position within block (prefix
// distance 1, postfix distance 1), so shifting a reduced stmt should commit
// both a prefix and a postfix hypothesis for "block" in one step.
func blockGrammar(t *testing.T) (*grammar.Grammar, *analysis.Analysis) {
	t.Helper()
	root := symbol.RulesDef(
		symbol.Define(symbol.NonTerm("block"), symbol.Concat(
			symbol.Term("begin"),
			symbol.NonTerm("stmt"),
			symbol.Term("end"),
		)),
		symbol.Define(symbol.NonTerm("stmt"), symbol.Concat(
			symbol.NonTerm("expr"),
			symbol.Term(";"),
		)),
		symbol.Define(symbol.NonTerm("expr"), symbol.Range(48, 57)),
	)
	g, err := grammar.Build(root)
	require.NoError(t, err)
	a, err := analysis.Build(g)
	require.NoError(t, err)
	return g, a
}

func TestOnShiftCommitsUniquePrefixAndPostfixCandidate(t *testing.T) {
	_, a := blockGrammar(t)
	m := New(a, diag.NopPrinter{})

	// "stmt" lands at stack position 1 (after "begin" shifted at position 0).
	m.OnShift("stmt", 1)

	assert.Equal(t, 2, m.Context("block"), "want one prefix + one postfix commitment")
	require.NotNil(t, m.prefix)
	assert.Equal(t, "block", m.prefix.rule)
	require.NotNil(t, m.postfix)
	assert.Equal(t, "block", m.postfix.rule)
}

func TestOnReduceClearsPostfixCommitmentAndDecrementsContext(t *testing.T) {
	_, a := blockGrammar(t)
	m := New(a, diag.NopPrinter{})

	m.OnShift("stmt", 1)

	// postfix anchor was stackPos(1) - pos(1) = 0; commitment completes when
	// the stack size after reducing block itself is anchor+pos = 1. Both the
	// prefix and postfix commitments point at "block", so reducing it clears
	// both and fully zeroes the context counter.
	m.OnReduce("block", 1)

	assert.Nil(t, m.postfix)
	assert.Nil(t, m.prefix)
	assert.Equal(t, 0, m.Context("block"))
}

func TestCheckCtxStaysTrueWhenActiveRuleContainsTarget(t *testing.T) {
	_, a := blockGrammar(t)
	m := New(a, diag.NopPrinter{})

	m.OnShift("stmt", 1) // commits context["block"] active

	// block transitively contains both stmt and expr, so neither appears in
	// D(stmt) or D(expr); CheckCtx must stay true for both while block is
	// the only active context.
	assert.True(t, m.CheckCtx("stmt"), "block is not disjoint from stmt")
	assert.True(t, m.CheckCtx("expr"), "block is not disjoint from expr")
}

func TestDNeverContainsItsOwnTarget(t *testing.T) {
	_, a := blockGrammar(t)
	for _, nt := range []string{"block", "stmt", "expr"} {
		assert.NotContains(t, a.D(nt), nt)
	}
}

func TestResetClearsAllState(t *testing.T) {
	_, a := blockGrammar(t)
	m := New(a, diag.NopPrinter{})

	m.OnShift("stmt", 1)
	require.NotEmpty(t, m.ActiveRules(), "expected at least one active rule before Reset")

	m.Reset()

	assert.Empty(t, m.ActiveRules())
	assert.Nil(t, m.prefix)
	assert.Nil(t, m.postfix)
}

func TestInconsistentAnchorReportsGuruMeditation(t *testing.T) {
	_, a := blockGrammar(t)

	var reported bool
	rec := recordingPrinter{onGuru: func(string, diag.SourceLocation) { reported = true }}

	m := New(a, &rec)
	m.OnShift("stmt", 1) // commits prefix anchor = 0

	// A second, inconsistent shift of "stmt" at a different stack position
	// while the prefix commitment is already locked in should be flagged.
	m.OnShift("stmt", 9)

	assert.True(t, reported, "expected GuruMeditation to be reported for inconsistent anchor")
}

type recordingPrinter struct {
	onGuru func(string, diag.SourceLocation)
}

func (r *recordingPrinter) GuruMeditation(message string, loc diag.SourceLocation) {
	if r.onGuru != nil {
		r.onGuru(message, loc)
	}
}

func (r *recordingPrinter) Trace(format string, args ...any) {}
