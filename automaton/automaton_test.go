package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shadowCow/grammarkit/symbol"
)

func scan(dfa *DFA, input string) (matched string, candidates []string) {
	state := dfa.InitialState
	lastAcceptLen := -1
	var lastCandidates []string
	for i := 0; i <= len(input); i++ {
		if dfa.IsAccepting(state) {
			lastAcceptLen = i
			lastCandidates = dfa.Candidates(state)
		}
		if i == len(input) {
			break
		}
		next := dfa.NextState(state, input[i])
		if next == "" {
			break
		}
		state = next
	}
	if lastAcceptLen < 0 {
		return "", nil
	}
	return input[:lastAcceptLen], lastCandidates
}

func TestCompileLiteralFragmentMatches(t *testing.T) {
	frag := CompileFragmentToNFA(symbol.Term("if").WithCandidates([]string{"kwIf"}))
	dfa := BuildDFA(CombineFragments([]*NFA{frag}))

	matched, candidates := scan(dfa, "if x")
	assert.Equal(t, "if", matched)
	assert.Equal(t, []string{"kwIf"}, candidates)
}

func TestCompileRangeFragmentMatches(t *testing.T) {
	frag := CompileFragmentToNFA(symbol.Range('0', '9').WithCandidates([]string{"digit"}))
	dfa := BuildDFA(CombineFragments([]*NFA{frag}))

	matched, _ := scan(dfa, "7")
	assert.Equal(t, "7", matched)
	_, noCandidates := scan(dfa, "x")
	assert.Nil(t, noCandidates)
}

func TestCombineFragmentsLongestMatchKeepsAcceptStatesSeparate(t *testing.T) {
	// Two overlapping literals of different lengths starting the same way:
	// "in" (keyword) and "int" (another keyword). The DFA should report
	// candidates for "in" at length 2 and for "int" at length 3
	// independently, since they are different accept states.
	inFrag := CompileFragmentToNFA(symbol.Term("in").WithCandidates([]string{"kwIn"}))
	intFrag := CompileFragmentToNFA(symbol.Term("int").WithCandidates([]string{"kwInt"}))
	dfa := BuildDFA(CombineFragments([]*NFA{inFrag, intFrag}))

	matched, candidates := scan(dfa, "int")
	assert.Equal(t, "int", matched)
	assert.Equal(t, []string{"kwInt"}, candidates)
}

func TestCombineFragmentsUnionsCandidatesAtSharedAcceptState(t *testing.T) {
	// Same literal declared by two different source fragments (e.g. two
	// rules both use the terminal "+") should union into one candidate set
	// at the shared accept state the subset construction produces.
	fragA := CompileFragmentToNFA(symbol.Term("+").WithCandidates([]string{"plusOp"}))
	fragB := CompileFragmentToNFA(symbol.Term("+").WithCandidates([]string{"unaryPlus"}))
	dfa := BuildDFA(CombineFragments([]*NFA{fragA, fragB}))

	matched, candidates := scan(dfa, "+")
	assert.Equal(t, "+", matched)
	assert.Len(t, candidates, 2, "want union of plusOp and unaryPlus")
}
