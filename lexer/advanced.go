package lexer

import (
	"sort"

	"github.com/shadowCow/grammarkit/automaton"
	"github.com/shadowCow/grammarkit/grammar"
	"github.com/shadowCow/grammarkit/symbol"
)

// Advanced is the disjoint-terminal, DFA-backed tokenizer. It compiles the
// grammar's terminal cache into an NFA (one Thompson fragment per distinct
// literal/range, optionally fragmented to mutual disjointness), then a DFA
// via subset construction, and scans the input as longest-match against it.
// Every emitted token carries the full candidate set reaching its final
// accept state; a later parser stage resolves the single correct type.
type Advanced struct {
	dfa               *automaton.DFA
	handleAtRuntime   bool
	literalCandidates map[string][]string
}

// AdvancedOptions controls how NewAdvanced handles terminals/ranges that
// overlap in byte footprint.
type AdvancedOptions struct {
	// HandleDuplicates runs the pairwise fragmentation fixpoint (see
	// FragmentTerminalCache) once, at construction time, splitting every
	// overlapping pair into disjoint pieces before the NFA is compiled.
	HandleDuplicates bool
	// HandleDuplicatesAtRuntime defers that narrowing to each scan instead
	// of paying the fragmentation fixpoint up front: the DFA is built
	// straight from the unfragmented terminal cache (candidates simply
	// union wherever accept states coincide), and Tokenize narrows a
	// token's candidate set to its literal's own owners whenever the
	// scanned bytes exactly match a known literal. It is redundant with
	// HandleDuplicates and only consulted when HandleDuplicates is unset.
	HandleDuplicatesAtRuntime bool
}

// NewAdvanced builds an Advanced tokenizer from g per opts. See
// AdvancedOptions for what HandleDuplicates and HandleDuplicatesAtRuntime
// each do.
func NewAdvanced(g *grammar.Grammar, opts AdvancedOptions) *Advanced {
	fragments := CollectTerminalCache(g)

	var literalCandidates map[string][]string
	if opts.HandleDuplicates {
		fragments = FragmentTerminalCache(fragments)
	} else if opts.HandleDuplicatesAtRuntime {
		literalCandidates = make(map[string][]string)
		for _, f := range fragments {
			if f.IsTerminal() {
				literalCandidates[f.Name()] = f.Candidates()
			}
		}
	}

	nfas := make([]*automaton.NFA, len(fragments))
	for i, f := range fragments {
		nfas[i] = automaton.CompileFragmentToNFA(f)
	}
	return &Advanced{
		dfa:               automaton.BuildDFA(automaton.CombineFragments(nfas)),
		handleAtRuntime:   !opts.HandleDuplicates && opts.HandleDuplicatesAtRuntime,
		literalCandidates: literalCandidates,
	}
}

// CollectTerminalCache walks every rule body in g and returns one Terminal
// or TerminalRange symbol per distinct literal/range occurrence, each
// carrying the set of nonterminal names whose body produced it.
func CollectTerminalCache(g *grammar.Grammar) []symbol.Symbol {
	type key struct {
		literal string
		isRange bool
		lo, hi  byte
	}
	seen := make(map[key]int)
	var out []symbol.Symbol
	candidatesByKey := make(map[key]map[string]bool)

	var walk func(s symbol.Symbol, owner string)
	walk = func(s symbol.Symbol, owner string) {
		switch {
		case s.IsTerminal():
			k := key{literal: s.Name()}
			if _, ok := seen[k]; !ok {
				seen[k] = len(out)
				out = append(out, s)
				candidatesByKey[k] = make(map[string]bool)
			}
			candidatesByKey[k][owner] = true
		case s.IsRange():
			lo, hi := s.Bounds()
			k := key{isRange: true, lo: lo, hi: hi}
			if _, ok := seen[k]; !ok {
				seen[k] = len(out)
				out = append(out, s)
				candidatesByKey[k] = make(map[string]bool)
			}
			candidatesByKey[k][owner] = true
		case s.IsOperator():
			for _, c := range s.Children() {
				walk(c, owner)
			}
		}
	}
	for _, d := range g.Defines {
		walk(d.Body, d.Name)
	}

	for i, s := range out {
		var k key
		if s.IsRange() {
			lo, hi := s.Bounds()
			k = key{isRange: true, lo: lo, hi: hi}
		} else {
			k = key{literal: s.Name()}
		}
		var candidates []string
		for c := range candidatesByKey[k] {
			candidates = append(candidates, c)
		}
		sort.Strings(candidates)
		out[i] = s.WithCandidates(candidates)
	}
	return out
}

// FragmentTerminalCache runs the pairwise fragmentation fixpoint from §4.1
// until the working set is mutually disjoint: any two overlapping
// TerminalRange fragments are split via symbol.FragmentRanges; an
// overlapping single-byte Terminal/TerminalRange pair is split by carving
// the literal's byte out of the range, leaving the literal's own candidate
// set unioned with the range's, plus whatever non-overlapping remainder of
// the range is left. A literal longer than one byte is never paired with a
// range here; both stay as they are.
func FragmentTerminalCache(fragments []symbol.Symbol) []symbol.Symbol {
	working := append([]symbol.Symbol{}, fragments...)

	for {
		i, j, ok := findIntersectingPair(working)
		if !ok {
			return working
		}
		a, b := working[i], working[j]
		replacement := fragmentPair(a, b)

		next := make([]symbol.Symbol, 0, len(working)-2+len(replacement))
		for k, s := range working {
			if k == i || k == j {
				continue
			}
			next = append(next, s)
		}
		next = append(next, replacement...)
		working = next
	}
}

func findIntersectingPair(fragments []symbol.Symbol) (i, j int, ok bool) {
	for i := 0; i < len(fragments); i++ {
		for j := i + 1; j < len(fragments); j++ {
			a, b := fragments[i], fragments[j]
			if a.IsTerminal() && b.IsTerminal() {
				// Two distinct literal strings never need fragmenting;
				// identical literals were already merged by
				// CollectTerminalCache.
				continue
			}
			if literalRangePairNeedsNoFragmenting(a, b) {
				// A multi-byte literal can only ever overlap a range one
				// full token at a time (it is never itself a single byte
				// of the range), so there is no single byte to carve out:
				// leave both fragments as-is and let the combined NFA's
				// subset construction union their candidates wherever the
				// two paths happen to share a state.
				continue
			}
			if symbol.RangesIntersect(a, b) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// literalRangePairNeedsNoFragmenting reports whether a, b is a
// Terminal/TerminalRange pair whose literal is more than one byte long —
// fragmentPair only knows how to carve a single byte out of a range.
func literalRangePairNeedsNoFragmenting(a, b symbol.Symbol) bool {
	if a.IsTerminal() && b.IsRange() {
		return len(a.Name()) != 1
	}
	if a.IsRange() && b.IsTerminal() {
		return len(b.Name()) != 1
	}
	return false
}

func fragmentPair(a, b symbol.Symbol) []symbol.Symbol {
	if a.IsRange() && b.IsRange() {
		return symbol.FragmentRanges(a, b)
	}
	// One single-byte Terminal, one TerminalRange: carve the literal's one
	// overlapping byte out of the range, keep the literal as its own
	// fragment with the union candidate set, and re-emit whatever of the
	// range remains on either side.
	lit, rng := a, b
	if b.IsTerminal() {
		lit, rng = b, a
	}
	lo, hi := rng.Bounds()
	litByte := lit.Name()[0]

	union := unionCandidateSlices(lit.Candidates(), rng.Candidates())
	out := []symbol.Symbol{lit.WithCandidates(union)}
	if litByte > lo {
		out = append(out, symbol.Range(lo, litByte-1).WithCandidates(rng.Candidates()))
	}
	if litByte < hi {
		out = append(out, symbol.Range(litByte+1, hi).WithCandidates(rng.Candidates()))
	}
	return out
}

func unionCandidateSlices(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, c := range append(append([]string{}, a...), b...) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// Tokenize scans input as longest-match against the compiled DFA.
func (a *Advanced) Tokenize(input []byte) ([]Token, error) {
	var tokens []Token
	pos := 0
	for pos < len(input) {
		state := a.dfa.InitialState
		lastAcceptLen := -1
		var lastCandidates []string

		for i := pos; i <= len(input); i++ {
			if a.dfa.IsAccepting(state) {
				lastAcceptLen = i - pos
				lastCandidates = a.dfa.Candidates(state)
			}
			if i == len(input) {
				break
			}
			next := a.dfa.NextState(state, input[i])
			if next == "" {
				break
			}
			state = next
		}

		if lastAcceptLen <= 0 {
			return nil, &Error{Offset: pos}
		}
		value := input[pos : pos+lastAcceptLen]
		if a.handleAtRuntime {
			if owners, ok := a.literalCandidates[string(value)]; ok {
				lastCandidates = owners
			}
		}
		tokens = append(tokens, Token{
			Value:      append([]byte{}, value...),
			Candidates: lastCandidates,
		})
		pos += lastAcceptLen
	}
	return tokens, nil
}
