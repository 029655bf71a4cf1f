// Package analysis computes the static structures the parsers consume: the
// reverse-rule tree and its transitive closure, the disjoint-rule table,
// FOLLOW sets, and the prefix/postfix position tables.
package analysis

import (
	"sort"

	"github.com/shadowCow/grammarkit/grammar"
	"github.com/shadowCow/grammarkit/symbol"
)

// Analysis bundles the four static structures computed over a Grammar. It
// is immutable after Build and safe to share across concurrently-running
// parser instances.
type Analysis struct {
	g *grammar.Grammar

	// rr[X] = the nonterminals Y whose body directly references X.
	rr map[string][]string
	// rrStar[X] = the nonterminals Y from which X is transitively reachable,
	// excluding X itself.
	rrStar map[string]map[string]bool
	// d[X] = complement of rrStar[X] ∪ {X} within all nonterminals.
	d map[string]map[string]bool
	// follow[X] = terminals/nonterminals that may immediately follow X.
	follow map[string]map[string]bool

	// prefixPos[(X,Y)] = deterministic prefix distance of Y within X, if any.
	prefixPos map[pairKey]int
	// postfixPos[(X,Y)] = deterministic postfix distance of Y within X, if any.
	postfixPos map[pairKey]int
}

type pairKey struct {
	outer string
	inner string
}

// Build computes every static analysis over g.
func Build(g *grammar.Grammar) (*Analysis, error) {
	a := &Analysis{
		g:          g,
		rr:         make(map[string][]string),
		prefixPos:  make(map[pairKey]int),
		postfixPos: make(map[pairKey]int),
	}

	a.buildReverseRuleTree()
	a.buildTransitiveClosureAndDisjointTable()
	a.buildFollowSets()
	a.buildPositionTables()

	return a, nil
}

// RR returns the nonterminals whose body directly references nonterminal x,
// in declaration order.
func (a *Analysis) RR(x string) []string {
	out := make([]string, len(a.rr[x]))
	copy(out, a.rr[x])
	return out
}

// RRStar returns the transitive closure of RR: every nonterminal from which
// x is reachable through any chain of references, excluding x itself.
func (a *Analysis) RRStar(x string) []string {
	return sortedKeys(a.rrStar[x])
}

// D returns the disjoint-rule table for x: the nonterminals that can never
// transitively contain x.
func (a *Analysis) D(x string) []string {
	return sortedKeys(a.d[x])
}

// Follow returns FOLLOW(x): terminals and nonterminals that may immediately
// follow an occurrence of x in any sentential form.
func (a *Analysis) Follow(x string) []string {
	return sortedKeys(a.follow[x])
}

// PrefixPos returns the deterministic prefix position of y within x, and
// whether one exists.
func (a *Analysis) PrefixPos(x, y string) (int, bool) {
	p, ok := a.prefixPos[pairKey{outer: x, inner: y}]
	return p, ok
}

// PostfixPos returns the deterministic postfix position of y within x, and
// whether one exists. y must be a nonterminal name; terminals and ranges
// occupy a position slot but are never themselves a lookup key.
func (a *Analysis) PostfixPos(x, y string) (int, bool) {
	p, ok := a.postfixPos[pairKey{outer: x, inner: y}]
	return p, ok
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// buildReverseRuleTree descends each body collecting the Nonterminals
// referenced, recording each referencing nonterminal against the referenced
// one.
func (a *Analysis) buildReverseRuleTree() {
	seen := make(map[string]map[string]bool)
	var walk func(s symbol.Symbol, owner string)
	walk = func(s symbol.Symbol, owner string) {
		switch {
		case s.IsNonterminal():
			if seen[s.Name()] == nil {
				seen[s.Name()] = make(map[string]bool)
			}
			if !seen[s.Name()][owner] {
				seen[s.Name()][owner] = true
				a.rr[s.Name()] = append(a.rr[s.Name()], owner)
			}
		case s.IsOperator():
			for _, c := range s.Children() {
				walk(c, owner)
			}
		}
	}
	for _, d := range a.g.Defines {
		walk(d.Body, d.Name)
	}
}

// buildTransitiveClosureAndDisjointTable computes RR* via fixpoint over RR,
// then D as the complement of RR*(X) ∪ {X}.
func (a *Analysis) buildTransitiveClosureAndDisjointTable() {
	all := a.g.AllNonterminals()
	a.rrStar = make(map[string]map[string]bool, len(all))
	a.d = make(map[string]map[string]bool, len(all))

	for _, x := range all {
		closure := make(map[string]bool)
		queue := append([]string{}, a.rr[x]...)
		for len(queue) > 0 {
			y := queue[0]
			queue = queue[1:]
			if y == x || closure[y] {
				continue
			}
			closure[y] = true
			queue = append(queue, a.rr[y]...)
		}
		a.rrStar[x] = closure
	}

	allSet := make(map[string]bool, len(all))
	for _, nt := range all {
		allSet[nt] = true
	}
	for _, x := range all {
		complement := make(map[string]bool)
		for nt := range allSet {
			if nt == x || a.rrStar[x][nt] {
				continue
			}
			complement[nt] = true
		}
		a.d[x] = complement
	}
}

// buildPositionTables computes PrefixPos/PostfixPos for every (X, Y) pair
// where X references Y, by descending X's body.
func (a *Analysis) buildPositionTables() {
	for _, d := range a.g.Defines {
		x := d.Name
		prefix := prefixPositions(d.Body)
		for y, p := range prefix {
			a.prefixPos[pairKey{outer: x, inner: y}] = p
		}
		postfix := postfixPositions(d.Body)
		for y, p := range postfix {
			a.postfixPos[pairKey{outer: x, inner: y}] = p
		}
	}
}

// prefixPositions returns, for every Nonterminal name reachable as a
// deterministic prefix of body, its distance from the start. Concat
// accumulates positions through its sequence; a RepeatExact/RepeatAtLeast/
// RepeatRange with m>=1 contributes only its first element at distance 0
// relative to its own start; nondeterministic operators (Alter, nullable
// repeats, Optional) yield no entries for anything beyond their own
// position, since no single deterministic offset exists past them.
func prefixPositions(body symbol.Symbol) map[string]int {
	out := make(map[string]int)
	walkPrefix(body, 0, out)
	return out
}

// walkPrefix records deterministic prefix positions starting at offset, and
// reports whether the match continues deterministically (so the caller can
// keep accumulating through a Concat), plus how many positions were
// consumed.
func walkPrefix(s symbol.Symbol, offset int, out map[string]int) (consumed int, deterministic bool) {
	switch s.Kind() {
	case symbol.KindNonterminal:
		if _, exists := out[s.Name()]; !exists {
			out[s.Name()] = offset
		}
		return 1, true
	case symbol.KindTerminal, symbol.KindRange:
		return 1, true
	case symbol.KindGroup:
		return walkPrefix(s.Children()[0], offset, out)
	case symbol.KindConcat:
		total := 0
		for _, c := range s.Children() {
			n, det := walkPrefix(c, offset+total, out)
			total += n
			if !det {
				return total, false
			}
		}
		return total, true
	case symbol.KindRepeatExact, symbol.KindRepeatAtLeast, symbol.KindRepeatRange:
		if m, _ := s.RepeatBounds(); m >= 1 {
			walkPrefix(s.Children()[0], offset, out)
			return 1, false
		}
		return 0, false
	default:
		// Alter, Optional, Repeat, Except, Comment, SpecialSeq, End: no
		// deterministic single position exists beyond this point.
		return 0, false
	}
}

// postfixPositions is the mirror of prefixPositions, measuring distance from
// the end of body.
func postfixPositions(body symbol.Symbol) map[string]int {
	out := make(map[string]int)
	walkPostfix(body, 0, out)
	return out
}

func walkPostfix(s symbol.Symbol, offset int, out map[string]int) (consumed int, deterministic bool) {
	switch s.Kind() {
	case symbol.KindNonterminal:
		if _, exists := out[s.Name()]; !exists {
			out[s.Name()] = offset
		}
		return 1, true
	case symbol.KindTerminal, symbol.KindRange:
		return 1, true
	case symbol.KindGroup:
		return walkPostfix(s.Children()[0], offset, out)
	case symbol.KindConcat:
		children := s.Children()
		total := 0
		for i := len(children) - 1; i >= 0; i-- {
			n, det := walkPostfix(children[i], offset+total, out)
			total += n
			if !det {
				return total, false
			}
		}
		return total, true
	case symbol.KindRepeatExact, symbol.KindRepeatAtLeast, symbol.KindRepeatRange:
		if m, _ := s.RepeatBounds(); m >= 1 {
			walkPostfix(s.Children()[0], offset, out)
			return 1, false
		}
		return 0, false
	default:
		return 0, false
	}
}
