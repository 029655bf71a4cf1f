package analysis

import (
	"fmt"

	"github.com/shadowCow/grammarkit/symbol"
)

type firstInfo struct {
	set      map[string]bool
	nullable bool
}

func rangeKey(lo, hi byte) string {
	return fmt.Sprintf("[%d-%d]", lo, hi)
}

// buildFollowSets computes FIRST sets (with nullability) to fixpoint, then
// uses them to compute FOLLOW sets to a second fixpoint, following the
// per-operator propagation rules.
func (a *Analysis) buildFollowSets() {
	all := a.g.AllNonterminals()

	first := make(map[string]*firstInfo, len(all))
	for _, nt := range all {
		first[nt] = &firstInfo{set: make(map[string]bool)}
	}

	for changed := true; changed; {
		changed = false
		for _, d := range a.g.Defines {
			set, nullable := firstOfSymbol(first, d.Body)
			info := first[d.Name]
			if nullable && !info.nullable {
				info.nullable = true
				changed = true
			}
			for t := range set {
				if !info.set[t] {
					info.set[t] = true
					changed = true
				}
			}
		}
	}

	a.follow = make(map[string]map[string]bool, len(all))
	for _, nt := range all {
		a.follow[nt] = make(map[string]bool)
	}

	for changed := true; changed; {
		changed = false
		for _, d := range a.g.Defines {
			if addFollowsFromBody(d.Name, d.Body, first, a.follow) {
				changed = true
			}
		}
	}
}

// firstOfSymbol computes the FIRST set and nullability of s, given the
// fixpoint-in-progress FIRST sets of every nonterminal.
func firstOfSymbol(first map[string]*firstInfo, s symbol.Symbol) (map[string]bool, bool) {
	switch s.Kind() {
	case symbol.KindTerminal:
		return map[string]bool{s.Name(): true}, false
	case symbol.KindRange:
		lo, hi := s.Bounds()
		return map[string]bool{rangeKey(lo, hi): true}, false
	case symbol.KindNonterminal:
		info := first[s.Name()]
		out := map[string]bool{s.Name(): true}
		for t := range info.set {
			out[t] = true
		}
		return out, info.nullable
	case symbol.KindEnd, symbol.KindComment, symbol.KindSpecialSeq:
		return map[string]bool{}, true
	case symbol.KindConcat:
		return firstOfSequence(first, s.Children())
	case symbol.KindAlter:
		out := make(map[string]bool)
		nullable := false
		for _, c := range s.Children() {
			fs, null := firstOfSymbol(first, c)
			for t := range fs {
				out[t] = true
			}
			if null {
				nullable = true
			}
		}
		return out, nullable
	case symbol.KindOptional, symbol.KindRepeat:
		fs, _ := firstOfSymbol(first, s.Children()[0])
		return fs, true
	case symbol.KindGroup:
		return firstOfSymbol(first, s.Children()[0])
	case symbol.KindExcept:
		return firstOfSymbol(first, s.Children()[0])
	case symbol.KindRepeatExact, symbol.KindRepeatAtLeast:
		m, _ := s.RepeatBounds()
		if m == 0 {
			fs, _ := firstOfSymbol(first, s.Children()[0])
			return fs, true
		}
		return firstOfSymbol(first, s.Children()[0])
	case symbol.KindRepeatRange:
		m, _ := s.RepeatBounds()
		fs, null := firstOfSymbol(first, s.Children()[0])
		if m == 0 {
			return fs, true
		}
		return fs, null
	default:
		return map[string]bool{}, true
	}
}

// firstOfSequence computes FIRST/nullable of a sequence of symbols,
// chaining through nullable prefixes.
func firstOfSequence(first map[string]*firstInfo, seq []symbol.Symbol) (map[string]bool, bool) {
	out := make(map[string]bool)
	for _, s := range seq {
		fs, nullable := firstOfSymbol(first, s)
		for t := range fs {
			out[t] = true
		}
		if !nullable {
			return out, false
		}
	}
	return out, true
}

func addAll(dst, src map[string]bool) bool {
	changed := false
	for t := range src {
		if !dst[t] {
			dst[t] = true
			changed = true
		}
	}
	return changed
}

// collectNonterminals gathers every Nonterminal name appearing anywhere
// within s (a single rule body's worth of structure; it never descends
// through a Nonterminal's own definition).
func collectNonterminals(s symbol.Symbol) []string {
	var out []string
	seen := make(map[string]bool)
	s.Traverse(func(cur symbol.Symbol, _ int) {
		if cur.IsNonterminal() && !seen[cur.Name()] {
			seen[cur.Name()] = true
			out = append(out, cur.Name())
		}
	})
	return out
}

// addFollowsFromBody propagates FOLLOW-set entries for every nonterminal
// occurrence within body, where leftSide is the rule body belongs to. It
// implements the per-kind rules from §4.4: Concat propagates FIRST of what
// structurally follows each element (plus FOLLOW(leftSide) when that
// remainder is nullable); Alter processes each alternative independently;
// Optional/Repeat/RepeatRange(0,·) are nullable operators whose contents can
// be followed either by another iteration or by whatever follows the whole
// operator; RepeatExact/RepeatAtLeast(≥1)/RepeatRange(≥1,·) are not
// nullable and propagate only the continuation; Group is transparent;
// Except follows its first operand; Comment/SpecialSeq contribute nothing.
func addFollowsFromBody(leftSide string, body symbol.Symbol, first map[string]*firstInfo, follow map[string]map[string]bool) bool {
	changed := false

	switch body.Kind() {
	case symbol.KindTerminal, symbol.KindRange, symbol.KindEnd, symbol.KindComment, symbol.KindSpecialSeq:
		return false

	case symbol.KindNonterminal:
		if addAll(follow[body.Name()], follow[leftSide]) {
			changed = true
		}

	case symbol.KindConcat:
		children := body.Children()
		for i, elem := range children {
			following := children[i+1:]
			firstFollowing, nullableFollowing := firstOfSequence(first, following)
			for _, nt := range collectNonterminals(elem) {
				if addAll(follow[nt], firstFollowing) {
					changed = true
				}
				if nullableFollowing && addAll(follow[nt], follow[leftSide]) {
					changed = true
				}
			}
			if addFollowsFromBody(leftSide, elem, first, follow) {
				changed = true
			}
		}

	case symbol.KindAlter:
		for _, c := range body.Children() {
			if addFollowsFromBody(leftSide, c, first, follow) {
				changed = true
			}
		}

	case symbol.KindOptional:
		child := body.Children()[0]
		for _, nt := range collectNonterminals(child) {
			if addAll(follow[nt], follow[leftSide]) {
				changed = true
			}
		}
		if addFollowsFromBody(leftSide, child, first, follow) {
			changed = true
		}

	case symbol.KindRepeat:
		child := body.Children()[0]
		firstChild, _ := firstOfSymbol(first, child)
		for _, nt := range collectNonterminals(child) {
			if addAll(follow[nt], follow[leftSide]) {
				changed = true
			}
			if addAll(follow[nt], firstChild) {
				changed = true
			}
		}
		if addFollowsFromBody(leftSide, child, first, follow) {
			changed = true
		}

	case symbol.KindRepeatExact, symbol.KindRepeatAtLeast:
		child := body.Children()[0]
		m, _ := body.RepeatBounds()
		if m == 0 {
			firstChild, _ := firstOfSymbol(first, child)
			for _, nt := range collectNonterminals(child) {
				if addAll(follow[nt], follow[leftSide]) {
					changed = true
				}
				if addAll(follow[nt], firstChild) {
					changed = true
				}
			}
		} else {
			for _, nt := range collectNonterminals(child) {
				if addAll(follow[nt], follow[leftSide]) {
					changed = true
				}
			}
		}
		if addFollowsFromBody(leftSide, child, first, follow) {
			changed = true
		}

	case symbol.KindRepeatRange:
		child := body.Children()[0]
		m, _ := body.RepeatBounds()
		if m == 0 {
			firstChild, _ := firstOfSymbol(first, child)
			for _, nt := range collectNonterminals(child) {
				if addAll(follow[nt], follow[leftSide]) {
					changed = true
				}
				if addAll(follow[nt], firstChild) {
					changed = true
				}
			}
		} else {
			for _, nt := range collectNonterminals(child) {
				if addAll(follow[nt], follow[leftSide]) {
					changed = true
				}
			}
		}
		if addFollowsFromBody(leftSide, child, first, follow) {
			changed = true
		}

	case symbol.KindGroup:
		if addFollowsFromBody(leftSide, body.Children()[0], first, follow) {
			changed = true
		}

	case symbol.KindExcept:
		if addFollowsFromBody(leftSide, body.Children()[0], first, follow) {
			changed = true
		}
	}

	return changed
}
