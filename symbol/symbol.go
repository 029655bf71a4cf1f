// Package symbol implements the grammar combinator algebra: terminals,
// nonterminals, byte ranges, and the EBNF-style operators that combine them
// into a grammar tree.
package symbol

import (
	"fmt"

	"github.com/shadowCow/grammarkit/bakery"
)

// Kind tags the variant a Symbol holds.
type Kind int

const (
	KindTerminal Kind = iota
	KindNonterminal
	KindRange

	KindConcat
	KindAlter
	KindOptional
	KindRepeat
	KindGroup
	KindExcept
	KindDefine
	KindRulesDef
	KindRepeatExact
	KindRepeatAtLeast
	KindRepeatRange
	KindComment
	KindSpecialSeq
	KindEnd
)

func (k Kind) String() string {
	switch k {
	case KindTerminal:
		return "Terminal"
	case KindNonterminal:
		return "Nonterminal"
	case KindRange:
		return "TerminalRange"
	case KindConcat:
		return "Concat"
	case KindAlter:
		return "Alter"
	case KindOptional:
		return "Optional"
	case KindRepeat:
		return "Repeat"
	case KindGroup:
		return "Group"
	case KindExcept:
		return "Except"
	case KindDefine:
		return "Define"
	case KindRulesDef:
		return "RulesDef"
	case KindRepeatExact:
		return "RepeatExact"
	case KindRepeatAtLeast:
		return "RepeatAtLeast"
	case KindRepeatRange:
		return "RepeatRange"
	case KindComment:
		return "Comment"
	case KindSpecialSeq:
		return "SpecialSeq"
	case KindEnd:
		return "End"
	default:
		return "?"
	}
}

// Symbol is the tagged-union grammar value. The zero value is not a valid
// Symbol; always construct one of the functions below.
type Symbol struct {
	kind Kind

	name string // Terminal literal / Nonterminal name

	lo, hi byte // KindRange bounds, inclusive

	m, n int // RepeatExact(n): n; RepeatAtLeast(n): n; RepeatRange(m,n): m,n

	children []Symbol

	// candidates carries a set of owning-nonterminal names for a Terminal or
	// TerminalRange produced by the tokenizer's duplicate-fragmentation pass
	// (see automaton/lexer). Empty for symbols built directly from the DSL.
	candidates []string
}

// Term constructs a Terminal matching the literal byte sequence name.
func Term(name string) Symbol {
	return Symbol{kind: KindTerminal, name: name}
}

// NonTerm constructs a Nonterminal reference.
func NonTerm(name string) Symbol {
	return Symbol{kind: KindNonterminal, name: name}
}

// Range constructs a TerminalRange matching any single byte in [lo, hi].
// Panics if lo > hi, mirroring the invariant in spec §3.
func Range(lo, hi byte) Symbol {
	if lo > hi {
		panic(fmt.Sprintf("symbol.Range: lo=%d > hi=%d", lo, hi))
	}
	return Symbol{kind: KindRange, lo: lo, hi: hi}
}

func op(kind Kind, children ...Symbol) Symbol {
	return Symbol{kind: kind, children: children}
}

// Concat matches each child in order.
func Concat(children ...Symbol) Symbol { return op(KindConcat, children...) }

// Alter matches the first child that succeeds (policy decided by the parser).
func Alter(children ...Symbol) Symbol { return op(KindAlter, children...) }

// Optional matches zero or one occurrence of s.
func Optional(s Symbol) Symbol { return op(KindOptional, s) }

// Repeat matches zero or more occurrences of s.
func Repeat(s Symbol) Symbol { return op(KindRepeat, s) }

// Group is transparent: it exists only to carry precedence through the
// pretty-printer and contributes no parsing semantics of its own.
func Group(s Symbol) Symbol { return op(KindGroup, s) }

// Except matches a provided b does not also match at the same position.
func Except(a, b Symbol) Symbol { return op(KindExcept, a, b) }

// Define binds a Nonterminal to a body, optionally terminated by an End
// marker. Panics unless nt is a Nonterminal and len(rest) is 0 or 1.
func Define(nt Symbol, body Symbol, rest ...Symbol) Symbol {
	if nt.kind != KindNonterminal {
		panic("symbol.Define: first child must be a Nonterminal")
	}
	if len(rest) > 1 {
		panic("symbol.Define: arity must be 2 or 3")
	}
	children := append([]Symbol{nt, body}, rest...)
	return op(KindDefine, children...)
}

// RulesDef is the grammar root: an ordered sequence of Define children.
func RulesDef(defines ...Symbol) Symbol {
	for _, d := range defines {
		if d.kind != KindDefine {
			panic("symbol.RulesDef: all children must be Define")
		}
	}
	return op(KindRulesDef, defines...)
}

// RepeatExact matches exactly n occurrences of s.
func RepeatExact(n int, s Symbol) Symbol {
	r := op(KindRepeatExact, s)
	r.n = n
	return r
}

// RepeatAtLeast matches n or more occurrences of s.
func RepeatAtLeast(n int, s Symbol) Symbol {
	r := op(KindRepeatAtLeast, s)
	r.n = n
	return r
}

// RepeatRange matches between m and n occurrences of s, inclusive. Panics if
// m > n.
func RepeatRange(m, n int, s Symbol) Symbol {
	if m > n {
		panic(fmt.Sprintf("symbol.RepeatRange: m=%d > n=%d", m, n))
	}
	r := op(KindRepeatRange, s)
	r.m, r.n = m, n
	return r
}

// Comment wraps a symbol that contributes no tokens to the tree and no
// terminals to FOLLOW/FIRST computation; purely documentation in the
// grammar.
func Comment(s Symbol) Symbol { return op(KindComment, s) }

// SpecialSeq wraps an implementation-defined escape hatch symbol; like
// Comment, it contributes nothing to FIRST/FOLLOW.
func SpecialSeq(s Symbol) Symbol { return op(KindSpecialSeq, s) }

// End is the explicit rule terminator some grammars use as the third child
// of a Define.
func End() Symbol { return Symbol{kind: KindEnd} }

// Kind returns the tag of s.
func (s Symbol) Kind() Kind { return s.kind }

// KindOf is the free-function form of Kind, for symmetry with the other
// predicates.
func KindOf(s Symbol) Kind { return s.kind }

// IsTerminal reports whether s is a Terminal.
func (s Symbol) IsTerminal() bool { return s.kind == KindTerminal }

// IsNonterminal reports whether s is a Nonterminal.
func (s Symbol) IsNonterminal() bool { return s.kind == KindNonterminal }

// IsRange reports whether s is a TerminalRange.
func (s Symbol) IsRange() bool { return s.kind == KindRange }

// IsOperator reports whether s is any Op kind (everything but Terminal,
// Nonterminal, TerminalRange).
func (s Symbol) IsOperator() bool {
	return !s.IsTerminal() && !s.IsNonterminal() && !s.IsRange()
}

// Name returns the literal (Terminal) or reference name (Nonterminal).
// Panics if s is neither.
func (s Symbol) Name() string {
	if s.kind != KindTerminal && s.kind != KindNonterminal {
		panic("symbol.Symbol.Name: not a Terminal or Nonterminal")
	}
	return s.name
}

// Bounds returns the inclusive [lo, hi] byte bounds of a TerminalRange.
// Panics if s is not a TerminalRange.
func (s Symbol) Bounds() (lo, hi byte) {
	if s.kind != KindRange {
		panic("symbol.Symbol.Bounds: not a TerminalRange")
	}
	return s.lo, s.hi
}

// Children returns the ordered operands of an Op symbol. Panics if s is not
// an operator.
func (s Symbol) Children() []Symbol {
	if !s.IsOperator() {
		panic("symbol.Symbol.Children: not an operator")
	}
	return s.children
}

// RepeatBounds returns the (m, n) bounds encoded on RepeatExact,
// RepeatAtLeast, and RepeatRange symbols. For RepeatExact and RepeatAtLeast,
// m == n == the single encoded count. Panics for any other kind.
func (s Symbol) RepeatBounds() (m, n int) {
	switch s.kind {
	case KindRepeatExact, KindRepeatAtLeast:
		return s.n, s.n
	case KindRepeatRange:
		return s.m, s.n
	default:
		panic("symbol.Symbol.RepeatBounds: not a repeat-count operator")
	}
}

// Candidates returns the candidate owning-nonterminal names attached to a
// fragmented Terminal/TerminalRange by the tokenizer's duplicate-resolution
// pass. Nil for symbols built directly via the DSL.
func (s Symbol) Candidates() []string { return s.candidates }

// WithCandidates returns a copy of s carrying the given candidate set. Only
// meaningful for Terminal and TerminalRange symbols; used internally by
// automaton/lexer when fragmenting overlapping terminals.
func (s Symbol) WithCandidates(candidates []string) Symbol {
	s.candidates = candidates
	return s
}

// Traverse walks s in pre-order, invoking visitor with each symbol and its
// depth from the root (0 for s itself).
func (s Symbol) Traverse(visitor func(Symbol, int)) {
	var walk func(Symbol, int)
	walk = func(cur Symbol, depth int) {
		visitor(cur, depth)
		if cur.IsOperator() {
			for _, c := range cur.children {
				walk(c, depth+1)
			}
		}
	}
	walk(s, 0)
}

// Flatten collapses a chain of single-child Concat/Alter wrappers of the
// same kind, Op(k, [Op(k, [x, ...])]), into one flat Op(k, [x, ...]). It
// stops as soon as a node's arity isn't 1 or its kind differs from s's.
// Used by the pretty-printer to avoid emitting redundant nesting.
func (s Symbol) Flatten() Symbol {
	if s.kind != KindConcat && s.kind != KindAlter {
		return s
	}
	children := s.children
	for len(children) == 1 && children[0].kind == s.kind {
		children = children[0].children
	}
	out := s
	out.children = children
	return out
}

var kindToBakery = map[Kind]bakery.Kind{
	KindTerminal:      bakery.KindTerminal,
	KindNonterminal:   bakery.KindNonterminal,
	KindRange:         bakery.KindRange,
	KindConcat:        bakery.KindConcat,
	KindAlter:         bakery.KindAlter,
	KindOptional:      bakery.KindOptional,
	KindRepeat:        bakery.KindRepeat,
	KindGroup:         bakery.KindGroup,
	KindExcept:        bakery.KindExcept,
	KindDefine:        bakery.KindDefine,
	KindRulesDef:      bakery.KindRulesDef,
	KindRepeatExact:   bakery.KindRepeatExact,
	KindRepeatAtLeast: bakery.KindRepeatAtLeast,
	KindRepeatRange:   bakery.KindRepeatRange,
	KindComment:       bakery.KindComment,
	KindSpecialSeq:    bakery.KindSpecialSeq,
	KindEnd:           bakery.KindEnd,
}

// bakeChild renders child, wrapping it in a BakeGroup call if its operator
// binds looser than parentKind.
func bakeChild(child Symbol, parentKind Kind, p bakery.Printer) string {
	rendered := child.Bake(p)
	if !child.IsOperator() {
		return rendered
	}
	childPrec := p.Precedence(kindToBakery[child.kind])
	parentPrec := p.Precedence(kindToBakery[parentKind])
	if childPrec > parentPrec {
		return p.BakeGroup(rendered)
	}
	return rendered
}

// Bake renders s through p, one Bake* call per operator kind, recursively
// baking children first and inserting BakeGroup wrapping wherever a child's
// precedence is looser than its parent's.
func (s Symbol) Bake(p bakery.Printer) string {
	switch s.kind {
	case KindTerminal:
		return p.BakeTerminal(s.name)
	case KindNonterminal:
		return p.BakeNonterminal(s.name)
	case KindEnd:
		return p.BakeEnd()
	case KindConcat:
		return p.BakeConcat(bakeChildren(s, p))
	case KindAlter:
		return p.BakeAlter(bakeChildren(s, p))
	case KindOptional:
		return p.BakeOptional(bakeChild(s.children[0], s.kind, p))
	case KindRepeat:
		return p.BakeRepeat(bakeChild(s.children[0], s.kind, p))
	case KindGroup:
		return p.BakeGroup(bakeChild(s.children[0], s.kind, p))
	case KindExcept:
		return p.BakeExcept(bakeChild(s.children[0], s.kind, p), bakeChild(s.children[1], s.kind, p))
	case KindComment:
		return p.BakeComment(bakeChild(s.children[0], s.kind, p))
	case KindSpecialSeq:
		return p.BakeSpecialSeq(bakeChild(s.children[0], s.kind, p))
	case KindRulesDef:
		return p.BakeRulesDef(bakeChildren(s, p))
	case KindRepeatExact:
		return p.BakeRepeatExact(s.n, bakeChild(s.children[0], s.kind, p))
	case KindRepeatAtLeast:
		return p.BakeRepeatGE(s.n, bakeChild(s.children[0], s.kind, p))
	case KindRepeatRange:
		return p.BakeRepeatRange(s.m, s.n, bakeChild(s.children[0], s.kind, p))
	case KindDefine:
		// Define has no dedicated Bake* hook of its own; it renders as its
		// body, since RulesDef is responsible for joining defines together.
		return bakeChild(s.children[1], s.kind, p)
	default:
		panic(fmt.Sprintf("symbol.Symbol.Bake: unhandled kind %v", s.kind))
	}
}

func bakeChildren(s Symbol, p bakery.Printer) []string {
	out := make([]string, len(s.children))
	for i, c := range s.children {
		out[i] = bakeChild(c, s.kind, p)
	}
	return out
}

// RangesIntersect reports whether a and b overlap. Both must be either a
// TerminalRange or a Terminal; a Terminal intersects a TerminalRange iff any
// byte of its literal lies within the range, and a Terminal intersects
// another Terminal iff their literals are byte-for-byte equal.
func RangesIntersect(a, b Symbol) bool {
	if a.kind == KindRange && b.kind == KindRange {
		return a.lo <= b.hi && b.lo <= a.hi
	}
	if a.kind == KindRange && b.kind == KindTerminal {
		return literalIntersectsRange(b.name, a.lo, a.hi)
	}
	if a.kind == KindTerminal && b.kind == KindRange {
		return literalIntersectsRange(a.name, b.lo, b.hi)
	}
	if a.kind == KindTerminal && b.kind == KindTerminal {
		return a.name == b.name
	}
	panic("symbol.RangesIntersect: both arguments must be Terminal or TerminalRange")
}

func literalIntersectsRange(literal string, lo, hi byte) bool {
	for i := 0; i < len(literal); i++ {
		b := literal[i]
		if b >= lo && b <= hi {
			return true
		}
	}
	return false
}

// FragmentRanges splits two overlapping TerminalRange symbols into up to
// three disjoint pieces covering their union, per the duplicate-handling
// fragmentation rule: [lo(a), min-1], [max(lo(a),lo(b)), min(hi(a),hi(b))],
// [max+1, hi(b-or-a)]. Each returned fragment carries the union of a's and
// b's candidate sets for the overlapping middle piece, and the originating
// symbol's own candidates for the two non-overlapping remainders. Panics if
// a and b do not overlap or either is not a TerminalRange.
func FragmentRanges(a, b Symbol) []Symbol {
	if a.kind != KindRange || b.kind != KindRange {
		panic("symbol.FragmentRanges: both arguments must be TerminalRange")
	}
	if !RangesIntersect(a, b) {
		panic("symbol.FragmentRanges: ranges do not intersect")
	}

	lo := a.lo
	if b.lo < lo {
		lo = b.lo
	}
	hi := a.hi
	if b.hi > hi {
		hi = b.hi
	}
	overlapLo := a.lo
	if b.lo > overlapLo {
		overlapLo = b.lo
	}
	overlapHi := a.hi
	if b.hi < overlapHi {
		overlapHi = b.hi
	}

	var out []Symbol
	if lo < overlapLo {
		owner := a
		if b.lo == lo {
			owner = b
		}
		out = append(out, Range(lo, overlapLo-1).WithCandidates(owner.candidates))
	}
	out = append(out, Range(overlapLo, overlapHi).WithCandidates(unionCandidates(a.candidates, b.candidates)))
	if overlapHi < hi {
		owner := a
		if b.hi == hi {
			owner = b
		}
		out = append(out, Range(overlapHi+1, hi).WithCandidates(owner.candidates))
	}
	return out
}

func unionCandidates(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, c := range a {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, c := range b {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// Equal reports deep structural equality between two symbols, including
// operator-specific counts and candidate sets.
func Equal(a, b Symbol) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindTerminal, KindNonterminal:
		return a.name == b.name
	case KindRange:
		return a.lo == b.lo && a.hi == b.hi
	case KindRepeatExact, KindRepeatAtLeast:
		if a.n != b.n {
			return false
		}
	case KindRepeatRange:
		if a.m != b.m || a.n != b.n {
			return false
		}
	}
	if len(a.children) != len(b.children) {
		return false
	}
	for i := range a.children {
		if !Equal(a.children[i], b.children[i]) {
			return false
		}
	}
	return true
}
