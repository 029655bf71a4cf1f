// Package context implements the runtime context manager (C7): it tracks
// which rules the shift-reduce parser is currently "inside", using the
// prefix/postfix position tables from package analysis to recognize when a
// newly reduced nonterminal occupies a deterministic position within some
// other rule, and exposes CheckCtx as the gate used by the shift-reduce
// parser's contextual-reducibility resolution stage.
package context

import (
	"sort"

	"github.com/shadowCow/grammarkit/analysis"
	"github.com/shadowCow/grammarkit/diag"
)

// candidate is an open, not-yet-committed prefix or postfix match: the
// stack position the owning rule would have to have started at (anchor),
// and the position within that rule the triggering symbol occupies.
type candidate struct {
	anchor int
	pos    int
}

// commitment is a resolved, single-candidate prefix or postfix match.
type commitment struct {
	rule   string
	anchor int
	pos    int
}

// Manager is the per-parse context tracker. It is not safe for concurrent
// use; each parser instance owns one exclusively.
type Manager struct {
	a       *analysis.Analysis
	printer diag.Printer

	context map[string]int

	prefixTodo  map[string]*candidate
	postfixTodo map[string]*candidate

	prefix  *commitment
	postfix *commitment
}

// New creates a Manager over the given analysis, reporting internal
// invariant violations through printer.
func New(a *analysis.Analysis, printer diag.Printer) *Manager {
	m := &Manager{a: a, printer: printer}
	m.Reset()
	return m
}

// Reset clears all per-parse state, as done at the start of each parse
// invocation (mirrors ContextManager::reset_ctx in the source this design
// is grounded on).
func (m *Manager) Reset() {
	m.context = make(map[string]int)
	m.prefixTodo = make(map[string]*candidate)
	m.postfixTodo = make(map[string]*candidate)
	m.prefix = nil
	m.postfix = nil
}

// Context returns the current "inside rule r" counter.
func (m *Manager) Context(rule string) int {
	return m.context[rule]
}

// OnShift is called whenever symbolName (a terminal candidate type or a
// freshly reduced nonterminal name) lands at stack position stackPos. It
// enumerates every rule referencing symbolName at a deterministic prefix or
// postfix position, opens or advances the corresponding candidate, and
// commits the unique survivor once exactly one remains across both tables.
func (m *Manager) OnShift(symbolName string, stackPos int) {
	for _, rule := range m.a.RR(symbolName) {
		if p, ok := m.a.PrefixPos(rule, symbolName); ok {
			m.updatePrefixCandidate(rule, p, stackPos)
		}
		if p, ok := m.a.PostfixPos(rule, symbolName); ok {
			m.updatePostfixCandidate(rule, p, stackPos)
		}
	}
	m.tryCommit(stackPos)
}

func (m *Manager) updatePrefixCandidate(rule string, p, stackPos int) {
	anchor := stackPos - p
	if m.prefix != nil && m.prefix.rule == rule {
		if m.prefix.anchor != anchor {
			m.printer.GuruMeditation(
				"prefix anchor mismatch for committed rule "+rule,
				diag.SourceLocation{Rule: rule, Offset: stackPos},
			)
		}
		return
	}
	if existing, ok := m.prefixTodo[rule]; ok {
		if existing.anchor != anchor {
			delete(m.prefixTodo, rule)
			return
		}
		existing.pos = p
		return
	}
	m.prefixTodo[rule] = &candidate{anchor: anchor, pos: p}
}

func (m *Manager) updatePostfixCandidate(rule string, p, stackPos int) {
	anchor := stackPos - p
	if m.postfix != nil && m.postfix.rule == rule {
		if m.postfix.anchor != anchor {
			m.printer.GuruMeditation(
				"postfix anchor mismatch for committed rule "+rule,
				diag.SourceLocation{Rule: rule, Offset: stackPos},
			)
		}
		return
	}
	if existing, ok := m.postfixTodo[rule]; ok {
		if existing.anchor != anchor {
			delete(m.postfixTodo, rule)
			return
		}
		existing.pos = p
		return
	}
	m.postfixTodo[rule] = &candidate{anchor: anchor, pos: p}
}

// tryCommit promotes the sole surviving PrefixTodo candidate to a committed
// Prefix match, and independently the sole surviving PostfixTodo candidate
// to a committed Postfix match. Prefix and Postfix commit independently of
// one another: they answer different questions ("what rule does this
// position necessarily start" vs "necessarily end") and a single occurrence
// of y routinely resolves both at once.
func (m *Manager) tryCommit(stackPos int) {
	if m.prefix == nil && len(m.prefixTodo) == 1 {
		for rule, c := range m.prefixTodo {
			m.prefix = &commitment{rule: rule, anchor: c.anchor, pos: c.pos}
			m.context[rule]++
			delete(m.prefixTodo, rule)
		}
	}
	if m.postfix == nil && len(m.postfixTodo) == 1 {
		for rule, c := range m.postfixTodo {
			m.postfix = &commitment{rule: rule, anchor: c.anchor, pos: c.pos}
			m.context[rule]++
			delete(m.postfixTodo, rule)
		}
	}
}

// OnReduce is called when nonterminal y is successfully reduced, with the
// stack size immediately after the reduction lands. If a postfix match is
// committed to y and its recorded anchor+position agrees with the new
// stack size, the rule is no longer "inside" and the commitment clears;
// any other mismatch is reported as an internal invariant.
func (m *Manager) OnReduce(y string, stackSizeAfter int) {
	if m.postfix != nil && m.postfix.rule == y {
		if m.postfix.anchor+m.postfix.pos != stackSizeAfter {
			m.printer.GuruMeditation(
				"postfix commitment inconsistent with reduce of "+y,
				diag.SourceLocation{Rule: y, Offset: stackSizeAfter},
			)
		}
		m.context[y]--
		m.postfix = nil
	}
	if m.prefix != nil && m.prefix.rule == y {
		m.context[y]--
		m.prefix = nil
	}
}

// CheckCtx reports whether reducing to nonterminal y is currently
// admissible: false iff any rule in D(y) (the disjoint-rule table) has a
// nonzero context counter, meaning the parser is provably inside a rule
// that could never transitively contain y.
func (m *Manager) CheckCtx(y string) bool {
	for _, rule := range m.a.D(y) {
		if m.context[rule] > 0 {
			return false
		}
	}
	return true
}

// ActiveRules returns the names of every rule with a nonzero context
// counter, sorted, for diagnostics.
func (m *Manager) ActiveRules() []string {
	var out []string
	for rule, n := range m.context {
		if n > 0 {
			out = append(out, rule)
		}
	}
	sort.Strings(out)
	return out
}
