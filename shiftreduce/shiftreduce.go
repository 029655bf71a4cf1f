// Package shiftreduce implements the bottom-up shift-reduce parser (C6): a
// stack machine that shifts input tokens and greedily reduces stack
// suffixes matching a rule's body, resolving ambiguity between competing
// reductions through lookahead, contextual reducibility, and finally
// longest-match.
package shiftreduce

import (
	"github.com/shadowCow/grammarkit/analysis"
	"github.com/shadowCow/grammarkit/context"
	"github.com/shadowCow/grammarkit/diag"
	"github.com/shadowCow/grammarkit/grammar"
	"github.com/shadowCow/grammarkit/lexer"
	"github.com/shadowCow/grammarkit/parsetree"
	"github.com/shadowCow/grammarkit/symbol"
)

// State names the reducer's per-iteration state machine, reported through
// trace output only — it carries no parsing logic of its own.
type State int

const (
	ReadyToShift State = iota
	Shifted
	ReducingLoop
	ReducedOnce
	NoReduce
	Accept
)

func (s State) String() string {
	switch s {
	case ReadyToShift:
		return "ReadyToShift"
	case Shifted:
		return "Shifted"
	case ReducingLoop:
		return "ReducingLoop"
	case ReducedOnce:
		return "ReducedOnce"
	case NoReduce:
		return "NoReduce"
	case Accept:
		return "Accept"
	default:
		return "Unknown"
	}
}

// Options toggles the ambiguity-resolution stages and diagnostics.
type Options struct {
	Lookahead    bool
	HeuristicCtx bool
	PrettyPrint  bool
}

// Parser is a reusable shift-reduce engine over a single grammar and its
// precomputed analysis.
type Parser struct {
	g     *grammar.Grammar
	a     *analysis.Analysis
	opts  Options
	trace diag.Printer
}

// New creates a Parser over g/a with the given resolution stages enabled.
func New(g *grammar.Grammar, a *analysis.Analysis, opts Options) *Parser {
	return &Parser{g: g, a: a, opts: opts, trace: diag.NopPrinter{}}
}

// WithTrace returns a copy of p that reports step-by-step progress to tr.
func (p *Parser) WithTrace(tr diag.Printer) *Parser {
	cp := *p
	cp.trace = tr
	return &cp
}

type stackEntry struct {
	node  *parsetree.Node
	token *lexer.Token // nil for an entry produced by a reduction
}

type candidate struct {
	rule   string
	length int
}

// Parse shifts and reduces tokens until the stack holds exactly one entry
// named start and the input is exhausted, or reports the failure.
func (p *Parser) Parse(start string, tokens []lexer.Token) (*parsetree.Node, error) {
	ctxMgr := context.New(p.a, p.trace)
	var stack []stackEntry
	pos := 0

	for {
		p.trace.Trace("%s: stack depth %d, pos %d", ReducingLoop, len(stack), pos)
		for {
			cands := p.findCandidates(stack, pos, tokens, ctxMgr)
			if len(cands) == 0 {
				p.trace.Trace("%s", NoReduce)
				break
			}
			if len(cands) > 1 {
				names := make([]string, len(cands))
				for i, c := range cands {
					names[i] = c.rule
				}
				return nil, &diag.AmbiguityError{Candidates: names}
			}

			c := cands[0]
			startIdx := len(stack) - c.length
			children := make([]*parsetree.Node, c.length)
			for i := 0; i < c.length; i++ {
				children[i] = stack[startIdx+i].node
			}
			node := parsetree.NewNonterminal(c.rule)
			node.Children = children

			stack = append(stack[:startIdx], stackEntry{node: node})
			// The freshly reduced nonterminal may itself be a deterministic
			// prefix/postfix occurrence within some other, still-open rule
			// (OnShift), independently of closing out its own commitment,
			// if any, now that it has fully reduced (OnReduce).
			ctxMgr.OnShift(c.rule, len(stack)-1)
			ctxMgr.OnReduce(c.rule, len(stack))
			p.trace.Trace("%s: reduced %s (%d symbols)", ReducedOnce, c.rule, c.length)
		}

		if pos >= len(tokens) {
			if len(stack) == 1 && stack[0].token == nil && stack[0].node.Name == start {
				p.trace.Trace("%s", Accept)
				return stack[0].node, nil
			}
			return nil, &diag.ParserError{
				Rule:   start,
				Offset: pos,
				Detail: "stuck: no reduction applies and input is exhausted",
			}
		}

		tok := tokens[pos]
		leaf := parsetree.NewTerminal(string(tok.Value), tok.Value)
		stack = append(stack, stackEntry{node: leaf, token: &tok})
		for _, c := range tok.Candidates {
			ctxMgr.OnShift(c, len(stack)-1)
		}
		p.trace.Trace("%s: shifted %q", Shifted, tok.Value)
		pos++
	}
}

// findCandidates returns every nonterminal whose body matches some suffix
// of stack exactly up to the top, after applying whichever resolution
// stages are enabled in order until at most one survives.
func (p *Parser) findCandidates(stack []stackEntry, pos int, tokens []lexer.Token, ctxMgr *context.Manager) []candidate {
	var all []candidate
	for _, nt := range p.g.AllNonterminals() {
		body, ok := p.g.NameToBody(nt)
		if !ok {
			continue
		}
		best := 0
		for start := 0; start < len(stack); start++ {
			n, ok := matchLen(body, stack, start, nt)
			if ok && start+n == len(stack) && n > best {
				best = n
			}
		}
		if best > 0 {
			all = append(all, candidate{rule: nt, length: best})
		}
	}

	if len(all) <= 1 {
		return all
	}

	if p.opts.Lookahead {
		if filtered := p.filterLookahead(all, pos, tokens); len(filtered) > 0 {
			all = filtered
		}
	}
	if len(all) <= 1 {
		return all
	}

	if p.opts.HeuristicCtx {
		if filtered := p.filterCtx(all, ctxMgr); len(filtered) > 0 {
			all = filtered
		}
	}
	if len(all) <= 1 {
		return all
	}

	return p.filterLongest(all)
}

func (p *Parser) filterLookahead(cands []candidate, pos int, tokens []lexer.Token) []candidate {
	if pos >= len(tokens) {
		return cands
	}
	tok := tokens[pos]
	var kept []candidate
	for _, c := range cands {
		follow := p.a.Follow(c.rule)
		if containsString(follow, string(tok.Value)) || containsAny(follow, tok.Candidates) {
			kept = append(kept, c)
		}
	}
	return kept
}

func (p *Parser) filterCtx(cands []candidate, ctxMgr *context.Manager) []candidate {
	var kept []candidate
	for _, c := range cands {
		if ctxMgr.CheckCtx(c.rule) {
			kept = append(kept, c)
		}
	}
	return kept
}

func (p *Parser) filterLongest(cands []candidate) []candidate {
	max := 0
	for _, c := range cands {
		if c.length > max {
			max = c.length
		}
	}
	var kept []candidate
	for _, c := range cands {
		if c.length == max {
			kept = append(kept, c)
		}
	}
	return kept
}

// matchLen performs a non-backtracking structural match of s against
// entries starting at idx, returning how many entries it consumed. Unlike
// the LL(1) interpreter, this never clones or speculates: Alter picks the
// first arm that matches and repeats are greedy, since ambiguity between
// whole-rule candidates is resolved one level up, not within a single
// body's own structure.
func matchLen(s symbol.Symbol, entries []stackEntry, idx int, rule string) (int, bool) {
	switch s.Kind() {
	case symbol.KindTerminal:
		return matchTerminal(s, entries, idx, rule)
	case symbol.KindRange:
		return matchRange(s, entries, idx, rule)
	case symbol.KindNonterminal:
		return matchNonterminal(s, entries, idx)
	case symbol.KindConcat:
		total := 0
		for _, c := range s.Children() {
			n, ok := matchLen(c, entries, idx+total, rule)
			if !ok {
				return 0, false
			}
			total += n
		}
		return total, true
	case symbol.KindAlter:
		for _, alt := range s.Children() {
			if n, ok := matchLen(alt, entries, idx, rule); ok {
				return n, true
			}
		}
		return 0, false
	case symbol.KindOptional:
		if n, ok := matchLen(s.Children()[0], entries, idx, rule); ok {
			return n, true
		}
		return 0, true
	case symbol.KindRepeat:
		total := 0
		for {
			n, ok := matchLen(s.Children()[0], entries, idx+total, rule)
			if !ok || n == 0 {
				break
			}
			total += n
		}
		return total, true
	case symbol.KindGroup:
		return matchLen(s.Children()[0], entries, idx, rule)
	case symbol.KindExcept:
		children := s.Children()
		n, ok := matchLen(children[0], entries, idx, rule)
		if !ok {
			return 0, false
		}
		if _, bok := matchLen(children[1], entries, idx, rule); bok {
			return 0, false
		}
		return n, true
	case symbol.KindRepeatExact:
		n, _ := s.RepeatBounds()
		return matchExact(s.Children()[0], n, entries, idx, rule)
	case symbol.KindRepeatAtLeast:
		n, _ := s.RepeatBounds()
		total, ok := matchExact(s.Children()[0], n, entries, idx, rule)
		if !ok {
			return 0, false
		}
		more, _ := matchLen(symbol.Repeat(s.Children()[0]), entries, idx+total, rule)
		return total + more, true
	case symbol.KindRepeatRange:
		m, n := s.RepeatBounds()
		total, ok := matchExact(s.Children()[0], m, entries, idx, rule)
		if !ok {
			return 0, false
		}
		for i := m; i < n; i++ {
			more, ok := matchLen(s.Children()[0], entries, idx+total, rule)
			if !ok || more == 0 {
				break
			}
			total += more
		}
		return total, true
	case symbol.KindComment, symbol.KindSpecialSeq:
		return 0, true
	case symbol.KindEnd:
		if idx == len(entries) {
			return 0, true
		}
		return 0, false
	default:
		return 0, false
	}
}

func matchExact(s symbol.Symbol, n int, entries []stackEntry, idx int, rule string) (int, bool) {
	total := 0
	for i := 0; i < n; i++ {
		m, ok := matchLen(s, entries, idx+total, rule)
		if !ok {
			return 0, false
		}
		total += m
	}
	return total, true
}

func matchTerminal(s symbol.Symbol, entries []stackEntry, idx int, rule string) (int, bool) {
	if idx >= len(entries) {
		return 0, false
	}
	e := entries[idx]
	if e.token == nil {
		return 0, false
	}
	literal := s.Name()
	valueMatches := string(e.token.Value) == literal
	candidateMatches := len(e.token.Candidates) == 0 || containsString(e.token.Candidates, rule)
	if valueMatches && candidateMatches {
		return 1, true
	}
	return 0, false
}

func matchRange(s symbol.Symbol, entries []stackEntry, idx int, rule string) (int, bool) {
	if idx >= len(entries) {
		return 0, false
	}
	e := entries[idx]
	if e.token == nil {
		return 0, false
	}
	lo, hi := s.Bounds()
	inRange := len(e.token.Value) == 1 && e.token.Value[0] >= lo && e.token.Value[0] <= hi
	candidateMatches := len(e.token.Candidates) == 0 || containsString(e.token.Candidates, rule)
	if inRange && candidateMatches {
		return 1, true
	}
	return 0, false
}

func matchNonterminal(s symbol.Symbol, entries []stackEntry, idx int) (int, bool) {
	if idx >= len(entries) {
		return 0, false
	}
	e := entries[idx]
	if e.token != nil {
		return 0, false
	}
	if e.node.Name == s.Name() {
		return 1, true
	}
	return 0, false
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsAny(haystack, needles []string) bool {
	for _, n := range needles {
		if containsString(haystack, n) {
			return true
		}
	}
	return false
}
