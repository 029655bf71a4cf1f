// Package ll1 implements the LL(1) recursive-descent parser (C5): a
// backtracking interpreter that walks the combinator grammar tree directly,
// cloning the in-progress parse tree and cursor at every point where more
// than one continuation is possible, rather than consulting a precomputed
// parse table.
package ll1

import (
	"strconv"

	"github.com/shadowCow/grammarkit/diag"
	"github.com/shadowCow/grammarkit/grammar"
	"github.com/shadowCow/grammarkit/lexer"
	"github.com/shadowCow/grammarkit/parsetree"
	"github.com/shadowCow/grammarkit/symbol"
)

// Policy controls how Alter resolves among alternatives that all succeed.
type Policy int

const (
	// PickFirst adopts the first alternative that succeeds, in declaration
	// order, without trying the rest.
	PickFirst Policy = iota
	// PickLongest tries every alternative and adopts the one that consumes
	// the most input tokens, breaking ties in declaration order.
	PickLongest
)

// Parser is a reusable LL(1) interpreter over a single grammar. It holds no
// per-parse state, so one Parser may run many parses (sequentially).
type Parser struct {
	g      *grammar.Grammar
	policy Policy
	trace  diag.Printer
}

// New creates a Parser over g, resolving Alter ambiguity with policy.
func New(g *grammar.Grammar, policy Policy) *Parser {
	return &Parser{g: g, policy: policy, trace: diag.NopPrinter{}}
}

// WithTrace returns a copy of p that reports step-by-step progress to tr.
func (p *Parser) WithTrace(tr diag.Printer) *Parser {
	cp := *p
	cp.trace = tr
	return &cp
}

// Parse attempts to match the full token stream against the nonterminal
// named start, returning the resulting parse tree on success. The entire
// token stream must be consumed for the parse to succeed.
func (p *Parser) Parse(start string, tokens []lexer.Token) (*parsetree.Node, bool) {
	body, ok := p.g.NameToBody(start)
	if !ok {
		p.trace.GuruMeditation("no such nonterminal: "+start, diag.SourceLocation{Rule: start})
		return nil, false
	}

	root := parsetree.NewNonterminal(start)
	cursor, ok := p.parse(body, root, 0, tokens, start)
	if !ok {
		return nil, false
	}
	if cursor != len(tokens) {
		p.trace.Trace("parse of %q stopped at token %d of %d", start, cursor, len(tokens))
		return nil, false
	}
	return root, true
}

// parse dispatches on s's kind, mutating node in place on success and
// returning the cursor position after the match. rule is the name of the
// nonterminal currently being descended into, used to resolve Terminal
// candidate-set membership in advanced-lexer mode.
func (p *Parser) parse(s symbol.Symbol, node *parsetree.Node, cursor int, tokens []lexer.Token, rule string) (int, bool) {
	switch s.Kind() {
	case symbol.KindTerminal:
		return p.parseTerminal(s, node, cursor, tokens, rule)
	case symbol.KindRange:
		return p.parseRange(s, node, cursor, tokens, rule)
	case symbol.KindNonterminal:
		return p.parseNonterminal(s, node, cursor, tokens)
	case symbol.KindConcat:
		return p.parseConcat(s, node, cursor, tokens, rule)
	case symbol.KindAlter:
		return p.parseAlter(s, node, cursor, tokens, rule)
	case symbol.KindOptional:
		return p.parseOptional(s, node, cursor, tokens, rule)
	case symbol.KindRepeat:
		return p.parseRepeat(s, node, cursor, tokens, rule)
	case symbol.KindGroup:
		return p.parse(s.Children()[0], node, cursor, tokens, rule)
	case symbol.KindExcept:
		return p.parseExcept(s, node, cursor, tokens, rule)
	case symbol.KindRepeatExact:
		n, _ := s.RepeatBounds()
		return p.parseRepeatExact(s.Children()[0], n, node, cursor, tokens, rule)
	case symbol.KindRepeatAtLeast:
		n, _ := s.RepeatBounds()
		return p.parseRepeatAtLeast(s.Children()[0], n, node, cursor, tokens, rule)
	case symbol.KindRepeatRange:
		m, n := s.RepeatBounds()
		return p.parseRepeatRange(s.Children()[0], m, n, node, cursor, tokens, rule)
	case symbol.KindComment, symbol.KindSpecialSeq:
		// Non-parsing annotations: contribute nothing, always succeed.
		return cursor, true
	case symbol.KindEnd:
		if cursor == len(tokens) {
			return cursor, true
		}
		return cursor, false
	default:
		p.trace.GuruMeditation("unhandled symbol kind in parser", diag.SourceLocation{Rule: rule, Offset: cursor})
		return cursor, false
	}
}

func (p *Parser) parseTerminal(s symbol.Symbol, node *parsetree.Node, cursor int, tokens []lexer.Token, rule string) (int, bool) {
	if cursor >= len(tokens) {
		return cursor, false
	}
	tok := tokens[cursor]
	literal := s.Name()
	valueMatches := string(tok.Value) == literal
	candidateMatches := len(tok.Candidates) == 0 || containsString(tok.Candidates, rule)
	if valueMatches && candidateMatches {
		node.AddChild(parsetree.NewTerminal(literal, tok.Value))
		return cursor + 1, true
	}
	return cursor, false
}

func (p *Parser) parseRange(s symbol.Symbol, node *parsetree.Node, cursor int, tokens []lexer.Token, rule string) (int, bool) {
	if cursor >= len(tokens) {
		return cursor, false
	}
	tok := tokens[cursor]
	lo, hi := s.Bounds()
	inRange := len(tok.Value) == 1 && tok.Value[0] >= lo && tok.Value[0] <= hi
	candidateMatches := len(tok.Candidates) == 0 || containsString(tok.Candidates, rule)
	if inRange && candidateMatches {
		node.AddChild(parsetree.NewTerminal(rangeName(lo, hi), tok.Value))
		return cursor + 1, true
	}
	return cursor, false
}

func (p *Parser) parseNonterminal(s symbol.Symbol, node *parsetree.Node, cursor int, tokens []lexer.Token) (int, bool) {
	name := s.Name()
	body, ok := p.g.NameToBody(name)
	if !ok {
		p.trace.GuruMeditation("no such nonterminal: "+name, diag.SourceLocation{Rule: name, Offset: cursor})
		return cursor, false
	}
	child := parsetree.NewNonterminal(name)
	newCursor, ok := p.parse(body, child, cursor, tokens, name)
	if !ok {
		return cursor, false
	}
	node.AddChild(child)
	return newCursor, true
}

func (p *Parser) parseConcat(s symbol.Symbol, node *parsetree.Node, cursor int, tokens []lexer.Token, rule string) (int, bool) {
	for _, c := range s.Children() {
		next, ok := p.parse(c, node, cursor, tokens, rule)
		if !ok {
			return cursor, false
		}
		cursor = next
	}
	return cursor, true
}

func (p *Parser) parseAlter(s symbol.Symbol, node *parsetree.Node, cursor int, tokens []lexer.Token, rule string) (int, bool) {
	var bestClone *parsetree.Node
	bestCursor := -1

	for _, alt := range s.Children() {
		clone := node.Clone()
		next, ok := p.parse(alt, clone, cursor, tokens, rule)
		if !ok {
			continue
		}
		if p.policy == PickFirst {
			adopt(node, clone)
			return next, true
		}
		if next > bestCursor {
			bestCursor = next
			bestClone = clone
		}
	}

	if bestClone == nil {
		return cursor, false
	}
	adopt(node, bestClone)
	return bestCursor, true
}

func (p *Parser) parseOptional(s symbol.Symbol, node *parsetree.Node, cursor int, tokens []lexer.Token, rule string) (int, bool) {
	clone := node.Clone()
	next, ok := p.parse(s.Children()[0], clone, cursor, tokens, rule)
	if !ok {
		return cursor, true
	}
	adopt(node, clone)
	return next, true
}

func (p *Parser) parseRepeat(s symbol.Symbol, node *parsetree.Node, cursor int, tokens []lexer.Token, rule string) (int, bool) {
	child := s.Children()[0]
	for {
		clone := node.Clone()
		next, ok := p.parse(child, clone, cursor, tokens, rule)
		if !ok || next == cursor {
			break
		}
		adopt(node, clone)
		cursor = next
	}
	return cursor, true
}

func (p *Parser) parseExcept(s symbol.Symbol, node *parsetree.Node, cursor int, tokens []lexer.Token, rule string) (int, bool) {
	children := s.Children()
	a, b := children[0], children[1]

	aClone := node.Clone()
	aCursor, aOk := p.parse(a, aClone, cursor, tokens, rule)
	if !aOk {
		return cursor, false
	}

	bClone := node.Clone()
	_, bOk := p.parse(b, bClone, cursor, tokens, rule)
	if bOk {
		return cursor, false
	}

	adopt(node, aClone)
	return aCursor, true
}

func (p *Parser) parseRepeatExact(child symbol.Symbol, n int, node *parsetree.Node, cursor int, tokens []lexer.Token, rule string) (int, bool) {
	for i := 0; i < n; i++ {
		next, ok := p.parse(child, node, cursor, tokens, rule)
		if !ok {
			return cursor, false
		}
		cursor = next
	}
	return cursor, true
}

func (p *Parser) parseRepeatAtLeast(child symbol.Symbol, n int, node *parsetree.Node, cursor int, tokens []lexer.Token, rule string) (int, bool) {
	cursor, ok := p.parseRepeatExact(child, n, node, cursor, tokens, rule)
	if !ok {
		return cursor, false
	}
	return p.parseRepeat(symbol.Repeat(child), node, cursor, tokens, rule)
}

func (p *Parser) parseRepeatRange(child symbol.Symbol, m, n int, node *parsetree.Node, cursor int, tokens []lexer.Token, rule string) (int, bool) {
	cursor, ok := p.parseRepeatExact(child, m, node, cursor, tokens, rule)
	if !ok {
		return cursor, false
	}
	for i := m; i < n; i++ {
		clone := node.Clone()
		next, ok := p.parse(child, clone, cursor, tokens, rule)
		if !ok || next == cursor {
			break
		}
		adopt(node, clone)
		cursor = next
	}
	return cursor, true
}

// adopt replaces node's children with clone's, after clone has accumulated
// a successful match built on top of node's original children.
func adopt(node, clone *parsetree.Node) {
	node.Children = clone.Children
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func rangeName(lo, hi byte) string {
	return "[" + strconv.Itoa(int(lo)) + "-" + strconv.Itoa(int(hi)) + "]"
}
