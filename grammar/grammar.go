// Package grammar builds and validates the index over a symbol.RulesDef
// tree: the nonterminal-to-body map, terminal/nonterminal enumeration, and
// the terminal-to-nonterminal multimap that the tokenizer and analyses are
// built from.
package grammar

import (
	"fmt"

	"github.com/shadowCow/grammarkit/symbol"
)

// Define pairs a nonterminal name with its body, in source order.
type Define struct {
	Name string
	Body symbol.Symbol
}

// Grammar is the immutable index over a RulesDef tree. Once built it carries
// no mutable state and is safe to share across concurrently-running parser
// instances.
type Grammar struct {
	Root    symbol.Symbol
	Defines []Define

	nameToBody map[string]symbol.Symbol

	allTerminals    []string
	allNonterminals []string

	terminalToNonterminals map[string]map[string]bool
}

// NameToBody returns the body defined for nonterminal name, and whether it
// was found.
func (g *Grammar) NameToBody(name string) (symbol.Symbol, bool) {
	b, ok := g.nameToBody[name]
	return b, ok
}

// AllTerminals returns the deduplicated, declaration-ordered list of
// terminal literals referenced anywhere in the grammar.
func (g *Grammar) AllTerminals() []string {
	out := make([]string, len(g.allTerminals))
	copy(out, g.allTerminals)
	return out
}

// AllNonterminals returns the deduplicated, declaration-ordered list of
// nonterminal names defined in the grammar.
func (g *Grammar) AllNonterminals() []string {
	out := make([]string, len(g.allNonterminals))
	copy(out, g.allNonterminals)
	return out
}

// NonterminalsProducing returns the set of nonterminal names whose body
// contains the given terminal literal, in declaration order.
func (g *Grammar) NonterminalsProducing(terminal string) []string {
	set := g.terminalToNonterminals[terminal]
	if set == nil {
		return nil
	}
	out := make([]string, 0, len(set))
	for _, nt := range g.allNonterminals {
		if set[nt] {
			out = append(out, nt)
		}
	}
	return out
}

// BuildError reports a structural problem found while indexing a grammar:
// an undefined reference, a duplicate definition, or invalid nesting. It is
// fatal to the grammar — construction does not proceed past the first
// class of error found.
type BuildError struct {
	Kind   BuildErrorKind
	Detail string
}

// BuildErrorKind classifies a BuildError.
type BuildErrorKind int

const (
	ErrUndefinedNonterminal BuildErrorKind = iota
	ErrDuplicateDefinition
	ErrNotRulesDef
	ErrInvalidArity
)

func (e *BuildError) Error() string {
	return fmt.Sprintf("grammar: %s", e.Detail)
}

// Build indexes a RulesDef root into a Grammar. It fails if root is not a
// RulesDef, if any nonterminal is defined more than once, or if any
// Nonterminal reference in any body names an undefined nonterminal.
func Build(root symbol.Symbol) (*Grammar, error) {
	if root.Kind() != symbol.KindRulesDef {
		return nil, &BuildError{Kind: ErrNotRulesDef, Detail: "root must be a RulesDef"}
	}

	g := &Grammar{
		Root:                   root,
		nameToBody:             make(map[string]symbol.Symbol),
		terminalToNonterminals: make(map[string]map[string]bool),
	}

	seenNames := make(map[string]bool)
	for _, d := range root.Children() {
		nt := d.Children()[0]
		body := d.Children()[1]
		name := nt.Name()
		if seenNames[name] {
			return nil, &BuildError{
				Kind:   ErrDuplicateDefinition,
				Detail: fmt.Sprintf("nonterminal %q defined more than once", name),
			}
		}
		seenNames[name] = true
		g.Defines = append(g.Defines, Define{Name: name, Body: body})
		g.nameToBody[name] = body
		g.allNonterminals = append(g.allNonterminals, name)
	}

	terminalSeen := make(map[string]bool)
	referencedNonterminals := make(map[string]bool)

	var walk func(s symbol.Symbol, owner string)
	walk = func(s symbol.Symbol, owner string) {
		switch {
		case s.IsTerminal():
			if !terminalSeen[s.Name()] {
				terminalSeen[s.Name()] = true
				g.allTerminals = append(g.allTerminals, s.Name())
			}
			if g.terminalToNonterminals[s.Name()] == nil {
				g.terminalToNonterminals[s.Name()] = make(map[string]bool)
			}
			g.terminalToNonterminals[s.Name()][owner] = true
		case s.IsNonterminal():
			referencedNonterminals[s.Name()] = true
		case s.IsRange():
			// Ranges do not participate in the literal terminal map; the
			// tokenizer's advanced mode handles them directly.
		case s.IsOperator():
			for _, c := range s.Children() {
				walk(c, owner)
			}
		}
	}

	for _, d := range g.Defines {
		walk(d.Body, d.Name)
	}

	for name := range referencedNonterminals {
		if _, ok := g.nameToBody[name]; !ok {
			return nil, &BuildError{
				Kind:   ErrUndefinedNonterminal,
				Detail: fmt.Sprintf("nonterminal %q referenced but never defined", name),
			}
		}
	}

	return g, nil
}
