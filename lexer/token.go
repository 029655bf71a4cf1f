// Package lexer implements the two tokenizer modes: a legacy greedy
// longest-match scanner over literal strings, and an advanced
// disjoint-terminal scanner backed by the automaton package's NFA/DFA
// machinery, which preserves ambiguous candidate sets for later resolution
// by the parser's context manager.
package lexer

import "fmt"

// Token is one lexed unit: the matched bytes and the set of nonterminal
// names that could have produced it. Legacy-mode tokens always carry
// exactly one candidate.
type Token struct {
	Value      []byte
	Candidates []string
}

// Error reports a tokenizer failure: no known literal/fragment matched
// starting at Offset.
type Error struct {
	Offset int
}

func (e *Error) Error() string {
	return fmt.Sprintf("lexer: no matching token at byte offset %d", e.Offset)
}
