package lexer

import "github.com/shadowCow/grammarkit/grammar"

// Legacy is the greedy longest-match tokenizer: it walks the grammar once
// to build a flat literal -> candidate-nonterminal map, then scans the
// input with a growing window, committing the longest known literal seen
// so far and resetting past it. Adjacent same-type literals are not merged
// (see the legacy-mode design note carried from the distilled spec).
type Legacy struct {
	literalToCandidates map[string][]string
	maxLen              int
}

// NewLegacy builds a Legacy tokenizer from every terminal literal reachable
// in g.
func NewLegacy(g *grammar.Grammar) *Legacy {
	l := &Legacy{literalToCandidates: make(map[string][]string)}
	for _, lit := range g.AllTerminals() {
		l.literalToCandidates[lit] = g.NonterminalsProducing(lit)
		if len(lit) > l.maxLen {
			l.maxLen = len(lit)
		}
	}
	return l
}

// Tokenize scans input greedily: at each position it tries the longest
// known literal first, shrinking the window until a match is found or the
// window empties, in which case tokenization fails at that offset.
func (l *Legacy) Tokenize(input []byte) ([]Token, error) {
	var tokens []Token
	pos := 0
	for pos < len(input) {
		matched := false
		limit := l.maxLen
		if remaining := len(input) - pos; remaining < limit {
			limit = remaining
		}
		for windowLen := limit; windowLen >= 1; windowLen-- {
			window := string(input[pos : pos+windowLen])
			if candidates, ok := l.literalToCandidates[window]; ok {
				// Legacy tokens carry exactly one candidate; when more than
				// one nonterminal can produce this literal, the first in
				// declaration order wins (no lookahead is available yet).
				one := candidates
				if len(one) > 1 {
					one = one[:1]
				}
				tokens = append(tokens, Token{
					Value:      []byte(window),
					Candidates: append([]string{}, one...),
				})
				pos += windowLen
				matched = true
				break
			}
		}
		if !matched {
			return nil, &Error{Offset: pos}
		}
	}
	return tokens, nil
}
