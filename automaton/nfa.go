// Package automaton provides the Thompson-construction NFA and
// subset-construction DFA machinery backing the advanced tokenizer (see
// package lexer). Unlike a conventional lexer automaton, accept states here
// carry a *set* of candidate nonterminal names rather than a single winning
// token type: disambiguating among candidates is deferred to the parser's
// context resolution (C7), not decided at lex time.
package automaton

import "sort"

// NFA is a byte-alphabet non-deterministic finite automaton built via
// Thompson construction over a fragmented, disjoint-or-not terminal set.
type NFA struct {
	Start  int
	Accept int
	States map[int]*NFAState

	// AcceptStates maps a state ID to the candidate set reaching it. Built
	// up as fragments are combined; ties (multiple fragments accepting at
	// the same state) are resolved by set union, not priority — any further
	// disambiguation is the parser's job.
	AcceptStates map[int]map[string]bool
}

// NFAState is a single NFA state: byte transitions plus epsilon moves.
type NFAState struct {
	ID          int
	Transitions map[byte]map[int]bool
	Epsilon     map[int]bool
}

// NewNFA creates an NFA with a fresh start and accept state, both
// unconnected.
func NewNFA() *NFA {
	nfa := &NFA{
		Start:        0,
		Accept:       1,
		States:       make(map[int]*NFAState),
		AcceptStates: make(map[int]map[string]bool),
	}
	nfa.States[0] = newState(0)
	nfa.States[1] = newState(1)
	return nfa
}

func newState(id int) *NFAState {
	return &NFAState{
		ID:          id,
		Transitions: make(map[byte]map[int]bool),
		Epsilon:     make(map[int]bool),
	}
}

// AddState adds a new, unconnected state and returns its ID.
func (nfa *NFA) AddState() int {
	id := len(nfa.States)
	nfa.States[id] = newState(id)
	return id
}

// AddTransition adds a transition from -> to on input byte b.
func (nfa *NFA) AddTransition(from int, b byte, to int) {
	if nfa.States[from].Transitions[b] == nil {
		nfa.States[from].Transitions[b] = make(map[int]bool)
	}
	nfa.States[from].Transitions[b][to] = true
}

// AddEpsilonTransition adds an unconsuming from -> to move.
func (nfa *NFA) AddEpsilonTransition(from, to int) {
	nfa.States[from].Epsilon[to] = true
}

// RenumberStates shifts every state ID by offset, returning the new start
// and accept IDs. Used when splicing a sub-NFA into a larger one built by
// CombineFragments.
func (nfa *NFA) RenumberStates(offset int) (newStart, newAccept int) {
	mapping := make(map[int]int, len(nfa.States))
	for oldID := range nfa.States {
		mapping[oldID] = oldID + offset
	}

	newStates := make(map[int]*NFAState, len(nfa.States))
	for oldID, state := range nfa.States {
		newID := mapping[oldID]
		ns := newState(newID)
		for b, targets := range state.Transitions {
			ns.Transitions[b] = make(map[int]bool, len(targets))
			for t := range targets {
				ns.Transitions[b][mapping[t]] = true
			}
		}
		for t := range state.Epsilon {
			ns.Epsilon[mapping[t]] = true
		}
		newStates[newID] = ns
	}
	nfa.States = newStates
	nfa.Start = mapping[nfa.Start]
	nfa.Accept = mapping[nfa.Accept]

	newAccepts := make(map[int]map[string]bool, len(nfa.AcceptStates))
	for oldID, candidates := range nfa.AcceptStates {
		newAccepts[mapping[oldID]] = candidates
	}
	nfa.AcceptStates = newAccepts

	return nfa.Start, nfa.Accept
}

// sortedCandidates returns the candidate set at state accepting, sorted for
// determinism.
func sortedCandidates(candidates map[string]bool) []string {
	out := make([]string, 0, len(candidates))
	for c := range candidates {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
