package automaton

import (
	"fmt"
	"sort"
	"strings"
)

// DFA is a deterministic byte automaton built from an NFA by subset
// construction. Accepting states carry the full candidate set of every NFA
// accept state folded into them — the highest-priority resolution the
// teacher's DfaWithTokens performs at compile time is deliberately not done
// here; candidate sets are resolved later, by rule context.
type DFA struct {
	InitialState    string
	States          map[string]DFAState
	AcceptingStates map[string][]string // sorted candidate names
}

// DFAState is one DFA state: byte transitions to other state names.
type DFAState struct {
	Name        string
	Transitions map[byte]string
}

// NextState returns the state reached from current on input b, or "" if
// the DFA has no such transition (dead).
func (d *DFA) NextState(current string, b byte) string {
	st, ok := d.States[current]
	if !ok {
		return ""
	}
	return st.Transitions[b]
}

// IsAccepting reports whether state is an accepting state.
func (d *DFA) IsAccepting(state string) bool {
	_, ok := d.AcceptingStates[state]
	return ok
}

// Candidates returns the candidate set at an accepting state.
func (d *DFA) Candidates(state string) []string {
	return d.AcceptingStates[state]
}

// BuildDFA runs subset construction over nfa, producing a DFA whose
// accepting states carry the union of candidate sets of every NFA accept
// state in the corresponding subset.
func BuildDFA(nfa *NFA) *DFA {
	startClosure := epsilonClosure(nfa, map[int]bool{nfa.Start: true})

	dfa := &DFA{
		InitialState:    stateSetToString(startClosure),
		States:          make(map[string]DFAState),
		AcceptingStates: make(map[string][]string),
	}

	queue := []map[int]bool{startClosure}
	processed := make(map[string]bool)

	for len(queue) > 0 {
		currentSet := queue[0]
		queue = queue[1:]

		currentName := stateSetToString(currentSet)
		if processed[currentName] {
			continue
		}
		processed[currentName] = true

		candidates := make(map[string]bool)
		for stateID := range currentSet {
			for c := range nfa.AcceptStates[stateID] {
				candidates[c] = true
			}
		}

		bytesMap := make(map[byte]map[int]bool)
		for stateID := range currentSet {
			state := nfa.States[stateID]
			for b, targets := range state.Transitions {
				if bytesMap[b] == nil {
					bytesMap[b] = make(map[int]bool)
				}
				for t := range targets {
					bytesMap[b][t] = true
				}
			}
		}

		transitions := make(map[byte]string)
		for b, targets := range bytesMap {
			closure := epsilonClosure(nfa, targets)
			nextName := stateSetToString(closure)
			transitions[b] = nextName
			if !processed[nextName] {
				queue = append(queue, closure)
			}
		}

		dfa.States[currentName] = DFAState{Name: currentName, Transitions: transitions}
		if len(candidates) > 0 {
			dfa.AcceptingStates[currentName] = sortedCandidates(candidates)
		}
	}

	return dfa
}

func epsilonClosure(nfa *NFA, states map[int]bool) map[int]bool {
	closure := make(map[int]bool, len(states))
	stack := make([]int, 0, len(states))
	for s := range states {
		closure[s] = true
		stack = append(stack, s)
	}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for t := range nfa.States[cur].Epsilon {
			if !closure[t] {
				closure[t] = true
				stack = append(stack, t)
			}
		}
	}
	return closure
}

func stateSetToString(states map[int]bool) string {
	if len(states) == 0 {
		return "∅"
	}
	ids := make([]int, 0, len(states))
	for id := range states {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return "{" + strings.Join(parts, ",") + "}"
}
