package automaton

import "github.com/shadowCow/grammarkit/symbol"

// CompileFragmentToNFA builds a Thompson-construction NFA fragment for a
// single Terminal or TerminalRange symbol, marking its accept state with
// the symbol's candidate set (see symbol.Symbol.Candidates).
func CompileFragmentToNFA(s symbol.Symbol) *NFA {
	switch s.Kind() {
	case symbol.KindTerminal:
		return nfaFromLiteral(s.Name(), s.Candidates())
	case symbol.KindRange:
		lo, hi := s.Bounds()
		return nfaFromRange(lo, hi, s.Candidates())
	default:
		panic("automaton.CompileFragmentToNFA: fragment must be a Terminal or TerminalRange")
	}
}

func nfaFromLiteral(literal string, candidates []string) *NFA {
	nfa := NewNFA()
	if len(literal) == 0 {
		nfa.AddEpsilonTransition(nfa.Start, nfa.Accept)
	} else {
		current := nfa.Start
		for i := 0; i < len(literal); i++ {
			var next int
			if i == len(literal)-1 {
				next = nfa.Accept
			} else {
				next = nfa.AddState()
			}
			nfa.AddTransition(current, literal[i], next)
			current = next
		}
	}
	nfa.AcceptStates[nfa.Accept] = toSet(candidates)
	return nfa
}

func nfaFromRange(lo, hi byte, candidates []string) *NFA {
	nfa := NewNFA()
	for b := int(lo); b <= int(hi); b++ {
		nfa.AddTransition(nfa.Start, byte(b), nfa.Accept)
	}
	nfa.AcceptStates[nfa.Accept] = toSet(candidates)
	return nfa
}

func toSet(candidates []string) map[string]bool {
	out := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		out[c] = true
	}
	return out
}

// CombineFragments builds one NFA whose language is the alternation of all
// given fragment NFAs, by epsilon-branching from a fresh start state into a
// renumbered copy of each fragment. Each fragment keeps its own accept
// state and candidate set; the combined NFA never collapses them into a
// single shared accept, since the DFA built over it must be able to tell,
// at every position, which fragments are simultaneously live.
func CombineFragments(fragments []*NFA) *NFA {
	combined := &NFA{
		States:       make(map[int]*NFAState),
		AcceptStates: make(map[int]map[string]bool),
	}
	combined.Start = 0
	combined.States[0] = newState(0)
	nextID := 1

	for _, frag := range fragments {
		offset := nextID
		_, _ = frag.RenumberStates(offset)
		for id, st := range frag.States {
			combined.States[id] = st
		}
		for id, candidates := range frag.AcceptStates {
			combined.AcceptStates[id] = candidates
		}
		combined.AddEpsilonTransition(combined.Start, frag.Start)
		nextID = maxStateID(frag) + 1
	}

	combined.Accept = -1 // multi-accept automaton; see AcceptStates
	return combined
}

func maxStateID(nfa *NFA) int {
	max := 0
	for id := range nfa.States {
		if id > max {
			max = id
		}
	}
	return max
}
