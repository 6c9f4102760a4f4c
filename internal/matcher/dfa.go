// Package matcher drives a compiled automaton.DFA frame-by-frame,
// implementing the multi-symbol transition contract and the leftmost
// offline/online matching algorithms.
package matcher

import "github.com/dekarrin/strem/internal/automaton"

// Automaton wraps a DFA and holds the current *set* of DFA states
// (since a frame transitions on every symbol in Σ_f simultaneously,
// not a single byte), exposing the four operations the matcher needs:
// Step, IsMatch, IsDead, and Eoi.
//
// States are tracked in insertion order even though the wrapper is
// otherwise order-independent, so that diagnostics over the
// current-state set stay deterministic.
type Automaton struct {
	dfa     *automaton.DFA
	present map[string]bool
	order   []string

	ismatch bool
	isdead  bool
}

// New wraps dfa, initialized at its start state.
func New(dfa *automaton.DFA) *Automaton {
	a := &Automaton{dfa: dfa}
	a.Reset()
	return a
}

// Reset returns the wrapper to its initial state, for reuse across
// matching attempts from different offsets (the online matcher resets
// its reverse automaton between invocations).
func (a *Automaton) Reset() {
	start := a.dfa.Start()
	a.present = map[string]bool{start: true}
	a.order = []string{start}
	a.ismatch = false
	a.isdead = false
}

// blankByte picks a byte guaranteed not to be in the pattern's
// alphabet: 'Z' in the common case, or the byte after the highest
// symbol in use when the pattern's alphabet has climbed into uppercase
// (i.e. uses more than 26 lowercase-plus-some-uppercase symbols).
func (a *Automaton) blankByte() byte {
	const fallback = 'Z'
	alphabet := a.dfa.Alphabet
	if len(alphabet) == 0 {
		return fallback
	}
	// uppercase letters sort below lowercase ones, so the lowest byte
	// is lowercase exactly when no uppercase symbol is in use
	if alphabet[0] >= 'a' {
		return fallback
	}
	return alphabet[len(alphabet)-1] + 1
}

// Step transitions every current state on every byte in symbols and
// unions the successors, implementing the multi-symbol transition
// contract: a frame with an empty symbol set still transitions on the
// blank byte, forcing non-matching progress rather than standing
// still.
func (a *Automaton) Step(symbols []byte) {
	if a.isdead {
		return
	}

	toUse := symbols
	if len(toUse) == 0 {
		toUse = []byte{a.blankByte()}
	}

	nextPresent := map[string]bool{}
	var nextOrder []string

	for _, state := range a.order {
		for _, sym := range toUse {
			next, ok := a.dfa.Step(state, sym)
			if !ok {
				continue
			}
			if !nextPresent[next] {
				nextPresent[next] = true
				nextOrder = append(nextOrder, next)
			}
		}
	}

	a.present = nextPresent
	a.order = nextOrder

	for _, state := range a.order {
		if a.dfa.IsAccepting(state) {
			a.ismatch = true
			break
		}
	}

	a.isdead = len(a.order) == 0
	if !a.isdead {
		a.isdead = true
		for _, state := range a.order {
			if a.dfa.IsLive(state) {
				a.isdead = false
				break
			}
		}
	}
}

// IsMatch reports whether an accept event has fired since it was last
// checked; the flag latches read-then-clear so that a caller sampling
// it once per frame sees each accept event exactly once.
func (a *Automaton) IsMatch() bool {
	res := a.ismatch
	a.ismatch = false
	return res
}

// IsDead reports whether every current state is a state from which no
// accepting state is reachable, or the current-state set is empty.
func (a *Automaton) IsDead() bool {
	return a.isdead || len(a.order) == 0
}

// Eoi takes one extra look at the current-state set and reports
// whether it currently holds an accepting state, without consuming a
// transition. Some regex engines need an explicit extra transition on
// a sentinel byte here to represent anchored start states internally;
// this wrapper's DFA has no such sentinel requirement, so Eoi reduces
// to a direct, non-destructive acceptance check (see DESIGN.md).
func (a *Automaton) Eoi() bool {
	for _, state := range a.order {
		if a.dfa.IsAccepting(state) {
			return true
		}
	}
	return false
}
