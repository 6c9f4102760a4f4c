package automaton

import "sort"

type dfaState struct {
	name      string
	trans     map[byte]string
	accepting bool
}

// DFA is a dense deterministic automaton compiled from a classical
// regex string over the symbol alphabet. It is built once and is
// immutable thereafter, so it can be shared read-only across any
// number of concurrent matchers.
type DFA struct {
	states    map[string]*dfaState
	start     string
	accepting map[string]bool

	// live is the set of states from which some accepting state is
	// reachable. A current-state set that is a subset of the
	// complement of live can never reach a match again.
	live map[string]bool

	// Alphabet is the sorted set of symbol bytes that actually appear
	// in the compiled pattern. The matcher package uses it to pick a
	// "blank" byte guaranteed not to be in the pattern's alphabet.
	Alphabet []byte
}

// Start returns the DFA's unique start state.
func (d *DFA) Start() string {
	return d.start
}

// Step transitions from a single state on a single byte. ok is false
// when no transition is defined, which the caller treats as "no
// successor" rather than an explicit sink state.
func (d *DFA) Step(state string, sym byte) (next string, ok bool) {
	st, found := d.states[state]
	if !found {
		return "", false
	}
	next, ok = st.trans[sym]
	return next, ok
}

// IsAccepting reports whether state is one of the DFA's accepting
// states.
func (d *DFA) IsAccepting(state string) bool {
	return d.accepting[state]
}

// IsLive reports whether some accepting state is reachable from state.
// A state for which this is false is a state from which the automaton
// can never match again.
func (d *DFA) IsLive(state string) bool {
	return d.live[state]
}

// Compile builds both the forward and reverse DFAs for a symbolic
// regex string, minimizing each. pattern is expected to be the output
// of compiler.Serialize.
func Compile(pattern string) (forward *DFA, reverse *DFA, err error) {
	root, err := parseRegex(pattern)
	if err != nil {
		return nil, nil, err
	}

	fwdNFA := build(root)
	alphabet := fwdNFA.alphabet()

	fwd := fwdNFA.toDFA().minimize()
	fwd.computeLive()
	fwd.Alphabet = alphabet

	revNFA := fwdNFA.reverse()
	rev := revNFA.toDFA().minimize()
	rev.computeLive()
	rev.Alphabet = alphabet

	return fwd, rev, nil
}

func (d *DFA) computeLive() {
	d.live = map[string]bool{}

	// reverse adjacency over the DFA's own transition graph
	predecessors := map[string][]string{}
	for name, st := range d.states {
		for _, to := range st.trans {
			predecessors[to] = append(predecessors[to], name)
		}
	}

	var queue []string
	for name := range d.accepting {
		if d.accepting[name] {
			d.live[name] = true
			queue = append(queue, name)
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, pred := range predecessors[cur] {
			if !d.live[pred] {
				d.live[pred] = true
				queue = append(queue, pred)
			}
		}
	}
}

// minimize merges equivalent states by Moore's partition-refinement
// algorithm: states start partitioned by acceptance, then are split
// apart whenever two states in the same block transition to different
// blocks on the same symbol, repeating until the partition stops
// changing.
func (d *DFA) minimize() *DFA {
	names := make([]string, 0, len(d.states))
	for n := range d.states {
		names = append(names, n)
	}
	sort.Strings(names)

	syms := map[byte]bool{}
	for _, st := range d.states {
		for sym := range st.trans {
			syms[sym] = true
		}
	}

	block := map[string]int{}
	for _, n := range names {
		if d.accepting[n] {
			block[n] = 1
		} else {
			block[n] = 0
		}
	}

	for {
		signature := map[string]string{}
		nextBlockID := map[string]int{}
		changed := false

		for _, n := range names {
			sig := signatureOf(d, block, n, syms)
			signature[n] = sig
			if _, ok := nextBlockID[sig]; !ok {
				nextBlockID[sig] = len(nextBlockID)
			}
		}

		newBlock := map[string]int{}
		for _, n := range names {
			id := nextBlockID[signature[n]]
			newBlock[n] = id
			if id != block[n] {
				changed = true
			}
		}
		block = newBlock

		if !changed {
			break
		}
	}

	// Build the minimized DFA from the final partition, naming each
	// merged state after its block number.
	min := &DFA{states: map[string]*dfaState{}, accepting: map[string]bool{}}
	blockName := func(b int) string { return stateName(b + 1) }

	for _, n := range names {
		bn := blockName(block[n])
		if _, ok := min.states[bn]; ok {
			continue
		}
		st := d.states[n]
		newTrans := map[byte]string{}
		for sym, to := range st.trans {
			newTrans[sym] = blockName(block[to])
		}
		min.states[bn] = &dfaState{name: bn, trans: newTrans, accepting: st.accepting}
		if st.accepting {
			min.accepting[bn] = true
		}
	}
	min.start = blockName(block[d.start])

	return min
}

// signatureOf computes a string that is identical for two states iff
// they are currently in the same block and transition, for every
// symbol, to the same block. Including the state's own block keeps
// each refinement step a refinement of the previous partition, so
// accepting/non-accepting states (block 0 vs 1 at the start) are never
// merged into the same block.
func signatureOf(d *DFA, block map[string]int, n string, syms map[byte]bool) string {
	st := d.states[n]
	sig := make([]byte, 0, 4*len(syms)+4)
	sig = append(sig, []byte(stateName(block[n]))...)
	sig = append(sig, '|')
	keys := make([]byte, 0, len(syms))
	for s := range syms {
		keys = append(keys, s)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, sym := range keys {
		sig = append(sig, sym, ':')
		if to, ok := st.trans[sym]; ok {
			sig = append(sig, []byte(stateName(block[to]))...)
		} else {
			sig = append(sig, '-')
		}
		sig = append(sig, ',')
	}
	return string(sig)
}
