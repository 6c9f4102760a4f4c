package automaton

import (
	"sort"

	"github.com/dekarrin/strem/internal/util"
)

// nfa is a Thompson-construction non-deterministic finite automaton
// over a byte alphabet, with epsilon transitions. States are named by
// an incrementing counter rather than by value, since a regex compiler
// has no natural state label beyond construction order.
type nfa struct {
	trans     map[string]map[byte][]string
	eps       map[string][]string
	start     string
	accept    string
	nextState int
}

func newNFA() *nfa {
	return &nfa{trans: map[string]map[byte][]string{}, eps: map[string][]string{}}
}

func (n *nfa) newState() string {
	n.nextState++
	return stateName(n.nextState)
}

func stateName(n int) string {
	const digits = "0123456789"
	if n == 0 {
		return "s0"
	}
	var buf []byte
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}
	return "s" + string(buf)
}

func (n *nfa) addTrans(from string, sym byte, to string) {
	if n.trans[from] == nil {
		n.trans[from] = map[byte][]string{}
	}
	n.trans[from][sym] = append(n.trans[from][sym], to)
}

func (n *nfa) addEps(from, to string) {
	n.eps[from] = append(n.eps[from], to)
}

// fragment is a Thompson-construction fragment: a sub-NFA with exactly
// one start and one accepting state, ready to be wired into a larger
// fragment by adding epsilon transitions.
type fragment struct {
	start, accept string
}

// build compiles a parsed regex tree into a complete NFA using
// Thompson's construction.
func build(root *regexNode) *nfa {
	n := newNFA()
	frag := n.compile(root)
	n.start = frag.start
	n.accept = frag.accept
	return n
}

func (n *nfa) compile(node *regexNode) fragment {
	switch node.tag {
	case reLeaf:
		s, a := n.newState(), n.newState()
		n.addTrans(s, node.sym, a)
		return fragment{s, a}

	case reConcat:
		l := n.compile(node.left)
		r := n.compile(node.right)
		n.addEps(l.accept, r.start)
		return fragment{l.start, r.accept}

	case reAlt:
		l := n.compile(node.left)
		r := n.compile(node.right)
		s, a := n.newState(), n.newState()
		n.addEps(s, l.start)
		n.addEps(s, r.start)
		n.addEps(l.accept, a)
		n.addEps(r.accept, a)
		return fragment{s, a}

	case reStar:
		c := n.compile(node.child)
		s, a := n.newState(), n.newState()
		n.addEps(s, c.start)
		n.addEps(s, a)
		n.addEps(c.accept, c.start)
		n.addEps(c.accept, a)
		return fragment{s, a}

	case reRange:
		return n.compileRange(node)

	default:
		panic("automaton: unreachable regex tag")
	}
}

// compileRange expands a bounded repetition ({n}, {n,} or {n,m}, as the
// serializer emits them) into a chain of copies: {n} is n required
// copies; {n,} is n required copies followed by a star of one more copy;
// {n,m} is n required copies followed by (m-n) optional copies.
func (n *nfa) compileRange(node *regexNode) fragment {
	var frags []fragment
	for i := 0; i < node.n; i++ {
		frags = append(frags, n.compile(node.child))
	}

	if node.m == -1 {
		// {n,}: n required copies, then a Kleene star of the same child.
		star := n.compile(&regexNode{tag: reStar, child: node.child})
		frags = append(frags, star)
	} else {
		for i := node.n; i < node.m; i++ {
			// optional copy: alternate between this copy and skipping it
			opt := n.compile(node.child)
			s, a := n.newState(), n.newState()
			n.addEps(s, opt.start)
			n.addEps(s, a)
			n.addEps(opt.accept, a)
			frags = append(frags, fragment{s, a})
		}
	}

	if len(frags) == 0 {
		// {0}: accept immediately with no consumption.
		s := n.newState()
		return fragment{s, s}
	}

	cur := frags[0]
	for _, f := range frags[1:] {
		n.addEps(cur.accept, f.start)
		cur = fragment{cur.start, f.accept}
	}
	return cur
}

// reverse returns a new NFA accepting the reverse language: every byte
// transition is flipped, and start/accept are swapped. This is how the
// online matcher's reverse engine is produced from the same symbolic
// regex as the forward one.
func (n *nfa) reverse() *nfa {
	r := newNFA()
	r.nextState = n.nextState
	r.start = n.accept
	r.accept = n.start

	for from, bySym := range n.trans {
		for sym, tos := range bySym {
			for _, to := range tos {
				r.addTrans(to, sym, from)
			}
		}
	}
	for from, tos := range n.eps {
		for _, to := range tos {
			r.addEps(to, from)
		}
	}
	return r
}

// epsilonClosure returns the set of states reachable from states via
// zero or more epsilon transitions.
func (n *nfa) epsilonClosure(states util.StringSet) util.StringSet {
	closure := util.NewStringSet()
	var stack []string
	for s := range states {
		closure.Add(s)
		stack = append(stack, s)
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range n.eps[s] {
			if !closure.Has(next) {
				closure.Add(next)
				stack = append(stack, next)
			}
		}
	}
	return closure
}

// move returns the set of states directly reachable from states on
// sym, without taking the epsilon closure.
func (n *nfa) move(states util.StringSet, sym byte) util.StringSet {
	out := util.NewStringSet()
	for s := range states {
		for _, next := range n.trans[s][sym] {
			out.Add(next)
		}
	}
	return out
}

// alphabet returns the sorted set of bytes used in any transition.
func (n *nfa) alphabet() []byte {
	seen := map[byte]struct{}{}
	for _, bySym := range n.trans {
		for sym := range bySym {
			seen[sym] = struct{}{}
		}
	}
	syms := make([]byte, 0, len(seen))
	for s := range seen {
		syms = append(syms, s)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}

// toDFA performs subset construction: repeatedly take the epsilon
// closure of a move on every input symbol from the current set of NFA
// states, naming each resulting DFA state by its sorted member list so
// that identical subsets are recognized as the same state.
func (n *nfa) toDFA() *DFA {
	syms := n.alphabet()

	dstart := n.epsilonClosure(util.NewStringSet(n.start))
	dstates := map[string]util.StringSet{dstart.StringOrdered(): dstart}
	marked := util.NewStringSet()

	d := &DFA{
		states:    map[string]*dfaState{},
		start:     dstart.StringOrdered(),
		accepting: map[string]bool{},
	}

	for {
		var unmarked []string
		for name := range dstates {
			if !marked.Has(name) {
				unmarked = append(unmarked, name)
			}
		}
		if len(unmarked) == 0 {
			break
		}
		sort.Strings(unmarked)

		for _, tname := range unmarked {
			t := dstates[tname]
			marked.Add(tname)

			st := &dfaState{name: tname, trans: map[byte]string{}}
			if t.Has(n.accept) {
				st.accepting = true
				d.accepting[tname] = true
			}

			for _, a := range syms {
				u := n.epsilonClosure(n.move(t, a))
				if u.Empty() {
					continue
				}
				uname := u.StringOrdered()
				if _, ok := dstates[uname]; !ok {
					dstates[uname] = u
				}
				st.trans[a] = uname
			}

			d.states[tname] = st
		}
	}

	return d
}
