package compiler

import "github.com/dekarrin/strem/internal/listener"

// Symbol is a single byte drawn from the fixed 52-character alphabet
// (lowercase then uppercase ASCII letters) used to name a distinct
// spatial-formula leaf for the downstream regex compiler.
type Symbol = byte

// alphabet is the fixed 52-symbol alphabet: lowercase letters first,
// then uppercase.
var alphabet = func() []Symbol {
	var a []Symbol
	for c := 'a'; c <= 'z'; c++ {
		a = append(a, Symbol(c))
	}
	for c := 'A'; c <= 'Z'; c++ {
		a = append(a, Symbol(c))
	}
	return a
}()

// MaxSymbols is the number of distinct leaves a pattern may contain.
const MaxSymbols = 52

// SymbolEntry is one row of the symbol table: the mapping from a single
// alphabet symbol back to the spatial formula it stands for.
type SymbolEntry struct {
	Symbol  Symbol
	Formula *Formula
}

// SymbolTable is the insertion-ordered symbol → formula mapping
// produced by the symbolizer. Distinct textual occurrences of the same
// formula receive distinct symbols; this is a deliberate simplification
// that keeps the DFA alphabet equal to the number of AST leaves, with
// no deduplication of structurally identical formulas.
type SymbolTable struct {
	Entries []SymbolEntry
}

// Formula returns the formula associated with sym, or nil if sym is not
// in the table.
func (t *SymbolTable) Formula(sym Symbol) *Formula {
	for _, e := range t.Entries {
		if e.Symbol == sym {
			return e.Formula
		}
	}
	return nil
}

// SymbolicNode mirrors Node structurally, but each leaf carries a
// Symbol instead of (in addition to) a Formula; the Formula for a leaf
// is looked up in the accompanying SymbolTable by symbol.
type SymbolicNode struct {
	Tag NodeTag

	Sym Symbol // NodeLeaf

	UnaryOp UnaryOp // NodeUnary
	N, M    int
	Child   *SymbolicNode

	BinaryOp BinaryOp // NodeBinary
	Left     *SymbolicNode
	Right    *SymbolicNode
}

// Symbolizer recursively walks a regex AST, assigning each distinct
// leaf (in traversal order) the next unused alphabet symbol.
type Symbolizer struct {
	next int
	tbl  SymbolTable
	l    listener.Listener
}

// NewSymbolizer creates an empty Symbolizer.
func NewSymbolizer(l listener.Listener) *Symbolizer {
	return &Symbolizer{l: l}
}

// Symbolize walks node and returns the symbolic AST plus the symbol
// table built while walking it. It fails with
// listener.SymbolizerInsufficientSymbols if node has more than
// MaxSymbols distinct leaves.
func (s *Symbolizer) Symbolize(node *Node) (*SymbolicNode, *SymbolTable, error) {
	sym, err := s.walk(node)
	if err != nil {
		return nil, nil, err
	}
	return sym, &s.tbl, nil
}

func (s *Symbolizer) walk(node *Node) (*SymbolicNode, error) {
	switch node.Tag {
	case NodeLeaf:
		if s.next >= len(alphabet) {
			err := listener.New(listener.SymbolizerInsufficientSymbols, listener.Position{},
				"pattern has more than 52 distinct spatial-formula leaves")
			s.l.Fatal(err)
			return nil, err
		}
		sym := alphabet[s.next]
		s.next++
		s.tbl.Entries = append(s.tbl.Entries, SymbolEntry{Symbol: sym, Formula: node.Formula})
		return &SymbolicNode{Tag: NodeLeaf, Sym: sym}, nil

	case NodeUnary:
		child, err := s.walk(node.Child)
		if err != nil {
			return nil, err
		}
		return &SymbolicNode{Tag: NodeUnary, UnaryOp: node.UnaryOp, N: node.N, M: node.M, Child: child}, nil

	case NodeBinary:
		left, err := s.walk(node.Left)
		if err != nil {
			return nil, err
		}
		right, err := s.walk(node.Right)
		if err != nil {
			return nil, err
		}
		return &SymbolicNode{Tag: NodeBinary, BinaryOp: node.BinaryOp, Left: left, Right: right}, nil
	}

	panic("symbolizer: unreachable node tag")
}
