package compiler

import (
	"fmt"
	"strings"
)

// Serialize emits a classical regex string over the symbol alphabet
// from a symbolic AST. Every subexpression is parenthesized so that
// precedence is explicit to the downstream regex
// compiler; this makes the serializer's output independent of whatever
// precedence rules the compiler would otherwise apply.
func Serialize(node *SymbolicNode) string {
	var b strings.Builder
	serialize(node, &b)
	return b.String()
}

func serialize(node *SymbolicNode, b *strings.Builder) {
	switch node.Tag {
	case NodeLeaf:
		b.WriteByte(node.Sym)

	case NodeUnary:
		b.WriteByte('(')
		serialize(node.Child, b)
		switch node.UnaryOp {
		case KleeneStar:
			b.WriteString("*)")
		case RangeExactly:
			fmt.Fprintf(b, "{%d})", node.N)
		case RangeAtLeast:
			fmt.Fprintf(b, "{%d,})", node.N)
		case RangeBetween:
			fmt.Fprintf(b, "{%d,%d})", node.N, node.M)
		}

	case NodeBinary:
		b.WriteByte('(')
		serialize(node.Left, b)
		if node.BinaryOp == Alternation {
			b.WriteByte('|')
		}
		serialize(node.Right, b)
		b.WriteByte(')')
	}
}
