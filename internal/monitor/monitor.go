// Package monitor evaluates a spatial formula against one frame. Two
// sub-monitors exist as two functions over the same formula tree:
// EvaluateS4u reduces a formula to a boolean, and EvaluateS4 reduces a
// region term to the set of contributing annotations.
package monitor

import (
	"fmt"

	"github.com/dekarrin/strem/internal/compiler"
	"github.com/dekarrin/strem/internal/datastream"
)

// EvaluateS4u evaluates an FOL/S4u formula against frame.
//
//   - a class leaf is true iff the frame has at least one annotation of
//     that label;
//   - NonEmpty lifts an S4 region term to a boolean by checking it is
//     non-empty;
//   - Negation, Conjunction, and Disjunction are plain boolean algebra.
//
// Any operator this function doesn't recognize is a programming fault:
// the parser never produces an FOL/S4u node with an S4-only operator,
// so reaching the default case means an AST invariant was violated.
func EvaluateS4u(f *compiler.Formula, frame datastream.Frame) bool {
	switch f.Kind {
	case compiler.FormulaClass:
		return len(frame.Annotations(f.Class)) > 0
	case compiler.FormulaNegation:
		return !EvaluateS4u(f.Operand, frame)
	case compiler.FormulaConjunction:
		return EvaluateS4u(f.Left, frame) && EvaluateS4u(f.Right, frame)
	case compiler.FormulaDisjunction:
		return EvaluateS4u(f.Left, frame) || EvaluateS4u(f.Right, frame)
	case compiler.FormulaNonEmpty:
		return len(EvaluateS4(f.Operand, frame)) > 0
	default:
		panic(fmt.Sprintf("monitor: s4u: unrecognized operator %v", f.Kind))
	}
}

// EvaluateS4 evaluates an S4 region term against frame, returning the
// annotations that witness it.
//
//   - a class leaf returns every annotation of that label;
//   - Intersection returns, for every overlapping pair across left and
//     right, both contributing annotations (so the result can contain
//     duplicates when one annotation overlaps several on the other
//     side); it is empty if either side is empty;
//   - Union is the concatenation of both sides;
//   - Complement is unimplemented: no closed universe of annotations
//     is defined to complement against, so reaching it is a
//     programming fault rather than a silently wrong answer.
func EvaluateS4(f *compiler.Formula, frame datastream.Frame) []datastream.Annotation {
	switch f.Kind {
	case compiler.FormulaClass:
		return frame.Annotations(f.Class)

	case compiler.FormulaIntersection:
		left := EvaluateS4(f.Left, frame)
		right := EvaluateS4(f.Right, frame)
		if len(left) == 0 || len(right) == 0 {
			return nil
		}
		var out []datastream.Annotation
		for _, l := range left {
			for _, r := range right {
				if l.BBox.Overlaps(r.BBox) {
					out = append(out, l, r)
				}
			}
		}
		return out

	case compiler.FormulaUnion:
		left := EvaluateS4(f.Left, frame)
		right := EvaluateS4(f.Right, frame)
		out := make([]datastream.Annotation, 0, len(left)+len(right))
		out = append(out, left...)
		out = append(out, right...)
		return out

	case compiler.FormulaComplement:
		panic("monitor: s4: Complement is unimplemented (no closed universe of annotations is defined)")

	default:
		panic(fmt.Sprintf("monitor: s4: unrecognized operator %v", f.Kind))
	}
}
