package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/strem/internal/compiler"
	"github.com/dekarrin/strem/internal/datastream"
)

func box(minX, minY, maxX, maxY float64) datastream.BoundingBox {
	return datastream.BoundingBox{
		Min: datastream.Point{X: minX, Y: minY},
		Max: datastream.Point{X: maxX, Y: maxY},
	}
}

func frameWith(annotations map[string][]datastream.Annotation) datastream.Frame {
	return datastream.Frame{Samples: []datastream.Sample{{Channel: "cam0", Annotations: annotations}}}
}

func TestEvaluateS4u_Class(t *testing.T) {
	f := frameWith(map[string][]datastream.Annotation{
		"car": {{Label: "car", BBox: box(0, 0, 1, 1)}},
	})
	assert.True(t, EvaluateS4u(compiler.ClassFormula("car"), f), "expected car class to be true")
	assert.False(t, EvaluateS4u(compiler.ClassFormula("pedestrian"), f), "expected pedestrian class to be false")
}

func TestEvaluateS4u_Negation(t *testing.T) {
	f := frameWith(nil)
	assert.True(t, EvaluateS4u(compiler.UnaryFormula(compiler.FormulaNegation, compiler.ClassFormula("car")), f),
		"expected negation of absent class to be true")
}

// TestEvaluateS4_OverlapSymmetry checks a core overlap property:
// overlap(a,b) iff overlap(b,a), and overlap(a,a) iff a has positive
// area.
func TestEvaluateS4_OverlapSymmetry(t *testing.T) {
	a := box(0, 0, 2, 2)
	b := box(1, 1, 3, 3)
	c := box(5, 5, 6, 6)

	assert.Equal(t, a.Overlaps(b), b.Overlaps(a), "overlap must be symmetric")
	assert.Equal(t, a.Overlaps(c), c.Overlaps(a), "overlap must be symmetric")
	assert.True(t, a.Overlaps(a), "a box with positive area must overlap itself")

	degenerate := box(1, 1, 1, 1)
	assert.False(t, degenerate.Overlaps(degenerate), "a zero-area box must not overlap itself under the half-open test")
}

func TestEvaluateS4_Intersection(t *testing.T) {
	carA := datastream.Annotation{Label: "car", BBox: box(0, 0, 2, 2)}
	ped := datastream.Annotation{Label: "pedestrian", BBox: box(1, 1, 3, 3)}
	f := frameWith(map[string][]datastream.Annotation{
		"car":        {carA},
		"pedestrian": {ped},
	})

	formula := compiler.BinaryFormula(compiler.FormulaIntersection,
		compiler.ClassFormula("car"), compiler.ClassFormula("pedestrian"))

	result := EvaluateS4(formula, f)
	require.Len(t, result, 2)
}

func TestEvaluateS4_IntersectionEmptyWhenDisjoint(t *testing.T) {
	carA := datastream.Annotation{Label: "car", BBox: box(0, 0, 1, 1)}
	ped := datastream.Annotation{Label: "pedestrian", BBox: box(5, 5, 6, 6)}
	f := frameWith(map[string][]datastream.Annotation{
		"car":        {carA},
		"pedestrian": {ped},
	})

	formula := compiler.BinaryFormula(compiler.FormulaIntersection,
		compiler.ClassFormula("car"), compiler.ClassFormula("pedestrian"))

	assert.Empty(t, EvaluateS4(formula, f))
}

func TestEvaluateS4u_NonEmpty(t *testing.T) {
	carA := datastream.Annotation{Label: "car", BBox: box(0, 0, 2, 2)}
	ped := datastream.Annotation{Label: "pedestrian", BBox: box(1, 1, 3, 3)}
	f := frameWith(map[string][]datastream.Annotation{
		"car":        {carA},
		"pedestrian": {ped},
	})

	formula := compiler.UnaryFormula(compiler.FormulaNonEmpty,
		compiler.BinaryFormula(compiler.FormulaIntersection,
			compiler.ClassFormula("car"), compiler.ClassFormula("pedestrian")))

	assert.True(t, EvaluateS4u(formula, f), "expected nonempty(car & pedestrian) to hold for overlapping boxes")
}

// TestEvaluateS4u_Idempotence checks that Conj(phi,phi) and
// Disj(phi,phi) agree with phi alone.
func TestEvaluateS4u_Idempotence(t *testing.T) {
	f := frameWith(map[string][]datastream.Annotation{
		"car": {{Label: "car", BBox: box(0, 0, 1, 1)}},
	})
	phi := compiler.ClassFormula("car")

	want := EvaluateS4u(phi, f)
	conj := compiler.BinaryFormula(compiler.FormulaConjunction, phi, phi)
	disj := compiler.BinaryFormula(compiler.FormulaDisjunction, phi, phi)

	assert.Equal(t, want, EvaluateS4u(conj, f), "Conj(phi,phi) must equal phi")
	assert.Equal(t, want, EvaluateS4u(disj, f), "Disj(phi,phi) must equal phi")
}

func TestEvaluateS4_ComplementPanics(t *testing.T) {
	defer func() {
		assert.NotNil(t, recover(), "expected EvaluateS4 on Complement to panic")
	}()
	f := frameWith(nil)
	EvaluateS4(compiler.UnaryFormula(compiler.FormulaComplement, compiler.ClassFormula("car")), f)
}
