// Package datastream defines the frame/annotation data model consumed
// by the matcher and spatial monitor, plus two stream codecs: a JSON
// reader for the external record format, and a REZI-backed binary
// codec for re-exporting matched windows.
package datastream

// Point is a 2D coordinate.
type Point struct {
	X float64
	Y float64
}

// BoundingBox is an axis-aligned box with the invariant
// Min.X <= Max.X && Min.Y <= Max.Y.
type BoundingBox struct {
	Min Point
	Max Point
}

// Overlaps reports whether a and b share any area, using a half-open
// AABB test: a and b overlap iff
// a.Min.X < b.Max.X && b.Min.X < a.Max.X && a.Min.Y < b.Max.Y && b.Min.Y < a.Max.Y.
func (a BoundingBox) Overlaps(b BoundingBox) bool {
	return a.Min.X < b.Max.X && b.Min.X < a.Max.X &&
		a.Min.Y < b.Max.Y && b.Min.Y < a.Max.Y
}

// Intersection returns the rectangle (max(a.Min,b.Min), min(a.Max,b.Max)).
// Its result is only meaningful when a.Overlaps(b) is true.
func (a BoundingBox) Intersection(b BoundingBox) BoundingBox {
	return BoundingBox{
		Min: Point{X: max(a.Min.X, b.Min.X), Y: max(a.Min.Y, b.Min.Y)},
		Max: Point{X: min(a.Max.X, b.Max.X), Y: min(a.Max.Y, b.Max.Y)},
	}
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Annotation is a single detected object: a label, a confidence score,
// and its bounding box.
type Annotation struct {
	Label string
	Score float64
	BBox  BoundingBox
}

// Sample is one detector's output for a single frame: a channel name
// and the annotations it produced, grouped by label.
type Sample struct {
	Channel     string
	Annotations map[string][]Annotation
}

// Frame is one timestamped element of the perception stream.
type Frame struct {
	Index   uint64
	Samples []Sample
}

// Annotations returns every annotation across all samples with the
// given label, in sample order. This is the leaf-evaluation primitive
// the spatial monitor calls for a class formula.
func (f Frame) Annotations(label string) []Annotation {
	var out []Annotation
	for _, s := range f.Samples {
		out = append(out, s.Annotations[label]...)
	}
	return out
}

// FilterChannels returns a copy of f retaining only samples whose
// Channel is in channels. If channels is empty, f is returned
// unchanged. A frame whose samples all belong to excluded channels
// becomes an empty frame rather than being dropped, so its index stays
// aligned with the unfiltered stream.
func (f Frame) FilterChannels(channels []string) Frame {
	if len(channels) == 0 {
		return f
	}
	allowed := map[string]bool{}
	for _, c := range channels {
		allowed[c] = true
	}

	out := Frame{Index: f.Index}
	for _, s := range f.Samples {
		if allowed[s.Channel] {
			out.Samples = append(out.Samples, s)
		}
	}
	return out
}
