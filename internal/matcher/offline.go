package matcher

import "github.com/dekarrin/strem/internal/datastream"

// OfflineMatcher drives a Pattern's forward DFA over a fully available
// frame slice: it collects every half-match the forward DFA fires (an
// "accept" event at some offset), discards zero-length candidates, and
// reports the single longest-extent match starting at the head of the
// slice.
type OfflineMatcher struct {
	pattern *Pattern
	auto    *Automaton
}

// NewOfflineMatcher builds an OfflineMatcher for pattern.
func NewOfflineMatcher(pattern *Pattern) *OfflineMatcher {
	return &OfflineMatcher{pattern: pattern, auto: New(pattern.Forward)}
}

// Leftmost drives the forward DFA over frames from its head and
// returns the longest match beginning at frames[0], or nil if none is
// found. frames is always consumed from its own start: finding matches
// that start later in a larger stream is the driving controller's job
// (it re-slices and calls Leftmost again), not this type's.
func (m *OfflineMatcher) Leftmost(frames []datastream.Frame) *Match {
	if len(frames) == 0 {
		return nil
	}

	m.auto.Reset()

	end := -1
	for i, f := range frames {
		m.auto.Step(m.pattern.symbols(f))

		if m.auto.IsMatch() {
			offset := i + 1
			// a match of offset 0 would be zero-length (start == end);
			// zero-length matches are excluded.
			if offset != 0 && offset > end {
				end = offset
			}
		}

		if m.auto.IsDead() {
			break
		}
	}

	if end == -1 {
		return nil
	}
	return &Match{Start: 0, End: end}
}
