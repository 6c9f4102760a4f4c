package matcher

import "github.com/dekarrin/strem/internal/datastream"

// OnlineMatcher drives a Pattern's reverse DFA backward over a frame
// window: it searches for the leftmost start of a match ending at the
// last frame in the window, stopping as soon as the automaton can no
// longer extend any branch.
type OnlineMatcher struct {
	pattern *Pattern
	auto    *Automaton
}

// NewOnlineMatcher builds an OnlineMatcher for pattern.
func NewOnlineMatcher(pattern *Pattern) *OnlineMatcher {
	return &OnlineMatcher{pattern: pattern, auto: New(pattern.Reverse)}
}

// Leftmost drives the reverse DFA backward from the end of frames,
// looking for a match that ends at frames[len(frames)-1]. It returns
// the smallest start found, paired with end = len(frames), or nil if
// the reverse DFA never accepts.
func (m *OnlineMatcher) Leftmost(frames []datastream.Frame) *Match {
	n := len(frames)
	if n == 0 {
		return nil
	}

	m.auto.Reset()

	start := -1
	ranToEnd := true
	for i := n - 1; i >= 0; i-- {
		m.auto.Step(m.pattern.symbols(frames[i]))

		if m.auto.IsMatch() {
			if start == -1 || i < start {
				start = i
			}
		}

		if m.auto.IsDead() {
			ranToEnd = false
			break
		}
	}

	// Having consumed every frame without dying, check the end-of-input
	// transition: if still accepting, the entire window also qualifies
	// as a match, so start 0 is at least as good as anything found.
	if ranToEnd && m.auto.Eoi() {
		start = 0
	}

	if start == -1 {
		return nil
	}
	return &Match{Start: start, End: n}
}
