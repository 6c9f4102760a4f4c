package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/strem/internal/datastream"
	"github.com/dekarrin/strem/internal/listener"
	"github.com/dekarrin/strem/internal/matcher"
)

// sliceReader adapts a fixed slice of frames to datastream.FrameReader,
// the same role an in-memory io.Reader plays for tests that don't
// want to stand up a real file.
type sliceReader struct {
	frames []datastream.Frame
	pos    int
}

func (r *sliceReader) Next() (datastream.Frame, bool, error) {
	if r.pos >= len(r.frames) {
		return datastream.Frame{}, false, nil
	}
	f := r.frames[r.pos]
	r.pos++
	return f, true, nil
}

func box(minX, minY, maxX, maxY float64) datastream.BoundingBox {
	return datastream.BoundingBox{
		Min: datastream.Point{X: minX, Y: minY},
		Max: datastream.Point{X: maxX, Y: maxY},
	}
}

// scenarioFrames reproduces a 3-frame stream used by several
// concrete matching scenarios below.
func scenarioFrames() []datastream.Frame {
	car := datastream.Annotation{Label: "car", BBox: box(0, 0, 2, 2)}
	ped := datastream.Annotation{Label: "pedestrian", BBox: box(1, 1, 3, 3)}
	return []datastream.Frame{
		{Index: 0, Samples: []datastream.Sample{{Channel: "cam0", Annotations: map[string][]datastream.Annotation{
			"car": {car},
		}}}},
		{Index: 1, Samples: []datastream.Sample{{Channel: "cam0", Annotations: map[string][]datastream.Annotation{
			"car":        {car},
			"pedestrian": {ped},
		}}}},
		{Index: 2, Samples: []datastream.Sample{{Channel: "cam0", Annotations: map[string][]datastream.Annotation{
			"pedestrian": {ped},
		}}}},
	}
}

func allCarFrames() []datastream.Frame {
	car := datastream.Annotation{Label: "car", BBox: box(0, 0, 1, 1)}
	mk := func() datastream.Frame {
		return datastream.Frame{Samples: []datastream.Sample{{Channel: "cam0", Annotations: map[string][]datastream.Annotation{"car": {car}}}}}
	}
	return []datastream.Frame{mk(), mk(), mk()}
}

func compile(t *testing.T, pattern string) *matcher.Pattern {
	t.Helper()
	l := listener.NewCollectingListener()
	p, err := matcher.Compile(pattern, l)
	require.NoError(t, err, "pattern %q failed to compile", pattern)
	return p
}

func newController(t *testing.T, pattern string) *Controller {
	t.Helper()
	c, err := New(compile(t, pattern), nil, 0, 0)
	require.NoError(t, err)
	return c
}

func collect(t *testing.T, c *Controller, run func(*Controller, datastream.FrameReader, Callback) error, frames []datastream.Frame) []matcher.Match {
	t.Helper()
	var got []matcher.Match
	err := run(c, &sliceReader{frames: frames}, func(h Hit) bool {
		got = append(got, h.Match)
		return true
	})
	require.NoError(t, err)
	return got
}

// TestScenarios_OfflineTable drives the S1-S6 concrete matching
// scenarios through the full offset-advancing controller loop rather
// than a single Leftmost call.
func TestScenarios_OfflineTable(t *testing.T) {
	cases := []struct {
		name    string
		pattern string
		frames  []datastream.Frame
		want    []matcher.Match
	}{
		{"S1", "[[:car:]]", scenarioFrames(), []matcher.Match{{Start: 0, End: 1}, {Start: 1, End: 2}}},
		{"S2", "[[:pedestrian:]]", scenarioFrames(), []matcher.Match{{Start: 1, End: 2}, {Start: 2, End: 3}}},
		{"S3", "[[:car:]][[:pedestrian:]]", scenarioFrames(), []matcher.Match{{Start: 0, End: 2}}},
		{"S4", "[[:car:] & [:pedestrian:]]", scenarioFrames(), []matcher.Match{{Start: 1, End: 2}}},
		{"S5", "[<nonempty>([:car:] & [:pedestrian:])]", scenarioFrames(), []matcher.Match{{Start: 1, End: 2}}},
		{"S6", "[[:car:]]{2,}", allCarFrames(), []matcher.Match{{Start: 0, End: 3}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newController(t, tc.pattern)
			got := collect(t, c, (*Controller).RunOffline, tc.frames)
			assert.Equal(t, tc.want, got)
		})
	}
}

// TestScenarios_OnlineTable reproduces the S1-S5 online row: each match
// ending at the newest frame is reported as soon as it is appended.
func TestScenarios_OnlineTable(t *testing.T) {
	cases := []struct {
		name    string
		pattern string
		want    []matcher.Match
	}{
		{"S1", "[[:car:]]", []matcher.Match{{Start: 0, End: 1}, {Start: 1, End: 2}}},
		{"S2", "[[:pedestrian:]]", []matcher.Match{{Start: 1, End: 2}, {Start: 2, End: 3}}},
		{"S3", "[[:car:]][[:pedestrian:]]", []matcher.Match{{Start: 0, End: 2}, {Start: 1, End: 3}}},
		{"S4", "[[:car:] & [:pedestrian:]]", []matcher.Match{{Start: 1, End: 2}}},
		{"S5", "[<nonempty>([:car:] & [:pedestrian:])]", []matcher.Match{{Start: 1, End: 2}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newController(t, tc.pattern)
			got := collect(t, c, (*Controller).RunOnline, scenarioFrames())
			assert.Equal(t, tc.want, got)
		})
	}
}

// TestOnline_S6ReachesFullMatch checks that the headline online result
// for the repetition scenario, a match spanning all three frames, is
// among the incremental hits reported as the window grows.
func TestOnline_S6ReachesFullMatch(t *testing.T) {
	c := newController(t, "[[:car:]]{2,}")
	got := collect(t, c, (*Controller).RunOnline, allCarFrames())
	assert.Contains(t, got, matcher.Match{Start: 0, End: 3})
}

// TestRunOffline_LimitStopsEarly exercises the configured match limit:
// pattern S1 would otherwise report two matches.
func TestRunOffline_LimitStopsEarly(t *testing.T) {
	p := compile(t, "[[:car:]]")
	c, err := New(p, nil, 1, 0)
	require.NoError(t, err)

	got := collect(t, c, (*Controller).RunOffline, scenarioFrames())
	assert.Len(t, got, 1)
	assert.Equal(t, matcher.Match{Start: 0, End: 1}, got[0])
}

// TestRunOnline_CapacityEvictsOldestFrame confirms the window never
// grows past Capacity: once frame 0 is evicted, a match requiring it
// can no longer be found.
func TestRunOnline_CapacityEvictsOldestFrame(t *testing.T) {
	p := compile(t, "[[:car:]][[:pedestrian:]]")
	c, err := New(p, nil, 0, 1)
	require.NoError(t, err)

	got := collect(t, c, (*Controller).RunOnline, scenarioFrames())
	assert.Empty(t, got, "a capacity of 1 never holds both the car and the pedestrian frame at once")
}

// TestRunOffline_NonOverlapping checks a property every offline run
// must satisfy: successive reported matches never overlap.
func TestRunOffline_NonOverlapping(t *testing.T) {
	c := newController(t, "[[:car:]]")
	got := collect(t, c, (*Controller).RunOffline, scenarioFrames())
	require.Len(t, got, 2)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i].Start, got[i-1].End)
	}
}

func TestRunOffline_EmptyStreamReportsNothing(t *testing.T) {
	c := newController(t, "[[:car:]]")
	got := collect(t, c, (*Controller).RunOffline, nil)
	assert.Empty(t, got)
}

func TestRunOffline_CallbackStopsEarly(t *testing.T) {
	c := newController(t, "[[:car:]]")
	var got []matcher.Match
	err := c.RunOffline(&sliceReader{frames: scenarioFrames()}, func(h Hit) bool {
		got = append(got, h.Match)
		return false
	})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
