package datastream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame_Annotations(t *testing.T) {
	f := Frame{Samples: []Sample{
		{Channel: "cam0", Annotations: map[string][]Annotation{"car": {{Label: "car"}}}},
		{Channel: "cam1", Annotations: map[string][]Annotation{"car": {{Label: "car"}}}},
	}}
	assert.Len(t, f.Annotations("car"), 2)
	assert.Empty(t, f.Annotations("pedestrian"))
}

func TestFrame_FilterChannels_NoFilterReturnsSame(t *testing.T) {
	f := Frame{Samples: []Sample{{Channel: "cam0"}}}
	assert.Equal(t, f, f.FilterChannels(nil))
}

func TestFrame_FilterChannels_DropsUnlistedSamples(t *testing.T) {
	f := Frame{Index: 3, Samples: []Sample{
		{Channel: "cam0"},
		{Channel: "cam1"},
	}}
	filtered := f.FilterChannels([]string{"cam1"})
	require.Len(t, filtered.Samples, 1)
	assert.Equal(t, "cam1", filtered.Samples[0].Channel)
	assert.Equal(t, uint64(3), filtered.Index)
}

// TestFrame_FilterChannels_EmptyingIsNotDropping checks that a frame
// whose samples are all filtered out keeps its (empty) place in the
// stream, rather than disappearing and shifting later indices.
func TestFrame_FilterChannels_EmptyingIsNotDropping(t *testing.T) {
	f := Frame{Index: 7, Samples: []Sample{{Channel: "cam0"}}}
	filtered := f.FilterChannels([]string{"cam9"})
	assert.Equal(t, uint64(7), filtered.Index)
	assert.Empty(t, filtered.Samples)
}

func TestBoundingBox_Overlaps(t *testing.T) {
	a := BoundingBox{Min: Point{0, 0}, Max: Point{2, 2}}
	b := BoundingBox{Min: Point{1, 1}, Max: Point{3, 3}}
	c := BoundingBox{Min: Point{2, 2}, Max: Point{3, 3}}
	assert.True(t, a.Overlaps(b))
	assert.False(t, a.Overlaps(c), "boxes that only touch at an edge must not count as overlapping")
}

func TestJSONReader(t *testing.T) {
	const doc = `
{"sensor":{"type":"camera"},"channel":"cam0",
 "categories":[{"id":1,"name":"car"}],
 "annotations":[{"category":1,"score":0.9,
   "bbox":{"dimensions":{"width":2,"height":2},"translation":{"x":0,"y":0}}}]}
{"sensor":{"type":"camera"},"channel":"cam0",
 "categories":[{"id":1,"name":"car"}],
 "annotations":[]}
`
	r := NewJSONReader(strings.NewReader(doc))

	f0, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(0), f0.Index)
	require.Len(t, f0.Annotations("car"), 1)
	assert.Equal(t, 0.9, f0.Annotations("car")[0].Score)
	assert.Equal(t, BoundingBox{Min: Point{0, 0}, Max: Point{2, 2}}, f0.Annotations("car")[0].BBox)

	f1, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(1), f1.Index)
	assert.Empty(t, f1.Annotations("car"))

	_, ok, err = r.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStremFormat_RoundTrip(t *testing.T) {
	frames := []Frame{
		{Index: 0, Samples: []Sample{{Channel: "cam0", Annotations: map[string][]Annotation{
			"car": {{Label: "car", Score: 0.5, BBox: BoundingBox{Min: Point{0, 0}, Max: Point{1, 1}}}},
		}}}},
		{Index: 1},
	}

	data := ExportStremFormat(frames, []string{"cam0"})
	got, channels, err := ImportStremFormat(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"cam0"}, channels)
	assert.Equal(t, frames, got)
}

func TestStremFormat_RejectsTruncatedData(t *testing.T) {
	data := ExportStremFormat(nil, nil)
	// the format is binary, so rather than poking at bytes, confirm
	// that a structurally invalid (truncated) blob errors out.
	_, _, err := ImportStremFormat(data[:len(data)/2])
	assert.Error(t, err)
}
