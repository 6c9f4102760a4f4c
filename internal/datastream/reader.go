package datastream

import (
	"encoding/json"
	"errors"
	"io"
)

// FrameReader decouples the matching core from any one concrete wire
// format: the core only ever consumes this interface. Next returns
// io.EOF (wrapped as ok == false, err == nil) once the stream is
// exhausted.
type FrameReader interface {
	Next() (frame Frame, ok bool, err error)
}

// jsonRecord is the wire shape of one sample record.
type jsonRecord struct {
	Sensor struct {
		Type string `json:"type"`
	} `json:"sensor"`
	Channel    string `json:"channel"`
	Categories []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"categories"`
	Annotations []struct {
		Category int     `json:"category"`
		Score    float64 `json:"score"`
		BBox     struct {
			Dimensions struct {
				Width  float64 `json:"width"`
				Height float64 `json:"height"`
			} `json:"dimensions"`
			Translation struct {
				X float64 `json:"x"`
				Y float64 `json:"y"`
			} `json:"translation"`
		} `json:"bbox"`
	} `json:"annotations"`
}

// JSONReader decodes a one-sample-per-record JSON stream format into
// one Frame per record, assigning Frame.Index as the monotonically
// increasing position in the stream starting at 0. It is the single
// concrete FrameReader this module ships, behind the interface
// boundary, since some realization is needed for the CLI to run end
// to end.
type JSONReader struct {
	dec   *json.Decoder
	index uint64
}

// NewJSONReader creates a JSONReader over r.
func NewJSONReader(r io.Reader) *JSONReader {
	return &JSONReader{dec: json.NewDecoder(r)}
}

// Next decodes the next record into a Frame.
func (jr *JSONReader) Next() (Frame, bool, error) {
	var rec jsonRecord
	if err := jr.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, false, nil
		}
		return Frame{}, false, err
	}

	names := map[int]string{}
	for _, c := range rec.Categories {
		names[c.ID] = c.Name
	}

	annotations := map[string][]Annotation{}
	for _, a := range rec.Annotations {
		label, ok := names[a.Category]
		if !ok {
			continue
		}
		min := Point{X: a.BBox.Translation.X, Y: a.BBox.Translation.Y}
		max := Point{X: min.X + a.BBox.Dimensions.Width, Y: min.Y + a.BBox.Dimensions.Height}
		annotations[label] = append(annotations[label], Annotation{
			Label: label,
			Score: a.Score,
			BBox:  BoundingBox{Min: min, Max: max},
		})
	}

	frame := Frame{
		Index: jr.index,
		Samples: []Sample{{
			Channel:     rec.Channel,
			Annotations: annotations,
		}},
	}
	jr.index++

	return frame, true, nil
}
