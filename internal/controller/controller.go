// Package controller drives a compiled pattern over a frame stream:
// offline loads all frames up front and re-invokes the matcher after
// every offset-advance, online appends incrementally (evicting down to
// a capacity) and re-invokes the matcher after every append, and both
// enforce a match limit.
package controller

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dekarrin/strem/internal/datastream"
	"github.com/dekarrin/strem/internal/matcher"
)

// Hit is one reported match, carrying the frame window it was found
// against so a caller (the CLI's printer, or a future re-export path)
// can render it without re-reading the stream.
type Hit struct {
	Match  matcher.Match
	Frames []datastream.Frame
}

// Callback is invoked once per reported match. Returning false stops
// the search early, independent of the configured limit.
type Callback func(Hit) bool

// Controller drives a single pattern/stream pair, single-threaded,
// synchronous, and sequential. RunID is a random correlation id minted
// per run via uuid.NewRandom(); the controller itself does not log it.
type Controller struct {
	Pattern  *matcher.Pattern
	Channels []string
	Limit    int
	Capacity int

	RunID uuid.UUID
}

// New builds a Controller for pattern. A random RunID is minted
// immediately so it is available for logging even before Run starts.
func New(pattern *matcher.Pattern, channels []string, limit, capacity int) (*Controller, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("controller: mint run id: %w", err)
	}
	return &Controller{
		Pattern:  pattern,
		Channels: channels,
		Limit:    limit,
		Capacity: capacity,
		RunID:    id,
	}, nil
}

func (c *Controller) filtered(frames []datastream.Frame) []datastream.Frame {
	if len(c.Channels) == 0 {
		return frames
	}
	out := make([]datastream.Frame, len(frames))
	for i, f := range frames {
		out[i] = f.FilterChannels(c.Channels)
	}
	return out
}

// RunOffline loads every frame from r up front, then repeatedly
// searches for non-overlapping leftmost matches: on a hit, advance the
// offset by the match's end; otherwise advance by one. Search stops
// when the limit is reached, cb returns false, or the frames are
// exhausted.
func (c *Controller) RunOffline(r datastream.FrameReader, cb Callback) error {
	var frames []datastream.Frame
	for {
		f, ok, err := r.Next()
		if err != nil {
			return fmt.Errorf("controller: read frame: %w", err)
		}
		if !ok {
			break
		}
		frames = append(frames, f)
	}
	frames = c.filtered(frames)

	m := matcher.NewOfflineMatcher(c.Pattern)

	count := 0
	offset := 0
	for offset < len(frames) {
		if c.Limit > 0 && count >= c.Limit {
			break
		}

		window := frames[offset:]
		hit := m.Leftmost(window)
		if hit == nil {
			offset++
			continue
		}

		abs := matcher.Match{Start: offset + hit.Start, End: offset + hit.End}
		count++
		if !cb(Hit{Match: abs, Frames: frames[abs.Start:abs.End]}) {
			break
		}

		offset += hit.End
	}

	return nil
}

// RunOnline appends frames from r one at a time, evicting the oldest
// frame once the window exceeds Capacity (an LRU window), and
// re-running the reverse matcher after every append. Only matches
// ending at the newest frame are reported, since that is the only
// position the reverse scan is anchored to; the caller sees each
// stream position at most once.
func (c *Controller) RunOnline(r datastream.FrameReader, cb Callback) error {
	var window []datastream.Frame

	m := matcher.NewOnlineMatcher(c.Pattern)

	count := 0
	for {
		if c.Limit > 0 && count >= c.Limit {
			break
		}

		f, ok, err := r.Next()
		if err != nil {
			return fmt.Errorf("controller: read frame: %w", err)
		}
		if !ok {
			break
		}

		if len(c.Channels) > 0 {
			f = f.FilterChannels(c.Channels)
		}

		window = append(window, f)
		if c.Capacity > 0 && len(window) > c.Capacity {
			window = window[1:]
		}

		hit := m.Leftmost(window)
		if hit == nil {
			continue
		}

		count++
		if !cb(Hit{Match: *hit, Frames: window[hit.Start:hit.End]}) {
			break
		}
	}

	return nil
}
