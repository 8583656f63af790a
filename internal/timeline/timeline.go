// Package timeline expands ordered slide pairs into the flat sequence of
// renderable segments that the assembler consumes.
package timeline

import (
	"errors"

	"github.com/backmassage/slidecast/internal/match"
)

// ErrEmptyTimeline is returned by Build when no pairs are supplied.
var ErrEmptyTimeline = errors.New("timeline has no slides")

// SegmentKind distinguishes silent pauses from narrated slides.
type SegmentKind string

const (
	SegmentPause SegmentKind = "pause"
	SegmentSlide SegmentKind = "slide"
)

// Segment is one renderable unit in playback order: a still image shown for
// Duration seconds, with narration audio attached for slide segments only.
type Segment struct {
	Kind     SegmentKind
	Image    string
	Audio    string // empty for pause segments
	Duration float64
}

// Pacing is the silent padding inserted around narrated slides, in seconds.
type Pacing struct {
	PauseBefore float64
	PauseAfter  float64
}

// Timeline is the ordered segment sequence plus its accumulated duration.
// It is never modified after Build returns it.
type Timeline struct {
	Segments []Segment
	Total    float64 // seconds
}

// Build expands pairs into segments. For each pair a pause-before segment is
// emitted except for the first slide, then the narrated slide for exactly
// the clip's measured duration, then a pause-after except for the last
// slide. A pause shows the upcoming slide's own image, so the viewer sees
// the frame silently before its narration starts.
//
// Build is a pure function of its inputs: identical pairs and pacing always
// produce an identical timeline. Pairs must already be in playback order
// and carry their probed AudioDuration.
func Build(pairs []match.SlidePair, pacing Pacing) (*Timeline, error) {
	if len(pairs) == 0 {
		return nil, ErrEmptyTimeline
	}

	tl := &Timeline{}
	for i, p := range pairs {
		if i > 0 && pacing.PauseBefore > 0 {
			tl.append(Segment{
				Kind:     SegmentPause,
				Image:    p.Image.Path,
				Duration: pacing.PauseBefore,
			})
		}

		tl.append(Segment{
			Kind:     SegmentSlide,
			Image:    p.Image.Path,
			Audio:    p.Audio.Path,
			Duration: p.AudioDuration,
		})

		if i < len(pairs)-1 && pacing.PauseAfter > 0 {
			tl.append(Segment{
				Kind:     SegmentPause,
				Image:    p.Image.Path,
				Duration: pacing.PauseAfter,
			})
		}
	}
	return tl, nil
}

func (t *Timeline) append(s Segment) {
	t.Segments = append(t.Segments, s)
	t.Total += s.Duration
}
