package timeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/slidecast/internal/match"
)

func pair(idx int, image, audio string, duration float64) match.SlidePair {
	return match.SlidePair{
		Index:         idx,
		Image:         match.MediaFile{Path: image, Kind: match.KindImage},
		Audio:         match.MediaFile{Path: audio, Kind: match.KindAudio},
		AudioDuration: duration,
	}
}

func TestBuildTwoSlidesWithPauses(t *testing.T) {
	pairs := []match.SlidePair{
		pair(1, "slide01.png", "narration01.wav", 3.0),
		pair(2, "slide02.png", "narration02.wav", 2.0),
	}

	tl, err := Build(pairs, Pacing{PauseBefore: 0.5, PauseAfter: 0.5})
	require.NoError(t, err)

	// No pause before the first slide and none after the last. Between the
	// two slides sits slide 1's pause-after followed by slide 2's
	// pause-before, the latter already showing slide 2's image.
	want := []Segment{
		{Kind: SegmentSlide, Image: "slide01.png", Audio: "narration01.wav", Duration: 3.0},
		{Kind: SegmentPause, Image: "slide01.png", Duration: 0.5},
		{Kind: SegmentPause, Image: "slide02.png", Duration: 0.5},
		{Kind: SegmentSlide, Image: "slide02.png", Audio: "narration02.wav", Duration: 2.0},
	}
	assert.Equal(t, want, tl.Segments)
	assert.InDelta(t, 6.0, tl.Total, 1e-9)
}

func TestBuildPauseBeforeOnly(t *testing.T) {
	pairs := []match.SlidePair{
		pair(1, "slide01.png", "narration01.wav", 3.0),
		pair(2, "slide02.png", "narration02.wav", 2.0),
	}

	tl, err := Build(pairs, Pacing{PauseBefore: 0.5})
	require.NoError(t, err)

	want := []Segment{
		{Kind: SegmentSlide, Image: "slide01.png", Audio: "narration01.wav", Duration: 3.0},
		{Kind: SegmentPause, Image: "slide02.png", Duration: 0.5},
		{Kind: SegmentSlide, Image: "slide02.png", Audio: "narration02.wav", Duration: 2.0},
	}
	assert.Equal(t, want, tl.Segments)
	assert.InDelta(t, 5.5, tl.Total, 1e-9)
}

func TestBuildSingleSlideEmitsNoPauses(t *testing.T) {
	pairs := []match.SlidePair{pair(4, "s4.png", "a4.wav", 7.25)}

	tl, err := Build(pairs, Pacing{PauseBefore: 2.0, PauseAfter: 3.0})
	require.NoError(t, err)

	require.Len(t, tl.Segments, 1)
	assert.Equal(t, SegmentSlide, tl.Segments[0].Kind)
	assert.InDelta(t, 7.25, tl.Total, 1e-9)
}

func TestBuildZeroPacing(t *testing.T) {
	pairs := []match.SlidePair{
		pair(1, "s1.png", "a1.wav", 1.0),
		pair(2, "s2.png", "a2.wav", 2.0),
		pair(3, "s3.png", "a3.wav", 3.0),
	}

	tl, err := Build(pairs, Pacing{})
	require.NoError(t, err)

	require.Len(t, tl.Segments, 3)
	for _, s := range tl.Segments {
		assert.Equal(t, SegmentSlide, s.Kind)
	}
	assert.InDelta(t, 6.0, tl.Total, 1e-9)
}

// Total duration must equal the sum of audio durations plus (n-1) copies of
// each pause, for any slide count.
func TestBuildDurationInvariant(t *testing.T) {
	durations := []float64{3.2, 0.8, 11.5, 2.0, 4.75}
	pacing := Pacing{PauseBefore: 0.75, PauseAfter: 1.25}

	for n := 1; n <= len(durations); n++ {
		var pairs []match.SlidePair
		sum := 0.0
		for i := 0; i < n; i++ {
			pairs = append(pairs, pair(i+1,
				fmt.Sprintf("s%d.png", i+1), fmt.Sprintf("a%d.wav", i+1), durations[i]))
			sum += durations[i]
		}

		tl, err := Build(pairs, pacing)
		require.NoError(t, err)

		want := sum + float64(n-1)*(pacing.PauseBefore+pacing.PauseAfter)
		assert.InDelta(t, want, tl.Total, 1e-9, "n=%d", n)

		var segSum float64
		for _, s := range tl.Segments {
			segSum += s.Duration
		}
		assert.InDelta(t, tl.Total, segSum, 1e-9, "n=%d", n)
	}
}

func TestBuildIsPure(t *testing.T) {
	pairs := []match.SlidePair{
		pair(1, "s1.png", "a1.wav", 1.5),
		pair(2, "s2.png", "a2.wav", 2.5),
	}
	pacing := Pacing{PauseBefore: 0.25, PauseAfter: 0.5}

	first, err := Build(pairs, pacing)
	require.NoError(t, err)
	second, err := Build(pairs, pacing)
	require.NoError(t, err)

	assert.Equal(t, first.Segments, second.Segments)
	assert.Equal(t, first.Total, second.Total)
}

func TestBuildEmptyInput(t *testing.T) {
	_, err := Build(nil, Pacing{PauseBefore: 0.5})
	assert.ErrorIs(t, err, ErrEmptyTimeline)
}
