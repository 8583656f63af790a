// Package pipeline composes the three render stages: match the slide
// directory into pairs, expand the pairs into a timeline, and assemble the
// timeline into the output video. Each stage fully consumes the previous
// stage's output before the next begins.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/backmassage/slidecast/internal/config"
	"github.com/backmassage/slidecast/internal/display"
	"github.com/backmassage/slidecast/internal/logging"
	"github.com/backmassage/slidecast/internal/match"
	"github.com/backmassage/slidecast/internal/probe"
	"github.com/backmassage/slidecast/internal/render"
	"github.com/backmassage/slidecast/internal/timeline"
)

// Run executes one full render: match → probe → build → render. It returns
// the written output's path and size. Any stage failure aborts the run with
// an error naming the stage; nothing is retried.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) (*render.Result, error) {
	start := time.Now()

	// --- Match ---
	res, err := match.Scan(cfg.InputDir)
	if res != nil {
		logMatchReport(log, res)
	}
	if err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}
	log.Info("Matched %d slide pair(s) in %s", len(res.Pairs), cfg.InputDir)

	// --- Probe narration durations ---
	pairs := res.Pairs
	for i := range pairs {
		d, err := probe.AudioDuration(ctx, pairs[i].Audio.Path)
		if err != nil {
			return nil, fmt.Errorf("probe page %d: %w", pairs[i].Index, err)
		}
		pairs[i].AudioDuration = d
		log.Debug("Page %d: %s (%ss)", pairs[i].Index, filepath.Base(pairs[i].Audio.Path),
			display.FormatSeconds(d))
	}

	// --- Build ---
	tl, err := timeline.Build(pairs, timeline.Pacing{
		PauseBefore: cfg.PauseBefore,
		PauseAfter:  cfg.PauseAfter,
	})
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	log.Info("Timeline: %d segment(s), %s total", len(tl.Segments), display.FormatDuration(tl.Total))

	// --- Render ---
	opts := render.Options{
		FrameRate:  cfg.FrameRate,
		Width:      cfg.Width,
		Height:     cfg.Height,
		VideoCodec: cfg.VideoCodec,
		AudioCodec: cfg.AudioCodec,
		OutputPath: cfg.OutputPath,
		Verbose:    cfg.Verbose,
	}
	out, err := render.Assemble(ctx, tl.Segments, opts, log)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	elapsed := time.Since(start)
	log.Success("Wrote %s (%s, %s of video) in %ds",
		out.Path, display.FormatBytes(out.Size), display.FormatDuration(tl.Total),
		int(elapsed.Seconds()))
	return out, nil
}

// logMatchReport surfaces unpaired files and index collisions. These are
// warnings, not errors: gaps in the page numbering are legal and simply
// shorten the slide sequence.
func logMatchReport(log *logging.Logger, res *match.Result) {
	for _, path := range res.Collisions {
		log.Warn("Duplicate page index: %s replaced by a later file", filepath.Base(path))
	}
	if len(res.ImageOnly) > 0 {
		log.Warn("Images without narration (pages %v) are excluded", res.ImageOnly)
	}
	if len(res.AudioOnly) > 0 {
		log.Warn("Narration without images (pages %v) is excluded", res.AudioOnly)
	}
}
