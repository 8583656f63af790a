package narrate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PageError reports a synthesis failure for one script page.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("narrate page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

// SplitScript splits a slide-deck script into per-page narration text.
// Pages are separated by lines containing only "---" (the slide markup page
// separator); leading and trailing whitespace is trimmed and empty pages
// are kept so page numbering stays aligned with the rendered slides.
func SplitScript(script string) []string {
	var pages []string
	var cur []string

	flush := func() {
		pages = append(pages, strings.TrimSpace(strings.Join(cur, "\n")))
		cur = cur[:0]
	}

	for _, line := range strings.Split(script, "\n") {
		if strings.TrimSpace(line) == "---" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return pages
}

// Logger is the minimal logging interface Generate needs.
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
}

// Generate synthesizes one audio clip per script page and writes them into
// outDir as narration_NNN.wav, numbered from 1 so the trailing digit run of
// each clip matches the image collaborator's page numbering. Pages with no
// narration text are skipped with a warning; the matcher later reports the
// corresponding images as unpaired.
func (c *Client) Generate(ctx context.Context, script string, speaker int, outDir string, log Logger) error {
	pages := SplitScript(script)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create narration directory %s: %w", outDir, err)
	}

	for i, text := range pages {
		page := i + 1
		if text == "" {
			log.Warn("Page %d has no narration text, skipping", page)
			continue
		}

		log.Info("[%d/%d] Synthesizing narration", page, len(pages))

		query, err := c.AudioQuery(ctx, text, speaker)
		if err != nil {
			return &PageError{Page: page, Err: err}
		}
		audio, err := c.Synthesize(ctx, query, speaker)
		if err != nil {
			return &PageError{Page: page, Err: err}
		}

		path := filepath.Join(outDir, fmt.Sprintf("narration_%03d.wav", page))
		if err := os.WriteFile(path, audio, 0o644); err != nil {
			return &PageError{Page: page, Err: fmt.Errorf("write %s: %w", path, err)}
		}
	}
	return nil
}
