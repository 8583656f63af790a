// Package render turns a built timeline into the final encoded video file
// through the ffmpeg backend: one intermediate clip per segment, normalized
// to a single canvas, concatenated in order with stream copy.
package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/backmassage/slidecast/internal/probe"
	"github.com/backmassage/slidecast/internal/timeline"
)

// Options is the render configuration for one assembly run.
type Options struct {
	FrameRate  int
	Width      int // target resolution; 0,0 sizes the canvas from the images
	Height     int
	VideoCodec string
	AudioCodec string
	OutputPath string
	Verbose    bool // tee ffmpeg stderr through in real time
}

// Result describes the finished output file.
type Result struct {
	Path string
	Size int64
}

// RenderError reports a failure while rendering a specific segment or the
// final concatenation. Segment is -1 when the failure was not tied to one
// segment.
type RenderError struct {
	Segment int
	Op      string
	Stderr  string
	Err     error
}

func (e *RenderError) Error() string {
	where := "final output"
	if e.Segment >= 0 {
		where = fmt.Sprintf("segment %d", e.Segment)
	}
	msg := fmt.Sprintf("render %s: %s: %v", where, e.Op, e.Err)
	if e.Stderr != "" {
		msg += "\nffmpeg output:\n" + e.Stderr
	}
	return msg
}

func (e *RenderError) Unwrap() error { return e.Err }

// Logger is the minimal logging interface the assembler needs. Defined here
// so render stays decoupled from the logging package and testable with a
// stub.
type Logger interface {
	Render(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

// Assemble renders every segment into an intermediate clip, concatenates
// the clips in order, and writes the encoded file at opts.OutputPath,
// creating parent directories as needed.
//
// All intermediate clips live in a private temp directory that is removed
// on every exit path, normal or failed. The output file itself is written
// in place; an interrupted final write may leave a truncated file there.
func Assemble(ctx context.Context, segs []timeline.Segment, opts Options, log Logger) (*Result, error) {
	if len(segs) == 0 {
		return nil, &RenderError{Segment: -1, Op: "assemble", Err: errors.New("no segments to render")}
	}

	cv, err := resolveCanvas(ctx, segs, opts)
	if err != nil {
		return nil, err
	}
	log.Debug("Canvas: %dx%d at %d fps", cv.Width, cv.Height, opts.FrameRate)

	workDir, err := os.MkdirTemp("", "slidecast-*")
	if err != nil {
		return nil, &RenderError{Segment: -1, Op: "create work directory", Err: err}
	}
	defer os.RemoveAll(workDir)

	clips := make([]string, 0, len(segs))
	for i, seg := range segs {
		if err := ctx.Err(); err != nil {
			return nil, &RenderError{Segment: i, Op: "render clip", Err: err}
		}

		clipPath := filepath.Join(workDir, fmt.Sprintf("clip_%04d.ts", i))
		log.Render("[%d/%d] %s %s (%ss)", i+1, len(segs), seg.Kind, filepath.Base(seg.Image), formatSeconds(seg.Duration))

		res := runFFmpeg(ctx, clipArgs(seg, cv, opts, clipPath), opts.Verbose)
		if res.Err != nil {
			return nil, &RenderError{
				Segment: i,
				Op:      fmt.Sprintf("encode %s clip", seg.Kind),
				Stderr:  stderrTail(res.Stderr, 20),
				Err:     res.Err,
			}
		}
		clips = append(clips, clipPath)
	}

	listPath, err := writeConcatList(workDir, clips)
	if err != nil {
		return nil, &RenderError{Segment: -1, Op: "write concat list", Err: err}
	}

	if dir := filepath.Dir(opts.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &RenderError{Segment: -1, Op: "create output directory", Err: err}
		}
	}

	res := runFFmpeg(ctx, concatArgs(listPath, opts), opts.Verbose)
	if res.Err != nil {
		return nil, &RenderError{
			Segment: -1,
			Op:      "concatenate clips",
			Stderr:  stderrTail(res.Stderr, 20),
			Err:     res.Err,
		}
	}

	fi, err := os.Stat(opts.OutputPath)
	if err != nil {
		return nil, &RenderError{Segment: -1, Op: "stat output", Err: err}
	}
	return &Result{Path: opts.OutputPath, Size: fi.Size()}, nil
}

// resolveCanvas picks the uniform clip resolution: the configured target
// when set, otherwise the maximum dimensions across all distinct slide
// images, rounded up to even values as yuv420p requires.
func resolveCanvas(ctx context.Context, segs []timeline.Segment, opts Options) (canvas, error) {
	if opts.Width > 0 && opts.Height > 0 {
		return canvas{Width: even(opts.Width), Height: even(opts.Height)}, nil
	}

	seen := make(map[string]bool)
	var cv canvas
	for i, seg := range segs {
		if seen[seg.Image] {
			continue
		}
		seen[seg.Image] = true

		w, h, err := probe.ImageSize(ctx, seg.Image)
		if err != nil {
			return canvas{}, &RenderError{Segment: i, Op: "probe image", Err: err}
		}
		if w > cv.Width {
			cv.Width = w
		}
		if h > cv.Height {
			cv.Height = h
		}
	}
	cv.Width = even(cv.Width)
	cv.Height = even(cv.Height)
	return cv, nil
}

func even(n int) int {
	if n%2 == 0 {
		return n
	}
	return n + 1
}

// writeConcatList writes the concat-demuxer input file listing every clip
// in playback order.
func writeConcatList(workDir string, clips []string) (string, error) {
	listPath := filepath.Join(workDir, "concat.txt")
	f, err := os.Create(listPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	for _, clip := range clips {
		if _, err := fmt.Fprintf(f, "file '%s'\n", clip); err != nil {
			return "", err
		}
	}
	if err := f.Sync(); err != nil {
		return "", err
	}
	return listPath, nil
}
