package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/backmassage/slidecast/internal/timeline"
)

// canvas is the uniform output frame every clip is normalized to before
// concatenation. Sources with other aspect ratios are letterboxed onto it.
type canvas struct {
	Width  int
	Height int
}

// Fixed audio parameters for the intermediate clips. Every clip must carry
// an identical stream layout or the concat demuxer produces broken output,
// so pause clips get a silent track with the same codec and rate.
const (
	clipSampleRate = 44100
	clipChannels   = 2
)

// clipArgs builds the ffmpeg argv that renders one segment into an
// intermediate MPEG-TS clip: the still image looped for the segment's
// duration, scaled and padded onto the canvas, with the narration track for
// slide segments and generated silence for pauses.
func clipArgs(seg timeline.Segment, cv canvas, opts Options, clipPath string) []string {
	args := make([]string, 0, 32)
	args = append(args, "ffmpeg", "-hide_banner", "-nostdin", "-y", "-loglevel", "error")

	// Video input: loop the still for the clip duration.
	args = append(args, "-loop", "1", "-i", seg.Image)

	// Audio input: real narration or generated silence.
	if seg.Kind == timeline.SegmentSlide {
		args = append(args, "-i", seg.Audio)
	} else {
		args = append(args, "-f", "lavfi", "-i",
			fmt.Sprintf("anullsrc=channel_layout=stereo:sample_rate=%d", clipSampleRate))
	}

	args = append(args,
		"-map", "0:v", "-map", "1:a",
		"-t", formatSeconds(seg.Duration),
		"-vf", scalePadFilter(cv, opts.FrameRate),
		"-c:v", opts.VideoCodec,
		"-c:a", opts.AudioCodec,
		"-ar", strconv.Itoa(clipSampleRate),
		"-ac", strconv.Itoa(clipChannels),
		"-f", "mpegts",
		clipPath,
	)
	return args
}

// concatArgs builds the ffmpeg argv that concatenates the clip list into
// the final output with stream copy. The clips were already encoded with
// the configured codecs, so no second encode happens here.
func concatArgs(listPath string, opts Options) []string {
	args := make([]string, 0, 16)
	args = append(args, "ffmpeg", "-hide_banner", "-nostdin", "-y", "-loglevel", "error",
		"-f", "concat", "-safe", "0",
		"-i", listPath,
		"-c", "copy",
	)

	// ADTS AAC from the MPEG-TS clips needs repacking for MP4-family
	// containers.
	ext := strings.ToLower(filepath.Ext(opts.OutputPath))
	if opts.AudioCodec == "aac" && (ext == ".mp4" || ext == ".m4v" || ext == ".mov") {
		args = append(args, "-bsf:a", "aac_adtstoasc")
	}

	args = append(args, opts.OutputPath)
	return args
}

// scalePadFilter returns the filter chain that letterboxes any source onto
// the canvas and locks the frame rate and pixel format.
func scalePadFilter(cv canvas, frameRate int) string {
	return fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=black,fps=%d,format=yuv420p",
		cv.Width, cv.Height, cv.Width, cv.Height, frameRate)
}

// formatSeconds renders a duration for ffmpeg's -t option with millisecond
// precision.
func formatSeconds(d float64) string {
	return strconv.FormatFloat(d, 'f', 3, 64)
}

// execResult holds the outcome of a single ffmpeg invocation.
type execResult struct {
	Stderr string
	Err    error
}

// runFFmpeg executes an ffmpeg argv. When verbose, stderr is tee'd through
// in real time; otherwise it is captured silently for error reporting.
func runFFmpeg(ctx context.Context, args []string, verbose bool) execResult {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	return execResult{
		Stderr: stderrBuf.String(),
		Err:    err,
	}
}

// stderrTail returns the last lines of captured ffmpeg stderr for error
// messages, trimmed so a long encode log does not drown the actual failure.
func stderrTail(stderr string, maxLines int) string {
	s := strings.TrimSpace(stderr)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return strings.Join(lines, "\n")
}
