// Package probe answers the two questions slidecast asks about media files
// via a single ffprobe JSON call each: how long is this audio clip, and how
// large is this image.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// MediaInfo holds the probed properties of one media file. Duration is in
// seconds and zero for still images; Width/Height are zero for audio.
type MediaInfo struct {
	Duration float64
	Width    int
	Height   int
}

// Probe runs ffprobe against path and returns the parsed result.
func Probe(ctx context.Context, path string) (*MediaInfo, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseJSON(out)
}

// AudioDuration probes path and returns its total playback length in
// seconds. Clips that ffprobe reports as zero-length are rejected.
func AudioDuration(ctx context.Context, path string) (float64, error) {
	info, err := Probe(ctx, path)
	if err != nil {
		return 0, err
	}
	if info.Duration <= 0 {
		return 0, fmt.Errorf("audio clip %q has no measurable duration", path)
	}
	return info.Duration, nil
}

// ImageSize probes path and returns its pixel dimensions.
func ImageSize(ctx context.Context, path string) (int, int, error) {
	info, err := Probe(ctx, path)
	if err != nil {
		return 0, 0, err
	}
	if info.Width <= 0 || info.Height <= 0 {
		return 0, 0, fmt.Errorf("image %q has no pixel dimensions", path)
	}
	return info.Width, info.Height, nil
}

// ParseJSON converts raw ffprobe JSON output into a MediaInfo.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*MediaInfo, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	info := &MediaInfo{Duration: parseFloat(raw.Format.Duration)}
	for _, s := range raw.Streams {
		// ffprobe reports a still image as a single video stream; its
		// dimensions are the slide's native resolution.
		if s.CodecType == "video" && info.Width == 0 {
			info.Width = s.Width
			info.Height = s.Height
		}
		if s.CodecType == "audio" && info.Duration == 0 {
			info.Duration = parseFloat(s.Duration)
		}
	}
	return info, nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
}

type ffprobeStream struct {
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Duration  string `json:"duration"`
}

// parseFloat handles ffprobe's numbers-as-strings convention.
func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}
