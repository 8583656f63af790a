// Package config holds runtime configuration: defaults, JSON config file
// load/save, and validation. A Config is built once per run and passed by
// pointer into each component; nothing mutates it after Validate.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. Populated by [DefaultConfig], then
// optionally overlaid from a JSON config file and CLI flags before
// [Config.Validate] is called.
type Config struct {
	// Paths.
	InputDir   string `json:"input_dir"`
	OutputPath string `json:"output_path"`

	// Render settings.
	FrameRate  int    `json:"frame_rate"`  // Default: 24.
	Resolution string `json:"resolution"`  // "WxH", empty = canvas sized from source images.
	VideoCodec string `json:"video_codec"` // Default: "libx264".
	AudioCodec string `json:"audio_codec"` // Default: "aac".

	// Pacing: silent still-frame padding around each narrated slide, seconds.
	PauseBefore float64 `json:"pause_before"`
	PauseAfter  float64 `json:"pause_after"`

	// Narration service (narrate subcommand only).
	NarrateURL string `json:"narrate_url"` // Default: "http://127.0.0.1:50021".
	Speaker    int    `json:"speaker"`     // Voice identifier on the synthesis service.

	// Display and logging.
	Verbose   bool      `json:"verbose"`
	ColorMode ColorMode `json:"color"`    // Default: "auto".
	LogFile   string    `json:"log_file"` // Optional log file path.

	// Derived from Resolution by Validate; not part of the file form.
	Width  int `json:"-"`
	Height int `json:"-"`
}

// DefaultConfig returns a Config with the stock defaults. Used as the base
// before config file and flag overrides are applied.
func DefaultConfig() Config {
	return Config{
		OutputPath:  "slidecast.mp4",
		FrameRate:   24,
		VideoCodec:  "libx264",
		AudioCodec:  "aac",
		PauseBefore: 0.5,
		PauseAfter:  0.5,
		NarrateURL:  "http://127.0.0.1:50021",
		Speaker:     1,
		ColorMode:   ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum and numeric fields and derives Width/Height from
// Resolution. It does not touch the filesystem.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.FrameRate <= 0 {
		return fmt.Errorf("frame rate must be positive, got %d", c.FrameRate)
	}
	if c.PauseBefore < 0 {
		return fmt.Errorf("pause-before must be >= 0, got %g", c.PauseBefore)
	}
	if c.PauseAfter < 0 {
		return fmt.Errorf("pause-after must be >= 0, got %g", c.PauseAfter)
	}
	if c.VideoCodec == "" {
		return errors.New("video codec must not be empty")
	}
	if c.AudioCodec == "" {
		return errors.New("audio codec must not be empty")
	}

	w, h, err := ParseResolution(c.Resolution)
	if err != nil {
		return err
	}
	c.Width, c.Height = w, h

	if c.InputDir == "" {
		return errors.New("need an input directory")
	}
	if c.OutputPath == "" {
		return errors.New("output path must not be empty")
	}
	return nil
}

// ParseResolution parses a "WxH" string into positive pixel dimensions.
// The empty string means no target resolution and yields (0, 0).
func ParseResolution(res string) (int, int, error) {
	if res == "" {
		return 0, 0, nil
	}
	parts := strings.Split(strings.ToLower(strings.TrimSpace(res)), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("bad resolution %q; expected WxH, e.g. 1920x1080", res)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad width in %q: %w", res, err)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("bad height in %q: %w", res, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("resolution %q must be positive in both dimensions", res)
	}
	return w, h, nil
}
