// Package check provides system diagnostics (check subcommand) and
// pre-render dependency validation for ffmpeg, ffprobe, and the configured
// codecs.
package check

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/backmassage/slidecast/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool or encoder is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
	ErrVideoCodec      = errors.New("video codec test encode failed")
	ErrAudioCodec      = errors.New("audio codec test encode failed")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the interactive check flow: prints availability of ffmpeg
// and ffprobe and tests the configured video and audio codecs. This is
// informational only, it does not stop on failure.
func RunCheck(cfg *config.Config, log Logger) {
	log.Info("=== System Check ===")

	checkTool(log, "ffmpeg")
	checkTool(log, "ffprobe")
	checkVideoCodec(cfg, log)
	checkAudioCodec(cfg, log)
}

// checkTool verifies a binary is on PATH and logs its version string.
func checkTool(log Logger, name string) {
	if _, err := exec.LookPath(name); err != nil {
		log.Error("%s not found", name)
		return
	}
	cmd := exec.Command(name, "-version")
	out, err := cmd.Output()
	if err != nil {
		log.Warn("%s found but -version failed: %v", name, err)
		return
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("%s: %s", name, firstLine)
}

func checkVideoCodec(cfg *config.Config, log Logger) {
	log.Info("Testing video codec %s...", cfg.VideoCodec)
	if runSilent("ffmpeg", videoTestArgs(cfg.VideoCodec)...) {
		log.Success("Video codec %s works", cfg.VideoCodec)
	} else {
		log.Error("Video codec %s test encode failed", cfg.VideoCodec)
	}
}

func checkAudioCodec(cfg *config.Config, log Logger) {
	log.Info("Testing audio codec %s...", cfg.AudioCodec)
	if runSilent("ffmpeg", audioTestArgs(cfg.AudioCodec)...) {
		log.Success("Audio codec %s works", cfg.AudioCodec)
	} else {
		log.Error("Audio codec %s test encode failed", cfg.AudioCodec)
	}
}

// CheckDeps is the pre-render validation: it verifies that ffmpeg and
// ffprobe are on PATH and that the configured codecs pass a short test
// encode. Returns a sentinel error (wrapped with the codec name) on failure.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrFfprobeNotFound
	}
	if !runSilent("ffmpeg", videoTestArgs(cfg.VideoCodec)...) {
		return fmt.Errorf("%w (codec %s)", ErrVideoCodec, cfg.VideoCodec)
	}
	if !runSilent("ffmpeg", audioTestArgs(cfg.AudioCodec)...) {
		return fmt.Errorf("%w (codec %s)", ErrAudioCodec, cfg.AudioCodec)
	}
	return nil
}

// videoTestArgs returns the ffmpeg arguments for a minimal test encode with
// the given video codec.
func videoTestArgs(codec string) []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "color=black:s=256x256:d=0.1",
		"-c:v", codec,
		"-f", "null", "-",
	}
}

// audioTestArgs returns the ffmpeg arguments for a minimal test encode with
// the given audio codec.
func audioTestArgs(codec string) []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", codec, "-f", "null", "-",
	}
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(name string, args ...string) bool {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
