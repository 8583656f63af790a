// Command slidecast assembles a narrated video from a directory of
// per-page slide images and narration clips, pairing files by the page
// number embedded in their names.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/backmassage/slidecast/internal/check"
	"github.com/backmassage/slidecast/internal/config"
	"github.com/backmassage/slidecast/internal/display"
	"github.com/backmassage/slidecast/internal/logging"
	"github.com/backmassage/slidecast/internal/narrate"
	"github.com/backmassage/slidecast/internal/pipeline"
	"github.com/backmassage/slidecast/internal/watch"
)

// version and commit are set at build time via -ldflags (e.g. Makefile).
var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

var (
	cfg        = config.DefaultConfig()
	configPath string
	colorFlag  string
	settle     time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "slidecast [input-dir]",
	Short: "Assemble a narrated video from numbered slide images and audio clips",
	Long: `slidecast scans a directory for slide images and narration audio clips,
pairs them by the trailing number in each filename, and renders a single
continuous video: each slide is shown for exactly the length of its
narration, with optional silent pauses between slides.`,
	Version: version + " (" + commit + ")",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := setup(cmd, args)
		if err != nil {
			return err
		}
		defer log.Close()

		if err := check.CheckDeps(&cfg); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		_, err = pipeline.Run(ctx, &cfg, log)
		return err
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch [input-dir]",
	Short: "Re-render automatically whenever the slide directory changes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := setup(cmd, args)
		if err != nil {
			return err
		}
		defer log.Close()

		if err := check.CheckDeps(&cfg); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		w, err := watch.New(cfg.InputDir, settle, func(ctx context.Context) error {
			_, err := pipeline.Run(ctx, &cfg, log)
			return err
		}, log)
		if err != nil {
			return err
		}
		defer w.Close()

		if err := w.Run(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

var narrateCmd = &cobra.Command{
	Use:   "narrate <script-file>",
	Short: "Synthesize per-page narration clips from a slide script",
	Long: `narrate reads a slide-deck script, splits it into pages on lines
containing only "---", and asks the speech-synthesis service for one audio
clip per page. Clips are written as narration_NNN.wav so their numbering
matches the slide images.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger(cmd)
		if err != nil {
			return err
		}
		defer log.Close()

		script, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read script %s: %w", args[0], err)
		}

		outDir := cfg.InputDir
		if outDir == "" {
			outDir = "slides"
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		client := narrate.NewClient(cfg.NarrateURL)
		if err := client.Generate(ctx, string(script), cfg.Speaker, outDir, log); err != nil {
			return err
		}
		log.Success("Narration written to %s", outDir)
		return nil
	},
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config [path]",
	Short: "Write a JSON config template with all options and defaults, then exit",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "slidecast.json"
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.WriteTemplate(path); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Wrote config template to %s\n", path)
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Diagnose ffmpeg, ffprobe, and codec availability",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger(cmd)
		if err != nil {
			return err
		}
		defer log.Close()

		check.RunCheck(&cfg, log)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "JSON config file (flags override file values)")
	pf.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose logging, tee ffmpeg output")
	pf.StringVar(&colorFlag, "color", string(cfg.ColorMode), "Color output: auto | always | never")
	pf.StringVar(&cfg.LogFile, "log-file", "", "Also append log lines to this file")

	for _, cmd := range []*cobra.Command{rootCmd, watchCmd} {
		f := cmd.Flags()
		f.StringVarP(&cfg.OutputPath, "output", "o", cfg.OutputPath, "Output video path")
		f.IntVar(&cfg.FrameRate, "fps", cfg.FrameRate, "Output frame rate")
		f.StringVarP(&cfg.Resolution, "resolution", "r", "", "Target resolution WxH (default: from images)")
		f.StringVar(&cfg.VideoCodec, "video-codec", cfg.VideoCodec, "ffmpeg video codec")
		f.StringVar(&cfg.AudioCodec, "audio-codec", cfg.AudioCodec, "ffmpeg audio codec")
		f.Float64Var(&cfg.PauseBefore, "pause-before", cfg.PauseBefore, "Silent seconds before each slide (except the first)")
		f.Float64Var(&cfg.PauseAfter, "pause-after", cfg.PauseAfter, "Silent seconds after each slide (except the last)")
	}
	watchCmd.Flags().DurationVar(&settle, "settle", watch.DefaultSettle, "Quiet period before a re-render starts")

	nf := narrateCmd.Flags()
	nf.StringVarP(&cfg.InputDir, "out-dir", "d", "", "Directory for the narration clips (default \"slides\")")
	nf.StringVar(&cfg.NarrateURL, "url", cfg.NarrateURL, "Speech-synthesis service base URL")
	nf.IntVar(&cfg.Speaker, "speaker", cfg.Speaker, "Voice identifier on the synthesis service")

	rootCmd.AddCommand(watchCmd, narrateCmd, initConfigCmd, checkCmd)
	rootCmd.SilenceUsage = true
}

// setup finishes config assembly for render-style commands (config file,
// positional input dir, validation) and opens the logger.
func setup(cmd *cobra.Command, args []string) (*logging.Logger, error) {
	if configPath != "" {
		loaded, err := config.Load(configPath, cfg)
		if err != nil {
			return nil, err
		}
		applyFlagOverrides(cmd, &loaded)
		cfg = loaded
	}
	if len(args) == 1 {
		cfg.InputDir = config.NormalizeDirArg(args[0])
	}
	cfg.ColorMode = config.ColorMode(colorFlag)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(cfg.InputDir); err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		return nil, err
	}
	display.PrintBanner()
	log.Info("=== slidecast v%s ===", version)
	log.Info("In:  %s", cfg.InputDir)
	log.Info("Out: %s", cfg.OutputPath)
	return log, nil
}

// applyFlagOverrides re-applies explicitly set flags on top of a config
// loaded from file, so the precedence is defaults < file < flags.
func applyFlagOverrides(cmd *cobra.Command, loaded *config.Config) {
	set := map[string]func(){
		"output":       func() { loaded.OutputPath = cfg.OutputPath },
		"fps":          func() { loaded.FrameRate = cfg.FrameRate },
		"resolution":   func() { loaded.Resolution = cfg.Resolution },
		"video-codec":  func() { loaded.VideoCodec = cfg.VideoCodec },
		"audio-codec":  func() { loaded.AudioCodec = cfg.AudioCodec },
		"pause-before": func() { loaded.PauseBefore = cfg.PauseBefore },
		"pause-after":  func() { loaded.PauseAfter = cfg.PauseAfter },
		"verbose":      func() { loaded.Verbose = cfg.Verbose },
		"log-file":     func() { loaded.LogFile = cfg.LogFile },
	}
	for name, apply := range set {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
}

// newLogger validates only the logging-relevant config and opens the
// logger, for subcommands that do not render.
func newLogger(cmd *cobra.Command) (*logging.Logger, error) {
	cfg.ColorMode = config.ColorMode(colorFlag)
	switch cfg.ColorMode {
	case config.ColorAuto, config.ColorAlways, config.ColorNever:
	default:
		return nil, fmt.Errorf("invalid color mode %q", colorFlag)
	}
	return logging.NewLogger(&cfg)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "slidecast: %v\n", err)
		os.Exit(1)
	}
}
