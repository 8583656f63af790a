package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/slidecast/internal/config"
	"github.com/backmassage/slidecast/internal/logging"
	"github.com/backmassage/slidecast/internal/match"
)

func quietLogger(t *testing.T) *logging.Logger {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	log, err := logging.NewLogger(&cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = log.Close() })
	return log
}

func TestRunMissingInputDir(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.InputDir = filepath.Join(t.TempDir(), "absent")

	_, err := Run(context.Background(), &cfg, quietLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "match:")
}

func TestRunNoPairs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "slide1.png"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "voice2.wav"), []byte("x"), 0o644))

	cfg := config.DefaultConfig()
	cfg.InputDir = dir

	_, err := Run(context.Background(), &cfg, quietLogger(t))
	assert.ErrorIs(t, err, match.ErrNoPairs)
}
