package match

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageIndex(t *testing.T) {
	cases := []struct {
		name   string
		want   int
		wantOK bool
	}{
		{name: "slide01.png", want: 1, wantOK: true},
		{name: "narration_12.wav", want: 12, wantOK: true},
		// Multiple digit runs: the last one is the page index.
		{name: "deck_1920x1080_p07.png", want: 7, wantOK: true},
		{name: "2024-01-15_slide3.png", want: 3, wantOK: true},
		{name: "0.wav", want: 0, wantOK: true},
		// Digits in the extension never contribute.
		{name: "track2.mp3", want: 2, wantOK: true},
		{name: "voice5.m4a", want: 5, wantOK: true},
		{name: "intro.mp3", wantOK: false},
		{name: "cover.png", wantOK: false},
		{name: "notes.txt", wantOK: false},
		// A digit run too large for int is rejected, not truncated.
		{name: "slide99999999999999999999.png", wantOK: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := PageIndex(tc.name)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		wantKind Kind
		wantOK   bool
	}{
		{"slide1.png", KindImage, true},
		{"slide1.JPG", KindImage, true},
		{"slide1.jpeg", KindImage, true},
		{"slide1.tiff", KindImage, true},
		{"take1.wav", KindAudio, true},
		{"take1.MP3", KindAudio, true},
		{"take1.m4a", KindAudio, true},
		{"deck1.pdf", "", false},
		{"slide1.png.bak", "", false},
	}

	for _, tc := range cases {
		mf, ok := Classify("in", tc.name)
		assert.Equal(t, tc.wantOK, ok, tc.name)
		if tc.wantOK {
			assert.Equal(t, tc.wantKind, mf.Kind, tc.name)
			assert.Equal(t, filepath.Join("in", tc.name), mf.Path, tc.name)
		}
	}
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644))
	}
}

func TestScanPairsAscending(t *testing.T) {
	dir := t.TempDir()
	// Deliberately non-contiguous, non-zero-based indices.
	writeFiles(t, dir,
		"slide10.png", "slide2.png", "slide5.png",
		"voice10.wav", "voice2.wav", "voice5.wav",
		"README.md",
	)

	res, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, res.Pairs, 3)
	assert.Equal(t, []int{res.Pairs[0].Index, res.Pairs[1].Index, res.Pairs[2].Index}, []int{2, 5, 10})
	assert.Empty(t, res.ImageOnly)
	assert.Empty(t, res.AudioOnly)
	assert.Equal(t, filepath.Join(dir, "slide5.png"), res.Pairs[1].Image.Path)
	assert.Equal(t, filepath.Join(dir, "voice5.wav"), res.Pairs[1].Audio.Path)
}

func TestScanReportsUnpaired(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"slide1.png", "slide2.png", "slide3.png",
		"voice2.wav", "voice9.wav",
	)

	res, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, res.Pairs, 1)
	assert.Equal(t, 2, res.Pairs[0].Index)
	assert.Equal(t, []int{1, 3}, res.ImageOnly)
	assert.Equal(t, []int{9}, res.AudioOnly)
}

func TestScanDisjointIndicesFails(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "slide1.png", "slide2.png", "voice3.wav")

	res, err := Scan(dir)
	require.ErrorIs(t, err, ErrNoPairs)
	require.NotNil(t, res)
	assert.Equal(t, []int{1, 2}, res.ImageOnly)
	assert.Equal(t, []int{3}, res.AudioOnly)
}

func TestScanEmptyDirFails(t *testing.T) {
	_, err := Scan(t.TempDir())
	assert.ErrorIs(t, err, ErrNoPairs)
}

func TestScanMissingDirFails(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoPairs)
}

func TestScanSingleUnpairedImage(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "img5.png")

	res, err := Scan(dir)
	require.ErrorIs(t, err, ErrNoPairs)
	assert.Equal(t, []int{5}, res.ImageOnly)
}

func TestScanDuplicateIndexLastWins(t *testing.T) {
	dir := t.TempDir()
	// Both images parse to index 7; os.ReadDir sorts by name, so v2_7.png
	// is scanned after slide7.png and wins.
	writeFiles(t, dir, "slide7.png", "v2_7.png", "voice7.wav")

	res, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, res.Pairs, 1)
	assert.Equal(t, filepath.Join(dir, "v2_7.png"), res.Pairs[0].Image.Path)
	assert.Equal(t, []string{filepath.Join(dir, "slide7.png")}, res.Collisions)
}

func TestScanIgnoresFilesWithoutDigits(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "cover.png", "intro.wav", "slide1.png", "voice1.wav")

	res, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, res.Pairs, 1)
	assert.Empty(t, res.ImageOnly)
	assert.Empty(t, res.AudioOnly)
}

func TestScanSkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "extras99"), 0o755))
	writeFiles(t, dir, "slide1.png", "voice1.wav")

	res, err := Scan(dir)
	require.NoError(t, err)
	assert.Len(t, res.Pairs, 1)
}
