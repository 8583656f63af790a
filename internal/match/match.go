// Package match pairs slide images with narration audio clips by the page
// number embedded in each filename.
//
// A file's page index is the last run of digits in its basename: in
// "deck_1920x1080_p07.png" the index is 7. Files without any digit run are
// ignored. Extensions are lowered before classification, so ".PNG" counts
// as an image.
package match

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ErrNoPairs is returned by Scan when no page index has both an image and
// an audio file.
var ErrNoPairs = errors.New("no image/audio pairs found")

// Kind classifies a media file by its extension.
type Kind string

const (
	KindImage Kind = "image"
	KindAudio Kind = "audio"
)

// Recognized extensions per kind (lowercase, with leading dot).
var extensionKinds = map[string]Kind{
	".png":  KindImage,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".bmp":  KindImage,
	".tiff": KindImage,

	".wav": KindAudio,
	".mp3": KindAudio,
	".aac": KindAudio,
	".m4a": KindAudio,
	".ogg": KindAudio,
}

// MediaFile is a classified file inside the input directory.
type MediaFile struct {
	Path string
	Kind Kind
}

// SlidePair is one slide image matched to one narration clip sharing a page
// index. AudioDuration is filled in by the probe stage before the timeline
// is built; the matcher leaves it zero.
type SlidePair struct {
	Index         int
	Image         MediaFile
	Audio         MediaFile
	AudioDuration float64
}

// Result holds the ordered pairs plus the indices that failed to pair.
type Result struct {
	Pairs     []SlidePair
	ImageOnly []int // page indices with an image but no audio
	AudioOnly []int // page indices with audio but no image

	// Collisions lists files that were displaced because a later-scanned
	// file of the same kind mapped to the same page index.
	Collisions []string
}

var digitRun = regexp.MustCompile(`[0-9]+`)

// PageIndex extracts the page index from a filename (not a path): the last
// digit run of the name with its extension stripped, parsed as a
// non-negative integer. The extension must not participate or ".mp3" would
// put every clip on page 3. Returns false when the stem has no digit run or
// the run does not fit in an int.
func PageIndex(name string) (int, bool) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	runs := digitRun.FindAllString(stem, -1)
	if len(runs) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(runs[len(runs)-1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Scan reads dir (flat, not recursive), classifies every recognized media
// file, and pairs images with audio clips by page index. Pairs are returned
// in ascending index order; indices present in only one kind are reported
// in the respective Result set, also ascending.
//
// When two files of one kind map to the same index the one scanned last
// wins. os.ReadDir returns entries sorted by filename, so that is the
// lexicographically greatest name; each overwrite is recorded in
// Result so callers can surface it.
func Scan(dir string) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan input directory: %w", err)
	}

	images := make(map[int]MediaFile)
	audio := make(map[int]MediaFile)
	res := &Result{}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		mf, ok := Classify(dir, e.Name())
		if !ok {
			continue
		}
		idx, ok := PageIndex(e.Name())
		if !ok {
			continue
		}
		byIndex := images
		if mf.Kind == KindAudio {
			byIndex = audio
		}
		if prev, dup := byIndex[idx]; dup {
			res.Collisions = append(res.Collisions, prev.Path)
		}
		byIndex[idx] = mf
	}
	for idx, img := range images {
		aud, ok := audio[idx]
		if !ok {
			res.ImageOnly = append(res.ImageOnly, idx)
			continue
		}
		res.Pairs = append(res.Pairs, SlidePair{Index: idx, Image: img, Audio: aud})
	}
	for idx := range audio {
		if _, ok := images[idx]; !ok {
			res.AudioOnly = append(res.AudioOnly, idx)
		}
	}

	sort.Slice(res.Pairs, func(i, j int) bool { return res.Pairs[i].Index < res.Pairs[j].Index })
	sort.Ints(res.ImageOnly)
	sort.Ints(res.AudioOnly)

	if len(res.Pairs) == 0 {
		return res, fmt.Errorf("%w in %s (%d unpaired images, %d unpaired audio clips)",
			ErrNoPairs, dir, len(res.ImageOnly), len(res.AudioOnly))
	}
	return res, nil
}

// Classify maps a directory entry to a MediaFile by extension. The second
// return value is false for unrecognized extensions.
func Classify(dir, name string) (MediaFile, bool) {
	kind, ok := extensionKinds[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return MediaFile{}, false
	}
	return MediaFile{Path: filepath.Join(dir, name), Kind: kind}, true
}
