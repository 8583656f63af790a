package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
		{3 * 1024 * 1024 * 1024, "3.0 GiB"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatBytes(tc.in), "input %d", tc.in)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0:00.0"},
		{5.5, "0:05.5"},
		{65.5, "1:05.5"},
		{600, "10:00.0"},
		{3700, "1:01:40"},
		{-2, "0:00.0"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatDuration(tc.in), "input %g", tc.in)
	}
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "3.000", FormatSeconds(3))
	assert.Equal(t, "0.500", FormatSeconds(0.5))
}
