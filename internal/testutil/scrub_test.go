package testutil_test

import (
	"testing"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/testutil"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"CRLF to LF", "line1\r\nline2\r\n", "line1\nline2"},
		{"trailing whitespace", "line1   \nline2\t\n", "line1\nline2"},
		{"trailing newlines", "line1\nline2\n\n\n", "line1\nline2"},
		{"empty string", "", ""},
		{"already clean", "line1\nline2", "line1\nline2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, testutil.Normalize(tt.input), tt.want)
		})
	}
}

func TestScrubAll(t *testing.T) {
	in := "id 123e4567-e89b-12d3-a456-426614174000 at 2026-01-02T03:04:05Z took 1.5s  \n"
	testutil.AssertEqual(t, testutil.ScrubAll(in), "id [UUID] at [TIMESTAMP] took [DURATION]")
}

func TestScrubDurations(t *testing.T) {
	testutil.AssertEqual(t, testutil.ScrubDurations("elapsed 250ms"), "elapsed [DURATION]")
	testutil.AssertEqual(t, testutil.ScrubDurations("5m30s"), "[DURATION]")
}
