package markdown

import (
	"strings"
	"testing"
)

func TestExtractHeadings_LevelsAndOrder(t *testing.T) {
	text := "# Title\n\nIntro.\n\n## Section A\n\nBody.\n\n### Sub A1\n\nMore.\n\n## Section B\n"

	headings := ExtractHeadings(text)
	if len(headings) != 4 {
		t.Fatalf("expected 4 headings, got %d", len(headings))
	}

	wantLevels := []int{1, 2, 3, 2}
	wantTexts := []string{"Title", "Section A", "Sub A1", "Section B"}
	for i, h := range headings {
		if h.Level != wantLevels[i] {
			t.Errorf("heading %d: level = %d, want %d", i, h.Level, wantLevels[i])
		}
		if h.Text != wantTexts[i] {
			t.Errorf("heading %d: text = %q, want %q", i, h.Text, wantTexts[i])
		}
	}
}

func TestExtractHeadings_OffsetsPointAtMarker(t *testing.T) {
	text := "preamble\n# First\nbody\n## Second\n"

	headings := ExtractHeadings(text)
	if len(headings) != 2 {
		t.Fatalf("expected 2 headings, got %d", len(headings))
	}

	for i, h := range headings {
		if text[h.StartOffset] != '#' {
			t.Errorf("heading %d: offset %d does not point at '#'", i, h.StartOffset)
		}
		// The offset must be reconstructible: markers + separator + text.
		line := strings.Repeat("#", h.Level) + " " + h.Text
		if !strings.HasPrefix(text[h.StartOffset:], line) {
			t.Errorf("heading %d: text at offset %d = %q, want prefix %q",
				i, h.StartOffset, text[h.StartOffset:], line)
		}
	}
}

func TestExtractHeadings_SortedByOffset(t *testing.T) {
	text := "# A\ntext\n## B\ntext\n# C\ntext\n### D\n"
	headings := ExtractHeadings(text)
	for i := 1; i < len(headings); i++ {
		if headings[i].StartOffset <= headings[i-1].StartOffset {
			t.Errorf("headings not in document order at index %d", i)
		}
	}
}

func TestExtractHeadings_HeadingAtOffsetZero(t *testing.T) {
	headings := ExtractHeadings("# Start\n")
	if len(headings) != 1 {
		t.Fatalf("expected 1 heading, got %d", len(headings))
	}
	if headings[0].StartOffset != 0 {
		t.Errorf("expected offset 0, got %d", headings[0].StartOffset)
	}
}

func TestExtractHeadings_MidLineHashIgnored(t *testing.T) {
	text := "issue #42 is fixed\nsee ## below\n"
	if got := ExtractHeadings(text); got != nil {
		t.Errorf("expected no headings for mid-line markers, got %v", got)
	}
}

func TestExtractHeadings_NoHeadings(t *testing.T) {
	if got := ExtractHeadings("plain text only\n\nno markers here"); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}
