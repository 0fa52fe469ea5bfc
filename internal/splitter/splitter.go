// Package splitter wraps langchaingo's recursive character splitter with
// start-offset tracking, which downstream hierarchy mapping depends on.
package splitter

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

// Config controls size-based splitting. Sizes are in characters.
type Config struct {
	ChunkSize    int // target chunk size; must be positive
	ChunkOverlap int // overlap between consecutive chunks; must be < ChunkSize
}

// DefaultConfig returns the standard chunking settings.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    1000,
		ChunkOverlap: 150,
	}
}

// Validate checks config bounds.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk overlap must be in [0, chunk size), got %d", c.ChunkOverlap)
	}
	return nil
}

// Piece is one split of the input text. StartOffset is the offset of
// Content's first character in the input; consecutive pieces may overlap in
// content but their offsets are strictly increasing.
type Piece struct {
	Content     string
	StartOffset int
}

// Split cuts text into ordered pieces of roughly ChunkSize characters with
// the configured overlap. The underlying splitter prefers paragraph, then
// line, then word boundaries. Offsets are resolved with a forward cursor
// search over the source text, so overlapping pieces still get strictly
// increasing offsets.
func Split(text string, cfg Config) ([]Piece, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}

	s := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(cfg.ChunkSize),
		textsplitter.WithChunkOverlap(cfg.ChunkOverlap),
	)
	parts, err := s.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("split text: %w", err)
	}

	pieces := make([]Piece, 0, len(parts))
	cursor := 0
	for i, part := range parts {
		if part == "" {
			continue
		}
		idx := strings.Index(text[cursor:], part)
		if idx < 0 {
			return nil, fmt.Errorf("split %d not found in source at or after offset %d", i, cursor)
		}
		offset := cursor + idx
		pieces = append(pieces, Piece{Content: part, StartOffset: offset})
		// The next piece may begin inside this one (overlap), but never at
		// or before the same offset.
		cursor = offset + 1
	}
	return pieces, nil
}
