package document

// Heading is a structural marker extracted from converted document text.
type Heading struct {
	Level       int    // 1 = top level (number of '#' markers)
	Text        string // heading text, without the markers
	StartOffset int    // absolute offset of the first marker character
}

// Chunk is a bounded-size slice of document text plus structural metadata.
// Metadata carries the heading lineage ("H1", "H2", ...) and, when the chunk
// contains bold spans, an "important_phrases" list. Order of chunks is
// retrieval-significant.
type Chunk struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// MetaImportantPhrases is the metadata key for extracted bold phrases.
// The key is absent, not an empty list, when a chunk has no emphasis.
const MetaImportantPhrases = "important_phrases"
