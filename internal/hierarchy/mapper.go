// Package hierarchy assigns heading lineage to chunk positions.
//
// Given the document-ordered heading sequence and a chunk's start offset, the
// mapper answers: which heading was in effect at each level ("H1", "H2", ...)
// when this chunk began? Headings are extracted as flat text with no
// guaranteed semantic nesting, so the raw per-level answer is then pruned
// top-down: a level-k heading survives only if its text continues its level
// k-1 parent's text as a literal prefix. This catches stale sub-headings left
// over from an earlier, superseded branch (e.g. an "H2" that belongs to a
// previous "H1"). It is a heuristic over heading text, not semantics.
package hierarchy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dgallion1/docslice/internal/document"
)

// Path maps level keys ("H1", "H2", ...) to heading text. An empty path is
// valid: it means the position precedes every heading in the document.
type Path map[string]string

// Mapper resolves heading paths against a fixed heading sequence. The
// sequence must be sorted ascending by StartOffset, which is guaranteed by
// markdown.ExtractHeadings. A Mapper is read-only after construction and safe
// for concurrent use.
type Mapper struct {
	headings []document.Heading
	maxLevel int
}

// NewMapper builds a mapper over the document's heading sequence.
func NewMapper(headings []document.Heading) *Mapper {
	m := &Mapper{headings: headings}
	for _, h := range headings {
		if h.Level > m.maxLevel {
			m.maxLevel = h.Level
		}
	}
	return m
}

// PathAt returns the pruned heading path in effect at the given offset.
// Only headings starting at or before offset are considered (inclusive
// boundary); a heading at the exact chunk start belongs to the chunk. When
// two headings of the same level share an offset, the later one in sequence
// wins. The result is computed independently per call — no state is carried
// between chunks.
func (m *Mapper) PathAt(offset int) Path {
	// Headings are sorted, so the candidates are exactly a prefix of the
	// sequence. sort.Search finds the first heading past the offset.
	end := sort.Search(len(m.headings), func(i int) bool {
		return m.headings[i].StartOffset > offset
	})

	path := Path{}
	for _, h := range m.headings[:end] {
		path[LevelKey(h.Level)] = h.Text
	}
	m.prune(path)
	return path
}

// prune applies top-down consistency validation: for each level k >= 2, the
// entry survives only if level k-1 survived and the level-k text starts with
// the level k-1 text. Validating in ascending level order makes the rule
// cascade — dropping H2 also drops H3.
func (m *Mapper) prune(path Path) {
	for level := 2; level <= m.maxLevel; level++ {
		key := LevelKey(level)
		text, ok := path[key]
		if !ok {
			continue
		}
		parent, ok := path[LevelKey(level-1)]
		if !ok || !strings.HasPrefix(text, parent) {
			delete(path, key)
		}
	}
}

// LevelKey returns the metadata key for a heading level: 1 -> "H1".
func LevelKey(level int) string {
	return fmt.Sprintf("H%d", level)
}
