package markdown

import (
	"regexp"

	"github.com/dgallion1/docslice/internal/document"
)

// A heading line starts at the beginning of a line with one or more '#'
// markers, one separator character, then the heading text. The marker count
// is the level.
var headingRe = regexp.MustCompile(`(?m)^(#+)\s(.*)`)

// ExtractHeadings scans converted document text and returns every heading in
// document order. StartOffset is the absolute offset of the first '#' of each
// heading, so the result is sorted ascending by offset.
func ExtractHeadings(text string) []document.Heading {
	matches := headingRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	headings := make([]document.Heading, 0, len(matches))
	for _, m := range matches {
		// m[0] is the match start, m[2]:m[3] the markers, m[4]:m[5] the text.
		headings = append(headings, document.Heading{
			Level:       m[3] - m[2],
			Text:        text[m[4]:m[5]],
			StartOffset: m[0],
		})
	}
	return headings
}
