package markdown

import (
	"regexp"
	"strings"
)

var (
	// Non-greedy so adjacent spans don't merge; (?s) lets a span cross lines.
	boldRe       = regexp.MustCompile(`(?s)\*\*(.*?)\*\*`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// ExtractEmphasis returns the cleaned interior text of every **bold** span in
// content, in order of appearance. Whitespace runs (including newlines) are
// collapsed to a single space and the result is trimmed. Returns nil when the
// content has no emphasis spans.
func ExtractEmphasis(content string) []string {
	matches := boldRe.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	phrases := make([]string, 0, len(matches))
	for _, m := range matches {
		cleaned := strings.TrimSpace(whitespaceRe.ReplaceAllString(m[1], " "))
		phrases = append(phrases, cleaned)
	}
	return phrases
}
