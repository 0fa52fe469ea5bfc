package convert

// MarkdownConverter passes markdown or plain text through unchanged. Plain
// text simply yields no headings or emphasis downstream.
type MarkdownConverter struct{}

func (c *MarkdownConverter) Convert(data []byte) (string, error) {
	return string(data), nil
}
