package convert

import (
	"fmt"
	"math"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFConverter renders PDF text content as markdown. Heading levels are
// inferred from font sizes (runs set notably larger than the body text) and
// bold fonts become '**' spans. It optionally falls back to pdftotext, which
// yields plain text without structure.
type PDFConverter struct {
	FallbackPdftotext bool
}

func (c *PDFConverter) Convert(data []byte) (string, error) {
	// The pdf library wants a seekable file, so the bytes go through a
	// temporary file that is removed on every exit path.
	tmp, err := os.CreateTemp("", "docslice-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	text, err := pdfToMarkdown(tmpPath)
	if err != nil && c.FallbackPdftotext {
		text, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return "", &ConversionError{Format: "pdf", Err: err}
	}
	return text, nil
}

func pdfToMarkdown(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var pages [][]pdflib.Text
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		texts := page.Content().Text
		if len(texts) > 0 {
			pages = append(pages, texts)
		}
	}
	return markdownFromPages(pages), nil
}

// markdownFromPages renders styled text runs as markdown. The body font size
// is the mode weighted by character count; the distinct larger sizes, ranked
// descending, map to heading levels 1..3.
func markdownFromPages(pages [][]pdflib.Text) string {
	levelFor := headingLevels(pages)

	var out []string
	for _, texts := range pages {
		var pageLines []string
		for _, line := range groupLines(texts) {
			rendered := renderLine(line, levelFor)
			if rendered != "" {
				pageLines = append(pageLines, rendered)
			}
		}
		if len(pageLines) > 0 {
			out = append(out, strings.Join(pageLines, "\n"))
		}
	}
	return strings.Join(out, "\n\n")
}

// headingLevels maps rounded font sizes to heading levels. Sizes at or below
// the body size map to 0 (regular text).
func headingLevels(pages [][]pdflib.Text) map[float64]int {
	weight := map[float64]int{}
	for _, texts := range pages {
		for _, t := range texts {
			weight[roundSize(t.FontSize)] += len(t.S)
		}
	}

	body := 0.0
	bodyWeight := -1
	for size, w := range weight {
		if w > bodyWeight || (w == bodyWeight && size < body) {
			body, bodyWeight = size, w
		}
	}

	var larger []float64
	for size := range weight {
		if size > body {
			larger = append(larger, size)
		}
	}
	// Largest size becomes H1, next H2, then H3; anything smaller than the
	// third rank is treated as body text.
	sortDescending(larger)

	levels := map[float64]int{}
	for i, size := range larger {
		if i >= 3 {
			break
		}
		levels[size] = i + 1
	}
	return levels
}

func roundSize(s float64) float64 {
	return math.Round(s*2) / 2
}

func sortDescending(sizes []float64) {
	for i := 1; i < len(sizes); i++ {
		for j := i; j > 0 && sizes[j] > sizes[j-1]; j-- {
			sizes[j], sizes[j-1] = sizes[j-1], sizes[j]
		}
	}
}

// groupLines splits a page's text runs into visual lines by Y coordinate.
// Runs arrive in stream order; a new line starts when Y moves.
func groupLines(texts []pdflib.Text) [][]pdflib.Text {
	var lines [][]pdflib.Text
	var current []pdflib.Text
	for _, t := range texts {
		if len(current) > 0 && math.Abs(t.Y-current[len(current)-1].Y) > 0.5 {
			lines = append(lines, current)
			current = nil
		}
		current = append(current, t)
	}
	if len(current) > 0 {
		lines = append(lines, current)
	}
	return lines
}

func renderLine(line []pdflib.Text, levelFor map[float64]int) string {
	level := 0
	for _, t := range line {
		if l := levelFor[roundSize(t.FontSize)]; l > level {
			level = l
		}
	}

	if level > 0 {
		text := strings.TrimSpace(plainText(line))
		if text == "" {
			return ""
		}
		return strings.Repeat("#", level) + " " + text
	}

	var sb strings.Builder
	i := 0
	for i < len(line) {
		if isBoldFont(line[i].Font) {
			j := i
			var run strings.Builder
			for j < len(line) && isBoldFont(line[j].Font) {
				run.WriteString(line[j].S)
				j++
			}
			content := strings.TrimSpace(run.String())
			if content != "" {
				if sb.Len() > 0 && !strings.HasSuffix(sb.String(), " ") {
					sb.WriteByte(' ')
				}
				sb.WriteString("**")
				sb.WriteString(content)
				sb.WriteString("** ")
			}
			i = j
			continue
		}
		sb.WriteString(line[i].S)
		i++
	}
	return strings.TrimRight(sb.String(), " ")
}

func plainText(line []pdflib.Text) string {
	var sb strings.Builder
	for _, t := range line {
		sb.WriteString(t.S)
	}
	return sb.String()
}

func isBoldFont(font string) bool {
	return strings.Contains(font, "Bold") || strings.Contains(font, "Black")
}

// extractPdftotext shells out to pdftotext when the Go library cannot read
// the file. Output is plain text only.
func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
