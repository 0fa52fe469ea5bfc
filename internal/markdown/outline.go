package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// OutlineNode is one heading in a document's nested outline.
type OutlineNode struct {
	Title    string         `json:"title"`
	Level    int            `json:"level"`
	Children []*OutlineNode `json:"children,omitempty"`
}

// Outline parses markdown and returns the heading hierarchy as a tree.
// Headings nest under the nearest preceding heading of a lower level; a
// heading with no such parent becomes a root.
func Outline(src []byte) []*OutlineNode {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	root := &OutlineNode{Level: 0}
	stack := []*OutlineNode{root}

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		node := &OutlineNode{
			Title: headingText(heading, src),
			Level: heading.Level,
		}
		for len(stack) > 1 && stack[len(stack)-1].Level >= node.Level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, node)
		stack = append(stack, node)

		return ast.WalkSkipChildren, nil
	})

	return root.Children
}

// headingText collects the plain text of a heading node.
func headingText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				buf.Write(t.Value(src))
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}
