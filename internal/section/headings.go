package section

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Headings parses a Markdown document and returns its ATX headings in
// document order. Setext headings and '#' lines inside code blocks are
// skipped, since neither can be addressed by [Read].
func Headings(source []byte) []Heading {
	parser := goldmark.DefaultParser()
	root := parser.Parse(text.NewReader(source))

	var headings []Heading

	_ = ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || node.Kind() != ast.KindHeading {
			return ast.WalkContinue, nil
		}

		heading, ok := node.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		lines := heading.Lines()
		if lines.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}

		seg := lines.At(0)
		if !isATX(source, seg.Start) {
			return ast.WalkSkipChildren, nil
		}

		headings = append(headings, Heading{
			Level: heading.Level,
			Text:  string(bytes.TrimSpace(seg.Value(source))),
			Line:  lineAt(source, seg.Start),
		})

		return ast.WalkSkipChildren, nil
	})

	return headings
}

func isATX(source []byte, offset int) bool {
	start := bytes.LastIndexByte(source[:offset], '\n') + 1

	return bytes.HasPrefix(bytes.TrimLeft(source[start:offset], " "), []byte("#"))
}

func lineAt(source []byte, offset int) int {
	return bytes.Count(source[:offset], []byte("\n")) + 1
}
