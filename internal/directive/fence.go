package directive

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// fencedLines returns the 1-based numbers of every line that belongs to the
// content of a fenced code block. Directives on those lines are examples, not
// inclusions.
func fencedLines(source []byte) map[int]bool {
	parser := goldmark.DefaultParser()
	root := parser.Parse(text.NewReader(source))

	lines := make(map[int]bool)

	_ = ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb := asFencedCodeBlock(node, entering)
		if fcb == nil {
			return ast.WalkContinue, nil
		}

		segs := fcb.Lines()
		for i := 0; i < segs.Len(); i++ {
			lines[lineAt(source, segs.At(i).Start)] = true
		}

		return ast.WalkSkipChildren, nil
	})

	return lines
}

func asFencedCodeBlock(node ast.Node, entering bool) *ast.FencedCodeBlock {
	if !entering || node.Kind() != ast.KindFencedCodeBlock {
		return nil
	}

	if fcb, ok := node.(*ast.FencedCodeBlock); ok {
		return fcb
	}

	return nil
}

func lineAt(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}

	return bytes.Count(source[:offset], []byte("\n")) + 1
}
