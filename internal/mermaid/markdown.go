package mermaid

import (
	"bytes"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var (
	markdownOnce   sync.Once
	markdownParser goldmark.Markdown
)

func getMarkdownParser() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownParser = goldmark.New()
	})
	return markdownParser
}

// ExtractBlocks returns the bodies of every ```mermaid fenced code block in a markdown
// document, in document order.
func ExtractBlocks(source []byte) []string {
	reader := text.NewReader(source)
	doc := getMarkdownParser().Parser().Parse(reader)

	var blocks []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if !strings.EqualFold(string(fenced.Language(source)), "mermaid") {
			return ast.WalkSkipChildren, nil
		}

		var buf bytes.Buffer
		lines := fenced.Lines()
		for i := 0; i < lines.Len(); i++ {
			segment := lines.At(i)
			buf.Write(segment.Value(source))
		}
		blocks = append(blocks, buf.String())
		return ast.WalkSkipChildren, nil
	})

	return blocks
}

// FirstBlock returns the first mermaid block of a markdown document.
func FirstBlock(source []byte) (string, bool) {
	blocks := ExtractBlocks(source)
	if len(blocks) == 0 {
		return "", false
	}
	return blocks[0], true
}
