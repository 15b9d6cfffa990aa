package evidence

import (
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownReader handles Markdown files using goldmark. Link and image
// destinations are emitted alongside the visible text: in evidence files
// the interesting URL is usually behind the link, not in it.
type MarkdownReader struct{}

func (p *MarkdownReader) Extract(r io.Reader, filename string) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var sb strings.Builder
	writeLine := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(s)
	}

	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			writeLine(string(node.Value(src)))
		case *ast.Link:
			writeLine(string(node.Destination))
		case *ast.Image:
			writeLine(string(node.Destination))
		case *ast.AutoLink:
			writeLine(string(node.URL(src)))
		case *ast.FencedCodeBlock:
			writeLine(blockLines(node, src))
		case *ast.CodeBlock:
			writeLine(blockLines(node, src))
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// blockLines gets the raw source lines of a code block.
func blockLines(n ast.Node, src []byte) string {
	var buf strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return buf.String()
}
