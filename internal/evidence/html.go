package evidence

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// HTMLReader handles HTML files. Besides visible text it harvests the
// attribute values where URLs live: href, src, action, and inline script
// bodies (trackers and redirectors hide their endpoints there).
type HTMLReader struct{}

var urlAttributes = map[string]bool{
	"href":       true,
	"src":        true,
	"action":     true,
	"data-href":  true,
	"data-url":   true,
	"content":    true,
	"background": true,
}

func (p *HTMLReader) Extract(r io.Reader, filename string) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

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

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			writeLine(n.Data)
		case html.ElementNode:
			if n.Data == "style" {
				return
			}
			for _, attr := range n.Attr {
				if urlAttributes[attr.Key] {
					writeLine(attr.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return sb.String(), nil
}
