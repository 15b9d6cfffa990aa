package evidence

import (
	"strings"
	"testing"
)

func TestHTMLReader_HarvestsAttributesAndText(t *testing.T) {
	input := `<html><head><title>Saved page</title>
<style>body { color: red; }</style></head>
<body>
<p>Click <a href="https://redirect.example/r?u=https%3A%2F%2Ftarget.example%2F">here</a></p>
<img src="https://cdn.example/pixel.gif">
<form action="https://collect.example/submit"></form>
<script>var endpoint = "https://api.example/v1/track";</script>
</body></html>`

	p := &HTMLReader{}
	text, err := p.Extract(strings.NewReader(input), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"Saved page",
		"https://redirect.example/r?u=https%3A%2F%2Ftarget.example%2F",
		"https://cdn.example/pixel.gif",
		"https://collect.example/submit",
		"https://api.example/v1/track",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected extracted text to contain %q, got:\n%s", want, text)
		}
	}

	if strings.Contains(text, "color: red") {
		t.Error("expected style content to be skipped")
	}
}

func TestCSVReader_Cells(t *testing.T) {
	input := "id,url\n1,https://example.com/a\n2,https://example.com/b\n"
	p := &CSVReader{}
	text, err := p.Extract(strings.NewReader(input), "export.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "https://example.com/a") || !strings.Contains(text, "https://example.com/b") {
		t.Errorf("expected both urls, got %q", text)
	}
}

func TestTextReader_PassesLinesThrough(t *testing.T) {
	p := &TextReader{}
	text, err := p.Extract(strings.NewReader("line one\nline two"), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "line one\nline two" {
		t.Errorf("unexpected text: %q", text)
	}
}
