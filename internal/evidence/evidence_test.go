package evidence

import (
	"fmt"
	"testing"
)

func TestForFile_Dispatch(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"notes.txt", "*evidence.TextReader"},
		{"README.md", "*evidence.MarkdownReader"},
		{"notes.markdown", "*evidence.MarkdownReader"},
		{"export.csv", "*evidence.CSVReader"},
		{"page.html", "*evidence.HTMLReader"},
		{"saved.HTM", "*evidence.HTMLReader"},
		{"report.pdf", "*evidence.PDFReader"},
		{"letter.docx", "*evidence.DOCXReader"},
	}
	for _, tc := range cases {
		r, err := ForFile(tc.filename)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.filename, err)
		}
		if got := fmt.Sprintf("%T", r); got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.filename, tc.want, got)
		}
	}
}

func TestForFile_Unsupported(t *testing.T) {
	if _, err := ForFile("binary.exe"); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if IsSupportedExtension("image.png") {
		t.Error("expected png to be unsupported")
	}
	if !IsSupportedExtension("page.html") {
		t.Error("expected html to be supported")
	}
}
