package evidence

import (
	"strings"
	"testing"
)

func TestScanSeeds_FindsAndDedupes(t *testing.T) {
	text := strings.Join([]string{
		"Visit https://example.com/page?x=1 for details.",
		"Also see http://other.example/path.",
		"Repeated: https://example.com/page?x=1",
	}, "\n")

	seeds := ScanSeeds(text, 0)
	want := []string{
		"https://example.com/page?x=1",
		"http://other.example/path",
	}
	if len(seeds) != len(want) {
		t.Fatalf("expected %d seeds, got %d: %v", len(want), len(seeds), seeds)
	}
	for i, w := range want {
		if seeds[i] != w {
			t.Errorf("seed[%d]: expected %q, got %q", i, w, seeds[i])
		}
	}
}

func TestScanSeeds_TrimsTrailingPunctuation(t *testing.T) {
	seeds := ScanSeeds("(as seen at https://example.com/a), done.", 0)
	if len(seeds) != 1 {
		t.Fatalf("expected 1 seed, got %d: %v", len(seeds), seeds)
	}
	if seeds[0] != "https://example.com/a" {
		t.Errorf("expected trimmed seed, got %q", seeds[0])
	}
}

func TestScanSeeds_RespectsCap(t *testing.T) {
	text := "https://a.example/1 https://b.example/2 https://c.example/3"
	seeds := ScanSeeds(text, 2)
	if len(seeds) != 2 {
		t.Fatalf("expected 2 seeds, got %d", len(seeds))
	}
}

func TestScanSeeds_NoMatches(t *testing.T) {
	if seeds := ScanSeeds("nothing resembling a link here", 0); len(seeds) != 0 {
		t.Errorf("expected no seeds, got %v", seeds)
	}
}
