package evidence

import (
	"regexp"
	"strings"
)

// seedRe matches URL-shaped tokens in extracted text.
var seedRe = regexp.MustCompile(`(?i)\bhttps?://[^\s<>"'` + "`" + `]+`)

// ScanSeeds returns the URL-shaped candidate seeds found in text, in
// order of first appearance, de-duplicated, capped at max (0 = no cap).
// Trailing punctuation that commonly wraps URLs in prose is trimmed.
func ScanSeeds(text string, max int) []string {
	var seeds []string
	seen := make(map[string]bool)
	for _, m := range seedRe.FindAllString(text, -1) {
		m = strings.TrimRight(m, ".,;:!?)]}>")
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		seeds = append(seeds, m)
		if max > 0 && len(seeds) >= max {
			break
		}
	}
	return seeds
}
