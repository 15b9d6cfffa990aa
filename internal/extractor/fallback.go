package extractor

import (
	"net/url"
	"regexp"
	"strings"

	"unravel/internal/fragment"
)

var (
	pipePairsRe = regexp.MustCompile(`^(?:[^|=]+=[^|=]+\|)+[^|=]+=[^|=]+$`)
	ampPairsRe  = regexp.MustCompile(`^(?:[^&=]+=[^&=]+&)+[^&=]+=[^&=]+$`)
)

// FallbackExtractor reinterprets opaque string values that no typed
// extractor owns. It tries an ordered list of candidate grammars and
// short-circuits on the first match, so a value matching several grammars
// is only ever decomposed under the highest-priority one.
type FallbackExtractor struct {
	edge       fragment.EdgeStyle
	candidates []func(x *FallbackExtractor, v string) []fragment.Descriptor
}

// NewFallback returns the standard chain: embedded URL, then
// pipe-delimited pairs, then ampersand-delimited pairs.
func NewFallback() *FallbackExtractor {
	return &FallbackExtractor{
		edge: fragment.EdgeStyle{
			Color: "#4d4d4d",
			Title: "URL Parsing Functions",
			Label: "u",
		},
		candidates: []func(x *FallbackExtractor, v string) []fragment.Descriptor{
			(*FallbackExtractor).matchEmbeddedURL,
			(*FallbackExtractor).matchPipePairs,
			(*FallbackExtractor).matchAmpPairs,
		},
	}
}

func (x *FallbackExtractor) Name() string { return "fallback" }

func (x *FallbackExtractor) Attempt(s Sink, n *fragment.Node) {
	if urlTyped(n.Type) {
		return
	}
	v, ok := n.StringValue()
	if !ok {
		return
	}
	for _, match := range x.candidates {
		if children := match(x, v); children != nil {
			for _, d := range children {
				s.Enqueue(n, d)
			}
			return
		}
	}
}

// matchEmbeddedURL recognizes a full URL stored inside an opaque value.
// Both a host and a path are required, so bare words and k=v noise do not
// qualify.
func (x *FallbackExtractor) matchEmbeddedURL(v string) []fragment.Descriptor {
	u, err := url.Parse(v)
	if err != nil || u.Host == "" || u.Path == "" {
		return nil
	}
	return []fragment.Descriptor{{
		Type: fragment.TypeURL, Value: v, Edge: x.edge,
	}}
}

func (x *FallbackExtractor) matchPipePairs(v string) []fragment.Descriptor {
	if !pipePairsRe.MatchString(v) {
		return nil
	}
	return x.splitPairs(v, "|")
}

func (x *FallbackExtractor) matchAmpPairs(v string) []fragment.Descriptor {
	if !ampPairsRe.MatchString(v) {
		return nil
	}
	return x.splitPairs(v, "&")
}

func (x *FallbackExtractor) splitPairs(v, sep string) []fragment.Descriptor {
	var children []fragment.Descriptor
	for _, piece := range strings.Split(v, sep) {
		key, value, _ := strings.Cut(piece, "=")
		children = append(children, fragment.Descriptor{
			Type: fragment.TypeQueryPair, Key: key, Value: value,
			Edge: x.edge,
		})
	}
	return children
}
