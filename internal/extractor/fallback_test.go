package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unravel/internal/fragment"
)

func TestFallback_EmbeddedURL(t *testing.T) {
	sink := &recordingSink{}
	NewFallback().Attempt(sink, node(fragment.TypeQueryPair, "https://host.example/landing"))

	require.Len(t, sink.children, 1)
	assert.Equal(t, fragment.TypeURL, sink.children[0].Type)
	assert.Equal(t, "https://host.example/landing", sink.children[0].Value)
}

func TestFallback_EmbeddedURLNeedsHostAndPath(t *testing.T) {
	// Host without path, path without host: neither qualifies.
	for _, v := range []string{"https://host.example", "/only/a/path", "word"} {
		sink := &recordingSink{}
		NewFallback().Attempt(sink, node(fragment.TypeRaw, v))
		assert.Empty(t, sink.children, "value %q", v)
	}
}

func TestFallback_PipePairs(t *testing.T) {
	sink := &recordingSink{}
	NewFallback().Attempt(sink, node(fragment.TypeRaw, "a=b|c=d|e=f"))

	require.Len(t, sink.children, 3)
	for _, c := range sink.children {
		assert.Equal(t, fragment.TypeQueryPair, c.Type)
	}
	assert.Equal(t, "a", sink.children[0].Key)
	assert.Equal(t, "b", sink.children[0].Value)
	assert.Equal(t, "e", sink.children[2].Key)
	assert.Equal(t, "f", sink.children[2].Value)
}

func TestFallback_AmpPairs(t *testing.T) {
	sink := &recordingSink{}
	NewFallback().Attempt(sink, node(fragment.TypeRaw, "a=b&c=d"))

	require.Len(t, sink.children, 2)
	assert.Equal(t, "a", sink.children[0].Key)
	assert.Equal(t, "c", sink.children[1].Key)
}

// "a=b&c|d=e" full-matches both delimited grammars; the pipe grammar has
// priority, so it must only ever yield the pipe decomposition.
func TestFallback_GrammarPriority(t *testing.T) {
	sink := &recordingSink{}
	NewFallback().Attempt(sink, node(fragment.TypeRaw, "a=b&c|d=e"))

	require.Len(t, sink.children, 2)
	assert.Equal(t, "a", sink.children[0].Key)
	assert.Equal(t, "b&c", sink.children[0].Value)
	assert.Equal(t, "d", sink.children[1].Key)
	assert.Equal(t, "e", sink.children[1].Value)
}

func TestFallback_PartialMatchIsNoop(t *testing.T) {
	// Grammars require a full match, not a substring hit.
	for _, v := range []string{"a=b|c=d|trailing", "a=b", "a=b|", "|a=b", "a==b|c=d"} {
		sink := &recordingSink{}
		NewFallback().Attempt(sink, node(fragment.TypeRaw, v))
		assert.Empty(t, sink.children, "value %q", v)
	}
}

func TestFallback_SkipsURLTypedNodes(t *testing.T) {
	for _, dt := range []fragment.DataType{
		fragment.TypeURL, fragment.TypePath, fragment.TypeQuery,
		fragment.TypeFragment, fragment.TypeAuthority,
	} {
		sink := &recordingSink{}
		NewFallback().Attempt(sink, node(dt, "a=b|c=d"))
		assert.Empty(t, sink.children, "type %s", dt)
	}
}

func TestFallback_SkipsNonStringValues(t *testing.T) {
	sink := &recordingSink{}
	NewFallback().Attempt(sink, node(fragment.TypeJSON, fragment.Object{}))
	assert.Empty(t, sink.children)
}
