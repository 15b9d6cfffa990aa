package extractor

import "unravel/internal/fragment"

// Sink is the capability the engine grants extractors: appending a child
// node to the processing queue. Enqueue returns the new node's id, or 0
// if the engine refused the child (node or depth budget exhausted).
type Sink interface {
	Enqueue(parent *fragment.Node, d fragment.Descriptor) int
}

// Extractor is a type-specific decomposition routine. Attempt must be a
// no-op for nodes it does not recognize, must never panic on malformed
// input, and must emit children deterministically: the same node always
// yields the same children in the same order.
type Extractor interface {
	Name() string
	Attempt(s Sink, n *fragment.Node)
}

// urlTyped are the kinds the URL extractor owns via typed dispatch. The
// fallback chain only runs against nodes outside this set.
func urlTyped(t fragment.DataType) bool {
	switch t {
	case fragment.TypeURL, fragment.TypePath, fragment.TypeQuery,
		fragment.TypeFragment, fragment.TypeAuthority:
		return true
	}
	return false
}
