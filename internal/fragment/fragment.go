package fragment

import (
	"bytes"
	"encoding/json"
)

// DataType tags the syntactic kind of a node's value. Extractors dispatch
// on it; a value is never re-tagged in place — reinterpretation always
// produces a new child node.
type DataType string

const (
	TypeRaw         DataType = "raw"
	TypeURL         DataType = "url"
	TypeScheme      DataType = "url.scheme"
	TypeAuthority   DataType = "url.authority"
	TypeHostname    DataType = "url.hostname"
	TypeUsername    DataType = "url.username"
	TypePassword    DataType = "url.password"
	TypePort        DataType = "url.port"
	TypePath        DataType = "url.path"
	TypePathSegment DataType = "url.path.segment"
	TypeQuery       DataType = "url.query"
	TypeFragment    DataType = "url.fragment"
	TypeQueryPair   DataType = "url.query.pair"
	TypeJSON        DataType = "json"
)

// EdgeStyle describes how a node's incoming edge should be rendered.
// The engine attaches it verbatim; it never interprets the fields.
type EdgeStyle struct {
	Color string `json:"color"`
	Title string `json:"title"`
	Label string `json:"label"`
}

// Annotations are optional display hints supplied by the extractor that
// created the node. Opaque to the engine.
type Annotations struct {
	Label    string `json:"label,omitempty"`
	Hover    string `json:"hover,omitempty"`
	MaxWidth int    `json:"max_width,omitempty"`
}

// Node is one typed, decomposed unit of the original input. Nodes are
// created once, never mutated and never deleted; identity is by ID only.
type Node struct {
	ID          int
	Type        DataType
	Key         any // string, int or nil
	Value       any // string, int or Object
	ParentID    int // 0 for the root
	Depth       int // 0 for the root
	Edge        EdgeStyle
	Annotations Annotations
}

// Descriptor is what an extractor hands to the engine when emitting a
// child. The engine allocates the ID and lineage fields.
type Descriptor struct {
	Type        DataType
	Key         any
	Value       any
	Edge        EdgeStyle
	Annotations Annotations
}

// StringValue returns the node's value when it is a string.
func (n *Node) StringValue() (string, bool) {
	s, ok := n.Value.(string)
	return s, ok
}

// Member is one key/value entry of a decoded JSON object.
type Member struct {
	Key   string
	Value any
}

// Object is a decoded JSON object with its members in document order.
// Decomposition output must be reproducible, so decoded objects are kept
// as a slice rather than a map.
type Object []Member

// MarshalJSON renders the object with its members in document order.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
