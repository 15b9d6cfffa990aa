package engine

import (
	"encoding/json"
	"fmt"
	"strconv"

	"unravel/internal/fragment"
)

// GraphNode is the serialized form of one fragment.
type GraphNode struct {
	ID       int               `json:"id"`
	Type     fragment.DataType `json:"type"`
	Key      any               `json:"key,omitempty"`
	Value    any               `json:"value"`
	Label    string            `json:"label"`
	Hover    string            `json:"hover,omitempty"`
	Parent   int               `json:"parent,omitempty"`
	MaxWidth int               `json:"max_width,omitempty"`
}

// GraphEdge carries the extractor-supplied styling of one parent-child
// link.
type GraphEdge struct {
	From  int    `json:"from"`
	To    int    `json:"to"`
	Color string `json:"color,omitempty"`
	Title string `json:"title,omitempty"`
	Label string `json:"label,omitempty"`
}

// Graph is the finished, JSON-serializable result of a run.
type Graph struct {
	Nodes     []GraphNode `json:"nodes"`
	Edges     []GraphEdge `json:"edges"`
	Truncated bool        `json:"truncated,omitempty"`
}

// Export snapshots the node registry into a Graph. Safe to call at any
// point; the result reflects nodes created so far.
func (e *Engine) Export() *Graph {
	g := &Graph{
		Nodes:     make([]GraphNode, 0, len(e.nodes)),
		Edges:     make([]GraphEdge, 0, len(e.nodes)),
		Truncated: e.truncated,
	}
	for _, n := range e.nodes {
		g.Nodes = append(g.Nodes, GraphNode{
			ID:       n.ID,
			Type:     n.Type,
			Key:      n.Key,
			Value:    n.Value,
			Label:    labelFor(n),
			Hover:    n.Annotations.Hover,
			Parent:   n.ParentID,
			MaxWidth: n.Annotations.MaxWidth,
		})
		if n.ParentID != 0 {
			g.Edges = append(g.Edges, GraphEdge{
				From:  n.ParentID,
				To:    n.ID,
				Color: n.Edge.Color,
				Title: n.Edge.Title,
				Label: n.Edge.Label,
			})
		}
	}
	return g
}

func labelFor(n *fragment.Node) string {
	if n.Annotations.Label != "" {
		return n.Annotations.Label
	}
	value := valueString(n.Value)
	if n.Key != nil {
		return fmt.Sprintf("%v: %s", n.Key, value)
	}
	return value
}

func valueString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case json.Number:
		return t.String()
	case fragment.Object:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", t)
	}
}
