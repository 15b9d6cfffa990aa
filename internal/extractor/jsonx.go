package extractor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"unravel/internal/fragment"
)

// JSONExtractor decomposes JSON-object-shaped values. Query pair values
// holding JSON text produce one child per object field, and json nodes
// whose value is itself a JSON string are decoded again, so
// double-encoded payloads keep unfolding.
type JSONExtractor struct {
	edge fragment.EdgeStyle
}

// NewJSON returns a JSON extractor with its default edge styling.
func NewJSON() *JSONExtractor {
	return &JSONExtractor{
		edge: fragment.EdgeStyle{
			Color: "#d7ffaf",
			Title: "JSON Parsing Functions",
			Label: "JSON",
		},
	}
}

func (x *JSONExtractor) Name() string { return "json" }

func (x *JSONExtractor) Attempt(s Sink, n *fragment.Node) {
	switch n.Type {
	case fragment.TypeQueryPair:
		v, ok := n.StringValue()
		if !ok {
			return
		}
		obj, ok := decodeObject(v)
		if !ok {
			// Valid JSON like 23 or true is not useful structure.
			return
		}
		x.emitMembers(s, n, obj)

	case fragment.TypeJSON:
		value := n.Value
		if sv, ok := value.(string); ok {
			if decoded, err := decodeJSON(sv); err == nil {
				value = decoded
			}
		}
		if obj, ok := value.(fragment.Object); ok {
			x.emitMembers(s, n, obj)
		}
	}
}

func (x *JSONExtractor) emitMembers(s Sink, n *fragment.Node, obj fragment.Object) {
	for _, m := range obj {
		s.Enqueue(n, fragment.Descriptor{
			Type: fragment.TypeJSON, Key: m.Key, Value: m.Value,
			Edge: x.edge,
			Annotations: fragment.Annotations{
				Label: m.Key + ": " + displayValue(m.Value),
				Hover: "This is one field of a decoded JSON object",
			},
		})
	}
}

// decodeObject decodes s and reports whether the result is a JSON object.
func decodeObject(s string) (fragment.Object, bool) {
	v, err := decodeJSON(s)
	if err != nil {
		return nil, false
	}
	obj, ok := v.(fragment.Object)
	return obj, ok
}

// decodeJSON parses a complete JSON value, keeping object members in
// document order and numbers as json.Number. Trailing non-whitespace is
// an error.
func decodeJSON(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	v, err := decodeNext(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

func decodeNext(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil // string, json.Number, bool or nil
	}
	switch delim {
	case '{':
		obj := fragment.Object{}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T, not string", keyTok)
			}
			val, err := decodeNext(dec)
			if err != nil {
				return nil, err
			}
			obj = append(obj, fragment.Member{Key: key, Value: val})
		}
		if _, err := dec.Token(); err != nil { // closing brace
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			val, err := decodeNext(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil { // closing bracket
			return nil, err
		}
		return arr, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %q", delim.String())
}

// displayValue renders a decoded JSON value for node labels. Structured
// values are re-encoded compactly, preserving member order.
func displayValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case nil:
		return "null"
	case bool:
		if t {
			return "true"
		}
		return "false"
	case fragment.Object:
		var sb strings.Builder
		sb.WriteByte('{')
		for i, m := range t {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(quoteJSON(m.Key))
			sb.WriteByte(':')
			sb.WriteString(encodeValue(m.Value))
		}
		sb.WriteByte('}')
		return sb.String()
	case []any:
		return encodeValue(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// encodeValue is displayValue with strings kept quoted, for nesting.
func encodeValue(v any) string {
	switch t := v.(type) {
	case string:
		return quoteJSON(t)
	case []any:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(encodeValue(item))
		}
		sb.WriteByte(']')
		return sb.String()
	default:
		return displayValue(t)
	}
}

func quoteJSON(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `"` + s + `"`
	}
	return string(b)
}
