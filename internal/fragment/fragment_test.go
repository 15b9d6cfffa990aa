package fragment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectMarshalJSON_PreservesOrder(t *testing.T) {
	obj := Object{
		{Key: "zebra", Value: json.Number("1")},
		{Key: "apple", Value: "two"},
		{Key: "mango", Value: true},
	}
	b, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"zebra":1,"apple":"two","mango":true}`, string(b))
}

func TestObjectMarshalJSON_Nested(t *testing.T) {
	obj := Object{
		{Key: "outer", Value: Object{
			{Key: "b", Value: json.Number("2")},
			{Key: "a", Value: json.Number("1")},
		}},
		{Key: "list", Value: []any{"x", nil}},
	}
	b, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"outer":{"b":2,"a":1},"list":["x",null]}`, string(b))
}

func TestNodeIdentity_ByIDOnly(t *testing.T) {
	a := &Node{ID: 1, Type: TypeQueryPair, Key: "x", Value: "1"}
	b := &Node{ID: 2, Type: TypeQueryPair, Key: "x", Value: "1"}
	// Identical content, different lineage: still distinct entities.
	assert.NotEqual(t, a.ID, b.ID)
}

func TestStringValue(t *testing.T) {
	s, ok := (&Node{Value: "hello"}).StringValue()
	assert.True(t, ok)
	assert.Equal(t, "hello", s)

	_, ok = (&Node{Value: 8080}).StringValue()
	assert.False(t, ok)

	_, ok = (&Node{Value: Object{}}).StringValue()
	assert.False(t, ok)
}
