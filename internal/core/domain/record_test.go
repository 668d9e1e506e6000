// file: internal/core/domain/record_test.go
package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldValue_UnmarshalJSON(t *testing.T) {
	t.Run("string value", func(t *testing.T) {
		var f FieldValue
		require.NoError(t, json.Unmarshal([]byte(`{"type":"SINGLE_LINE_TEXT","value":"田中"}`), &f))
		assert.Equal(t, "田中", f.Value)
		assert.False(t, f.IsSubtable())
	})

	t.Run("number keeps decimal literal", func(t *testing.T) {
		var f FieldValue
		require.NoError(t, json.Unmarshal([]byte(`{"type":"NUMBER","value":25.50}`), &f))
		assert.Equal(t, "25.50", f.Value)
	})

	t.Run("null value degrades to empty", func(t *testing.T) {
		var f FieldValue
		require.NoError(t, json.Unmarshal([]byte(`{"type":"DATE","value":null}`), &f))
		assert.Equal(t, "", f.Value)
	})

	t.Run("subtable rows", func(t *testing.T) {
		raw := `{"type":"SUBTABLE","value":[
			{"id":"1","value":{"name":{"type":"SINGLE_LINE_TEXT","value":"商品A"}}},
			{"id":"2","value":{"name":{"type":"SINGLE_LINE_TEXT","value":"商品B"}}}
		]}`
		var f FieldValue
		require.NoError(t, json.Unmarshal([]byte(raw), &f))
		require.True(t, f.IsSubtable())
		require.Len(t, f.Rows, 2)
		assert.Equal(t, "商品A", f.Rows[0].Value["name"].Value)
		assert.Equal(t, "2", f.Rows[1].ID)
	})
}

func TestRecord_UnmarshalJSON(t *testing.T) {
	raw := `{
		"name":  {"type":"SINGLE_LINE_TEXT","value":"田中"},
		"items": {"type":"SUBTABLE","value":[{"id":"1","value":{"qty":{"type":"NUMBER","value":"3"}}}]}
	}`
	var r Record
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	assert.Equal(t, "田中", r["name"].Value)
	require.Len(t, r["items"].Rows, 1)
	assert.Equal(t, "3", r["items"].Rows[0].Value["qty"].Value)
}

func TestFieldValue_MarshalRoundTrip(t *testing.T) {
	original := Record{
		"name": {Type: FieldSingleLineText, Value: "田中"},
		"items": {Type: FieldSubtable, Rows: []TableRow{
			{ID: "1", Value: map[string]FieldValue{"s": {Type: FieldSingleLineText, Value: "A"}}},
		}},
	}
	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Record
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}
