//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatValue_Unmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  StatValue
	}{
		{name: "integer", input: `42`, want: NumberValue(42)},
		{name: "float", input: `12.5`, want: NumberValue(12.5)},
		{name: "string", input: `"Ampel"`, want: TextValue("Ampel")},
		{name: "null", input: `null`, want: StatValue{}},
		{name: "bool kept as text", input: `true`, want: TextValue("true")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v StatValue
			require.NoError(t, json.Unmarshal([]byte(tt.input), &v))
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestStatValue_MarshalKeepsShape(t *testing.T) {
	items := []StatItem{
		{Label: "Scholz", Value: NumberValue(17)},
		{Label: "Satz", Value: TextValue("Das ist so.")},
	}

	out, err := json.Marshal(items)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"label":"Scholz","value":17},{"label":"Satz","value":"Das ist so."}]`, string(out))
}

func TestStatValue_String(t *testing.T) {
	assert.Equal(t, "17", NumberValue(17).String())
	assert.Equal(t, "0.5", NumberValue(0.5).String())
	assert.Equal(t, "Berlin", TextValue("Berlin").String())
}

func TestTopList_AcceptsObjectAndBareList(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		var list TopList
		err := json.Unmarshal([]byte(`{"metadata":{"source":"ner"},"items":[{"label":"Ukraine","value":31}]}`), &list)
		require.NoError(t, err)
		assert.Equal(t, "ner", list.Metadata["source"])
		require.Len(t, list.Items, 1)
		assert.Equal(t, "Ukraine", list.Items[0].Label)
		assert.Equal(t, 31.0, list.Items[0].Value.Number)
	})

	t.Run("bare list", func(t *testing.T) {
		var list TopList
		err := json.Unmarshal([]byte(`[{"label":"Klima","value":9},{"label":"Rente","value":4}]`), &list)
		require.NoError(t, err)
		assert.Nil(t, list.Metadata)
		assert.Len(t, list.Items, 2)
	})
}
