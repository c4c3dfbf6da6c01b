package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalJSON_PreservesOrder(t *testing.T) {
	var r Record
	err := json.Unmarshal([]byte(`{"name":"Willy the Goblin","health":67.8,"gold":999}`), &r)
	require.NoError(t, err)

	assert.True(t, npc().Equal(&r))
}

func TestUnmarshalJSON_Types(t *testing.T) {
	var r Record
	err := json.Unmarshal([]byte(`{"s":"text","i":35,"f":26.50,"whole":40.0,"exp":1e3,"b":true,"n":null}`), &r)
	require.NoError(t, err)

	want := New(
		F("s", Text("text")),
		F("i", Int(35)),
		F("f", Float(26.5)),
		F("whole", Float(40)),
		F("exp", Float(1000)),
		F("b", Bool(true)),
		F("n", Null{}),
	)
	assert.True(t, want.Equal(&r), "got %v", r.Keys())
}

func TestUnmarshalJSON_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"array", `[1,2]`},
		{"scalar", `"x"`},
		{"nested object", `{"a":{"b":1}}`},
		{"nested array", `{"a":[1]}`},
		{"int overflow", `{"a":99999999999999999999}`},
		{"trailing", `{"a":1} {"b":2}`},
		{"truncated", `{"a":1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Record
			assert.Error(t, r.UnmarshalJSON([]byte(tt.input)))
		})
	}
}

func TestMarshalJSON_FieldOrder(t *testing.T) {
	r := New(
		F("id", Text("1")),
		F("name", Text("Helga")),
		F("health", Float(67.8)),
		F("gold", Int(999)),
		F("alive", Bool(true)),
		F("note", Null{}),
		F("hours", Float(40)),
	)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1","name":"Helga","health":67.8,"gold":999,"alive":true,"note":null,"hours":40.0}`, string(data))
}

func TestMarshalJSON_Empty(t *testing.T) {
	data, err := json.Marshal(New())
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestMarshalValue_RejectsNaN(t *testing.T) {
	_, err := MarshalValue(Float(nan()))
	assert.Error(t, err)
}

func TestJSONRoundTrip(t *testing.T) {
	in := `{"string":"text","int":35,"float":26.5,"hours":40.0,"bool":true}`

	var r Record
	require.NoError(t, json.Unmarshal([]byte(in), &r))
	out, err := json.Marshal(&r)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestParseNumber(t *testing.T) {
	v, err := ParseNumber("999")
	require.NoError(t, err)
	assert.Equal(t, Int(999), v)

	v, err = ParseNumber("67.8")
	require.NoError(t, err)
	assert.Equal(t, Float(67.8), v)

	_, err = ParseNumber("1.2.3")
	assert.Error(t, err)
}

func nan() float64 {
	zero := 0.0
	return zero / zero
}
