package json

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RobertWHurst/jsonfrag"
)

type testStruct struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func TestEncoderEncode(t *testing.T) {
	encoder := New()

	encoded, err := encoder.Encode(testStruct{Name: "test", Value: 42})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"test","value":42}`, string(encoded))
}

func TestEncoderEncodeMap(t *testing.T) {
	encoder := New()

	encoded, err := encoder.Encode(map[string]any{"b": []int{1, 2}, "a": nil})
	require.NoError(t, err)
	assert.Equal(t, `{"a":null,"b":[1,2]}`, string(encoded))
}

func TestEncoderEncodeNil(t *testing.T) {
	encoder := New()

	encoded, err := encoder.Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(encoded))
}

func TestEncoderEncodeNaN(t *testing.T) {
	encoder := New()

	_, err := encoder.Encode(math.NaN())
	assert.ErrorIs(t, err, jsonfrag.ErrOutOfRangeFloat)

	cfg := jsonfrag.CompactConfig()
	lenient := NewWithConfig(cfg)
	encoded, err := lenient.Encode([]float64{math.Inf(1)})
	require.NoError(t, err)
	assert.Equal(t, "[Infinity]", string(encoded))
}

func TestEncoderEncodeUnsupported(t *testing.T) {
	encoder := NewWithConfig(jsonfrag.CompactConfig())

	_, err := encoder.Encode(struct{}{})
	assert.ErrorIs(t, err, jsonfrag.ErrNotSerializable)
}

func TestEncoderDecode(t *testing.T) {
	encoder := New()

	var result testStruct
	err := encoder.Decode([]byte(`{"name":"test","value":42}`), &result)
	require.NoError(t, err)
	assert.Equal(t, "test", result.Name)
	assert.Equal(t, 42, result.Value)
}

func TestEncoderDecodeValue(t *testing.T) {
	encoder := New()

	var result jsonfrag.Value
	err := encoder.Decode([]byte(`{"z":1,"a":2}`), &result)
	require.NoError(t, err)

	m, ok := result.(*jsonfrag.Map)
	require.True(t, ok)
	assert.Equal(t, jsonfrag.String("z"), m.Entries()[0].Key)
}

func TestEncoderEncodeDecodeRoundTrip(t *testing.T) {
	encoder := New()
	original := testStruct{Name: "roundtrip", Value: 123}

	encoded, err := encoder.Encode(original)
	require.NoError(t, err)

	var decoded testStruct
	require.NoError(t, encoder.Decode(encoded, &decoded))
	assert.Equal(t, original, decoded)
}

func TestEncoderDecodeInvalidJSON(t *testing.T) {
	encoder := New()

	var result testStruct
	assert.Error(t, encoder.Decode([]byte(`{invalid json}`), &result))

	var value jsonfrag.Value
	assert.Error(t, encoder.Decode([]byte(`{invalid json}`), &value))
}

func BenchmarkEncoderEncode(b *testing.B) {
	encoder := New()
	data := map[string]any{"name": "benchmark", "value": 999, "tags": []string{"a", "b"}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		encoder.Encode(data)
	}
}

func BenchmarkEncoderDecode(b *testing.B) {
	encoder := New()
	data := []byte(`{"name":"benchmark","value":999}`)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var result testStruct
		encoder.Decode(data, &result)
	}
}
