package jsonfrag

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapSetKeepsPosition(t *testing.T) {
	m := NewMap()
	m.Set(String("a"), NewInt(1))
	m.Set(String("b"), NewInt(2))
	m.Set(String("a"), NewInt(3))

	require.Equal(t, 2, m.Len())
	assert.Equal(t, []Entry{
		{Key: String("a"), Value: NewInt(3)},
		{Key: String("b"), Value: NewInt(2)},
	}, m.Entries())
}

func TestMapKeyEquality(t *testing.T) {
	m := NewMap()
	m.Set(NewInt(1), String("int"))
	m.Set(BigInt(big.NewInt(1)), String("big"))
	m.Set(String("1"), String("string"))
	m.Set(nil, String("nil"))
	m.Set(Null{}, String("null"))

	assert.Equal(t, 3, m.Len())

	v, ok := m.Get(NewInt(1))
	require.True(t, ok)
	assert.Equal(t, String("big"), v)

	v, ok = m.Get(Null{})
	require.True(t, ok)
	assert.Equal(t, String("null"), v)

	_, ok = m.Get(String("missing"))
	assert.False(t, ok)
}

func TestMapContainerKeysUseIdentity(t *testing.T) {
	a, b := NewSeq(), NewSeq()
	m := NewMap()
	m.Set(a, NewInt(1))
	m.Set(b, NewInt(2))
	m.Set(a, NewInt(3))

	assert.Equal(t, 2, m.Len())
	v, _ := m.Get(a)
	assert.Equal(t, NewInt(3), v)
}

func TestMapZeroValue(t *testing.T) {
	var m Map
	_, ok := m.Get(String("a"))
	assert.False(t, ok)

	m.Set(String("a"), Bool(true))
	assert.Equal(t, 1, m.Len())
}

func TestMapAll(t *testing.T) {
	m := mapOf(String("a"), NewInt(1), String("b"), NewInt(2))

	var keys []string
	for k := range m.All() {
		keys = append(keys, string(k.(String)))
		break
	}
	assert.Equal(t, []string{"a"}, keys)
}

func TestIntConversions(t *testing.T) {
	i, ok := ParseInt("-98765432109876543210")
	require.True(t, ok)
	assert.Equal(t, "-98765432109876543210", i.String())

	b := i.Big()
	b.Add(b, big.NewInt(1))
	assert.Equal(t, "-98765432109876543210", i.String())

	_, ok = ParseInt("1.5")
	assert.False(t, ok)

	assert.Equal(t, "0", BigInt(nil).String())
}

func TestRepr(t *testing.T) {
	cyclic := NewSeq()
	cyclic.Items = append(cyclic.Items, cyclic)

	tests := []struct {
		name     string
		input    Value
		expected string
	}{
		{name: "nil", input: nil, expected: "null"},
		{name: "string", input: String("a\"b"), expected: `"a\"b"`},
		{name: "seq", input: NewSeq(NewInt(1), Float(2), Bool(false)), expected: "[1, 2.0, false]"},
		{name: "map", input: mapOf(String("k"), Null{}), expected: `{"k": null}`},
		{name: "opaque", input: NewOpaque(7), expected: "7"},
		{name: "cyclic", input: cyclic, expected: "[[[[[[[[[...]]]]]]]]]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Repr(tt.input))
		})
	}
}

func TestReprTruncates(t *testing.T) {
	items := make([]Value, 100)
	for i := range items {
		items[i] = String("item")
	}

	r := Repr(NewSeq(items...))
	assert.Equal(t, 80, len([]rune(r)))
	assert.True(t, strings.HasPrefix(r, `["item", "item"`))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, "", KindOf(nil))
	assert.Equal(t, "other", KindOf(errors.New("x")))
	assert.Equal(t, "circular_reference", KindOf(ErrCircularReference))
	assert.Equal(t, "invalid_key", KindOf(&EncodeError{Kind: KindInvalidKey, Value: "[]"}))
	assert.Equal(t, "not_serializable", KindOf(NotSerializable(NewOpaque(1))))
}

func TestEncodeErrorIs(t *testing.T) {
	err := &EncodeError{Kind: KindInvalidKey, Value: "[]"}
	assert.True(t, errors.Is(err, ErrInvalidKey))
	assert.True(t, errors.Is(err, ErrNotSerializable))
	assert.False(t, errors.Is(err, ErrCircularReference))
	assert.False(t, errors.Is(ErrNotSerializable, ErrInvalidKey))
}
