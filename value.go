package jsonfrag

import (
	"iter"
	"math/big"
)

// Value is a dynamic value that can be encoded as JSON. The set of
// implementations is closed: Null, Bool, Int, Float, String, *Seq, *Map and
// *Opaque. A nil Value is treated as Null.
type Value interface {
	isValue()
}

// Null is the JSON null value.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// Float is a double precision number. NaN and the infinities are only
// encodable when Config.AllowNaN is set.
type Float float64

// String is a text value. It is passed to Config.Escape when encoded.
type String string

// Int is an arbitrary precision integer. The zero Int is 0.
type Int struct {
	n *big.Int
}

// NewInt returns an Int holding i.
func NewInt(i int64) Int {
	return Int{n: big.NewInt(i)}
}

// NewUint returns an Int holding u.
func NewUint(u uint64) Int {
	return Int{n: new(big.Int).SetUint64(u)}
}

// BigInt returns an Int holding a copy of b.
func BigInt(b *big.Int) Int {
	if b == nil {
		return Int{}
	}
	return Int{n: new(big.Int).Set(b)}
}

// ParseInt parses a base 10 integer of any size.
func ParseInt(s string) (Int, bool) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Int{}, false
	}
	return Int{n: n}, true
}

// Big returns a copy of the integer as a *big.Int.
func (i Int) Big() *big.Int {
	if i.n == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(i.n)
}

// String returns the exact base 10 text of the integer.
func (i Int) String() string {
	if i.n == nil {
		return "0"
	}
	return i.n.String()
}

// Seq is an ordered list of values. Its identity is its pointer.
type Seq struct {
	Items []Value
}

// NewSeq returns a sequence holding items.
func NewSeq(items ...Value) *Seq {
	return &Seq{Items: items}
}

// Entry is a single key/value pair of a Map.
type Entry struct {
	Key   Value
	Value Value
}

// Map is an insertion ordered collection of key/value pairs. Scalar keys are
// unique by equality, container and opaque keys by identity. Its own identity
// is its pointer.
type Map struct {
	entries []Entry
	index   map[any]int
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{index: make(map[any]int)}
}

// Set adds the pair to the map. If an equal key is already present its value
// is replaced and it keeps its original position.
func (m *Map) Set(key, value Value) {
	if m.index == nil {
		m.index = make(map[any]int)
	}
	k := keyOf(key)
	if i, ok := m.index[k]; ok {
		m.entries[i].Value = value
		return
	}
	m.index[k] = len(m.entries)
	m.entries = append(m.entries, Entry{Key: key, Value: value})
}

// Get returns the value stored under key.
func (m *Map) Get(key Value) (Value, bool) {
	i, ok := m.index[keyOf(key)]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.entries)
}

// Entries returns the entries in insertion order. The returned slice must not
// be modified.
func (m *Map) Entries() []Entry {
	return m.entries
}

// All iterates over the entries in insertion order.
func (m *Map) All() iter.Seq2[Value, Value] {
	return func(yield func(Value, Value) bool) {
		for _, e := range m.entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Opaque wraps a Go value with no native JSON encoding. It is encoded through
// Config.Default. Its identity is its pointer.
type Opaque struct {
	V any
}

// NewOpaque wraps v.
func NewOpaque(v any) *Opaque {
	return &Opaque{V: v}
}

type intKey string

func keyOf(v Value) any {
	switch v := v.(type) {
	case nil:
		return Null{}
	case Int:
		return intKey(v.String())
	default:
		return v
	}
}

func (Null) isValue()    {}
func (Bool) isValue()    {}
func (Int) isValue()     {}
func (Float) isValue()   {}
func (String) isValue()  {}
func (*Seq) isValue()    {}
func (*Map) isValue()    {}
func (*Opaque) isValue() {}
