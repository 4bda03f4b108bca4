// Package convert builds jsonfrag values from ordinary Go data and provides
// fallback converters for values that have no direct JSON form.
package convert

import (
	"encoding"
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/RobertWHurst/jsonfrag"
)

// FromAny converts a Go value into a jsonfrag.Value.
//
// Booleans, integers, floats, strings, json.Number and *big.Int become
// scalars. Slices and arrays become *jsonfrag.Seq, except []byte which is left
// opaque. Named scalar types convert by kind unless they implement
// encoding.TextMarshaler or ValueMarshaler. Maps become *jsonfrag.Map with
// entries ordered by the full text of their keys. A map or slice that is reached again while it is being converted becomes the same
// container, so cyclic Go data turns into cyclic jsonfrag data. Everything
// else is wrapped in *jsonfrag.Opaque.
func FromAny(v any) jsonfrag.Value {
	c := &converter{seen: make(map[identity]jsonfrag.Value)}
	return c.convert(v)
}

type identity struct {
	kind reflect.Kind
	ptr  uintptr
	len  int
}

type converter struct {
	seen map[identity]jsonfrag.Value
}

func (c *converter) convert(v any) jsonfrag.Value {
	switch x := v.(type) {
	case nil:
		return jsonfrag.Null{}
	case jsonfrag.Value:
		return x
	case bool:
		return jsonfrag.Bool(x)
	case string:
		return jsonfrag.String(x)
	case int:
		return jsonfrag.NewInt(int64(x))
	case int8:
		return jsonfrag.NewInt(int64(x))
	case int16:
		return jsonfrag.NewInt(int64(x))
	case int32:
		return jsonfrag.NewInt(int64(x))
	case int64:
		return jsonfrag.NewInt(x)
	case uint:
		return jsonfrag.NewUint(uint64(x))
	case uint8:
		return jsonfrag.NewUint(uint64(x))
	case uint16:
		return jsonfrag.NewUint(uint64(x))
	case uint32:
		return jsonfrag.NewUint(uint64(x))
	case uint64:
		return jsonfrag.NewUint(x)
	case float32:
		return jsonfrag.Float(x)
	case float64:
		return jsonfrag.Float(x)
	case json.Number:
		return numberValue(x)
	case *big.Int:
		if x == nil {
			return jsonfrag.Null{}
		}
		return jsonfrag.BigInt(x)
	case []byte:
		return jsonfrag.NewOpaque(x)
	case encoding.TextMarshaler, ValueMarshaler:
		return jsonfrag.NewOpaque(x)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return jsonfrag.Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return jsonfrag.NewInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return jsonfrag.NewUint(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return jsonfrag.Float(rv.Float())
	case reflect.String:
		return jsonfrag.String(rv.String())
	case reflect.Slice:
		if rv.IsNil() {
			return jsonfrag.Null{}
		}
		return c.convertList(rv, identity{kind: reflect.Slice, ptr: rv.Pointer(), len: rv.Len()})
	case reflect.Array:
		return c.convertList(rv, identity{})
	case reflect.Map:
		if rv.IsNil() {
			return jsonfrag.Null{}
		}
		return c.convertMap(rv)
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return jsonfrag.Null{}
		}
	}
	return jsonfrag.NewOpaque(v)
}

func (c *converter) convertList(rv reflect.Value, id identity) jsonfrag.Value {
	if id.ptr != 0 {
		if seen, ok := c.seen[id]; ok {
			return seen
		}
	}
	seq := &jsonfrag.Seq{Items: make([]jsonfrag.Value, 0, rv.Len())}
	if id.ptr != 0 {
		c.seen[id] = seq
		defer delete(c.seen, id)
	}
	for i := 0; i < rv.Len(); i++ {
		seq.Items = append(seq.Items, c.convert(rv.Index(i).Interface()))
	}
	return seq
}

func (c *converter) convertMap(rv reflect.Value) jsonfrag.Value {
	id := identity{kind: reflect.Map, ptr: rv.Pointer()}
	if seen, ok := c.seen[id]; ok {
		return seen
	}
	m := jsonfrag.NewMap()
	c.seen[id] = m
	defer delete(c.seen, id)

	type pair struct {
		text string
		key  jsonfrag.Value
		val  reflect.Value
	}
	pairs := make([]pair, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key := c.convert(iter.Key().Interface())
		pairs = append(pairs, pair{text: keyText(key), key: key, val: iter.Value()})
	}
	slices.SortStableFunc(pairs, func(a, b pair) int {
		return strings.Compare(a.text, b.text)
	})
	for _, p := range pairs {
		m.Set(p.key, c.convert(p.val.Interface()))
	}
	return m
}

// keyText is the text a converted map key is ordered by. Scalars use their
// unabridged text so that long keys never tie.
func keyText(k jsonfrag.Value) string {
	switch k := k.(type) {
	case jsonfrag.String:
		return string(k)
	case jsonfrag.Int:
		return k.String()
	case jsonfrag.Float:
		return strconv.FormatFloat(float64(k), 'g', -1, 64)
	case jsonfrag.Bool:
		return strconv.FormatBool(bool(k))
	case *jsonfrag.Opaque:
		if k != nil {
			return fmt.Sprint(k.V)
		}
	}
	return jsonfrag.Repr(k)
}

func numberValue(n json.Number) jsonfrag.Value {
	text := string(n)
	if !strings.ContainsAny(text, ".eE") {
		if i, ok := jsonfrag.ParseInt(text); ok {
			return i
		}
	}
	if f, err := n.Float64(); err == nil {
		return jsonfrag.Float(f)
	}
	return jsonfrag.NewOpaque(n)
}
