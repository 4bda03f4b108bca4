package jsonfrag

import (
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

const (
	reprLimit = 80
	reprDepth = 8
)

// opaqueFormat prints opaque payloads. The depth bound also stops cyclic Go
// maps and pointers.
var opaqueFormat = spew.ConfigState{
	MaxDepth:                reprDepth,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Repr returns a short diagnostic text for v, at most 80 characters long.
// It is used in error messages and terminates on cyclic values.
func Repr(v Value) string {
	w := &reprWriter{}
	w.value(v, 0)
	return w.b.String()
}

type reprWriter struct {
	b    strings.Builder
	n    int
	full bool
}

func (w *reprWriter) write(s string) {
	for _, r := range s {
		if w.n == reprLimit {
			w.full = true
			return
		}
		w.b.WriteRune(r)
		w.n++
	}
}

func (w *reprWriter) value(v Value, depth int) {
	if w.full {
		return
	}
	if depth > reprDepth {
		w.write("...")
		return
	}
	switch v := v.(type) {
	case nil, Null:
		w.write("null")
	case Bool:
		w.write(strconv.FormatBool(bool(v)))
	case Int:
		w.write(v.String())
	case Float:
		w.write(floatToken(float64(v)))
	case String:
		w.write(strconv.Quote(string(v)))
	case *Seq:
		if v == nil {
			w.write("null")
			return
		}
		w.write("[")
		for i, item := range v.Items {
			if w.full {
				return
			}
			if i > 0 {
				w.write(", ")
			}
			w.value(item, depth+1)
		}
		w.write("]")
	case *Map:
		if v == nil {
			w.write("null")
			return
		}
		w.write("{")
		for i, e := range v.entries {
			if w.full {
				return
			}
			if i > 0 {
				w.write(", ")
			}
			w.value(e.Key, depth+1)
			w.write(": ")
			w.value(e.Value, depth+1)
		}
		w.write("}")
	case *Opaque:
		if v == nil {
			w.write("null")
			return
		}
		w.write(opaqueFormat.Sprintf("%v", v.V))
	}
}
