package jsonfrag

import (
	"io"
	"iter"
	"strings"
)

// Fragments is the output of Encoder.Encode: an ordered list of text pieces
// whose concatenation is the JSON document.
type Fragments struct {
	parts []string
}

func (f *Fragments) append(s string) {
	f.parts = append(f.parts, s)
}

// All iterates over the fragments in output order.
func (f *Fragments) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, p := range f.parts {
			if !yield(p) {
				return
			}
		}
	}
}

// Len returns the number of fragments.
func (f *Fragments) Len() int {
	return len(f.parts)
}

// Size returns the length in bytes of the concatenated document.
func (f *Fragments) Size() int {
	n := 0
	for _, p := range f.parts {
		n += len(p)
	}
	return n
}

// String returns the concatenated document.
func (f *Fragments) String() string {
	var b strings.Builder
	b.Grow(f.Size())
	for _, p := range f.parts {
		b.WriteString(p)
	}
	return b.String()
}

// Bytes returns the concatenated document.
func (f *Fragments) Bytes() []byte {
	b := make([]byte, 0, f.Size())
	for _, p := range f.parts {
		b = append(b, p...)
	}
	return b
}

// WriteTo writes the fragments to w one at a time.
func (f *Fragments) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, p := range f.parts {
		n, err := io.WriteString(w, p)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
