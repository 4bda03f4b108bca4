package convert

import (
	"encoding"
	"encoding/base64"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/RobertWHurst/jsonfrag"
	"github.com/RobertWHurst/jsonfrag/decode"
)

// ErrUnhandled is returned by a fallback that does not know how to convert
// the value it was given. Chain moves on to the next fallback.
var ErrUnhandled = errors.New("convert: value not handled")

// ValueMarshaler is implemented by types that know their own jsonfrag form.
type ValueMarshaler interface {
	MarshalValue() (jsonfrag.Value, error)
}

// Chain returns a fallback that tries each of fallbacks in order. The first
// result other than ErrUnhandled wins. If every fallback declines, the value
// is reported as not serializable.
func Chain(fallbacks ...jsonfrag.Fallback) jsonfrag.Fallback {
	return func(v jsonfrag.Value) (jsonfrag.Value, error) {
		for _, f := range fallbacks {
			out, err := f(v)
			if errors.Is(err, ErrUnhandled) {
				continue
			}
			return out, err
		}
		return nil, jsonfrag.NotSerializable(v)
	}
}

// Default returns the chain Methods, Proto, Time, Text, Bytes, Marshal.
func Default() jsonfrag.Fallback {
	return Chain(Methods, Proto, Time, Text, Bytes, Marshal)
}

func unwrap(v jsonfrag.Value) (any, bool) {
	o, ok := v.(*jsonfrag.Opaque)
	if !ok || o == nil {
		return nil, false
	}
	return o.V, true
}

// Methods converts values implementing ValueMarshaler.
func Methods(v jsonfrag.Value) (jsonfrag.Value, error) {
	x, ok := unwrap(v)
	if !ok {
		return nil, ErrUnhandled
	}
	m, ok := x.(ValueMarshaler)
	if !ok {
		return nil, ErrUnhandled
	}
	return m.MarshalValue()
}

// Proto converts protocol buffer messages using their canonical JSON mapping.
func Proto(v jsonfrag.Value) (jsonfrag.Value, error) {
	x, ok := unwrap(v)
	if !ok {
		return nil, ErrUnhandled
	}
	m, ok := x.(proto.Message)
	if !ok {
		return nil, ErrUnhandled
	}
	data, err := protojson.Marshal(m)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %T", x)
	}
	return decode.JSON(data)
}

// Time converts time.Time values to RFC 3339 strings with nanoseconds.
func Time(v jsonfrag.Value) (jsonfrag.Value, error) {
	x, ok := unwrap(v)
	if !ok {
		return nil, ErrUnhandled
	}
	switch t := x.(type) {
	case time.Time:
		return jsonfrag.String(t.Format(time.RFC3339Nano)), nil
	case *time.Time:
		if t == nil {
			return jsonfrag.Null{}, nil
		}
		return jsonfrag.String(t.Format(time.RFC3339Nano)), nil
	}
	return nil, ErrUnhandled
}

// Text converts encoding.TextMarshaler values to strings.
func Text(v jsonfrag.Value) (jsonfrag.Value, error) {
	x, ok := unwrap(v)
	if !ok {
		return nil, ErrUnhandled
	}
	m, ok := x.(encoding.TextMarshaler)
	if !ok {
		return nil, ErrUnhandled
	}
	text, err := m.MarshalText()
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %T", x)
	}
	return jsonfrag.String(text), nil
}

// Bytes converts byte slices to standard base64 strings.
func Bytes(v jsonfrag.Value) (jsonfrag.Value, error) {
	x, ok := unwrap(v)
	if !ok {
		return nil, ErrUnhandled
	}
	b, ok := x.([]byte)
	if !ok {
		return nil, ErrUnhandled
	}
	return jsonfrag.String(base64.StdEncoding.EncodeToString(b)), nil
}

// Stringer converts fmt.Stringer values to strings. It is not part of
// Default since many types implement String for debugging only.
func Stringer(v jsonfrag.Value) (jsonfrag.Value, error) {
	x, ok := unwrap(v)
	if !ok {
		return nil, ErrUnhandled
	}
	s, ok := x.(fmt.Stringer)
	if !ok {
		return nil, ErrUnhandled
	}
	return jsonfrag.String(s.String()), nil
}

// Marshal converts any value that encoding/json could marshal, following the
// same struct tag rules, and decodes the result back into a value.
func Marshal(v jsonfrag.Value) (jsonfrag.Value, error) {
	x, ok := unwrap(v)
	if !ok {
		return nil, ErrUnhandled
	}
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(x)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %T", x)
	}
	return decode.JSON(data)
}
