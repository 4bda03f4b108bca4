// Package msgpack provides a MessagePack jsonfrag.Codec. Value trees keep
// their map order and key kinds on the wire, so a document can be moved
// between JSON and MessagePack without reordering.
package msgpack

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/RobertWHurst/jsonfrag"
	"github.com/RobertWHurst/jsonfrag/decode"
)

type Encoder struct{}

var _ jsonfrag.Codec = &Encoder{}

// Encode serializes v. A jsonfrag.Value is written entry by entry, anything
// else is handed to msgpack.Marshal.
func (e *Encoder) Encode(v any) ([]byte, error) {
	value, ok := v.(jsonfrag.Value)
	if !ok {
		return msgpack.Marshal(v)
	}

	var buf bytes.Buffer
	w := &valueWriter{
		enc:      msgpack.NewEncoder(&buf),
		visiting: make(map[jsonfrag.Value]struct{}),
	}
	if err := w.write(value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode deserializes data into v. A *jsonfrag.Value target receives the
// ordered value tree built by decode.MsgPack.
func (d *Encoder) Decode(data []byte, v any) error {
	if target, ok := v.(*jsonfrag.Value); ok {
		value, err := decode.MsgPack(data)
		if err != nil {
			return err
		}
		*target = value
		return nil
	}
	return msgpack.Unmarshal(data, v)
}

func New() *Encoder {
	return &Encoder{}
}

type valueWriter struct {
	enc      *msgpack.Encoder
	visiting map[jsonfrag.Value]struct{}
}

func (w *valueWriter) enter(v jsonfrag.Value) error {
	if _, ok := w.visiting[v]; ok {
		return &jsonfrag.EncodeError{Kind: jsonfrag.KindCircularReference, Value: jsonfrag.Repr(v)}
	}
	w.visiting[v] = struct{}{}
	return nil
}

func (w *valueWriter) leave(v jsonfrag.Value) {
	delete(w.visiting, v)
}

func (w *valueWriter) write(v jsonfrag.Value) error {
	switch v := v.(type) {
	case nil, jsonfrag.Null:
		return w.enc.EncodeNil()
	case jsonfrag.Bool:
		return w.enc.EncodeBool(bool(v))
	case jsonfrag.Int:
		n := v.Big()
		switch {
		case n.IsInt64():
			return w.enc.EncodeInt(n.Int64())
		case n.IsUint64():
			return w.enc.EncodeUint(n.Uint64())
		}
		return errors.Errorf("integer %s overflows 64 bits", v)
	case jsonfrag.Float:
		return w.enc.EncodeFloat64(float64(v))
	case jsonfrag.String:
		return w.enc.EncodeString(string(v))
	case *jsonfrag.Seq:
		if v == nil {
			return w.enc.EncodeNil()
		}
		return w.writeSeq(v)
	case *jsonfrag.Map:
		if v == nil {
			return w.enc.EncodeNil()
		}
		return w.writeMap(v)
	case *jsonfrag.Opaque:
		if v == nil {
			return w.enc.EncodeNil()
		}
		return w.enc.Encode(v.V)
	}
	return errors.Errorf("unsupported value %T", v)
}

func (w *valueWriter) writeSeq(seq *jsonfrag.Seq) error {
	if err := w.enter(seq); err != nil {
		return err
	}
	defer w.leave(seq)

	if err := w.enc.EncodeArrayLen(len(seq.Items)); err != nil {
		return err
	}
	for _, item := range seq.Items {
		if err := w.write(item); err != nil {
			return err
		}
	}
	return nil
}

func (w *valueWriter) writeMap(m *jsonfrag.Map) error {
	if err := w.enter(m); err != nil {
		return err
	}
	defer w.leave(m)

	if err := w.enc.EncodeMapLen(m.Len()); err != nil {
		return err
	}
	for key, value := range m.All() {
		if err := w.write(key); err != nil {
			return err
		}
		if err := w.write(value); err != nil {
			return err
		}
	}
	return nil
}
