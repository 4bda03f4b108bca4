package decode

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/RobertWHurst/jsonfrag"
)

// MaxMsgPackDepth bounds the nesting of decoded MessagePack documents.
const MaxMsgPackDepth = 10000

// maxPrealloc caps slice preallocation, array lengths come from the input.
const maxPrealloc = 1024

// MsgPack decodes a single MessagePack document. Map keys keep their own
// kinds, so integer or boolean keys reach the encoder as Int or Bool and are
// coerced there. Binary data, timestamps and extension values become
// *jsonfrag.Opaque wrapping the value msgpack decoded.
func MsgPack(data []byte) (jsonfrag.Value, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	v, err := decodeMsgPack(dec, 0)
	if err != nil {
		return nil, errors.Wrap(err, "decode msgpack")
	}
	if _, err := dec.PeekCode(); err != io.EOF {
		return nil, errors.New("decode msgpack: unexpected data after top-level value")
	}
	return v, nil
}

func decodeMsgPack(dec *msgpack.Decoder, depth int) (jsonfrag.Value, error) {
	if depth > MaxMsgPackDepth {
		return nil, errors.New("maximum nesting depth exceeded")
	}

	c, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}

	switch {
	case c == msgpcode.Nil:
		return jsonfrag.Null{}, dec.DecodeNil()

	case msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return nil, err
		}
		m := jsonfrag.NewMap()
		for i := 0; i < n; i++ {
			k, err := decodeMsgPack(dec, depth+1)
			if err != nil {
				return nil, err
			}
			v, err := decodeMsgPack(dec, depth+1)
			if err != nil {
				return nil, err
			}
			m.Set(k, v)
		}
		return m, nil

	case msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		seq := &jsonfrag.Seq{Items: make([]jsonfrag.Value, 0, min(n, maxPrealloc))}
		for i := 0; i < n; i++ {
			v, err := decodeMsgPack(dec, depth+1)
			if err != nil {
				return nil, err
			}
			seq.Items = append(seq.Items, v)
		}
		return seq, nil
	}

	x, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return nil, err
	}
	return scalarValue(x), nil
}

func scalarValue(x any) jsonfrag.Value {
	switch x := x.(type) {
	case bool:
		return jsonfrag.Bool(x)
	case int64:
		return jsonfrag.NewInt(x)
	case uint64:
		return jsonfrag.NewUint(x)
	case float32:
		return jsonfrag.Float(x)
	case float64:
		return jsonfrag.Float(x)
	case string:
		return jsonfrag.String(x)
	default:
		return jsonfrag.NewOpaque(x)
	}
}
