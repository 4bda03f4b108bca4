// Package json provides a jsonfrag.Codec that writes JSON with the fragment
// encoder and reads it back with json-iterator.
package json

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/RobertWHurst/jsonfrag"
	"github.com/RobertWHurst/jsonfrag/convert"
	"github.com/RobertWHurst/jsonfrag/decode"
)

// Encoder implements jsonfrag.Codec. Go values are converted with
// convert.FromAny, so maps are written with sorted keys and values without a
// JSON form go through the configured fallback.
type Encoder struct {
	enc *jsonfrag.Encoder
}

var _ jsonfrag.Codec = &Encoder{}

// Encode serializes v to JSON bytes.
func (e *Encoder) Encode(v any) ([]byte, error) {
	frags, err := e.enc.Encode(convert.FromAny(v))
	if err != nil {
		return nil, err
	}
	return frags.Bytes(), nil
}

// Decode deserializes JSON bytes into v. A *jsonfrag.Value target receives an
// insertion ordered value tree, any other target is filled the way
// encoding/json would fill it.
func (d *Encoder) Decode(data []byte, v any) error {
	if target, ok := v.(*jsonfrag.Value); ok {
		value, err := decode.JSON(data)
		if err != nil {
			return err
		}
		*target = value
		return nil
	}
	return jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, v)
}

// New creates a JSON encoder with compact separators, strict floats and the
// convert.Default fallback chain.
func New() *Encoder {
	cfg := jsonfrag.CompactConfig()
	cfg.AllowNaN = false
	cfg.Default = convert.Default()
	return NewWithConfig(cfg)
}

// NewWithConfig creates a JSON encoder using cfg.
func NewWithConfig(cfg jsonfrag.Config) *Encoder {
	return &Encoder{enc: jsonfrag.New(cfg)}
}
