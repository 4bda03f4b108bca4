package decode

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/RobertWHurst/jsonfrag"
)

// JSON decodes a single JSON document. Integers of any size become
// jsonfrag.Int, other numbers jsonfrag.Float, and objects insertion ordered
// *jsonfrag.Map values with String keys.
func JSON(data []byte) (jsonfrag.Value, error) {
	iter := jsoniter.ConfigFastest.BorrowIterator(data)
	defer jsoniter.ConfigFastest.ReturnIterator(iter)
	return readDocument(iter)
}

// JSONString is JSON for string input.
func JSONString(s string) (jsonfrag.Value, error) {
	iter := jsoniter.ParseString(jsoniter.ConfigFastest, s)
	return readDocument(iter)
}

func readDocument(iter *jsoniter.Iterator) (jsonfrag.Value, error) {
	v := readValue(iter)
	if iter.Error != nil && iter.Error != io.EOF {
		return nil, errors.Wrap(iter.Error, "decode json")
	}
	if iter.WhatIsNext() != jsoniter.InvalidValue || iter.Error != io.EOF {
		return nil, errors.New("decode json: unexpected data after top-level value")
	}
	return v, nil
}

func readValue(iter *jsoniter.Iterator) jsonfrag.Value {
	switch iter.WhatIsNext() {
	case jsoniter.NilValue:
		iter.ReadNil()
		return jsonfrag.Null{}
	case jsoniter.BoolValue:
		return jsonfrag.Bool(iter.ReadBool())
	case jsoniter.StringValue:
		return jsonfrag.String(iter.ReadString())
	case jsoniter.NumberValue:
		return readNumber(iter)
	case jsoniter.ArrayValue:
		seq := jsonfrag.NewSeq()
		iter.ReadArrayCB(func(iter *jsoniter.Iterator) bool {
			seq.Items = append(seq.Items, readValue(iter))
			return iter.Error == nil
		})
		return seq
	case jsoniter.ObjectValue:
		m := jsonfrag.NewMap()
		iter.ReadObjectCB(func(iter *jsoniter.Iterator, field string) bool {
			m.Set(jsonfrag.String(field), readValue(iter))
			return iter.Error == nil
		})
		return m
	default:
		iter.ReportError("readValue", "unexpected token")
		return nil
	}
}

func readNumber(iter *jsoniter.Iterator) jsonfrag.Value {
	text := string(iter.ReadNumber())
	if iter.Error != nil && iter.Error != io.EOF {
		return nil
	}
	// jsoniter reads forms such as "1." and "01" that JSON does not allow.
	if !json.Valid([]byte(text)) {
		iter.ReportError("readNumber", "invalid number "+text)
		return nil
	}
	if !strings.ContainsAny(text, ".eE") {
		if i, ok := jsonfrag.ParseInt(text); ok {
			return i
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		iter.ReportError("readNumber", "invalid number "+text)
		return nil
	}
	return jsonfrag.Float(f)
}
