package jsonfrag

import "errors"

// Kind classifies an EncodeError.
type Kind int

const (
	// KindCircularReference is reported when a container or opaque value is
	// reached again while it is still being encoded.
	KindCircularReference Kind = iota + 1
	// KindNotSerializable is reported for opaque values without a fallback.
	KindNotSerializable
	// KindInvalidKey is reported for map keys that cannot be coerced to a
	// string while Config.SkipKeys is false.
	KindInvalidKey
	// KindOutOfRangeFloat is reported for NaN and the infinities while
	// Config.AllowNaN is false.
	KindOutOfRangeFloat
	// KindRecursionLimit is reported when nesting exceeds Config.MaxDepth.
	KindRecursionLimit
)

func (k Kind) String() string {
	switch k {
	case KindCircularReference:
		return "circular_reference"
	case KindNotSerializable:
		return "not_serializable"
	case KindInvalidKey:
		return "invalid_key"
	case KindOutOfRangeFloat:
		return "out_of_range_float"
	case KindRecursionLimit:
		return "recursion_limit"
	default:
		return "unknown"
	}
}

// EncodeError is returned by Encoder.Encode. Value holds the bounded
// diagnostic text of the offending value or key.
type EncodeError struct {
	Kind  Kind
	Value string
}

// Sentinels for use with errors.Is. ErrInvalidKey errors also match
// ErrNotSerializable.
var (
	ErrCircularReference = &EncodeError{Kind: KindCircularReference}
	ErrNotSerializable   = &EncodeError{Kind: KindNotSerializable}
	ErrInvalidKey        = &EncodeError{Kind: KindInvalidKey}
	ErrOutOfRangeFloat   = &EncodeError{Kind: KindOutOfRangeFloat}
	ErrRecursionLimit    = &EncodeError{Kind: KindRecursionLimit}
)

func (e *EncodeError) Error() string {
	switch e.Kind {
	case KindCircularReference:
		if e.Value == "" {
			return "circular reference detected"
		}
		return "circular reference detected: " + e.Value
	case KindNotSerializable:
		if e.Value == "" {
			return "value is not JSON serializable"
		}
		return e.Value + " is not JSON serializable"
	case KindInvalidKey:
		return "keys must be a string: " + e.Value
	case KindOutOfRangeFloat:
		if e.Value == "" {
			return "out of range float values are not JSON compliant"
		}
		return "out of range float values are not JSON compliant: " + e.Value
	case KindRecursionLimit:
		return "maximum nesting depth exceeded"
	default:
		return "encode error"
	}
}

func (e *EncodeError) Is(target error) bool {
	t, ok := target.(*EncodeError)
	if !ok {
		return false
	}
	if t.Kind == e.Kind {
		return true
	}
	return t.Kind == KindNotSerializable && e.Kind == KindInvalidKey
}

// NotSerializable returns the error reported for a value that has no JSON
// encoding. Fallback converters that give up on a value should return it.
func NotSerializable(v Value) error {
	return &EncodeError{Kind: KindNotSerializable, Value: Repr(v)}
}

// KindOf returns the kind name of an EncodeError in err's chain, "other" for
// any other error and "" for nil.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	var e *EncodeError
	if errors.As(err, &e) {
		return e.Kind.String()
	}
	return "other"
}
