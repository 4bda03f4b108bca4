package jsonfrag

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultMaxDepth is the nesting depth used when Config.MaxDepth is zero.
const DefaultMaxDepth = 1000

// Fallback converts a value with no native JSON encoding into one that can be
// encoded. Errors returned by a Fallback are passed through Encode unchanged.
type Fallback func(v Value) (Value, error)

// Config controls how an Encoder writes JSON.
type Config struct {
	// KeySeparator is written between a map key and its value. Empty means ":".
	KeySeparator string

	// ItemSeparator is written between sequence items and map entries.
	// Empty means ",".
	ItemSeparator string

	// SortKeys orders map entries by their coerced key text instead of
	// insertion order.
	SortKeys bool

	// SkipKeys drops map entries whose key cannot be coerced to a string
	// instead of failing.
	SkipKeys bool

	// AllowNaN writes NaN, Infinity and -Infinity for out of range floats
	// instead of failing. The output is then not strict JSON.
	AllowNaN bool

	// DisableCircularCheck turns off cycle detection. Cyclic input then fails
	// with ErrRecursionLimit once MaxDepth is reached.
	DisableCircularCheck bool

	// MaxDepth bounds the nesting depth. Zero means DefaultMaxDepth, a
	// negative value disables the bound.
	MaxDepth int

	// Escape turns a string into a quoted JSON string literal. Nil means
	// QuoteString.
	Escape func(s string) string

	// Default is called for Opaque values. Nil means opaque values fail with
	// ErrNotSerializable.
	Default Fallback
}

// DefaultConfig returns the configuration of the standard human readable
// output: ", " and ": " separators, NaN allowed and UTF-8 strings.
func DefaultConfig() Config {
	return Config{
		KeySeparator:  ": ",
		ItemSeparator: ", ",
		AllowNaN:      true,
		MaxDepth:      DefaultMaxDepth,
		Escape:        QuoteString,
	}
}

// CompactConfig is DefaultConfig without whitespace in the separators.
func CompactConfig() Config {
	cfg := DefaultConfig()
	cfg.KeySeparator = ":"
	cfg.ItemSeparator = ","
	return cfg
}

// Encoder converts values into JSON fragments. The configuration is fixed at
// construction and all per call state is local to Encode, so an Encoder may
// be shared between goroutines.
type Encoder struct {
	cfg Config
}

// New returns an Encoder using cfg.
func New(cfg Config) *Encoder {
	if cfg.KeySeparator == "" {
		cfg.KeySeparator = ":"
	}
	if cfg.ItemSeparator == "" {
		cfg.ItemSeparator = ","
	}
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.Escape == nil {
		cfg.Escape = QuoteString
	}
	return &Encoder{cfg: cfg}
}

// Config returns the effective configuration of the encoder.
func (e *Encoder) Config() Config {
	return e.cfg
}

// Encode converts v into JSON. It returns either the complete fragment list
// or the first error encountered; no partial output is ever returned.
func (e *Encoder) Encode(v Value) (*Fragments, error) {
	s := &encodeState{
		cfg: &e.cfg,
		out: &Fragments{},
	}
	if !e.cfg.DisableCircularCheck {
		s.visiting = make(map[Value]struct{})
	}
	if err := s.encodeValue(v, 0); err != nil {
		return nil, err
	}
	return s.out, nil
}

// EncodeString is Encode followed by concatenation.
func (e *Encoder) EncodeString(v Value) (string, error) {
	frags, err := e.Encode(v)
	if err != nil {
		return "", err
	}
	return frags.String(), nil
}

type encodeState struct {
	cfg      *Config
	out      *Fragments
	visiting map[Value]struct{}
}

func (s *encodeState) encodeValue(v Value, depth int) error {
	if s.cfg.MaxDepth > 0 && depth > s.cfg.MaxDepth {
		return &EncodeError{Kind: KindRecursionLimit}
	}

	switch v := v.(type) {
	case nil, Null:
		s.out.append("null")
	case Bool:
		if v {
			s.out.append("true")
		} else {
			s.out.append("false")
		}
	case Int:
		s.out.append(v.String())
	case Float:
		text, err := s.floatText(float64(v))
		if err != nil {
			return err
		}
		s.out.append(text)
	case String:
		s.out.append(s.cfg.Escape(string(v)))
	case *Seq:
		if v == nil {
			s.out.append("null")
			return nil
		}
		return s.encodeSeq(v, depth)
	case *Map:
		if v == nil {
			s.out.append("null")
			return nil
		}
		return s.encodeMap(v, depth)
	case *Opaque:
		if v == nil {
			s.out.append("null")
			return nil
		}
		return s.encodeOpaque(v, depth)
	default:
		panic(fmt.Sprintf("jsonfrag: unknown value type %T", v))
	}
	return nil
}

func (s *encodeState) floatText(f float64) (string, error) {
	if isOutOfRange(f) && !s.cfg.AllowNaN {
		return "", &EncodeError{Kind: KindOutOfRangeFloat, Value: floatToken(f)}
	}
	return floatToken(f), nil
}

// enter marks v as being encoded. The caller must call leave once enter
// succeeds.
func (s *encodeState) enter(v Value) error {
	if s.visiting == nil {
		return nil
	}
	if _, ok := s.visiting[v]; ok {
		return &EncodeError{Kind: KindCircularReference, Value: Repr(v)}
	}
	s.visiting[v] = struct{}{}
	return nil
}

func (s *encodeState) leave(v Value) {
	if s.visiting != nil {
		delete(s.visiting, v)
	}
}

func (s *encodeState) encodeSeq(seq *Seq, depth int) error {
	if err := s.enter(seq); err != nil {
		return err
	}
	defer s.leave(seq)

	s.out.append("[")
	for i, item := range seq.Items {
		if i > 0 {
			s.out.append(s.cfg.ItemSeparator)
		}
		if err := s.encodeValue(item, depth+1); err != nil {
			return err
		}
	}
	s.out.append("]")
	return nil
}

type keyedValue struct {
	key   string
	value Value
}

func (s *encodeState) encodeMap(m *Map, depth int) error {
	if m.Len() == 0 {
		s.out.append("{}")
		return nil
	}
	if err := s.enter(m); err != nil {
		return err
	}
	defer s.leave(m)

	s.out.append("{")

	first := true
	emit := func(key string, value Value) error {
		if !first {
			s.out.append(s.cfg.ItemSeparator)
		}
		first = false
		s.out.append(s.cfg.Escape(key))
		s.out.append(s.cfg.KeySeparator)
		return s.encodeValue(value, depth+1)
	}

	if s.cfg.SortKeys {
		// Keys are coerced up front so the sort compares their text.
		items := make([]keyedValue, 0, m.Len())
		for _, e := range m.entries {
			key, ok, err := s.coerceKey(e.Key)
			if err != nil {
				return err
			}
			if ok {
				items = append(items, keyedValue{key: key, value: e.Value})
			}
		}
		slices.SortStableFunc(items, func(a, b keyedValue) int {
			return strings.Compare(a.key, b.key)
		})
		for _, item := range items {
			if err := emit(item.key, item.value); err != nil {
				return err
			}
		}
	} else {
		for _, e := range m.entries {
			key, ok, err := s.coerceKey(e.Key)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if err := emit(key, e.Value); err != nil {
				return err
			}
		}
	}

	s.out.append("}")
	return nil
}

// coerceKey returns the string form of a map key. ok is false when the key
// should be skipped.
func (s *encodeState) coerceKey(k Value) (key string, ok bool, err error) {
	switch k := k.(type) {
	case String:
		return string(k), true, nil
	case Float:
		text, err := s.floatText(float64(k))
		if err != nil {
			return "", false, err
		}
		return text, true, nil
	case Int:
		return k.String(), true, nil
	case Bool:
		if k {
			return "true", true, nil
		}
		return "false", true, nil
	case nil, Null:
		return "null", true, nil
	}
	if s.cfg.SkipKeys {
		return "", false, nil
	}
	return "", false, &EncodeError{Kind: KindInvalidKey, Value: Repr(k)}
}

func (s *encodeState) encodeOpaque(o *Opaque, depth int) error {
	if err := s.enter(o); err != nil {
		return err
	}
	defer s.leave(o)

	if s.cfg.Default == nil {
		return NotSerializable(o)
	}
	replacement, err := s.cfg.Default(o)
	if err != nil {
		return err
	}
	return s.encodeValue(replacement, depth+1)
}
