// Package jsonfrag encodes dynamic values as JSON text.
//
// A Value is one of Null, Bool, Int, Float, String, *Seq, *Map or *Opaque.
// An Encoder walks a Value and returns the document as Fragments, an ordered
// list of text pieces that callers may join or write out one by one:
//
//	enc := jsonfrag.New(jsonfrag.DefaultConfig())
//	m := jsonfrag.NewMap()
//	m.Set(jsonfrag.String("a"), jsonfrag.NewInt(1))
//	frags, err := enc.Encode(m)
//	if err != nil {
//		return err
//	}
//	frags.WriteTo(os.Stdout) // {"a": 1}
//
// Map keys that are not strings are coerced (numbers, booleans and null use
// their JSON text); other keys are skipped or rejected depending on
// Config.SkipKeys. Opaque values are handed to Config.Default, whose result
// is encoded in their place. Containers and opaque values that refer back to
// themselves are reported with ErrCircularReference.
package jsonfrag
