package jsonfrag

// Codec defines the interface for byte level serialization and
// deserialization built on top of an Encoder.
type Codec interface {
	// Encode serializes v into bytes.
	Encode(v any) ([]byte, error)

	// Decode deserializes data into v.
	Decode(data []byte, v any) error
}
