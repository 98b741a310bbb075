package docstore

import "encoding/json"

// Codec converts between Go values and stored bytes. Implementations must be
// symmetric: decoding the encoded form of v yields a value equal to v.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

// JSONCodec is the default codec; documents written with it are plain JSON.
type JSONCodec struct{}

// Encode marshals v as JSON.
func (JSONCodec) Encode(v any) ([]byte, error) { return json.Marshal(v) }

// Decode unmarshals JSON data into v.
func (JSONCodec) Decode(data []byte, v any) error { return json.Unmarshal(data, v) }
