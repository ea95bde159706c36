// Package serializer defines the JSON backend used by the JSON parser.
//
// Implementations must produce compact output without HTML escaping so that
// encoded packets are byte-identical to the ones JavaScript peers produce
// with JSON.stringify.
package serializer

type JSONSerializer interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}
