package parser

import "fmt"

// BinaryType selects how binary data of a decoded packet relates to the
// frame it was decoded from. The names follow the JavaScript binaryType
// values so that transports can pass them through unchanged.
type BinaryType string

const (
	// BinaryTypeNodeBuffer returns slices of the received frame. No copy is made.
	BinaryTypeNodeBuffer BinaryType = "nodebuffer"
	// BinaryTypeArrayBuffer returns an owned copy of the data.
	BinaryTypeArrayBuffer BinaryType = "arraybuffer"
	// BinaryTypeBlob returns an owned copy of the data.
	BinaryTypeBlob BinaryType = "blob"
)

const DefaultBinaryType = BinaryTypeNodeBuffer

var errInvalidBinaryType = fmt.Errorf("parser: invalid binary type")

func ParseBinaryType(s string) (BinaryType, error) {
	switch t := BinaryType(s); t {
	case BinaryTypeNodeBuffer, BinaryTypeArrayBuffer, BinaryTypeBlob:
		return t, nil
	case "":
		return DefaultBinaryType, nil
	}
	return "", fmt.Errorf("%w: %q", errInvalidBinaryType, s)
}

func (t BinaryType) String() string { return string(t) }

func (t BinaryType) view(data []byte) []byte {
	switch t {
	case BinaryTypeArrayBuffer, BinaryTypeBlob:
		if data == nil {
			return nil
		}
		b := make([]byte, len(data))
		copy(b, data)
		return b
	}
	return data
}
