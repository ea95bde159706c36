package parser

import (
	"bytes"
)

const payloadDelimiter byte = 30

// EncodePayloads joins the packets into a single payload. Binary packets
// are base64 encoded. Argument must not be nil.
func EncodePayloads(packets ...*Packet) []byte {
	built := make([][]byte, len(packets))
	l := 0
	for i, packet := range packets {
		built[i] = packet.Build(false)
		l += len(built[i])

		// Delimiter
		if i != len(packets)-1 {
			l += 1
		}
	}

	b := make([]byte, 0, l)

	for i := range built {
		b = append(b, built[i]...)

		if i != len(built)-1 {
			b = append(b, payloadDelimiter)
		}
	}

	return b
}

// DecodePayloads stops at the first malformed packet. The packets decoded
// before it are returned along with the error.
func DecodePayloads(b []byte, binaryType BinaryType) ([]*Packet, error) {
	packets := make([]*Packet, 0, 1) // Minimum 1 packet expected
	splitted := bytes.Split(b, []byte{payloadDelimiter})

	for _, sp := range splitted {
		packet, err := Parse(sp, false, binaryType)
		if err != nil {
			return packets, err
		}
		packets = append(packets, packet)
	}

	return packets, nil
}
