package parser

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodePayloads(t *testing.T) {
	test := testPackets(t)

	encoded := EncodePayloads(test...)
	assert.Greater(t, len(encoded), 0)

	packets, err := DecodePayloads(encoded, DefaultBinaryType)
	require.NoError(t, err)
	require.Len(t, packets, len(test))

	for i, p1 := range packets {
		p2 := test[i]

		assert.Equal(t, p2.Type, p1.Type, "packet type doesn't match")
		assert.Equal(t, p2.IsBinary, p1.IsBinary, "isBinary doesn't match")
		assert.True(t, bytes.Equal(p1.Data, p2.Data), "packet data doesn't match")
	}
}

func TestEncodePayloadsWire(t *testing.T) {
	encoded := EncodePayloads(
		mustCreatePacket(t, PacketTypeMessage, false, []byte(`451-["upload",{"_placeholder":true,"num":0}]`)),
		mustCreatePacket(t, PacketTypeMessage, true, []byte{0x1, 0x2, 0x3}),
	)
	assert.Equal(t, "4451-[\"upload\",{\"_placeholder\":true,\"num\":0}]\x1ebAQID", string(encoded))

	single := EncodePayloads(mustCreatePacket(t, PacketTypeMessage, false, []byte(`2["hello","John"]`)))
	assert.Equal(t, `42["hello","John"]`, string(single))
}

func TestDecodeSinglePayload(t *testing.T) {
	test := mustCreatePacket(t, PacketTypeMessage, true, []byte{0x0, 0x1, 0x2, 0x3})

	encoded := EncodePayloads(test)
	assert.Greater(t, len(encoded), 0)

	packets, err := DecodePayloads(encoded, DefaultBinaryType)
	require.NoError(t, err)
	require.Equal(t, 1, len(packets))

	assert.Equal(t, test.Type, packets[0].Type, "packet type doesn't match")
	assert.Equal(t, test.IsBinary, packets[0].IsBinary, "isBinary doesn't match")
	assert.True(t, bytes.Equal(test.Data, packets[0].Data), "packet data doesn't match")
}

func TestDecodeInvalidPayload(t *testing.T) {
	test := mustCreatePacket(t, PacketTypePing, false, []byte("probe"))

	encoded := EncodePayloads(test)
	encoded[0] = 2 // Lower than 48. To provoke errInvalidPacketType.

	_, err := DecodePayloads(encoded, DefaultBinaryType)
	assert.Equal(t, errInvalidPacketType, err)
}

func TestDecodePayloadsKeepsLeadingPackets(t *testing.T) {
	packets, err := DecodePayloads([]byte("42[\"n\",1]\x1e9\x1e42[\"n\",2]"), DefaultBinaryType)
	assert.Equal(t, errInvalidPacketType, err)
	if assert.Len(t, packets, 1) {
		assert.Equal(t, PacketTypeMessage, packets[0].Type)
		assert.Equal(t, `2["n",1]`, string(packets[0].Data))
	}
}
