package jsonparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomruk/socket.io-mock/parser"
)

func TestDecode(t *testing.T) {
	for name, json := range testSerializers() {
		t.Run(name, func(t *testing.T) {
			p := NewCreator(0, json)()

			result, err := p.Add([]byte(`2["hello","John",{"id":1}]`), false)
			require.NoError(t, err)
			require.True(t, result.Complete())

			packet := result.Packet
			assert.Equal(t, parser.PacketTypeEvent, packet.Header.Type)
			assert.Equal(t, "/", packet.Header.Namespace)
			assert.Nil(t, packet.Header.ID)

			eventName, ok := packet.EventName()
			require.True(t, ok)
			assert.Equal(t, "hello", eventName)
			assert.Equal(t, []any{"John", map[string]any{"id": float64(1)}}, packet.Args())
		})
	}
}

func TestDecodeHeader(t *testing.T) {
	p := NewCreator(0, nil)()

	tests := []struct {
		data      string
		typ       parser.PacketType
		namespace string
		id        *uint64
		payload   any
	}{
		{data: `0{"sid":"test"}`, typ: parser.PacketTypeConnect, namespace: "/", payload: map[string]any{"sid": "test"}},
		{data: `0`, typ: parser.PacketTypeConnect, namespace: "/"},
		{data: `0/admin,`, typ: parser.PacketTypeConnect, namespace: "/admin"},
		{data: `1`, typ: parser.PacketTypeDisconnect, namespace: "/"},
		{data: `1/admin`, typ: parser.PacketTypeDisconnect, namespace: "/admin"},
		{data: `4"not authorized"`, typ: parser.PacketTypeConnectError, namespace: "/", payload: "not authorized"},
		{data: `3/admin,13["ok"]`, typ: parser.PacketTypeAck, namespace: "/admin", id: ptr(13), payload: []any{"ok"}},
		{data: `212["ping"]`, typ: parser.PacketTypeEvent, namespace: "/", id: ptr(12), payload: []any{"ping"}},
	}

	for _, test := range tests {
		t.Run(test.data, func(t *testing.T) {
			result, err := p.Add([]byte(test.data), false)
			require.NoError(t, err)
			require.True(t, result.Complete())

			assert.Equal(t, test.typ, result.Packet.Header.Type)
			assert.Equal(t, test.namespace, result.Packet.Header.Namespace)
			assert.Equal(t, test.id, result.Packet.Header.ID)
			assert.Equal(t, test.payload, result.Packet.Data)
		})
	}
}

func TestDecodeBinary(t *testing.T) {
	p := NewCreator(0, nil)()

	result, err := p.Add([]byte(`52-["upload",{"_placeholder":true,"num":0},{"file":{"_placeholder":true,"num":1}}]`), false)
	require.NoError(t, err)
	assert.False(t, result.Complete())

	result, err = p.Add([]byte("abc"), true)
	require.NoError(t, err)
	assert.False(t, result.Complete())

	result, err = p.Add([]byte{0x1, 0x2}, true)
	require.NoError(t, err)
	require.True(t, result.Complete())

	packet := result.Packet
	assert.Equal(t, parser.PacketTypeBinaryEvent, packet.Header.Type)
	eventName, ok := packet.EventName()
	require.True(t, ok)
	assert.Equal(t, "upload", eventName)
	assert.Equal(t, []any{Binary("abc"), map[string]any{"file": Binary{0x1, 0x2}}}, packet.Args())
}

func TestEncodeDecodeBinary(t *testing.T) {
	for name, json := range testSerializers() {
		t.Run(name, func(t *testing.T) {
			p := NewCreator(0, json)()

			buffers, err := p.Encode(parser.NewEventPacket("upload", "avatar.png", Binary{0xde, 0xad}))
			require.NoError(t, err)
			require.Len(t, buffers, 2)

			var result parser.Result
			for i, buf := range buffers {
				result, err = p.Add(buf, i > 0)
				require.NoError(t, err)
			}
			require.True(t, result.Complete())
			assert.Equal(t, []any{"avatar.png", Binary{0xde, 0xad}}, result.Packet.Args())
		})
	}
}

func TestMaxAttachmentsDecode(t *testing.T) {
	p := NewCreator(1, nil)()

	_, err := p.Add([]byte(`52-["upload",{"_placeholder":true,"num":0},{"_placeholder":true,"num":1}]`), false)
	assert.ErrorIs(t, err, errMaxAttachmentsExceeded)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		err  error
	}{
		{name: "empty", data: ``, err: errInvalidPacketSize},
		{name: "invalid type", data: `9["hello"]`, err: parser.ErrInvalidPacketType},
		{name: "missing attachments separator", data: `51["hello"]`, err: errMalformedPacket},
		{name: "empty attachments", data: `5-["hello"]`, err: errNegativeAttachments},
		{name: "overflowing attachments", data: `518446744073709551615-["hello",{"_placeholder":true,"num":0}]`, err: errNegativeAttachments},
		{name: "truncated json", data: `2["hello"`, err: errInvalidPayload},
		{name: "event without name", data: `2[]`, err: errInvalidPayload},
		{name: "event with object payload", data: `2{"hello":1}`, err: errInvalidPayload},
		{name: "disconnect with payload", data: `1"bye"`, err: errInvalidPayload},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := NewCreator(0, nil)()
			result, err := p.Add([]byte(test.data), false)
			assert.ErrorIs(t, err, test.err)
			assert.False(t, result.Complete())
		})
	}
}

func TestDecodeUnexpectedChunks(t *testing.T) {
	p := NewCreator(0, nil)()

	_, err := p.Add([]byte{0x1}, true)
	assert.ErrorIs(t, err, errUnexpectedBinary)

	_, err = p.Add([]byte(`51-["upload",{"_placeholder":true,"num":0}]`), false)
	require.NoError(t, err)
	_, err = p.Add([]byte(`2["hello"]`), false)
	assert.ErrorIs(t, err, errUnexpectedPlaintext)

	// The decoder was reset and accepts a new packet.
	result, err := p.Add([]byte(`2["hello"]`), false)
	require.NoError(t, err)
	assert.True(t, result.Complete())
}

func TestDecodeInvalidPlaceholder(t *testing.T) {
	p := NewCreator(0, nil)()

	_, err := p.Add([]byte(`51-["upload",{"_placeholder":true,"num":3}]`), false)
	require.NoError(t, err)
	_, err = p.Add([]byte{0x1}, true)
	assert.ErrorIs(t, err, errInvalidPlaceholderNumValue)
}

func TestReset(t *testing.T) {
	p := NewCreator(0, nil)()

	_, err := p.Add([]byte(`51-["upload",{"_placeholder":true,"num":0}]`), false)
	require.NoError(t, err)
	p.Reset()

	result, err := p.Add([]byte(`2["hello"]`), false)
	require.NoError(t, err)
	assert.True(t, result.Complete())
}

func ptr(n uint64) *uint64 { return &n }

func TestDecodeReset(t *testing.T) {
	p := NewCreator(0, nil)()

	result, err := p.Add([]byte(`51-["upload",{"_placeholder":true,"num":0}]`), false)
	require.NoError(t, err)
	require.False(t, result.Complete())

	p.Reset()

	// The pending attachment is forgotten.
	_, err = p.Add([]byte{0x1}, true)
	assert.ErrorIs(t, err, errUnexpectedBinary)

	p.Reset()
	result, err = p.Add([]byte(`2["hello"]`), false)
	require.NoError(t, err)
	assert.True(t, result.Complete())
}
