package sio

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	eioparser "github.com/tomruk/socket.io-mock/engine.io/parser"
	"github.com/tomruk/socket.io-mock/internal/utils"
	jsonparser "github.com/tomruk/socket.io-mock/parser/json"
	"github.com/tomruk/socket.io-mock/transport"
)

func newTestSocket(config *Config) (*Socket, *utils.TestConn) {
	conn := utils.NewTestConn(transport.Open)
	return newSocket("test", conn, config.withDefaults()), conn
}

func TestEmitRoundTrip(t *testing.T) {
	sender, senderConn := newTestSocket(nil)
	receiver, receiverConn := newTestSocket(nil)

	var got []any
	receiver.On("hello", func(e *MessageEvent, args ...any) {
		got = append(got, args...)
	})

	require.NoError(t, sender.Emit("hello", "John", float64(42), map[string]any{"a": true}, nil))
	assert.Equal(t, []string{`42["hello","John",42,{"a":true},null]`}, senderConn.SentStrings())

	senderConn.Forward(receiverConn)
	assert.Equal(t, []any{"John", float64(42), map[string]any{"a": true}, nil}, got)
}

func TestEmitNoArgs(t *testing.T) {
	s, conn := newTestSocket(nil)
	require.NoError(t, s.Emit("ping"))
	assert.Equal(t, []string{`42["ping"]`}, conn.SentStrings())
}

func TestSend(t *testing.T) {
	s, conn := newTestSocket(nil)
	require.NoError(t, s.Send("hi", "there"))
	assert.Equal(t, []string{`42["message","hi","there"]`}, conn.SentStrings())
}

func TestEmitHTMLNotEscaped(t *testing.T) {
	s, conn := newTestSocket(nil)
	require.NoError(t, s.Emit("html", "<b>&</b>"))
	assert.Equal(t, []string{`42["html","<b>&</b>"]`}, conn.SentStrings())
}

func TestEmitBinary(t *testing.T) {
	sender, senderConn := newTestSocket(nil)
	receiver, receiverConn := newTestSocket(nil)

	var got []any
	receiver.On("file", func(e *MessageEvent, args ...any) {
		got = append(got, args...)
	})

	require.NoError(t, sender.Emit("file", []byte{1, 2, 3}))

	// Attachments travel in the same raw message.
	sent := senderConn.Sent()
	require.Len(t, sent, 1)
	assert.False(t, sent[0].IsBinary())
	assert.Equal(t, "451-[\"file\",{\"_placeholder\":true,\"num\":0}]\x1ebAQID", string(sent[0].Data))

	senderConn.Forward(receiverConn)
	assert.Equal(t, []any{jsonparser.Binary{1, 2, 3}}, got)
}

func TestEmitError(t *testing.T) {
	s, conn := newTestSocket(nil)
	sendErr := fmt.Errorf("write failed")
	conn.SendFunc = func(m transport.Message) error { return sendErr }

	err := s.Emit("hello")
	assert.True(t, errors.Is(err, sendErr))
}

func TestEventNameFiltering(t *testing.T) {
	s, conn := newTestSocket(nil)

	var got []string
	s.On("hello", func(e *MessageEvent, args ...any) {
		got = append(got, "hello")
	})
	s.On("bye", func(e *MessageEvent, args ...any) {
		got = append(got, "bye")
	})

	conn.DeliverText(`42["other",1]`)
	conn.DeliverText(`42["hello"]`)
	conn.DeliverText(`42["Hello"]`)
	conn.DeliverText(`42["bye"]`)

	assert.Equal(t, []string{"hello", "bye"}, got)
}

func TestListenerOrder(t *testing.T) {
	s, conn := newTestSocket(nil)

	var (
		order  []int
		events []*MessageEvent
	)
	for i := 1; i <= 3; i++ {
		i := i
		s.On("hello", func(e *MessageEvent, args ...any) {
			order = append(order, i)
			events = append(events, e)
		})
	}

	e := conn.DeliverText(`42["hello","John"]`)
	assert.Equal(t, []int{1, 2, 3}, order)

	// Every listener receives the same delivery.
	for _, got := range events {
		assert.Same(t, e, got)
	}

	// A single subscription on the raw connection.
	assert.Equal(t, 1, conn.HandlerCount())
}

func TestMessageEvent(t *testing.T) {
	s, conn := newTestSocket(nil)

	s.On("hello", func(e *MessageEvent, args ...any) {
		assert.Equal(t, `42["hello","John"]`, string(e.Data))
		assert.False(t, e.IsBinary())
		e.PreventDefault()
	})

	e := conn.DeliverText(`42["hello","John"]`)
	assert.True(t, e.DefaultPrevented())

	e = conn.DeliverText(`42["other"]`)
	assert.False(t, e.DefaultPrevented())
}

func TestNonEventPacketsIgnored(t *testing.T) {
	s, conn := newTestSocket(nil)

	called := 0
	s.On("hello", func(e *MessageEvent, args ...any) {
		called++
	})

	for _, payload := range []string{
		`0{"sid":"abc","upgrades":[],"pingInterval":25000,"pingTimeout":5000}`,
		"2",
		"3probe",
		"6",
		`40`,
		`40{"sid":"abc"}`,
		`41`,
		`431["hello"]`,
		`44{"message":"hello"}`,
	} {
		conn.DeliverText(payload)
	}
	assert.Equal(t, 0, called)

	// Control packets do not disturb the decoder.
	conn.DeliverText(`42["hello"]`)
	assert.Equal(t, 1, called)
}

func TestEventWithAckID(t *testing.T) {
	s, conn := newTestSocket(nil)

	var got []any
	s.On("hello", func(e *MessageEvent, args ...any) {
		got = args
	})
	conn.DeliverText(`4212["hello","John"]`)
	assert.Equal(t, []any{"John"}, got)
}

func TestPayloadWithMultiplePackets(t *testing.T) {
	s, conn := newTestSocket(nil)

	var got []any
	s.On("n", func(e *MessageEvent, args ...any) {
		got = append(got, args...)
	})
	conn.DeliverText("42[\"n\",1]\x1e2\x1e42[\"n\",2]")
	assert.Equal(t, []any{float64(1), float64(2)}, got)
}

func TestBinaryAttachmentAcrossMessages(t *testing.T) {
	s, conn := newTestSocket(nil)

	var got []any
	s.On("file", func(e *MessageEvent, args ...any) {
		got = append(got, args...)
	})

	conn.DeliverText(`452-["file",{"_placeholder":true,"num":0},{"_placeholder":true,"num":1}]`)
	conn.Deliver(transport.BinaryMessage([]byte{1, 2}))
	assert.Len(t, got, 0)

	e := conn.Deliver(transport.BinaryMessage([]byte{3}))
	assert.True(t, e.IsBinary())
	assert.Equal(t, []any{jsonparser.Binary{1, 2}, jsonparser.Binary{3}}, got)
}

func TestBlobBinaryType(t *testing.T) {
	s, conn := newTestSocket(nil)
	conn.BinaryTypeValue = eioparser.BinaryTypeBlob

	var got jsonparser.Binary
	s.On("file", func(e *MessageEvent, args ...any) {
		got = args[0].(jsonparser.Binary)
	})

	data := []byte{1, 2, 3}
	conn.DeliverText(`451-["file",{"_placeholder":true,"num":0}]`)
	conn.Deliver(transport.BinaryMessage(data))

	data[0] = 9
	assert.Equal(t, jsonparser.Binary{1, 2, 3}, got)
}

func TestSocketOnce(t *testing.T) {
	s, conn := newTestSocket(nil)

	called := 0
	s.Once("hello", func(e *MessageEvent, args ...any) {
		called++
	})
	conn.DeliverText(`42["hello"]`)
	conn.DeliverText(`42["hello"]`)
	assert.Equal(t, 1, called)
}

func TestOff(t *testing.T) {
	s, conn := newTestSocket(nil)

	var got []string
	s.On("hello", func(e *MessageEvent, args ...any) { got = append(got, "hello") })
	s.On("bye", func(e *MessageEvent, args ...any) { got = append(got, "bye") })

	s.Off("hello")
	conn.DeliverText(`42["hello"]`)
	conn.DeliverText(`42["bye"]`)
	assert.Equal(t, []string{"bye"}, got)

	s.OffAll()
	conn.DeliverText(`42["bye"]`)
	assert.Equal(t, []string{"bye"}, got)

	// Listeners can be registered again.
	s.On("hello", func(e *MessageEvent, args ...any) { got = append(got, "hello") })
	conn.DeliverText(`42["hello"]`)
	assert.Equal(t, []string{"bye", "hello"}, got)
	assert.Equal(t, 1, conn.HandlerCount())
}

func TestEmitFromListener(t *testing.T) {
	s, conn := newTestSocket(nil)

	s.On("hello", func(e *MessageEvent, args ...any) {
		s.Emit("greetings", fmt.Sprintf("Hello, %s!", args[0]))
	})
	conn.DeliverText(`42["hello","John"]`)
	assert.Equal(t, []string{`42["greetings","Hello, John!"]`}, conn.SentStrings())
}

func TestFramingErrorsDropped(t *testing.T) {
	s, conn := newTestSocket(nil)

	called := 0
	s.On("hello", func(e *MessageEvent, args ...any) {
		called++
	})

	for _, payload := range []string{
		"",
		"9",
		"42[",
		`42{"hello":1}`,
		`4X`,
	} {
		conn.DeliverText(payload)
	}
	assert.Equal(t, 0, called)

	conn.DeliverText(`42["hello"]`)
	assert.Equal(t, 1, called)
}

func TestFramingErrorHook(t *testing.T) {
	var errs []*FramingError
	s, conn := newTestSocket(&Config{
		OnFramingError: func(err *FramingError) {
			errs = append(errs, err)
		},
	})

	called := 0
	s.On("hello", func(e *MessageEvent, args ...any) {
		called++
	})

	conn.DeliverText("42[")
	conn.DeliverText("9")

	// Unexpected attachment.
	conn.Deliver(transport.BinaryMessage([]byte{1}))

	require.Len(t, errs, 3)
	assert.Equal(t, "42[", string(errs[0].Message.Data))
	assert.Equal(t, "9", string(errs[1].Message.Data))
	assert.True(t, errs[2].Message.IsBinary())
	for _, err := range errs {
		assert.Error(t, errors.Unwrap(err))
		assert.Contains(t, err.Error(), "framing error")
	}
	assert.Equal(t, 0, called)
}

func TestFramingErrorResetsDecoder(t *testing.T) {
	s, conn := newTestSocket(nil)

	var got []any
	s.On("file", func(e *MessageEvent, args ...any) {
		got = append(got, args...)
	})

	conn.DeliverText(`451-["file",{"_placeholder":true,"num":0}]`)
	// A text packet while an attachment is awaited.
	conn.DeliverText(`42["file","text"]`)
	conn.DeliverText(`42["file","again"]`)

	assert.Equal(t, []any{"again"}, got)
}

func TestPayloadWithMalformedPacket(t *testing.T) {
	var errs []*FramingError
	s, conn := newTestSocket(&Config{
		OnFramingError: func(err *FramingError) {
			errs = append(errs, err)
		},
	})

	var got []any
	s.On("n", func(e *MessageEvent, args ...any) {
		got = append(got, args...)
	})

	// Packets before the malformed one are delivered, the rest is dropped.
	conn.DeliverText("42[\"n\",1]\x1e9\x1e42[\"n\",2]")
	assert.Equal(t, []any{float64(1)}, got)
	assert.Len(t, errs, 1)
}

func TestOverflowingAttachmentCount(t *testing.T) {
	var errs []*FramingError
	s, conn := newTestSocket(&Config{
		OnFramingError: func(err *FramingError) {
			errs = append(errs, err)
		},
	})

	called := 0
	s.On("file", func(e *MessageEvent, args ...any) {
		called++
	})

	conn.DeliverText(`4518446744073709551615-["file",{"_placeholder":true,"num":0}]`)
	assert.Equal(t, 0, called)
	assert.Len(t, errs, 1)
}

func TestNilListener(t *testing.T) {
	s, conn := newTestSocket(nil)

	s.On("hello", nil)
	s.Once("hello", nil)
	assert.Equal(t, 0, conn.HandlerCount())

	assert.NotPanics(t, func() {
		conn.DeliverText(`42["hello"]`)
	})
}
