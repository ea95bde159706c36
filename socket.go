package sio

import (
	"fmt"

	eioparser "github.com/tomruk/socket.io-mock/engine.io/parser"
	"github.com/tomruk/socket.io-mock/internal/sync"
	"github.com/tomruk/socket.io-mock/parser"
	"github.com/tomruk/socket.io-mock/transport"
)

type (
	Message      = transport.Message
	MessageEvent = transport.MessageEvent
)

// Socket speaks Socket.IO over one side of an intercepted connection.
// Events are encoded into Engine.IO payloads on Emit and decoded from
// every raw message the connection delivers.
type Socket struct {
	name string
	conn transport.Conn

	// Guards encoder. Emit may be called from listeners.
	sendMu  sync.Mutex
	encoder parser.Encoder

	// Guards decoder.
	receiveMu sync.Mutex
	decoder   parser.Decoder

	binaryType     eioparser.BinaryType
	handlers       *handlerStore
	subscribeOnce  sync.Once
	onFramingError func(err *FramingError)

	debug Debugger
}

func newSocket(name string, conn transport.Conn, config *Config) *Socket {
	return &Socket{
		name:           name,
		conn:           conn,
		encoder:        config.ParserCreator(),
		decoder:        config.ParserCreator(),
		binaryType:     config.BinaryType,
		handlers:       newHandlerStore(),
		onFramingError: config.OnFramingError,
		debug:          config.Debugger.WithContext(fmt.Sprintf("[sio/%s]", name)),
	}
}

// Raw connection this socket runs on.
func (s *Socket) Conn() transport.Conn { return s.conn }

// Register a listener for an event.
//
// Listeners of the same event run in registration order, every time a
// matching EVENT packet is decoded. They receive the raw message that
// completed the packet, followed by the event arguments.
//
// A nil listener is ignored.
func (s *Socket) On(eventName string, listener Listener) {
	if listener == nil {
		return
	}
	s.subscribe()
	s.handlers.on(eventName, listener)
}

// Register a one-time listener. It is removed after it runs once.
func (s *Socket) Once(eventName string, listener Listener) {
	if listener == nil {
		return
	}
	s.subscribe()
	s.handlers.once(eventName, listener)
}

// Remove all listeners of an event.
func (s *Socket) Off(eventName string) {
	s.handlers.off(eventName)
}

// Remove all listeners.
func (s *Socket) OffAll() {
	s.handlers.offAll()
}

// The raw connection is observed once, no matter how many listeners are registered.
func (s *Socket) subscribe() {
	s.subscribeOnce.Do(func() {
		s.conn.OnMessage(s.onMessage)
	})
}
