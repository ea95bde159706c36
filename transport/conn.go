// Package transport defines the boundary between the Socket.IO binding and
// the raw, intercepted WebSocket connections it runs on.
package transport

import (
	"fmt"

	eioparser "github.com/tomruk/socket.io-mock/engine.io/parser"
)

var ErrNotConnected = fmt.Errorf("transport: connection is not established")

type (
	// Conn is one side of an intercepted WebSocket connection.
	Conn interface {
		// OnMessage registers a function called for every raw message
		// delivered on the connection, in delivery order.
		OnMessage(handler MessageHandler)

		// Send writes a raw message to the connection.
		Send(m Message) error

		// ReadyState reports whether the connection was established. A
		// non-nil error is equivalent to NotConnected.
		ReadyState() (ReadyState, error)
	}

	MessageHandler func(e *MessageEvent)

	// BinaryTyper is implemented by connections that know the binaryType
	// their WebSocket was configured with.
	BinaryTyper interface {
		BinaryType() eioparser.BinaryType
	}

	// Scheduler runs a task after the current callback returns and before
	// the next message is delivered.
	Scheduler interface {
		Schedule(task func())
	}
)

// ReadyState mirrors the WebSocket readyState values. NotConnected is
// reported by server connections that were never connected.
type ReadyState int

const (
	NotConnected ReadyState = iota - 1
	Connecting
	Open
	Closing
	Closed
)

func (s ReadyState) String() string {
	switch s {
	case NotConnected:
		return "NOT_CONNECTED"
	case Connecting:
		return "CONNECTING"
	case Open:
		return "OPEN"
	case Closing:
		return "CLOSING"
	case Closed:
		return "CLOSED"
	}
	return fmt.Sprintf("ReadyState(%d)", int(s))
}
