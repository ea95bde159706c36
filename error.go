package sio

import "github.com/tomruk/socket.io-mock/transport"

// FramingError is reported when an incoming payload could not be decoded
// by either the Engine.IO or the Socket.IO parser.
type FramingError struct {
	// Raw message the error occurred on.
	Message transport.Message

	err error
}

func (e *FramingError) Error() string {
	return "sio: framing error: " + e.err.Error()
}

func (e *FramingError) Unwrap() error {
	return e.err
}

func newFramingError(m transport.Message, err error) *FramingError {
	return &FramingError{Message: m, err: err}
}

// This is a wrapper for the errors internal to socket.io-mock.
//
// If you see this error, this means that the problem is
// neither a transport error, nor an error caused by you, but
// the source of the error is socket.io-mock.
type InternalError struct {
	err error
}

func (e InternalError) Error() string {
	return "sio: internal error: " + e.err.Error()
}

func (e InternalError) Unwrap() error {
	return e.err
}

func wrapInternalError(err error) *InternalError {
	return &InternalError{err: err}
}
