package sio

import (
	"time"

	eio "github.com/tomruk/socket.io-mock/engine.io"
	eioparser "github.com/tomruk/socket.io-mock/engine.io/parser"
	"github.com/tomruk/socket.io-mock/parser"
	jsonparser "github.com/tomruk/socket.io-mock/parser/json"
	"github.com/tomruk/socket.io-mock/transport"
)

type Config struct {
	// Creates the encoder and decoder of each socket. Every socket gets
	// its own instances. Defaults to the JSON parser.
	ParserCreator parser.Creator

	// Binary type used to decode incoming payloads. A connection that
	// reports BinaryTypeBlob overrides it. Defaults to BinaryTypeNodeBuffer.
	BinaryType eioparser.BinaryType

	// Session ID announced in the simulated handshake.
	// If empty, a random ID is generated.
	SID string

	// Values announced in the simulated OPEN packet.
	// Default to 25 and 5 seconds.
	PingInterval time.Duration
	PingTimeout  time.Duration

	// Runs the handshake check. If nil, the client connection is used if
	// it implements transport.Scheduler. Otherwise the check runs on a new goroutine.
	Scheduler transport.Scheduler

	Debugger Debugger

	// Called with payloads that could not be decoded. If nil, such
	// payloads are dropped silently.
	OnFramingError func(err *FramingError)

	// Called with errors that occurred while sending the simulated handshake.
	OnError func(err error)
}

func (c *Config) withDefaults() *Config {
	config := new(Config)
	if c != nil {
		*config = *c
	}

	if config.ParserCreator == nil {
		config.ParserCreator = jsonparser.NewCreator(0, nil)
	}
	if config.BinaryType == "" {
		config.BinaryType = eioparser.DefaultBinaryType
	}
	if config.PingInterval == 0 {
		config.PingInterval = eio.DefaultPingInterval
	}
	if config.PingTimeout == 0 {
		config.PingTimeout = eio.DefaultPingTimeout
	}
	if config.Debugger == nil {
		config.Debugger = NewNoopDebugger()
	}
	return config
}

type goScheduler struct{}

func (goScheduler) Schedule(task func()) { go task() }
