package sio

import (
	eio "github.com/tomruk/socket.io-mock/engine.io"
	"github.com/tomruk/socket.io-mock/interceptor"
	"github.com/tomruk/socket.io-mock/transport"
)

// Binding pairs the Socket.IO sockets of both sides of an intercepted
// connection. Client talks to the intercepted client, Server to the
// actual server (if the test connected to one).
type Binding struct {
	Client *Socket
	Server *Socket

	rawClient transport.Conn
	rawServer transport.Conn

	sid           string
	pingInterval  int64
	pingTimeout   int64
	handshakeDone chan struct{}
	onError       func(err error)
	debug         Debugger
}

// Bind creates a Binding for a connection accepted by the interceptor.
//
// Example:
//
//	i.OnConnection(func(conn *interceptor.Connection) {
//		io := sio.Bind(conn, nil)
//		io.Client.On("hello", func(e *sio.MessageEvent, args ...any) {
//			io.Client.Emit("greetings", fmt.Sprintf("Hello, %s!", args[0]))
//		})
//	})
func Bind(conn *interceptor.Connection, config *Config) *Binding {
	return NewBinding(conn.Client, conn.Server, config)
}

// NewBinding creates a Binding over two independent raw connections.
//
// The handshake check is scheduled rather than run, so that the caller can
// finish setting up (registering listeners, connecting to the server)
// before it happens. If the server connection is not established when the
// check runs, the OPEN and CONNECT packets a real server would send are
// sent to the client.
func NewBinding(client, server transport.Conn, config *Config) *Binding {
	config = config.withDefaults()

	b := &Binding{
		rawClient:     client,
		rawServer:     server,
		sid:           config.SID,
		pingInterval:  config.PingInterval.Milliseconds(),
		pingTimeout:   config.PingTimeout.Milliseconds(),
		handshakeDone: make(chan struct{}),
		onError:       config.OnError,
		debug:         config.Debugger.WithContext("[sio/binding]"),
	}

	if b.sid == "" {
		sid, err := eio.GenerateSID()
		if err != nil {
			// crypto/rand failed. Fall back to a fixed ID, the handshake is simulated anyway.
			b.debug.Log("SID generation failed", err)
			sid = "test"
		}
		b.sid = sid
	}

	b.Server = newSocket("server", server, config)
	b.Client = newSocket("client", client, config)

	var scheduler transport.Scheduler = goScheduler{}
	if config.Scheduler != nil {
		scheduler = config.Scheduler
	} else if s, ok := client.(transport.Scheduler); ok {
		scheduler = s
	}
	scheduler.Schedule(b.checkHandshake)

	return b
}

// Session ID announced to the client if the handshake is simulated.
func (b *Binding) SID() string { return b.sid }

// HandshakeDone is closed after the handshake check ran, whether or not
// the handshake was simulated.
func (b *Binding) HandshakeDone() <-chan struct{} { return b.handshakeDone }
