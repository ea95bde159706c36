// Package interceptor accepts WebSocket connections in place of a real
// server and exposes both sides of each connection as transport.Conn
// values, so that tests can observe, rewrite or answer the traffic.
package interceptor

import (
	"fmt"
	"net/http"
	"net/url"

	mapset "github.com/deckarep/golang-set/v2"
	eio "github.com/tomruk/socket.io-mock/engine.io"
	eioparser "github.com/tomruk/socket.io-mock/engine.io/parser"
	"github.com/tomruk/socket.io-mock/internal/sync"
	"nhooyr.io/websocket"
)

type Config struct {
	// Base URL of the actual server, such as "ws://localhost:3000". The
	// path and query of the intercepted request are appended to it by
	// ServerConn.Connect. Leave empty if the tests never connect to a
	// real server.
	Target string

	AcceptOptions *websocket.AcceptOptions
	DialOptions   *websocket.DialOptions

	// Reported by ClientConn.BinaryType. Defaults to nodebuffer.
	BinaryType eioparser.BinaryType

	// Maximum size of a message read from either side.
	// If 0, the default of nhooyr.io/websocket is used.
	ReadLimit int64

	Debugger eio.Debugger
}

type ConnectionHandler func(conn *Connection)

type Interceptor struct {
	target        *url.URL
	acceptOptions *websocket.AcceptOptions
	dialOptions   *websocket.DialOptions
	binaryType    eioparser.BinaryType
	readLimit     int64

	handlersMu sync.Mutex
	handlers   []ConnectionHandler

	conns mapset.Set[*Connection]

	closedMu sync.Mutex
	closed   bool

	debug eio.Debugger
}

var (
	errInvalidTargetScheme = fmt.Errorf("interceptor: target scheme must be one of ws, wss, http or https")
	errClosed              = fmt.Errorf("interceptor: closed")
)

func New(config *Config) (*Interceptor, error) {
	if config == nil {
		config = new(Config)
	}

	i := &Interceptor{
		acceptOptions: config.AcceptOptions,
		dialOptions:   config.DialOptions,
		binaryType:    config.BinaryType,
		readLimit:     config.ReadLimit,
		conns:         mapset.NewSet[*Connection](),
	}

	if i.binaryType == "" {
		i.binaryType = eioparser.DefaultBinaryType
	}

	if config.Debugger != nil {
		i.debug = config.Debugger.WithContext("[interceptor]")
	} else {
		i.debug = eio.NewNoopDebugger()
	}

	if config.Target != "" {
		target, err := parseTarget(config.Target)
		if err != nil {
			return nil, err
		}
		i.target = target
	}
	return i, nil
}

func parseTarget(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	case "ws", "wss":
	default:
		return nil, errInvalidTargetScheme
	}
	return u, nil
}

// OnConnection registers a handler that is called on the event loop of
// every accepted connection, before any message is delivered.
func (i *Interceptor) OnConnection(handler ConnectionHandler) {
	i.handlersMu.Lock()
	defer i.handlersMu.Unlock()
	i.handlers = append(i.handlers, handler)
}

func (i *Interceptor) connectionHandlers() []ConnectionHandler {
	i.handlersMu.Lock()
	defer i.handlersMu.Unlock()
	handlers := make([]ConnectionHandler, len(i.handlers))
	copy(handlers, i.handlers)
	return handlers
}

func (i *Interceptor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if i.isClosed() {
		http.Error(w, errClosed.Error(), http.StatusServiceUnavailable)
		return
	}

	ws, err := websocket.Accept(w, r, i.acceptOptions)
	if err != nil {
		i.debug.Log("accept failed", err)
		return
	}
	if i.readLimit != 0 {
		ws.SetReadLimit(i.readLimit)
	}

	conn := newConnection(i, r, ws)
	i.conns.Add(conn)
	defer i.conns.Remove(conn)

	i.debug.Log("connection accepted", conn.ID, conn.URL)

	go conn.loop.run()

	handlers := i.connectionHandlers()
	conn.loop.post(func() {
		for _, handler := range handlers {
			handler(conn)
		}
	})

	err = conn.Client.readLoop()
	conn.close(websocket.StatusNormalClosure, "")

	if err != nil && !isExpectedClose(err) {
		i.debug.Log("client connection closed", conn.ID, err)
	} else {
		i.debug.Log("client connection closed", conn.ID)
	}
}

// Connections returns the connections that are currently open.
func (i *Interceptor) Connections() []*Connection {
	return i.conns.ToSlice()
}

func (i *Interceptor) isClosed() bool {
	i.closedMu.Lock()
	defer i.closedMu.Unlock()
	return i.closed
}

// Close closes every open connection. Subsequent upgrade requests are
// rejected.
func (i *Interceptor) Close() error {
	i.closedMu.Lock()
	i.closed = true
	i.closedMu.Unlock()

	for _, conn := range i.conns.ToSlice() {
		conn.Close()
	}
	return nil
}
