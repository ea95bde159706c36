package interceptor

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tomruk/socket.io-mock/internal/sync"
	"github.com/tomruk/socket.io-mock/transport"
	"nhooyr.io/websocket"
)

var (
	errNoTarget         = fmt.Errorf("interceptor: no target to connect to")
	errAlreadyConnected = fmt.Errorf("interceptor: server connection was already established")
)

// ServerConn is the connection to the actual server. It is
// NotConnected until Connect is called.
//
// Messages received from the server are forwarded to the client after
// the message handlers ran, unless a handler called PreventDefault.
type ServerConn struct {
	conn        *Connection
	target      *url.URL
	dialOptions *websocket.DialOptions
	readLimit   int64
	handlers    messageHandlers

	mu    sync.Mutex
	ws    *websocket.Conn
	state transport.ReadyState
}

func newServerConn(conn *Connection, target *url.URL, dialOptions *websocket.DialOptions, readLimit int64) *ServerConn {
	return &ServerConn{
		conn:        conn,
		target:      target,
		dialOptions: dialOptions,
		readLimit:   readLimit,
		state:       transport.NotConnected,
	}
}

// URL of the actual server: the target with the path and query of the
// intercepted request. Returns nil if no target was configured.
func (s *ServerConn) URL() *url.URL {
	if s.target == nil {
		return nil
	}
	u := *s.target
	u.Path = strings.TrimSuffix(s.target.Path, "/") + s.conn.URL.Path
	u.RawPath = ""
	u.RawQuery = s.conn.URL.RawQuery
	return &u
}

// Connect establishes the connection to the actual server. To prevent the
// simulated handshake, call Connect before the connection handler returns.
func (s *ServerConn) Connect(ctx context.Context) error {
	if s.target == nil {
		return errNoTarget
	}
	if s.conn.ctx.Err() != nil {
		return transport.ErrNotConnected
	}

	s.mu.Lock()
	if s.state != transport.NotConnected {
		s.mu.Unlock()
		return errAlreadyConnected
	}
	s.state = transport.Connecting
	s.mu.Unlock()

	u := s.URL()
	s.conn.debug.Log("connecting to server", u)

	ws, _, err := websocket.Dial(ctx, u.String(), s.dialOptions)
	if err != nil {
		s.mu.Lock()
		s.state = transport.Closed
		s.mu.Unlock()
		return err
	}
	if s.readLimit != 0 {
		ws.SetReadLimit(s.readLimit)
	}

	s.mu.Lock()
	// The connection might have been closed while dialing.
	if s.state != transport.Connecting {
		s.mu.Unlock()
		ws.Close(websocket.StatusNormalClosure, "")
		return transport.ErrNotConnected
	}
	s.ws = ws
	s.state = transport.Open
	s.mu.Unlock()

	go s.readLoop(ws)
	return nil
}

func (s *ServerConn) OnMessage(handler transport.MessageHandler) { s.handlers.add(handler) }

func (s *ServerConn) Send(m transport.Message) error {
	s.mu.Lock()
	ws, state := s.ws, s.state
	s.mu.Unlock()

	if state != transport.Open {
		return transport.ErrNotConnected
	}
	return ws.Write(s.conn.ctx, toMessageType(m), m.Data)
}

func (s *ServerConn) ReadyState() (transport.ReadyState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, nil
}

// Close closes the connection to the server and to the client.
func (s *ServerConn) Close(code websocket.StatusCode, reason string) {
	s.conn.close(code, reason)
}

func (s *ServerConn) readLoop(ws *websocket.Conn) {
	for {
		mt, data, err := ws.Read(s.conn.ctx)
		if err != nil {
			code := websocket.CloseStatus(err)
			if isExpectedClose(err) {
				s.conn.debug.Log("server connection closed", code)
			} else {
				s.conn.debug.Log("server connection closed", err)
			}
			switch code {
			case -1, websocket.StatusNoStatusRcvd, websocket.StatusAbnormalClosure:
				code = websocket.StatusGoingAway
			}
			s.conn.close(code, "")
			return
		}

		m := toMessage(mt, data)
		s.conn.loop.post(func() {
			e := transport.NewMessageEvent(m)
			s.handlers.dispatch(e)
			if e.DefaultPrevented() {
				return
			}
			if err := s.conn.Client.Send(m); err != nil {
				s.conn.debug.Log("forwarding to client failed", err)
			}
		})
	}
}

func (s *ServerConn) close(code websocket.StatusCode, reason string) {
	s.mu.Lock()
	ws, state := s.ws, s.state
	if state == transport.Closed || state == transport.NotConnected {
		s.mu.Unlock()
		return
	}
	s.state = transport.Closing
	s.mu.Unlock()

	if ws != nil {
		ws.Close(code, reason)
	}

	s.mu.Lock()
	s.state = transport.Closed
	s.mu.Unlock()
}
