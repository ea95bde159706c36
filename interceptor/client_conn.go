package interceptor

import (
	eioparser "github.com/tomruk/socket.io-mock/engine.io/parser"
	"github.com/tomruk/socket.io-mock/internal/sync"
	"github.com/tomruk/socket.io-mock/transport"
	"nhooyr.io/websocket"
)

// ClientConn is the intercepted side of a connection. Incoming messages
// are the messages the client sent and Send writes to the client.
type ClientConn struct {
	conn       *Connection
	ws         *websocket.Conn
	binaryType eioparser.BinaryType
	handlers   messageHandlers

	mu    sync.Mutex
	state transport.ReadyState
}

func newClientConn(conn *Connection, ws *websocket.Conn, binaryType eioparser.BinaryType) *ClientConn {
	return &ClientConn{
		conn:       conn,
		ws:         ws,
		binaryType: binaryType,
		state:      transport.Open,
	}
}

func (c *ClientConn) OnMessage(handler transport.MessageHandler) { c.handlers.add(handler) }

func (c *ClientConn) Send(m transport.Message) error {
	state, _ := c.ReadyState()
	if state != transport.Open {
		return transport.ErrNotConnected
	}
	return c.ws.Write(c.conn.ctx, toMessageType(m), m.Data)
}

func (c *ClientConn) ReadyState() (transport.ReadyState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, nil
}

func (c *ClientConn) BinaryType() eioparser.BinaryType { return c.binaryType }

func (c *ClientConn) Schedule(task func()) { c.conn.Schedule(task) }

// Close closes the connection to the client and to the server.
func (c *ClientConn) Close(code websocket.StatusCode, reason string) {
	c.conn.close(code, reason)
}

func (c *ClientConn) readLoop() error {
	for {
		mt, data, err := c.ws.Read(c.conn.ctx)
		if err != nil {
			return err
		}

		m := toMessage(mt, data)
		c.conn.loop.post(func() {
			c.handlers.dispatch(transport.NewMessageEvent(m))
		})
	}
}

func (c *ClientConn) close(code websocket.StatusCode, reason string) {
	c.mu.Lock()
	if c.state != transport.Open {
		c.mu.Unlock()
		return
	}
	c.state = transport.Closing
	c.mu.Unlock()

	c.ws.Close(code, reason)

	c.mu.Lock()
	c.state = transport.Closed
	c.mu.Unlock()
}
