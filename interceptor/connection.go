package interceptor

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	eio "github.com/tomruk/socket.io-mock/engine.io"
	"github.com/tomruk/socket.io-mock/internal/sync"
	"nhooyr.io/websocket"
)

// Connection is an intercepted WebSocket connection. Client is the
// accepted connection, Server is the connection to the actual server,
// which is established only if Server.Connect is called.
//
// Message handlers of both sides and the connection handlers run on a
// single goroutine, one at a time.
type Connection struct {
	ID string

	// URL the client connected to, including the query.
	URL *url.URL

	// Header of the upgrade request.
	Header http.Header

	Client *ClientConn
	Server *ServerConn

	ctx    context.Context
	cancel context.CancelFunc
	loop   *eventLoop

	closeOnce sync.Once
	debug     eio.Debugger
}

func newConnection(i *Interceptor, r *http.Request, ws *websocket.Conn) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	u := *r.URL
	u.Host = r.Host
	if r.TLS != nil {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}

	c := &Connection{
		ID:     uuid.NewString(),
		URL:    &u,
		Header: r.Header.Clone(),
		ctx:    ctx,
		cancel: cancel,
		loop:   newEventLoop(),
	}
	c.debug = i.debug.WithDynamicContext("[interceptor]", func() string { return c.ID })

	c.Client = newClientConn(c, ws, i.binaryType)
	c.Server = newServerConn(c, i.target, i.dialOptions, i.readLimit)
	return c
}

// Schedule runs task on the event loop after the current callback
// returns and before the next message is delivered.
func (c *Connection) Schedule(task func()) {
	c.loop.postMicrotask(task)
}

// Done is closed after the connection was closed.
func (c *Connection) Done() <-chan struct{} { return c.ctx.Done() }

// Close closes both sides of the connection.
func (c *Connection) Close() {
	c.close(websocket.StatusNormalClosure, "")
}

func (c *Connection) close(code websocket.StatusCode, reason string) {
	c.closeOnce.Do(func() {
		c.debug.Log("closing", code, reason)
		c.Client.close(code, reason)
		c.Server.close(code, reason)
		c.cancel()
		c.loop.stop()
	})
}
