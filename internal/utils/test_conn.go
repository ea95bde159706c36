package utils

import (
	eioparser "github.com/tomruk/socket.io-mock/engine.io/parser"
	"github.com/tomruk/socket.io-mock/internal/sync"
	"github.com/tomruk/socket.io-mock/transport"
)

// TestConn is an in-memory transport.Conn. Sent messages are recorded and
// incoming messages are injected with Deliver. Scheduled tasks run only
// when RunScheduled is called.
type TestConn struct {
	mu       sync.Mutex
	handlers []transport.MessageHandler
	sent     []transport.Message
	tasks    []func()

	state    transport.ReadyState
	stateErr error

	BinaryTypeValue eioparser.BinaryType
	SendFunc        func(m transport.Message) error
}

func NewTestConn(state transport.ReadyState) *TestConn {
	return &TestConn{state: state}
}

func (c *TestConn) OnMessage(handler transport.MessageHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

func (c *TestConn) Send(m transport.Message) error {
	if c.SendFunc != nil {
		if err := c.SendFunc(m); err != nil {
			return err
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, m)
	return nil
}

func (c *TestConn) ReadyState() (transport.ReadyState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.stateErr
}

func (c *TestConn) SetReadyState(state transport.ReadyState, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
	c.stateErr = err
}

func (c *TestConn) BinaryType() eioparser.BinaryType { return c.BinaryTypeValue }

func (c *TestConn) Schedule(task func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = append(c.tasks, task)
}

// RunScheduled runs every task queued with Schedule and returns their number.
func (c *TestConn) RunScheduled() int {
	c.mu.Lock()
	tasks := c.tasks
	c.tasks = nil
	c.mu.Unlock()

	for _, task := range tasks {
		task()
	}
	return len(tasks)
}

// Deliver hands m to every handler as if it was received from the peer.
func (c *TestConn) Deliver(m transport.Message) *transport.MessageEvent {
	c.mu.Lock()
	handlers := make([]transport.MessageHandler, len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	e := transport.NewMessageEvent(m)
	for _, handler := range handlers {
		handler(e)
	}
	return e
}

func (c *TestConn) DeliverText(s string) *transport.MessageEvent {
	return c.Deliver(transport.TextMessage(s))
}

func (c *TestConn) Sent() []transport.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	sent := make([]transport.Message, len(c.sent))
	copy(sent, c.sent)
	return sent
}

func (c *TestConn) SentStrings() []string {
	sent := c.Sent()
	s := make([]string, len(sent))
	for i, m := range sent {
		s[i] = string(m.Data)
	}
	return s
}

// Forward delivers every message sent so far on c to peer.
func (c *TestConn) Forward(peer *TestConn) {
	for _, m := range c.Sent() {
		peer.Deliver(m)
	}
}

func (c *TestConn) HandlerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.handlers)
}
