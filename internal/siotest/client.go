package siotest

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/coder/websocket"
	eioparser "github.com/tomruk/socket.io-mock/engine.io/parser"
	"github.com/tomruk/socket.io-mock/parser"
	"github.com/tomruk/socket.io-mock/transport"
	"github.com/tomruk/yeast"
)

const eioProtocolVersion = 4

var yeaster = yeast.New()

// Client is a Socket.IO client connected to the main namespace.
type Client struct {
	// Values announced by the server.
	Handshake *eioparser.HandshakeResponse
	SID       string

	ws     *websocket.Conn
	codec  *codec
	events chan Event
	ctx    context.Context
	cancel context.CancelFunc
}

// Dial connects to the Socket.IO server at rawURL and waits for the
// namespace to be connected. If rawURL has no path, "/socket.io/" is used.
func Dial(ctx context.Context, rawURL string, opts *websocket.DialOptions) (*Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/socket.io/"
	}
	q := u.Query()
	q.Set("EIO", strconv.Itoa(eioProtocolVersion))
	q.Set("transport", "websocket")
	q.Set("t", yeaster.Yeast())
	u.RawQuery = q.Encode()

	ws, _, err := websocket.Dial(ctx, u.String(), opts)
	if err != nil {
		return nil, err
	}

	cctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		ws:     ws,
		codec:  newCodec(),
		events: make(chan Event, 64),
		ctx:    cctx,
		cancel: cancel,
	}

	err = c.handshake(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}

	go c.readLoop()
	return c, nil
}

func (c *Client) handshake(ctx context.Context) error {
	eioPackets, _, err := c.read(ctx)
	if err != nil {
		return err
	}
	if len(eioPackets) == 0 || eioPackets[0].Type != eioparser.PacketTypeOpen {
		return fmt.Errorf("siotest: expected an OPEN packet")
	}
	c.Handshake, err = eioparser.ParseHandshakeResponse(eioPackets[0])
	if err != nil {
		return err
	}

	err = c.send(ctx, connectPacket(nil))
	if err != nil {
		return err
	}

	for {
		_, packets, err := c.read(ctx)
		if err != nil {
			return err
		}
		for _, packet := range packets {
			switch packet.Header.Type {
			case parser.PacketTypeConnect:
				c.SID, err = sidOf(packet)
				return err
			case parser.PacketTypeConnectError:
				return fmt.Errorf("siotest: connection refused: %v", packet.Data)
			}
			if e, ok := toEvent(packet); ok {
				c.events <- e
			}
		}
	}
}

func (c *Client) read(ctx context.Context) ([]*eioparser.Packet, []*parser.Packet, error) {
	mt, data, err := c.ws.Read(ctx)
	if err != nil {
		return nil, nil, err
	}
	m := transport.Message{Type: transport.MessageText, Data: data}
	if mt == websocket.MessageBinary {
		m.Type = transport.MessageBinary
	}
	return c.codec.decode(m)
}

func (c *Client) readLoop() {
	defer close(c.events)
	for {
		eioPackets, packets, err := c.read(c.ctx)
		if err != nil {
			return
		}
		for _, p := range eioPackets {
			if p.Type == eioparser.PacketTypePing {
				pong := &eioparser.Packet{Type: eioparser.PacketTypePong, Data: p.Data}
				c.write(c.ctx, transport.Message{Type: transport.MessageText, Data: pong.Build(true)})
			}
		}
		for _, packet := range packets {
			if e, ok := toEvent(packet); ok {
				c.events <- e
			}
		}
	}
}

// Events receives the events the server emitted. It is closed when the
// connection is closed.
func (c *Client) Events() <-chan Event { return c.events }

func (c *Client) Emit(eventName string, args ...any) error {
	return c.send(c.ctx, parser.NewEventPacket(eventName, args...))
}

func (c *Client) send(ctx context.Context, packet *parser.Packet) error {
	messages, err := c.codec.encode(packet)
	if err != nil {
		return err
	}
	for _, m := range messages {
		if err := c.write(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) write(ctx context.Context, m transport.Message) error {
	mt := websocket.MessageText
	if m.IsBinary() {
		mt = websocket.MessageBinary
	}
	return c.ws.Write(ctx, mt, m.Data)
}

func (c *Client) Close() error {
	err := c.ws.Close(websocket.StatusNormalClosure, "")
	c.cancel()
	return err
}
