package siotest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/websocket"
	eio "github.com/tomruk/socket.io-mock/engine.io"
	eioparser "github.com/tomruk/socket.io-mock/engine.io/parser"
	"github.com/tomruk/socket.io-mock/internal/sync"
	"github.com/tomruk/socket.io-mock/parser"
	"github.com/tomruk/socket.io-mock/transport"
)

type EventHandler func(c *ServerClient, args ...any)

// Server is a minimal Socket.IO server for the main namespace. It
// answers the handshake, pings and CONNECT packets, and calls the
// registered handlers for events.
type Server struct {
	*httptest.Server

	upgrader websocket.Upgrader

	mu       sync.Mutex
	handlers map[string]EventHandler
	clients  []*ServerClient
}

// NewServer starts a Server. It is closed when the test finishes.
func NewServer(t testing.TB) *Server {
	s := &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		handlers: make(map[string]EventHandler),
	}
	s.Server = httptest.NewServer(s)
	t.Cleanup(s.Close)
	return s
}

func (s *Server) On(eventName string, handler EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[eventName] = handler
}

func (s *Server) handler(eventName string) (EventHandler, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.handlers[eventName]
	return h, ok
}

// Clients returns the clients that completed the Engine.IO handshake.
func (s *Server) Clients() []*ServerClient {
	s.mu.Lock()
	defer s.mu.Unlock()
	clients := make([]*ServerClient, len(s.clients))
	copy(clients, s.clients)
	return clients
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("transport") != "websocket" {
		http.Error(w, "only the websocket transport is supported", http.StatusBadRequest)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer ws.Close()

	sid, err := eio.GenerateSID()
	if err != nil {
		return
	}
	c := &ServerClient{SID: sid, ws: ws, codec: newCodec()}

	open, err := eioparser.NewOpenPacket(&eioparser.HandshakeResponse{
		SID:          sid,
		PingInterval: eio.DefaultPingInterval.Milliseconds(),
		PingTimeout:  eio.DefaultPingTimeout.Milliseconds(),
	})
	if err != nil {
		return
	}
	if err := c.write(transport.Message{Type: transport.MessageText, Data: open.Build(true)}); err != nil {
		return
	}

	s.mu.Lock()
	s.clients = append(s.clients, c)
	s.mu.Unlock()

	for {
		mt, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		m := transport.Message{Type: transport.MessageText, Data: data}
		if mt == websocket.BinaryMessage {
			m.Type = transport.MessageBinary
		}

		eioPackets, packets, err := c.codec.decode(m)
		if err != nil {
			return
		}
		for _, p := range eioPackets {
			if p.Type == eioparser.PacketTypePing {
				pong := &eioparser.Packet{Type: eioparser.PacketTypePong, Data: p.Data}
				c.write(transport.Message{Type: transport.MessageText, Data: pong.Build(true)})
			}
		}
		for _, packet := range packets {
			s.onPacket(c, packet)
		}
	}
}

func (s *Server) onPacket(c *ServerClient, packet *parser.Packet) {
	if packet.Header.Type == parser.PacketTypeConnect {
		c.send(connectPacket(map[string]any{"sid": c.SID}))
		return
	}

	e, ok := toEvent(packet)
	if !ok {
		return
	}
	if handler, ok := s.handler(e.Name); ok {
		handler(c, e.Args...)
	}
}

type ServerClient struct {
	SID string

	ws      *websocket.Conn
	writeMu sync.Mutex
	codec   *codec
}

func (c *ServerClient) Emit(eventName string, args ...any) error {
	return c.send(parser.NewEventPacket(eventName, args...))
}

func (c *ServerClient) send(packet *parser.Packet) error {
	messages, err := c.codec.encode(packet)
	if err != nil {
		return err
	}
	for _, m := range messages {
		if err := c.write(m); err != nil {
			return err
		}
	}
	return nil
}

func (c *ServerClient) write(m transport.Message) error {
	// WriteMessage must not be called concurrently.
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	mt := websocket.TextMessage
	if m.IsBinary() {
		mt = websocket.BinaryMessage
	}
	return c.ws.WriteMessage(mt, m.Data)
}
