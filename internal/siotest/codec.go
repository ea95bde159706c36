// Package siotest provides real Socket.IO peers for tests: a server
// speaking the WebSocket transport and a client dialing one.
package siotest

import (
	"fmt"

	eioparser "github.com/tomruk/socket.io-mock/engine.io/parser"
	"github.com/tomruk/socket.io-mock/internal/sync"
	"github.com/tomruk/socket.io-mock/parser"
	jsonparser "github.com/tomruk/socket.io-mock/parser/json"
	"github.com/tomruk/socket.io-mock/transport"
)

// Event is a Socket.IO event received by a peer.
type Event struct {
	Name string
	Args []any
}

// codec frames packets the way a peer on the WebSocket transport does:
// one frame per Engine.IO packet, attachments as binary frames.
type codec struct {
	mu     sync.Mutex
	parser parser.Parser
}

func newCodec() *codec {
	return &codec{parser: jsonparser.NewCreator(0, nil)()}
}

func (c *codec) encode(packet *parser.Packet) ([]transport.Message, error) {
	c.mu.Lock()
	buffers, err := c.parser.Encode(packet)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	messages := make([]transport.Message, len(buffers))
	for i, buf := range buffers {
		if i == 0 {
			p := &eioparser.Packet{Type: eioparser.PacketTypeMessage, Data: buf}
			messages[i] = transport.Message{Type: transport.MessageText, Data: p.Build(true)}
		} else {
			messages[i] = transport.BinaryMessage(buf)
		}
	}
	return messages, nil
}

// decode returns the Engine.IO packets of m and the Socket.IO packets
// they completed.
func (c *codec) decode(m transport.Message) (eioPackets []*eioparser.Packet, packets []*parser.Packet, err error) {
	if m.IsBinary() {
		p, err := eioparser.Parse(m.Data, true, eioparser.DefaultBinaryType)
		if err != nil {
			return nil, nil, err
		}
		eioPackets = []*eioparser.Packet{p}
	} else {
		eioPackets, err = eioparser.DecodePayloads(m.Data, eioparser.DefaultBinaryType)
		if err != nil {
			return nil, nil, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range eioPackets {
		if p.Type != eioparser.PacketTypeMessage {
			continue
		}
		result, err := c.parser.Add(p.Data, p.IsBinary)
		if err != nil {
			return nil, nil, err
		}
		if result.Complete() {
			packets = append(packets, result.Packet)
		}
	}
	return
}

func toEvent(packet *parser.Packet) (Event, bool) {
	if !packet.Header.IsEvent() {
		return Event{}, false
	}
	name, ok := packet.EventName()
	if !ok {
		return Event{}, false
	}
	return Event{Name: name, Args: packet.Args()}, true
}

func connectPacket(data any) *parser.Packet {
	return &parser.Packet{
		Header: parser.PacketHeader{
			Type:      parser.PacketTypeConnect,
			Namespace: parser.DefaultNamespace,
		},
		Data: data,
	}
}

func sidOf(packet *parser.Packet) (string, error) {
	m, ok := packet.Data.(map[string]any)
	if !ok {
		return "", fmt.Errorf("siotest: CONNECT packet has no payload")
	}
	sid, ok := m["sid"].(string)
	if !ok {
		return "", fmt.Errorf("siotest: CONNECT packet has no sid")
	}
	return sid, nil
}
