package sio

import (
	eioparser "github.com/tomruk/socket.io-mock/engine.io/parser"
	"github.com/tomruk/socket.io-mock/parser"
	"github.com/tomruk/socket.io-mock/transport"
)

// Emit an event to the peer of the connection.
//
// The event is sent as a single raw message, even if binary arguments
// require more than one Engine.IO packet.
// If you want to emit a binary data, use jsonparser.Binary or []byte.
func (s *Socket) Emit(eventName string, v ...any) error {
	return s.sendPacket(parser.NewEventPacket(eventName, v...))
}

// Send is equivalent to Emit("message", v...).
func (s *Socket) Send(v ...any) error {
	return s.Emit("message", v...)
}

func (s *Socket) sendPacket(packet *parser.Packet) error {
	payload, err := s.encodePacket(packet)
	if err != nil {
		return err
	}

	s.debug.Log("Sending", string(payload))
	return s.conn.Send(transport.Message{Type: transport.MessageText, Data: payload})
}

func (s *Socket) encodePacket(packet *parser.Packet) ([]byte, error) {
	s.sendMu.Lock()
	buffers, err := s.encoder.Encode(packet)
	s.sendMu.Unlock()
	if err != nil {
		return nil, err
	}

	packets := make([]*eioparser.Packet, len(buffers))
	for i, buf := range buffers {
		// Every buffer after the first one is a binary attachment.
		packets[i], err = eioparser.NewPacket(eioparser.PacketTypeMessage, i > 0, buf)
		if err != nil {
			return nil, wrapInternalError(err)
		}
	}
	return eioparser.EncodePayloads(packets...), nil
}
