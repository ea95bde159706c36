package sio

import (
	eioparser "github.com/tomruk/socket.io-mock/engine.io/parser"
	"github.com/tomruk/socket.io-mock/parser"
	"github.com/tomruk/socket.io-mock/transport"
)

func (s *Socket) onMessage(e *transport.MessageEvent) {
	packets := s.decodeMessage(e.Message)
	for _, packet := range packets {
		s.dispatch(e, packet)
	}
}

func (s *Socket) resolveBinaryType() eioparser.BinaryType {
	if bt, ok := s.conn.(transport.BinaryTyper); ok && bt.BinaryType() == eioparser.BinaryTypeBlob {
		return eioparser.BinaryTypeBlob
	}
	return s.binaryType
}

// decodeMessage returns the Socket.IO packets completed by m. Packets
// spanning several messages are buffered by the decoder.
func (s *Socket) decodeMessage(m transport.Message) (packets []*parser.Packet) {
	binaryType := s.resolveBinaryType()

	var eioPackets []*eioparser.Packet
	if m.IsBinary() {
		// A binary frame is a single binary MESSAGE packet.
		p, err := eioparser.Parse(m.Data, true, binaryType)
		if err != nil {
			s.framingError(m, err)
			return nil
		}
		eioPackets = []*eioparser.Packet{p}
	} else {
		var err error
		eioPackets, err = eioparser.DecodePayloads(m.Data, binaryType)
		if err != nil {
			// Packets before the malformed one are still delivered.
			s.framingError(m, err)
		}
	}

	if !hasMessagePacket(eioPackets) {
		// Control packets (open, ping, pong, close...) never carry events.
		return nil
	}

	var errs []error
	s.receiveMu.Lock()
	for _, p := range eioPackets {
		if p.Type != eioparser.PacketTypeMessage {
			continue
		}

		result, err := s.decoder.Add(p.Data, p.IsBinary)
		if err != nil {
			// Drop any partially reconstructed packet.
			s.decoder.Reset()
			errs = append(errs, err)
			continue
		}
		if result.Complete() {
			packets = append(packets, result.Packet)
		}
	}
	s.receiveMu.Unlock()

	for _, err := range errs {
		s.framingError(m, err)
	}
	return
}

func hasMessagePacket(packets []*eioparser.Packet) bool {
	for _, p := range packets {
		if p.Type == eioparser.PacketTypeMessage {
			return true
		}
	}
	return false
}

func (s *Socket) dispatch(e *transport.MessageEvent, packet *parser.Packet) {
	// CONNECT, DISCONNECT, ACK... are not surfaced. To observe them,
	// listen on the raw connection instead.
	if !packet.Header.IsEvent() {
		return
	}

	eventName, ok := packet.EventName()
	if !ok {
		return
	}

	listeners := s.handlers.get(eventName)
	if len(listeners) == 0 {
		return
	}

	s.debug.Log("Dispatching", eventName, len(listeners))

	args := packet.Args()
	for _, listener := range listeners {
		listener(e, args...)
	}
}

// Called without receiveMu held, the hook may use the socket.
func (s *Socket) framingError(m transport.Message, err error) {
	s.debug.Log("Dropping undecodable payload", err)
	if s.onFramingError != nil {
		s.onFramingError(newFramingError(m, err))
	}
}
