package sio

import (
	eioparser "github.com/tomruk/socket.io-mock/engine.io/parser"
	"github.com/tomruk/socket.io-mock/parser"
	"github.com/tomruk/socket.io-mock/transport"
)

func (b *Binding) checkHandshake() {
	defer close(b.handshakeDone)

	if !b.shouldSimulateHandshake() {
		return
	}

	err := b.simulateHandshake()
	if err != nil {
		b.debug.Log("Handshake simulation failed", err)
		if b.onError != nil {
			b.onError(err)
		}
	}
}

// A server that was connected performs its own handshake. Sending ours as
// well would make the client see two.
func (b *Binding) shouldSimulateHandshake() bool {
	state, err := b.rawServer.ReadyState()
	if err != nil {
		b.debug.Log("Server ready state unavailable, simulating handshake", err)
		return true
	}
	if state != transport.NotConnected {
		b.debug.Log("Server connection is " + state.String() + ", not simulating handshake")
		return false
	}
	return true
}

func (b *Binding) simulateHandshake() error {
	b.debug.Log("Simulating handshake", b.sid)

	open, err := eioparser.NewOpenPacket(&eioparser.HandshakeResponse{
		SID:          b.sid,
		Upgrades:     []string{},
		PingInterval: b.pingInterval,
		PingTimeout:  b.pingTimeout,
	})
	if err != nil {
		return wrapInternalError(err)
	}

	err = b.rawClient.Send(transport.Message{Type: transport.MessageText, Data: open.Build(false)})
	if err != nil {
		return err
	}

	return b.Client.sendPacket(&parser.Packet{
		Header: parser.PacketHeader{
			Type:      parser.PacketTypeConnect,
			Namespace: parser.DefaultNamespace,
		},
		Data: map[string]any{"sid": b.sid},
	})
}
