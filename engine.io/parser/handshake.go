package parser

import (
	"fmt"
	"time"

	"github.com/tomruk/socket.io-mock/internal/json"
)

// Field order is significant: peers compare the open packet byte by byte.
type HandshakeResponse struct {
	SID          string   `json:"sid"`
	Upgrades     []string `json:"upgrades"`
	PingInterval int64    `json:"pingInterval"`
	PingTimeout  int64    `json:"pingTimeout"`
	MaxPayload   int64    `json:"maxPayload,omitempty"`
}

func (hr *HandshakeResponse) GetPingInterval() time.Duration {
	return time.Duration(hr.PingInterval) * time.Millisecond
}

func (hr *HandshakeResponse) GetPingTimeout() time.Duration {
	return time.Duration(hr.PingTimeout) * time.Millisecond
}

func ParseHandshakeResponse(p *Packet) (*HandshakeResponse, error) {
	if p.Type != PacketTypeOpen {
		return nil, fmt.Errorf("packet with a type of OPEN was expected")
	}

	hr := new(HandshakeResponse)
	err := json.Unmarshal(p.Data, hr)
	if err != nil {
		return nil, err
	}
	return hr, nil
}

// NewOpenPacket builds the OPEN packet carrying hr.
func NewOpenPacket(hr *HandshakeResponse) (*Packet, error) {
	if hr.Upgrades == nil {
		// Must be serialized as [] rather than null.
		c := *hr
		c.Upgrades = []string{}
		hr = &c
	}
	data, err := json.Marshal(hr)
	if err != nil {
		return nil, err
	}
	return NewPacket(PacketTypeOpen, false, data)
}
