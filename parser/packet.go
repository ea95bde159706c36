package parser

import "fmt"

var ErrInvalidPacketType = fmt.Errorf("parser: invalid packet type")

type PacketType byte

const (
	PacketTypeConnect PacketType = iota
	PacketTypeDisconnect
	PacketTypeEvent
	PacketTypeAck
	PacketTypeConnectError
	PacketTypeBinaryEvent
	PacketTypeBinaryAck

	packetTypeMin = PacketTypeConnect
	packetTypeMax = PacketTypeBinaryAck
)

var packetTypeNames = [...]string{
	"CONNECT",
	"DISCONNECT",
	"EVENT",
	"ACK",
	"CONNECT_ERROR",
	"BINARY_EVENT",
	"BINARY_ACK",
}

func (p PacketType) ToChar() byte {
	b := byte(p)
	b += 48
	return b
}

func (p *PacketType) FromChar(b byte) error {
	if b < byte(48+packetTypeMin) || b > byte(48+packetTypeMax) {
		return ErrInvalidPacketType
	}

	b = b - 48
	*p = PacketType(b)
	return nil
}

func (p PacketType) String() string {
	if p > packetTypeMax {
		return fmt.Sprintf("UNKNOWN(%d)", byte(p))
	}
	return packetTypeNames[p]
}

// DefaultNamespace is the only namespace the mock speaks.
const DefaultNamespace = "/"

type PacketHeader struct {
	Type        PacketType
	Namespace   string
	ID          *uint64
	Attachments int
}

func (p *PacketHeader) IsBinary() bool {
	return p.Type == PacketTypeBinaryEvent || p.Type == PacketTypeBinaryAck
}

func (p *PacketHeader) IsEvent() bool {
	return p.Type == PacketTypeEvent || p.Type == PacketTypeBinaryEvent
}

func (p *PacketHeader) IsAck() bool {
	return p.Type == PacketTypeAck || p.Type == PacketTypeBinaryAck
}

// Packet is a logical Socket.IO packet. For events, Data is a []any
// holding the event name followed by the arguments.
type Packet struct {
	Header PacketHeader
	Data   any
}

func NewEventPacket(eventName string, args ...any) *Packet {
	data := make([]any, 0, len(args)+1)
	data = append(data, eventName)
	data = append(data, args...)
	return &Packet{
		Header: PacketHeader{
			Type:      PacketTypeEvent,
			Namespace: DefaultNamespace,
		},
		Data: data,
	}
}

// EventName returns the first element of an event packet's data.
// ok is false if the packet is not an event or the name is not a string.
func (p *Packet) EventName() (name string, ok bool) {
	if !p.Header.IsEvent() {
		return "", false
	}
	data, _ := p.Data.([]any)
	if len(data) == 0 {
		return "", false
	}
	name, ok = data[0].(string)
	return
}

// Args returns the event arguments, without the event name.
func (p *Packet) Args() []any {
	data, _ := p.Data.([]any)
	if len(data) <= 1 {
		return nil
	}
	return data[1:]
}
