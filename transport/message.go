package transport

type MessageType int

const (
	MessageText MessageType = iota + 1
	MessageBinary
)

func (t MessageType) String() string {
	switch t {
	case MessageText:
		return "text"
	case MessageBinary:
		return "binary"
	}
	return "<invalid>"
}

type Message struct {
	Type MessageType
	Data []byte
}

func TextMessage(s string) Message {
	return Message{Type: MessageText, Data: []byte(s)}
}

func BinaryMessage(b []byte) Message {
	return Message{Type: MessageBinary, Data: b}
}

func (m Message) IsBinary() bool { return m.Type == MessageBinary }

func (m Message) String() string {
	if m.IsBinary() {
		return "<binary>"
	}
	return string(m.Data)
}

// MessageEvent is the delivery context of a raw message.
type MessageEvent struct {
	Message

	defaultPrevented bool
}

func NewMessageEvent(m Message) *MessageEvent {
	return &MessageEvent{Message: m}
}

// PreventDefault cancels the default action the transport takes for this
// message, such as forwarding a server message to the client.
func (e *MessageEvent) PreventDefault() { e.defaultPrevented = true }

func (e *MessageEvent) DefaultPrevented() bool { return e.defaultPrevented }
