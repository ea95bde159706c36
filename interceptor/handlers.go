package interceptor

import (
	"github.com/tomruk/socket.io-mock/internal/sync"
	"github.com/tomruk/socket.io-mock/transport"
	"nhooyr.io/websocket"
)

type messageHandlers struct {
	mu       sync.Mutex
	handlers []transport.MessageHandler
}

func (h *messageHandlers) add(handler transport.MessageHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers = append(h.handlers, handler)
}

func (h *messageHandlers) dispatch(e *transport.MessageEvent) {
	h.mu.Lock()
	handlers := make([]transport.MessageHandler, len(h.handlers))
	copy(handlers, h.handlers)
	h.mu.Unlock()

	for _, handler := range handlers {
		handler(e)
	}
}

func toMessage(mt websocket.MessageType, data []byte) transport.Message {
	if mt == websocket.MessageBinary {
		return transport.BinaryMessage(data)
	}
	return transport.Message{Type: transport.MessageText, Data: data}
}

func toMessageType(m transport.Message) websocket.MessageType {
	if m.IsBinary() {
		return websocket.MessageBinary
	}
	return websocket.MessageText
}
