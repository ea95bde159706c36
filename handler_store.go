package sio

import "github.com/tomruk/socket.io-mock/internal/sync"

// Listener receives the raw message that completed the packet, followed by
// the event arguments.
type Listener func(e *MessageEvent, args ...any)

type listener struct {
	f    Listener
	once bool
}

type handlerStore struct {
	mu        sync.Mutex
	listeners map[string][]*listener
}

func newHandlerStore() *handlerStore {
	return &handlerStore{
		listeners: make(map[string][]*listener),
	}
}

func (s *handlerStore) on(eventName string, f Listener) {
	s.add(eventName, &listener{f: f})
}

func (s *handlerStore) once(eventName string, f Listener) {
	s.add(eventName, &listener{f: f, once: true})
}

func (s *handlerStore) add(eventName string, l *listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[eventName] = append(s.listeners[eventName], l)
}

func (s *handlerStore) off(eventName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.listeners, eventName)
}

func (s *handlerStore) offAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = make(map[string][]*listener)
}

// get returns the listeners of eventName in registration order and removes
// the one-time listeners among them.
func (s *handlerStore) get(eventName string) (listeners []Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.listeners[eventName]
	if len(all) == 0 {
		return nil
	}

	listeners = make([]Listener, 0, len(all))
	remaining := all[:0:0]
	for _, l := range all {
		listeners = append(listeners, l.f)
		if !l.once {
			remaining = append(remaining, l)
		}
	}

	if len(remaining) == 0 {
		delete(s.listeners, eventName)
	} else {
		s.listeners[eventName] = remaining
	}
	return
}
