package hub

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/atomic"
)

var ErrClosed = errors.New("hub: connection closed")

// Socket is a Conn over a gorilla websocket. gorilla allows one concurrent
// writer, so every write holds mu.
type Socket struct {
	ws        *websocket.Conn
	writeWait time.Duration

	mu     sync.Mutex
	closed *atomic.Bool
}

func NewSocket(ws *websocket.Conn, writeWait time.Duration) *Socket {
	return &Socket{ws: ws, writeWait: writeWait, closed: atomic.NewBool(false)}
}

func (s *Socket) Send(ev Event) error {
	if s.closed.Load() {
		return ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ws.SetWriteDeadline(time.Now().Add(s.writeWait)); err != nil {
		return err
	}
	return s.ws.WriteJSON(ev)
}

func (s *Socket) Ping() error {
	if s.closed.Load() {
		return ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.writeWait))
}

// Close sends a normal closure frame and closes the connection, once.
func (s *Socket) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	s.mu.Lock()
	_ = s.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(s.writeWait))
	s.mu.Unlock()

	return s.ws.Close()
}

func (s *Socket) Closed() bool { return s.closed.Load() }
