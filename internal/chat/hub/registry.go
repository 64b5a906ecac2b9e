// Package hub tracks which live connection belongs to which account and
// writes events to those connections.
package hub

import (
	"sync"

	"go.uber.org/atomic"
)

// Event is one outgoing frame, encoded as {"event": Name, "data": Data}.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

// Conn is a live client connection. Send must be safe for concurrent use.
type Conn interface {
	Send(ev Event) error
	Close() error
}

// Registry maps an account id to its current connection. The zero value is
// not usable; build one with NewRegistry.
type Registry struct {
	mu    sync.RWMutex
	conns map[int64]Conn

	replaced *atomic.Int64
}

func NewRegistry() *Registry {
	return &Registry{
		conns:    make(map[int64]Conn),
		replaced: atomic.NewInt64(0),
	}
}

// Register makes c the connection of id and returns the one it replaced,
// if any. The latest registration wins.
func (r *Registry) Register(id int64, c Conn) Conn {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.conns[id]
	r.conns[id] = c
	if ok && prev != c {
		r.replaced.Inc()
		return prev
	}
	return nil
}

// Unregister removes id only while it still points at c, so a stale
// connection closing late cannot evict a newer one.
func (r *Registry) Unregister(id int64, c Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.conns[id]; ok && cur == c {
		delete(r.conns, id)
		return true
	}
	return false
}

func (r *Registry) Lookup(id int64) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.conns[id]
	return c, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.conns)
}

// Replaced counts registrations that displaced another connection.
func (r *Registry) Replaced() int64 { return r.replaced.Load() }
