package hub

import (
	"fmt"
	"sync"
	"testing"
)

type stubConn struct{ name string }

func (*stubConn) Send(Event) error { return nil }
func (*stubConn) Close() error { return nil }

func TestRegistry_LastWriteWins(t *testing.T) {
	// Arrange
	r := NewRegistry()
	first, second := &stubConn{name: "first"}, &stubConn{name: "second"}

	// Act
	if prev := r.Register(1, first); prev != nil {
		t.Fatalf("Register() prev = %v, want nil", prev)
	}
	prev := r.Register(1, second)

	// Assert
	if prev != first {
		t.Fatalf("Register() prev = %v, want first", prev)
	}
	got, ok := r.Lookup(1)
	if !ok || got != second {
		t.Fatalf("Lookup() = %v, %v, want second", got, ok)
	}
	if r.Replaced() != 1 {
		t.Fatalf("Replaced() = %d, want 1", r.Replaced())
	}
}

func TestRegistry_UnregisterOnlyCurrent(t *testing.T) {
	r := NewRegistry()
	old, cur := &stubConn{name: "old"}, &stubConn{name: "cur"}
	r.Register(1, old)
	r.Register(1, cur)

	if r.Unregister(1, old) {
		t.Fatalf("Unregister(old) removed the newer connection")
	}
	if _, ok := r.Lookup(1); !ok {
		t.Fatalf("Lookup() lost current connection")
	}
	if !r.Unregister(1, cur) {
		t.Fatalf("Unregister(cur) = false")
	}
	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", r.Len())
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()
	const accounts, rounds = 16, 200

	var wg sync.WaitGroup
	for id := range accounts {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			for i := range rounds {
				c := &stubConn{name: fmt.Sprint(id, i)}
				r.Register(id, c)
				if _, ok := r.Lookup(id); !ok {
					t.Errorf("Lookup(%d) missing right after Register", id)
				}
				if i%2 == 1 {
					r.Unregister(id, c)
				}
			}
		}(int64(id))
	}
	wg.Wait()

	// the last round of every account is odd, so all were unregistered
	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", r.Len())
	}
}
