// Package goroutine runs fire-and-forget work with a concurrency ceiling.
package goroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/shandysiswandi/gosocial/internal/pkg/stacktrace"
)

// DefaultPerCPU is multiplied by NumCPU when NewManager gets a non-positive limit.
const DefaultPerCPU = 100

// ErrPanic wraps a recovered panic value.
var ErrPanic = errors.New("goroutine: panic recovered")

// Manager schedules tasks, drops them when saturated or closed, and records
// their errors until Wait.
type Manager struct {
	wg   sync.WaitGroup
	sema chan struct{}

	mu     sync.RWMutex
	closed bool

	errMu sync.Mutex
	errs  []error
}

// NewManager returns a Manager that runs at most limit tasks at once.
func NewManager(limit int) *Manager {
	if limit < 1 {
		limit = runtime.NumCPU() * DefaultPerCPU
	}
	return &Manager{sema: make(chan struct{}, limit)}
}

// Go runs fn on its own goroutine. It reports false when the task was dropped.
//
// fn receives a context detached from ctx cancellation so a finished request
// does not abort its background work; values such as the correlation id stay.
func (m *Manager) Go(ctx context.Context, name string, fn func(context.Context) error) bool {
	if m == nil {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		slog.WarnContext(ctx, "goroutine manager closed, task dropped", "task", name)
		return false
	}

	select {
	case m.sema <- struct{}{}:
	default:
		slog.WarnContext(ctx, "goroutine limit reached, task dropped", "task", name)
		return false
	}

	taskCtx := context.WithoutCancel(ctx)
	m.wg.Go(func() {
		defer func() { <-m.sema }()
		if err := m.run(taskCtx, name, fn); err != nil {
			m.errMu.Lock()
			m.errs = append(m.errs, fmt.Errorf("%s: %w", name, err))
			m.errMu.Unlock()
		}
	})

	return true
}

func (m *Manager) run(ctx context.Context, name string, fn func(context.Context) error) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			stack := debug.Stack()
			if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
				slog.ErrorContext(ctx, "panic in goroutine", "task", name, "panic", rvr, "stack", paths)
			} else {
				slog.ErrorContext(ctx, "panic in goroutine", "task", name, "panic", rvr, "stack", string(stack))
			}
			err = fmt.Errorf("%w: %v", ErrPanic, rvr)
		}
	}()

	return fn(ctx)
}

// Wait stops accepting tasks, waits for running ones and returns their joined errors.
func (m *Manager) Wait() error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.wg.Wait()

	m.errMu.Lock()
	defer m.errMu.Unlock()
	return errors.Join(m.errs...)
}
