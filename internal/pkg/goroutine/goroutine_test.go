package goroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestManager_RunsAndCollectsErrors(t *testing.T) {
	// Arrange
	m := NewManager(4)
	var ran atomic.Int32
	errBoom := errors.New("boom")

	// Act
	m.Go(context.Background(), "ok", func(context.Context) error {
		ran.Add(1)
		return nil
	})
	m.Go(context.Background(), "fail", func(context.Context) error {
		ran.Add(1)
		return errBoom
	})
	err := m.Wait()

	// Assert
	if ran.Load() != 2 {
		t.Fatalf("ran = %d, want 2", ran.Load())
	}
	if !errors.Is(err, errBoom) {
		t.Fatalf("Wait() = %v, want boom", err)
	}
}

func TestManager_RecoversPanic(t *testing.T) {
	m := NewManager(1)

	m.Go(context.Background(), "panic", func(context.Context) error { panic("kaboom") })

	if err := m.Wait(); !errors.Is(err, ErrPanic) {
		t.Fatalf("Wait() = %v, want ErrPanic", err)
	}
}

func TestManager_DropsWhenSaturated(t *testing.T) {
	// Arrange
	m := NewManager(1)
	release := make(chan struct{})
	started := make(chan struct{})
	m.Go(context.Background(), "block", func(context.Context) error {
		close(started)
		<-release
		return nil
	})
	<-started

	// Act
	accepted := m.Go(context.Background(), "extra", func(context.Context) error { return nil })
	close(release)
	_ = m.Wait()

	// Assert
	if accepted {
		t.Fatalf("Go() accepted a task beyond the limit")
	}
}

func TestManager_DetachedFromCancel(t *testing.T) {
	// Arrange
	m := NewManager(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var ctxErr error

	// Act
	m.Go(ctx, "detached", func(c context.Context) error {
		ctxErr = c.Err()
		return nil
	})
	_ = m.Wait()

	// Assert
	if ctxErr != nil {
		t.Fatalf("task ctx err = %v, want nil", ctxErr)
	}
}

func TestManager_ClosedDrops(t *testing.T) {
	m := NewManager(1)
	_ = m.Wait()

	if m.Go(context.Background(), "late", func(context.Context) error { return nil }) {
		t.Fatalf("Go() after Wait should drop")
	}
}
