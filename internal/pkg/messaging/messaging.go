// Package messaging publishes and consumes broker messages through one
// interface, with drivers for NATS, NSQ, Kafka, Google Pub/Sub and an
// in-process bus.
//
// Subscribe blocks until its context ends. A handler returning nil
// acknowledges the message; an error asks the broker to redeliver it where
// the driver supports that.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/shandysiswandi/gosocial/internal/pkg/stacktrace"
)

var (
	ErrTopicRequired   = errors.New("messaging: topic is required")
	ErrHandlerRequired = errors.New("messaging: handler is required")
	ErrGroupRequired   = errors.New("messaging: consumer group is required")
	ErrClosed          = errors.New("messaging: client closed")
	ErrPanic           = errors.New("messaging: handler panicked")
)

// HeaderMessageID carries Message.ID on drivers with native headers.
const HeaderMessageID = "Message-Id"

// Message is a broker message.
type Message struct {
	// ID identifies the message across redeliveries; Publish fills it when empty.
	ID string
	// Topic is set on consumed messages.
	Topic string
	// Key selects the partition or ordering key where supported.
	Key     []byte
	Body    []byte
	Headers map[string]string
	// PublishedAt is set on consumed messages when the broker reports it.
	PublishedAt time.Time
}

// Header returns the value of header k or "".
func (m *Message) Header(k string) string {
	if m.Headers == nil {
		return ""
	}
	return m.Headers[k]
}

// SetHeader sets header k, allocating the map when needed.
func (m *Message) SetHeader(k, v string) {
	if m.Headers == nil {
		m.Headers = make(map[string]string)
	}
	m.Headers[k] = v
}

// Handler processes one consumed message.
type Handler func(ctx context.Context, msg *Message) error

// Publisher sends messages to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, msg *Message) error
}

// Subscriber consumes a topic until ctx is done.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, h Handler, opts ...SubscribeOption) error
}

// Messaging is a broker client.
type Messaging interface {
	io.Closer
	Publisher
	Subscriber
}

func prepare(topic string, msg *Message) error {
	if topic == "" {
		return ErrTopicRequired
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	return nil
}

func checkSubscribe(ctx context.Context, topic string, h Handler) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}
	if h == nil {
		return ErrHandlerRequired
	}
	return nil
}

// dispatch runs h, turning a panic into ErrPanic.
func dispatch(ctx context.Context, driver string, h Handler, msg *Message) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			stack := debug.Stack()
			slog.ErrorContext(ctx, "panic in message handler",
				"driver", driver, "topic", msg.Topic, "message_id", msg.ID,
				"panic", rvr, "stack", stacktrace.InternalPaths(stack))
			err = fmt.Errorf("%w: %v", ErrPanic, rvr)
		}
	}()

	return h(ctx, msg)
}
