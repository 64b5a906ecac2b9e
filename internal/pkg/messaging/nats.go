package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
)

// NATSConfig configures the NATS driver.
type NATSConfig struct {
	URL     string
	Options []nats.Option
}

// NATS is a core NATS driver. Delivery is at most once: a failed handler is
// logged by the caller and the message is not redelivered.
type NATS struct {
	conn *nats.Conn

	mu     sync.Mutex
	closed bool
}

func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.URL == "" {
		return nil, errors.New("messaging: nats url is required")
	}

	conn, err := nats.Connect(cfg.URL, cfg.Options...)
	if err != nil {
		return nil, fmt.Errorf("messaging: nats connect: %w", err)
	}
	return &NATS{conn: conn}, nil
}

func (n *NATS) Publish(ctx context.Context, topic string, msg *Message) error {
	if err := prepare(topic, msg); err != nil {
		return err
	}
	if n.isClosed() {
		return ErrClosed
	}

	out := nats.NewMsg(topic)
	out.Data = msg.Body
	out.Header.Set(HeaderMessageID, msg.ID)
	for k, v := range msg.Headers {
		out.Header.Set(k, v)
	}

	if err := n.conn.PublishMsg(out); err != nil {
		return fmt.Errorf("messaging: nats publish: %w", err)
	}
	return n.conn.FlushWithContext(ctx)
}

func (n *NATS) Subscribe(ctx context.Context, topic string, h Handler, opts ...SubscribeOption) error {
	if err := checkSubscribe(ctx, topic, h); err != nil {
		return err
	}
	if n.isClosed() {
		return ErrClosed
	}
	o := newSubscribeOptions(opts)

	inbox := make(chan *nats.Msg, o.concurrency)
	sub, err := n.conn.QueueSubscribe(topic, o.group, func(m *nats.Msg) {
		select {
		case inbox <- m:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return fmt.Errorf("messaging: nats subscribe: %w", err)
	}

	var wg sync.WaitGroup
	for range o.concurrency {
		wg.Go(func() {
			for {
				select {
				case m := <-inbox:
					_ = dispatch(ctx, "nats", h, fromNATS(m))
				case <-ctx.Done():
					return
				}
			}
		})
	}

	<-ctx.Done()
	// inbox stays open: Drain may still run callbacks, which bail on ctx.
	drainErr := sub.Drain()
	wg.Wait()
	return errors.Join(ctx.Err(), drainErr)
}

func fromNATS(m *nats.Msg) *Message {
	msg := &Message{Topic: m.Subject, Body: m.Data, ID: m.Header.Get(HeaderMessageID)}
	for k := range m.Header {
		if k != HeaderMessageID {
			msg.SetHeader(k, m.Header.Get(k))
		}
	}
	return msg
}

func (n *NATS) isClosed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.closed
}

func (n *NATS) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	n.mu.Unlock()

	return n.conn.Drain()
}
