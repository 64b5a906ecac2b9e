package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cloud.google.com/go/pubsub/v2"
	"google.golang.org/api/option"
)

// PubSubConfig configures the Google Pub/Sub driver.
type PubSubConfig struct {
	ProjectID     string
	ClientOptions []option.ClientOption
}

// PubSub maps topics to Pub/Sub topic ids and groups to subscription ids.
// Subscriptions must exist already.
type PubSub struct {
	client *pubsub.Client

	mu         sync.Mutex
	publishers map[string]*pubsub.Publisher
	closed     bool
}

func NewPubSub(ctx context.Context, cfg PubSubConfig) (*PubSub, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("messaging: pubsub project id is required")
	}

	c, err := pubsub.NewClient(ctx, cfg.ProjectID, cfg.ClientOptions...)
	if err != nil {
		return nil, fmt.Errorf("messaging: pubsub client: %w", err)
	}
	return &PubSub{client: c, publishers: make(map[string]*pubsub.Publisher)}, nil
}

func (p *PubSub) Publish(ctx context.Context, topic string, msg *Message) error {
	if err := prepare(topic, msg); err != nil {
		return err
	}

	pub, err := p.publisher(topic)
	if err != nil {
		return err
	}

	attrs := make(map[string]string, len(msg.Headers)+1)
	for k, v := range msg.Headers {
		attrs[k] = v
	}
	attrs[HeaderMessageID] = msg.ID

	res := pub.Publish(ctx, &pubsub.Message{Data: msg.Body, Attributes: attrs, OrderingKey: string(msg.Key)})
	if _, err := res.Get(ctx); err != nil {
		return fmt.Errorf("messaging: pubsub publish: %w", err)
	}
	return nil
}

func (p *PubSub) publisher(topic string) (*pubsub.Publisher, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}
	pub, ok := p.publishers[topic]
	if !ok {
		pub = p.client.Publisher(topic)
		p.publishers[topic] = pub
	}
	return pub, nil
}

func (p *PubSub) Subscribe(ctx context.Context, topic string, h Handler, opts ...SubscribeOption) error {
	if err := checkSubscribe(ctx, topic, h); err != nil {
		return err
	}
	o := newSubscribeOptions(opts)

	subID := o.group
	if subID == "" {
		subID = topic
	}

	sub := p.client.Subscriber(subID)
	sub.ReceiveSettings.NumGoroutines = o.concurrency
	sub.ReceiveSettings.MaxOutstandingMessages = o.concurrency * 10

	return sub.Receive(ctx, func(ctx context.Context, m *pubsub.Message) {
		msg := &Message{
			ID:          m.Attributes[HeaderMessageID],
			Topic:       topic,
			Key:         []byte(m.OrderingKey),
			Body:        m.Data,
			PublishedAt: m.PublishTime,
		}
		if msg.ID == "" {
			msg.ID = m.ID
		}
		for k, v := range m.Attributes {
			if k != HeaderMessageID {
				msg.SetHeader(k, v)
			}
		}

		if err := dispatch(ctx, "pubsub", h, msg); err != nil {
			m.Nack()
			return
		}
		m.Ack()
	})
}

func (p *PubSub) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	pubs := p.publishers
	p.publishers = nil
	p.mu.Unlock()

	for _, pub := range pubs {
		pub.Stop()
	}
	return p.client.Close()
}
