package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	nsq "github.com/nsqio/go-nsq"
)

// NSQConfig configures the NSQ driver. Consumers use lookupd when
// LookupdAddrs is set, otherwise NSQDAddrs.
type NSQConfig struct {
	ProducerAddr   string
	NSQDAddrs      []string
	LookupdAddrs   []string
	ProducerConfig *nsq.Config
	ConsumerConfig *nsq.Config
}

// NSQ frames messages in a JSON envelope because NSQ has no headers.
type NSQ struct {
	producer *nsq.Producer
	cfg      NSQConfig

	mu        sync.Mutex
	consumers []*nsq.Consumer
	closed    bool
}

type nsqEnvelope struct {
	ID      string            `json:"id"`
	Key     []byte            `json:"key,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    []byte            `json:"body"`
}

func NewNSQ(cfg NSQConfig) (*NSQ, error) {
	if cfg.ProducerAddr == "" {
		return nil, errors.New("messaging: nsq producer address is required")
	}
	if cfg.ProducerConfig == nil {
		cfg.ProducerConfig = nsq.NewConfig()
	}
	if cfg.ConsumerConfig == nil {
		cfg.ConsumerConfig = nsq.NewConfig()
	}

	p, err := nsq.NewProducer(cfg.ProducerAddr, cfg.ProducerConfig)
	if err != nil {
		return nil, fmt.Errorf("messaging: nsq producer: %w", err)
	}
	p.SetLoggerLevel(nsq.LogLevelError)

	return &NSQ{producer: p, cfg: cfg}, nil
}

func (n *NSQ) Publish(ctx context.Context, topic string, msg *Message) error {
	if err := prepare(topic, msg); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	frame, err := encodeNSQ(msg)
	if err != nil {
		return err
	}
	if err := n.producer.Publish(topic, frame); err != nil {
		return fmt.Errorf("messaging: nsq publish: %w", err)
	}
	return nil
}

func (n *NSQ) Subscribe(ctx context.Context, topic string, h Handler, opts ...SubscribeOption) error {
	if err := checkSubscribe(ctx, topic, h); err != nil {
		return err
	}
	o := newSubscribeOptions(opts)
	if o.group == "" {
		return ErrGroupRequired
	}

	cc := *n.cfg.ConsumerConfig
	cc.MaxInFlight = max(cc.MaxInFlight, o.concurrency)

	c, err := nsq.NewConsumer(topic, o.group, &cc)
	if err != nil {
		return fmt.Errorf("messaging: nsq consumer: %w", err)
	}
	c.SetLoggerLevel(nsq.LogLevelError)
	c.AddConcurrentHandlers(nsq.HandlerFunc(func(m *nsq.Message) error {
		msg, err := decodeNSQ(topic, m)
		if err != nil {
			// poison frame, finish it
			return nil
		}
		return dispatch(ctx, "nsq", h, msg)
	}), o.concurrency)

	if err := n.track(c); err != nil {
		return err
	}
	if len(n.cfg.LookupdAddrs) > 0 {
		err = c.ConnectToNSQLookupds(n.cfg.LookupdAddrs)
	} else {
		err = c.ConnectToNSQDs(n.cfg.NSQDAddrs)
	}
	if err != nil {
		c.Stop()
		return fmt.Errorf("messaging: nsq connect: %w", err)
	}

	select {
	case <-ctx.Done():
		c.Stop()
		<-c.StopChan
		return ctx.Err()
	case <-c.StopChan:
		return ErrClosed
	}
}

func (n *NSQ) track(c *nsq.Consumer) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return ErrClosed
	}
	n.consumers = append(n.consumers, c)
	return nil
}

func (n *NSQ) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	consumers := n.consumers
	n.consumers = nil
	n.mu.Unlock()

	for _, c := range consumers {
		c.Stop()
		<-c.StopChan
	}
	n.producer.Stop()
	return nil
}

func encodeNSQ(msg *Message) ([]byte, error) {
	return json.Marshal(nsqEnvelope{ID: msg.ID, Key: msg.Key, Headers: msg.Headers, Body: msg.Body})
}

func decodeNSQ(topic string, m *nsq.Message) (*Message, error) {
	var env nsqEnvelope
	if err := json.Unmarshal(m.Body, &env); err != nil {
		return nil, err
	}
	return &Message{
		ID:          env.ID,
		Topic:       topic,
		Key:         env.Key,
		Body:        env.Body,
		Headers:     env.Headers,
		PublishedAt: time.Unix(0, m.Timestamp),
	}, nil
}
