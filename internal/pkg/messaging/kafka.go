package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/segmentio/kafka-go"
)

// KafkaConfig configures the Kafka driver.
type KafkaConfig struct {
	Brokers []string
	Dialer  *kafka.Dialer
}

// Kafka publishes through one writer per topic and commits offsets only
// after the handler succeeds.
type Kafka struct {
	cfg KafkaConfig

	mu      sync.Mutex
	writers map[string]*kafka.Writer
	readers map[*kafka.Reader]struct{}
	closed  bool
}

func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("messaging: kafka brokers are required")
	}
	return &Kafka{
		cfg:     cfg,
		writers: make(map[string]*kafka.Writer),
		readers: make(map[*kafka.Reader]struct{}),
	}, nil
}

func (k *Kafka) Publish(ctx context.Context, topic string, msg *Message) error {
	if err := prepare(topic, msg); err != nil {
		return err
	}

	w, err := k.writer(topic)
	if err != nil {
		return err
	}

	out := kafka.Message{
		Key:     msg.Key,
		Value:   msg.Body,
		Headers: []kafka.Header{{Key: HeaderMessageID, Value: []byte(msg.ID)}},
	}
	for hk, hv := range msg.Headers {
		out.Headers = append(out.Headers, kafka.Header{Key: hk, Value: []byte(hv)})
	}

	if err := w.WriteMessages(ctx, out); err != nil {
		return fmt.Errorf("messaging: kafka publish: %w", err)
	}
	return nil
}

func (k *Kafka) writer(topic string) (*kafka.Writer, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed {
		return nil, ErrClosed
	}
	if w, ok := k.writers[topic]; ok {
		return w, nil
	}

	w := &kafka.Writer{
		Addr:     kafka.TCP(k.cfg.Brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
	}
	if k.cfg.Dialer != nil {
		w.Transport = &kafka.Transport{TLS: k.cfg.Dialer.TLS, SASL: k.cfg.Dialer.SASLMechanism}
	}
	k.writers[topic] = w
	return w, nil
}

func (k *Kafka) Subscribe(ctx context.Context, topic string, h Handler, opts ...SubscribeOption) error {
	if err := checkSubscribe(ctx, topic, h); err != nil {
		return err
	}
	o := newSubscribeOptions(opts)
	if o.group == "" {
		return ErrGroupRequired
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  k.cfg.Brokers,
		GroupID:  o.group,
		Topic:    topic,
		MaxBytes: 10e6,
		Dialer:   k.cfg.Dialer,
	})
	if err := k.track(r); err != nil {
		return errors.Join(err, r.Close())
	}
	defer k.untrack(r)

	// offsets are committed per message, after the handler succeeds
	jobs := make(chan kafka.Message)
	var wg sync.WaitGroup
	for range o.concurrency {
		wg.Go(func() {
			for m := range jobs {
				if err := dispatch(ctx, "kafka", h, fromKafka(m)); err != nil {
					continue
				}
				_ = r.CommitMessages(ctx, m)
			}
		})
	}

	var fetchErr error
	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			fetchErr = err
			break
		}
		jobs <- m
	}
	close(jobs)
	wg.Wait()

	if ctx.Err() != nil {
		return errors.Join(ctx.Err(), r.Close())
	}
	return errors.Join(fmt.Errorf("messaging: kafka fetch: %w", fetchErr), r.Close())
}

func fromKafka(m kafka.Message) *Message {
	msg := &Message{Topic: m.Topic, Key: m.Key, Body: m.Value, PublishedAt: m.Time}
	for _, hdr := range m.Headers {
		if hdr.Key == HeaderMessageID {
			msg.ID = string(hdr.Value)
			continue
		}
		msg.SetHeader(hdr.Key, string(hdr.Value))
	}
	return msg
}

func (k *Kafka) track(r *kafka.Reader) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return ErrClosed
	}
	k.readers[r] = struct{}{}
	return nil
}

func (k *Kafka) untrack(r *kafka.Reader) {
	k.mu.Lock()
	if k.readers != nil {
		delete(k.readers, r)
	}
	k.mu.Unlock()
}

func (k *Kafka) Close() error {
	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		return nil
	}
	k.closed = true
	writers, readers := k.writers, k.readers
	k.writers, k.readers = nil, nil
	k.mu.Unlock()

	var err error
	for r := range readers {
		err = errors.Join(err, r.Close())
	}
	for _, w := range writers {
		err = errors.Join(err, w.Close())
	}
	return err
}
