package messaging

import (
	"context"
	"fmt"
	"strings"
)

const (
	DriverMemory = "memory"
	DriverNATS   = "nats"
	DriverNSQ    = "nsq"
	DriverKafka  = "kafka"
	DriverPubSub = "google-pubsub"
)

// FactoryOptions holds every driver's configuration; only the selected one is read.
type FactoryOptions struct {
	NATS   NATSConfig
	NSQ    NSQConfig
	Kafka  KafkaConfig
	PubSub PubSubConfig
}

// NewFromDriver builds the client named by driver.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Messaging, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverMemory, "":
		return NewMemory(), nil
	case DriverNATS:
		return NewNATS(opts.NATS)
	case DriverNSQ:
		return NewNSQ(opts.NSQ)
	case DriverKafka:
		return NewKafka(opts.Kafka)
	case DriverPubSub:
		return NewPubSub(ctx, opts.PubSub)
	default:
		return nil, fmt.Errorf("messaging: unknown driver %q", driver)
	}
}
