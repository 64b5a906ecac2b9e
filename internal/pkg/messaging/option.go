package messaging

// SubscribeOption configures Subscribe.
type SubscribeOption func(*subscribeOptions)

type subscribeOptions struct {
	group       string
	concurrency int
}

// WithGroup names the consumer group. It maps to the NATS queue group, the
// NSQ channel, the Kafka group id and the Pub/Sub subscription id.
func WithGroup(name string) SubscribeOption {
	return func(o *subscribeOptions) { o.group = name }
}

// WithConcurrency sets how many messages are handled in parallel.
func WithConcurrency(n int) SubscribeOption {
	return func(o *subscribeOptions) { o.concurrency = n }
}

func newSubscribeOptions(opts []SubscribeOption) subscribeOptions {
	o := subscribeOptions{concurrency: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.concurrency < 1 {
		o.concurrency = 1
	}
	return o
}
