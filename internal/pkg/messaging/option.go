package messaging

// consumeOptions holds the broker-specific names of one consumer. Each
// driver reads only its own field.
type consumeOptions struct {
	channel      string // nsq
	queueGroup   string // nats
	group        string // kafka
	subscription string // pubsub

	concurrency int
	maxInFlight int
	autoAck     bool
}

// ConsumeOption configures Consume.
type ConsumeOption func(*consumeOptions)

func newConsumeOptions(opts ...ConsumeOption) consumeOptions {
	var co consumeOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&co)
		}
	}
	return co
}

func (o consumeOptions) workers() int {
	return max(o.concurrency, 1)
}

// WithConsumerName uses name as the NSQ channel, NATS queue group, Kafka
// group and Pub/Sub subscription. Later broker-specific options override it.
func WithConsumerName(name string) ConsumeOption {
	return func(o *consumeOptions) {
		o.channel, o.queueGroup, o.group, o.subscription = name, name, name, name
	}
}

func WithChannel(channel string) ConsumeOption {
	return func(o *consumeOptions) { o.channel = channel }
}

func WithQueueGroup(queueGroup string) ConsumeOption {
	return func(o *consumeOptions) { o.queueGroup = queueGroup }
}

func WithGroup(group string) ConsumeOption {
	return func(o *consumeOptions) { o.group = group }
}

func WithSubscription(subscription string) ConsumeOption {
	return func(o *consumeOptions) { o.subscription = subscription }
}

// WithConcurrency sets the number of handler goroutines; values below 1 mean 1.
func WithConcurrency(n int) ConsumeOption {
	return func(o *consumeOptions) { o.concurrency = n }
}

// WithAutoAck acks after a nil handler error and nacks otherwise, unless the
// handler already responded.
func WithAutoAck(autoAck bool) ConsumeOption {
	return func(o *consumeOptions) { o.autoAck = autoAck }
}

// WithMaxInFlight caps unacknowledged messages where the broker supports it.
func WithMaxInFlight(n int) ConsumeOption {
	return func(o *consumeOptions) { o.maxInFlight = n }
}
