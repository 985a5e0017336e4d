package messaging

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

const (
	memoryBuffer       = 256
	memoryMaxRedeliver = 3
)

// Memory is an in-process broker for single-node deployments and tests.
//
// Consumers sharing a group (WithGroup, WithQueueGroup or WithChannel)
// compete for messages; every distinct group receives its own copy.
// Messages published to a topic without consumers are dropped. Nack
// redelivers up to three times.
type Memory struct {
	seq    atomic.Uint64
	mu     sync.Mutex
	topics map[string]map[string]*memoryGroup
	done   chan struct{}
	closed bool
}

type memoryGroup struct {
	ch   chan *envelope
	refs int
}

// NewMemory constructs an empty in-process broker.
func NewMemory() *Memory {
	return &Memory{
		topics: map[string]map[string]*memoryGroup{},
		done:   make(chan struct{}),
	}
}

// Close stops all consumers. Pending messages are discarded.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}

// Publish fans the message out to every consumer group of topic.
func (m *Memory) Publish(ctx context.Context, topic string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	if topic == "" {
		return PublishResult{}, ErrTopicRequired
	}

	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return PublishResult{}, ErrClosed
	}

	id := strconv.FormatUint(m.seq.Add(1), 10)
	now := time.Now()

	if msg.Delay > 0 {
		time.AfterFunc(msg.Delay, func() {
			m.dispatch(context.Background(), topic, id, msg, now)
		})
	} else {
		m.dispatch(ctx, topic, id, msg, now)
	}

	return PublishResult{MessageID: id, Topic: topic, Timestamp: now}, nil
}

// Consume joins the consumer group of topic until ctx is done or the broker closes.
func (m *Memory) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}
	if handler == nil {
		return ErrHandlerRequired
	}

	co := newConsumeOptions(opts...)
	group := memoryGroupName(co)
	if group == "" {
		group = "consumer-" + strconv.FormatUint(m.seq.Add(1), 10)
	}

	ch, err := m.join(topic, group)
	if err != nil {
		return err
	}
	defer m.leave(topic, group)

	var wg sync.WaitGroup
	for range co.workers() {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-m.done:
					return
				case env := <-ch:
					//nolint:errcheck // handler errors are logged by the handler
					_ = deliver(ctx, "memory", env, handler, co.autoAck)
				}
			}
		})
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

func (m *Memory) join(topic, group string) (chan *envelope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	groups, ok := m.topics[topic]
	if !ok {
		groups = map[string]*memoryGroup{}
		m.topics[topic] = groups
	}
	g, ok := groups[group]
	if !ok {
		g = &memoryGroup{ch: make(chan *envelope, memoryBuffer)}
		groups[group] = g
	}
	g.refs++

	return g.ch, nil
}

func (m *Memory) leave(topic, group string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.topics[topic][group]
	if !ok {
		return
	}
	g.refs--
	if g.refs <= 0 {
		delete(m.topics[topic], group)
	}
}

// consumers reports how many consumer groups are attached to topic.
func (m *Memory) consumers(topic string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.topics[topic])
}

func (m *Memory) dispatch(ctx context.Context, topic, id string, msg OutgoingMessage, ts time.Time) {
	m.mu.Lock()
	chans := make([]chan *envelope, 0, len(m.topics[topic]))
	for _, g := range m.topics[topic] {
		chans = append(chans, g.ch)
	}
	m.mu.Unlock()

	for _, ch := range chans {
		m.send(ctx, ch, m.envelope(ch, topic, id, msg, ts, 0))
	}
}

func (m *Memory) envelope(ch chan *envelope, topic, id string, msg OutgoingMessage, ts time.Time, attempt int) *envelope {
	env := &envelope{
		body:    append([]byte(nil), msg.Body...),
		key:     append([]byte(nil), msg.Key...),
		headers: append([]Header(nil), msg.Headers...),
		id:      id,
		topic:   topic,
		ts:      ts,
	}
	env.nack = func(context.Context) error {
		if attempt >= memoryMaxRedeliver {
			return nil
		}
		go m.send(context.Background(), ch, m.envelope(ch, topic, id, msg, ts, attempt+1))
		return nil
	}
	return env
}

func (m *Memory) send(ctx context.Context, ch chan *envelope, env *envelope) {
	select {
	case ch <- env:
	case <-ctx.Done():
	case <-m.done:
	}
}

func memoryGroupName(co consumeOptions) string {
	switch {
	case co.group != "":
		return co.group
	case co.queueGroup != "":
		return co.queueGroup
	default:
		return co.channel
	}
}
