package messaging

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// Memory is an in-process bus for local runs and tests. Each group receives
// every message once, spread round-robin over its subscribers; ungrouped
// subscribers each receive every message.
type Memory struct {
	mu     sync.Mutex
	topics map[string]map[string]*memGroup
	seq    int
	closed bool
	done   chan struct{}
}

type memGroup struct {
	subs []chan *Message
	next int
}

func NewMemory() *Memory {
	return &Memory{topics: make(map[string]map[string]*memGroup), done: make(chan struct{})}
}

func (m *Memory) Publish(ctx context.Context, topic string, msg *Message) error {
	if err := prepare(topic, msg); err != nil {
		return err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	var targets []chan *Message
	for _, g := range m.topics[topic] {
		if len(g.subs) == 0 {
			continue
		}
		targets = append(targets, g.subs[g.next%len(g.subs)])
		g.next++
	}
	m.mu.Unlock()

	for _, ch := range targets {
		cp := *msg
		cp.Topic = topic
		cp.PublishedAt = time.Now()
		select {
		case ch <- &cp:
		case <-ctx.Done():
			return ctx.Err()
		case <-m.done:
			return ErrClosed
		}
	}
	return nil
}

func (m *Memory) Subscribe(ctx context.Context, topic string, h Handler, opts ...SubscribeOption) error {
	if err := checkSubscribe(ctx, topic, h); err != nil {
		return err
	}
	o := newSubscribeOptions(opts)
	ch := make(chan *Message, 64)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	group := o.group
	if group == "" {
		m.seq++
		group = "\x00solo-" + strconv.Itoa(m.seq)
	}
	groups, ok := m.topics[topic]
	if !ok {
		groups = make(map[string]*memGroup)
		m.topics[topic] = groups
	}
	g, ok := groups[group]
	if !ok {
		g = &memGroup{}
		groups[group] = g
	}
	g.subs = append(g.subs, ch)
	m.mu.Unlock()

	defer m.remove(topic, group, ch)

	var wg sync.WaitGroup
	for range o.concurrency {
		wg.Go(func() {
			for {
				select {
				case msg := <-ch:
					_ = dispatch(ctx, "memory", h, msg)
				case <-ctx.Done():
					return
				case <-m.done:
					return
				}
			}
		})
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	return ErrClosed
}

func (m *Memory) remove(topic, group string, ch chan *Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g := m.topics[topic][group]
	if g == nil {
		return
	}
	for i, c := range g.subs {
		if c == ch {
			g.subs = append(g.subs[:i], g.subs[i+1:]...)
			break
		}
	}
	if len(g.subs) == 0 {
		delete(m.topics[topic], group)
	}
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}
