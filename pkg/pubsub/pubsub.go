// Package pubsub distributes graph update notifications to subscribers
// (renderers, persistence) without blocking the mutation path.
package pubsub

import (
	"context"
	"sync"
)

// Topics published by the graph engine.
const (
	// TopicGraphUpdated fires on every effective mutation (add, rename,
	// category change, bulk load, clear, sweep that removed something).
	TopicGraphUpdated = "graph.updated"
	// TopicGraphSwept fires only for sweeps that removed at least one edge.
	TopicGraphSwept = "graph.swept"
)

// subscriptionBuffer is the per-subscriber channel depth. Slow consumers
// drop messages rather than stall publishers.
const subscriptionBuffer = 64

// PubSub fans out messages to topic subscribers
type PubSub struct {
	subscribers map[string]map[*Subscription]bool
	mu          sync.RWMutex
	shutdown    chan struct{}
	shutdownMu  sync.Mutex
	isShutdown  bool
}

// Subscription represents a subscription to a topic
type Subscription struct {
	topic     string
	channel   chan any
	ps        *PubSub
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewPubSub creates a new PubSub instance
func NewPubSub() *PubSub {
	return &PubSub{
		subscribers: make(map[string]map[*Subscription]bool),
		shutdown:    make(chan struct{}),
	}
}

// Subscribe creates a new subscription to a topic. The subscription ends
// when ctx is cancelled, Unsubscribe is called, or the bus shuts down.
// Returns nil after shutdown.
func (ps *PubSub) Subscribe(ctx context.Context, topic string) *Subscription {
	ps.shutdownMu.Lock()
	if ps.isShutdown {
		ps.shutdownMu.Unlock()
		return nil
	}
	ps.shutdownMu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		topic:   topic,
		channel: make(chan any, subscriptionBuffer),
		ps:      ps,
		ctx:     subCtx,
		cancel:  cancel,
	}

	ps.mu.Lock()
	if ps.subscribers[topic] == nil {
		ps.subscribers[topic] = make(map[*Subscription]bool)
	}
	ps.subscribers[topic][sub] = true
	ps.mu.Unlock()

	go func() {
		select {
		case <-subCtx.Done():
			sub.Unsubscribe()
		case <-ps.shutdown:
			sub.close()
		}
	}()

	return sub
}

// Publish sends a message to all subscribers of a topic. Non-blocking:
// a subscriber whose buffer is full misses the message and must catch up
// from the next snapshot instead.
func (ps *PubSub) Publish(topic string, message any) {
	ps.shutdownMu.Lock()
	if ps.isShutdown {
		ps.shutdownMu.Unlock()
		return
	}
	ps.shutdownMu.Unlock()

	// Snapshot the subscriber set under lock; sends happen outside it so
	// a slow consumer cannot stall Unsubscribe or other publishers.
	ps.mu.RLock()
	topicSubs := ps.subscribers[topic]
	if len(topicSubs) == 0 {
		ps.mu.RUnlock()
		return
	}
	subs := make([]*Subscription, 0, len(topicSubs))
	for sub := range topicSubs {
		subs = append(subs, sub)
	}
	ps.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub.channel <- message:
		default:
			// Buffer full, drop
		}
	}
}

// SubscriberCount returns the number of subscribers for a topic
func (ps *PubSub) SubscriberCount(topic string) int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.subscribers[topic])
}

// Shutdown closes all subscriptions and stops the bus. Idempotent.
func (ps *PubSub) Shutdown() {
	ps.shutdownMu.Lock()
	if ps.isShutdown {
		ps.shutdownMu.Unlock()
		return
	}
	ps.isShutdown = true
	ps.shutdownMu.Unlock()

	close(ps.shutdown)

	ps.mu.Lock()
	for topic := range ps.subscribers {
		for sub := range ps.subscribers[topic] {
			sub.close()
		}
		delete(ps.subscribers, topic)
	}
	ps.mu.Unlock()
}

// Channel returns the subscription's message channel
func (s *Subscription) Channel() <-chan any {
	return s.channel
}

// Unsubscribe removes the subscription
func (s *Subscription) Unsubscribe() {
	s.cancel()

	s.ps.mu.Lock()
	defer s.ps.mu.Unlock()

	if s.ps.subscribers[s.topic] != nil {
		delete(s.ps.subscribers[s.topic], s)
		if len(s.ps.subscribers[s.topic]) == 0 {
			delete(s.ps.subscribers, s.topic)
		}
	}

	s.close()
}

// close closes the subscription channel safely (idempotent)
func (s *Subscription) close() {
	s.closeOnce.Do(func() {
		close(s.channel)
	})
}
