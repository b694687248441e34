package pubsub

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// DefaultQueueSize is the default per-subscriber queue length.
const DefaultQueueSize = 1024

// OverflowPolicy decides what happens when a subscriber queue is full.
type OverflowPolicy int

const (
	// Disconnect marks the subscriber overflowed; its session closes the
	// connection.
	Disconnect OverflowPolicy = iota
	// DropOldest discards the oldest queued message to make room.
	DropOldest
)

// String returns the configuration name of the policy.
func (p OverflowPolicy) String() string {
	switch p {
	case DropOldest:
		return "drop_oldest"
	default:
		return "disconnect"
	}
}

// ParseOverflowPolicy parses "disconnect" or "drop_oldest".
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch s {
	case "", "disconnect":
		return Disconnect, nil
	case "drop_oldest":
		return DropOldest, nil
	}
	return Disconnect, fmt.Errorf("unknown overflow policy %q", s)
}

// Message is one published payload.
type Message struct {
	Channel string
	Payload []byte
}

type channel struct {
	mu   sync.Mutex // serializes publishes to this channel
	subs map[string]*Subscriber
}

// Hub routes published messages to subscribers.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]*channel

	queueSize int
	policy    OverflowPolicy

	subscribers atomic.Int64
	published   atomic.Uint64
	delivered   atomic.Uint64
	dropped     atomic.Uint64
}

// Option configures the Hub.
type Option func(*Hub)

// WithQueueSize sets the per-subscriber queue length.
func WithQueueSize(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.queueSize = n
		}
	}
}

// WithOverflowPolicy sets the policy applied to full queues.
func WithOverflowPolicy(p OverflowPolicy) Option {
	return func(h *Hub) {
		h.policy = p
	}
}

// NewHub creates an empty hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		channels:  make(map[string]*channel),
		queueSize: DefaultQueueSize,
		policy:    Disconnect,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewSubscriber creates a subscriber with its own queue. An empty id is
// replaced by a generated one.
func (h *Hub) NewSubscriber(id string) *Subscriber {
	h.subscribers.Add(1)
	return newSubscriber(id, h.queueSize)
}

// Subscribe adds sub to channel. It reports whether sub was newly added.
// A closed subscriber is never added.
func (h *Hub) Subscribe(sub *Subscriber, name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub.closed {
		return false
	}
	if _, ok := sub.channels[name]; ok {
		return false
	}

	ch, ok := h.channels[name]
	if !ok {
		ch = &channel{subs: make(map[string]*Subscriber)}
		h.channels[name] = ch
	}
	ch.subs[sub.id] = sub
	sub.channels[name] = struct{}{}
	return true
}

// Unsubscribe removes sub from channel. It reports whether sub was
// subscribed.
func (h *Hub) Unsubscribe(sub *Subscriber, name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.unsubscribeLocked(sub, name)
}

func (h *Hub) unsubscribeLocked(sub *Subscriber, name string) bool {
	if _, ok := sub.channels[name]; !ok {
		return false
	}
	delete(sub.channels, name)

	if ch, ok := h.channels[name]; ok {
		delete(ch.subs, sub.id)
		if len(ch.subs) == 0 {
			delete(h.channels, name)
		}
	}
	return true
}

// UnsubscribeAll removes sub from every channel and returns the channels it
// left, sorted.
func (h *Hub) UnsubscribeAll(sub *Subscriber) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.unsubscribeAllLocked(sub)
}

func (h *Hub) unsubscribeAllLocked(sub *Subscriber) []string {
	names := sub.sortedChannels()
	for _, name := range names {
		h.unsubscribeLocked(sub, name)
	}
	return names
}

// Close removes sub from every channel and closes its queue. It is safe to
// call more than once.
func (h *Hub) Close(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub.closed {
		return
	}
	h.unsubscribeAllLocked(sub)
	sub.closed = true
	close(sub.queue)
	h.subscribers.Add(-1)
}

// Publish enqueues payload for every current subscriber of channel and
// returns how many received it.
func (h *Hub) Publish(name string, payload []byte) int {
	h.published.Add(1)

	h.mu.RLock()
	defer h.mu.RUnlock()

	ch, ok := h.channels[name]
	if !ok {
		return 0
	}

	ch.mu.Lock()
	defer ch.mu.Unlock()

	msg := Message{Channel: name, Payload: payload}
	n := 0
	for _, sub := range ch.subs {
		if h.deliver(sub, msg) {
			n++
		}
	}
	return n
}

// deliver never blocks. It runs with h.mu read-locked, so sub.queue is open.
func (h *Hub) deliver(sub *Subscriber, msg Message) bool {
	select {
	case sub.queue <- msg:
		h.delivered.Add(1)
		return true
	default:
	}

	if h.policy == DropOldest {
		select {
		case <-sub.queue:
			h.dropped.Add(1)
		default:
		}
		select {
		case sub.queue <- msg:
			h.delivered.Add(1)
			return true
		default:
		}
	} else {
		sub.markOverflow()
	}
	h.dropped.Add(1)
	return false
}

// Channels returns the names of channels with at least one subscriber,
// sorted.
func (h *Hub) Channels() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.channels))
	for name := range h.channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NumSub returns the number of subscribers of channel.
func (h *Hub) NumSub(name string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if ch, ok := h.channels[name]; ok {
		return len(ch.subs)
	}
	return 0
}

// Stats is a point-in-time view of the hub.
type Stats struct {
	Channels      int
	Subscriptions int
	Subscribers   int64
	Published     uint64
	Delivered     uint64
	Dropped       uint64
}

// Stats returns hub statistics.
func (h *Hub) Stats() Stats {
	h.mu.RLock()
	subs := 0
	for _, ch := range h.channels {
		subs += len(ch.subs)
	}
	st := Stats{Channels: len(h.channels), Subscriptions: subs}
	h.mu.RUnlock()

	st.Subscribers = h.subscribers.Load()
	st.Published = h.published.Load()
	st.Delivered = h.delivered.Load()
	st.Dropped = h.dropped.Load()
	return st
}
