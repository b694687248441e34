package pubsub

import (
	"sort"
	"sync"

	"github.com/oklog/ulid/v2"
)

// Subscriber is one consumer of published messages, typically a client
// session. Its channel set and closed flag are guarded by the Hub lock.
type Subscriber struct {
	id    string
	queue chan Message

	channels map[string]struct{}
	closed   bool

	overflowOnce sync.Once
	overflow     chan struct{}
}

func newSubscriber(id string, size int) *Subscriber {
	if id == "" {
		id = ulid.Make().String()
	}
	return &Subscriber{
		id:       id,
		queue:    make(chan Message, size),
		channels: make(map[string]struct{}),
		overflow: make(chan struct{}),
	}
}

// ID returns the subscriber identifier.
func (s *Subscriber) ID() string {
	return s.id
}

// Messages returns the queue of pending messages. It is closed by Hub.Close.
func (s *Subscriber) Messages() <-chan Message {
	return s.queue
}

// Overflowed is closed when a message could not be queued under the
// Disconnect policy.
func (s *Subscriber) Overflowed() <-chan struct{} {
	return s.overflow
}

func (s *Subscriber) markOverflow() {
	s.overflowOnce.Do(func() { close(s.overflow) })
}

func (s *Subscriber) sortedChannels() []string {
	names := make([]string, 0, len(s.channels))
	for name := range s.channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of channels sub is subscribed to.
func (h *Hub) Count(sub *Subscriber) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(sub.channels)
}

// SubscribedTo returns the channels of sub, sorted.
func (h *Hub) SubscribedTo(sub *Subscriber) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return sub.sortedChannels()
}
