// Package events broadcasts store change notifications to subscribers.
package events

import (
	"sync"

	"github.com/kovin-ide/kovin/internal/models"
)

// Store names used as Event.Store
const (
	StoreProject  = "project"
	StoreFile     = "file"
	StoreAccount  = "account"
	StoreTerminal = "terminal"
	StoreAuth     = "auth"
)

// Event describes one committed store mutation
type Event struct {
	Store     string `json:"store"`
	Kind      string `json:"kind"`
	ProjectID string `json:"projectId,omitempty"`
	At        int64  `json:"at"`
}

// Publisher is implemented by anything that accepts events
type Publisher interface {
	Publish(Event)
}

// Bus fans events out to subscribers. Publish never blocks: a subscriber
// whose buffer is full misses the event.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	buffer int
}

// NewBus creates a new event bus with the given per-subscriber buffer
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 64
	}
	return &Bus{
		subs:   make(map[int]chan Event),
		buffer: buffer,
	}
}

// Publish delivers e to every subscriber
func (b *Bus) Publish(e Event) {
	if e.At == 0 {
		e.At = models.NowMillis()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a subscriber. The returned function unsubscribes and
// closes the channel; it is safe to call more than once.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, b.buffer)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
}

// Subscribers returns the number of active subscribers
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Discard is a Publisher that drops every event
type Discard struct{}

// Publish implements Publisher
func (Discard) Publish(Event) {}
