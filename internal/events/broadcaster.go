package events

import (
	"context"
	"sync"

	"github.com/goliatone/go-guestentries/pkg/interfaces"
)

// Entry event names.
const (
	EntryCreated = "guest_entry.created"
	EntryUpdated = "guest_entry.updated"
	EntryDeleted = "guest_entry.deleted"
)

// Listener is invoked synchronously for every published event.
type Listener func(ctx context.Context, event interfaces.EntryEvent)

// Broadcaster fans entry events out to channel subscribers and listeners.
// Channel sends never block; a subscriber that falls behind misses events.
type Broadcaster struct {
	mu        sync.Mutex
	watchers  map[uint64]chan interfaces.EntryEvent
	listeners []Listener
	nextID    uint64
	buffer    int
}

var _ interfaces.EventBus = (*Broadcaster)(nil)

// NewBroadcaster returns a broadcaster whose subscriber channels hold buffer
// events. A buffer below one is raised to one.
func NewBroadcaster(buffer int) *Broadcaster {
	if buffer < 1 {
		buffer = 1
	}
	return &Broadcaster{
		watchers: make(map[uint64]chan interfaces.EntryEvent),
		buffer:   buffer,
	}
}

// Subscribe returns a channel that receives events until ctx is done.
func (b *Broadcaster) Subscribe(ctx context.Context) <-chan interfaces.EntryEvent {
	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Err() != nil {
		ch := make(chan interfaces.EntryEvent)
		close(ch)
		return ch
	}
	ch := make(chan interfaces.EntryEvent, b.buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.watchers[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.watchers, id)
		close(ch)
		b.mu.Unlock()
	}()

	return ch
}

// Listen registers a synchronous listener.
func (b *Broadcaster) Listen(listener Listener) {
	if listener == nil {
		return
	}
	b.mu.Lock()
	b.listeners = append(b.listeners, listener)
	b.mu.Unlock()
}

// Publish delivers event to listeners, then to subscribers.
func (b *Broadcaster) Publish(ctx context.Context, event interfaces.EntryEvent) {
	b.mu.Lock()
	listeners := append([]Listener(nil), b.listeners...)
	b.mu.Unlock()

	for _, listener := range listeners {
		listener(ctx, event)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.watchers {
		select {
		case ch <- event:
		default:
		}
	}
}
