package interfaces

import (
	"context"
	"time"

	"github.com/goliatone/go-guestentries/entries"
)

// EntryEvent is emitted after a guest submission changed an entry. Entry is a
// snapshot taken when the event was raised; listeners must not mutate it.
type EntryEvent struct {
	Name       string
	Entry      *entries.Entry
	OccurredAt time.Time
}

// EventBus dispatches entry events. Publishing is fire-and-forget: the
// submission pipeline never waits for listeners to acknowledge.
type EventBus interface {
	Publish(ctx context.Context, event EntryEvent)
}
