package events

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-guestentries/entries"
	"github.com/goliatone/go-guestentries/pkg/interfaces"
)

func TestBroadcasterDeliversToListenersAndSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBroadcaster(2)
	ch := b.Subscribe(ctx)

	var heard []string
	b.Listen(func(_ context.Context, event interfaces.EntryEvent) {
		heard = append(heard, event.Name)
	})

	b.Publish(ctx, interfaces.EntryEvent{Name: EntryCreated, Entry: entries.NewEntry("albums", "default")})

	if len(heard) != 1 || heard[0] != EntryCreated {
		t.Fatalf("expected listener to hear the event, got %v", heard)
	}
	select {
	case event := <-ch:
		if event.Name != EntryCreated {
			t.Fatalf("unexpected event %q", event.Name)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for event")
	}
}

func TestBroadcasterDropsWhenSubscriberIsFull(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := NewBroadcaster(1)
	ch := b.Subscribe(ctx)

	b.Publish(ctx, interfaces.EntryEvent{Name: EntryCreated})
	b.Publish(ctx, interfaces.EntryEvent{Name: EntryUpdated})

	if event := <-ch; event.Name != EntryCreated {
		t.Fatalf("expected first event to be kept, got %q", event.Name)
	}
	select {
	case event := <-ch:
		t.Fatalf("expected second event to be dropped, got %q", event.Name)
	default:
	}
}

func TestBroadcasterClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := NewBroadcaster(1)
	ch := b.Subscribe(ctx)
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatalf("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for close")
	}
}
