package di_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-guestentries/entries"
	"github.com/goliatone/go-guestentries/internal/commands/fixtures"
	guestentrycmd "github.com/goliatone/go-guestentries/internal/commands/guestentry"
	"github.com/goliatone/go-guestentries/internal/di"
	"github.com/goliatone/go-guestentries/internal/forms"
	"github.com/goliatone/go-guestentries/internal/runtimeconfig"
	"github.com/goliatone/go-guestentries/pkg/interfaces"
)

func newCommandContainer(t *testing.T) *di.Container {
	t.Helper()
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = "memory"
	cfg.Logging.Provider = "noop"

	container, err := di.NewContainer(cfg, di.WithCollections(&entries.Collection{Handle: "notes"}))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	return container
}

func TestRegisterCommands_RecordsHandlers(t *testing.T) {
	container := newCommandContainer(t)
	registry := fixtures.NewRecordingRegistry()
	recorder := fixtures.NewRecordingDispatcher()

	result, err := container.RegisterCommands(di.RegistrationOptions{
		Registry:   registry,
		Dispatcher: recorder,
	})
	if err != nil {
		t.Fatalf("RegisterCommands returned error: %v", err)
	}
	if len(result.Handlers) != 3 || len(registry.Handlers) != 3 || len(recorder.Handlers) != 3 {
		t.Fatalf("expected three handlers everywhere, got %d/%d/%d", len(result.Handlers), len(registry.Handlers), len(recorder.Handlers))
	}
	if _, ok := registry.Handlers[2].(*guestentrycmd.DeleteEntryHandler); !ok {
		t.Fatalf("expected delete handler last, got %T", registry.Handlers[2])
	}

	result.Unsubscribe()
	for _, sub := range recorder.Subscriptions {
		if !sub.Unsubscribed {
			t.Fatal("expected every subscription to be released")
		}
	}
}

func TestRegisterCommands_JoinsErrors(t *testing.T) {
	container := newCommandContainer(t)
	boom := errors.New("registry offline")
	registry := fixtures.NewRecordingRegistry()
	registry.Err = boom

	_, err := container.RegisterCommands(di.RegistrationOptions{Registry: registry})
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined registry error, got %v", err)
	}
}

func TestGoCommandDispatcher_DispatchesDelete(t *testing.T) {
	container := newCommandContainer(t)
	ctx := context.Background()

	var created *entries.Entry
	container.Events().Listen(func(_ context.Context, event interfaces.EntryEvent) {
		if event.Name == "guest_entry.created" {
			created = event.Entry
		}
	})

	result, err := container.RegisterCommands(di.RegistrationOptions{Dispatcher: di.GoCommandDispatcher{}})
	if err != nil {
		t.Fatalf("RegisterCommands returned error: %v", err)
	}
	t.Cleanup(result.Unsubscribe)

	if err := container.CreateHandler().Execute(ctx, guestentrycmd.CreateEntryCommand{
		Submission: forms.New(map[string]any{"_collection": "notes", "title": "Remember the milk"}),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if created == nil {
		t.Fatal("expected created entry")
	}

	if err := dispatcher.Dispatch(ctx, guestentrycmd.NewDeleteEntryCommand("notes", created.ID)); err != nil {
		t.Fatalf("dispatch delete: %v", err)
	}
	if _, err := container.Repositories().Entries.GetByID(ctx, created.ID); !errors.Is(err, entries.ErrNotFound) {
		t.Fatalf("expected entry to be gone, got %v", err)
	}

	if _, err := (di.GoCommandDispatcher{}).RegisterCommand("nope"); err == nil {
		t.Fatal("expected unsupported handler error")
	}
}
