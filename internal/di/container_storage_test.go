package di

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/goliatone/go-guestentries/entries"
	"github.com/goliatone/go-guestentries/internal/forms"
	"github.com/goliatone/go-guestentries/internal/runtimeconfig"
	"github.com/goliatone/go-guestentries/internal/storage"
)

func TestContainer_OpensSQLiteAndEnsuresSchema(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "noop"
	cfg.Collections = map[string]bool{"albums": true}
	cfg.Storage.Driver = "sqlite3"
	cfg.Storage.DSN = fmt.Sprintf("file:di_container_%d?mode=memory&cache=shared&_fk=1", time.Now().UnixNano())

	container, err := NewContainer(cfg, WithCollections(&entries.Collection{Handle: "albums"}))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if container.bunDB == nil || !container.ownsDB {
		t.Fatal("expected container to open its own database")
	}
	if container.cacheService == nil {
		t.Fatal("expected cache service to be configured")
	}
	if _, ok := container.Repositories().Entries.(*storage.BunEntryRepository); !ok {
		t.Fatalf("expected bun entry repository, got %T", container.Repositories().Entries)
	}

	ctx := context.Background()
	outcome, err := container.Service().Create(ctx, forms.New(map[string]any{
		"_collection": "albums",
		"title":       "A Love Supreme",
	}))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	stored, err := container.Repositories().Entries.GetByID(ctx, outcome.Entry.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if stored.Slug != "a-love-supreme" {
		t.Fatalf("expected slug a-love-supreme, got %q", stored.Slug)
	}
}

func TestContainer_RejectsUnknownDriverAtValidation(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = "oracle"

	if _, err := NewContainer(cfg); err == nil {
		t.Fatal("expected NewContainer to fail for unknown driver")
	}
}
