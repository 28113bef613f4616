package storage

import (
	"context"

	"github.com/goliatone/go-guestentries/entries"
	"github.com/google/uuid"
)

// EntryRepository persists guest entries.
type EntryRepository interface {
	Create(ctx context.Context, entry *entries.Entry) (*entries.Entry, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entries.Entry, error)
	Update(ctx context.Context, entry *entries.Entry) (*entries.Entry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RevisionRepository persists working copies awaiting approval.
type RevisionRepository interface {
	Create(ctx context.Context, revision *entries.Revision) (*entries.Revision, error)
	ListByEntry(ctx context.Context, entryID uuid.UUID) ([]*entries.Revision, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repositories groups the repositories used by the submission service.
type Repositories struct {
	Entries   EntryRepository
	Revisions RevisionRepository
}

const (
	resourceEntry    = "guest_entry"
	resourceRevision = "guest_entry_revision"
)
