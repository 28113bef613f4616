package storage

import (
	"context"
	"fmt"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-guestentries/entries"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewEntryModelRepository creates the generic repository for entries.
func NewEntryModelRepository(db *bun.DB) repository.Repository[*entries.Entry] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*entries.Entry]{
		NewRecord:          func() *entries.Entry { return &entries.Entry{} },
		GetID:              func(e *entries.Entry) uuid.UUID { return e.ID },
		SetID:              func(e *entries.Entry, id uuid.UUID) { e.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(e *entries.Entry) string { return e.ID.String() },
	})
}

// NewRevisionModelRepository creates the generic repository for revisions.
func NewRevisionModelRepository(db *bun.DB) repository.Repository[*entries.Revision] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*entries.Revision]{
		NewRecord:          func() *entries.Revision { return &entries.Revision{} },
		GetID:              func(r *entries.Revision) uuid.UUID { return r.ID },
		SetID:              func(r *entries.Revision, id uuid.UUID) { r.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(r *entries.Revision) string { return r.ID.String() },
	})
}

// NewBunRepositories returns bun backed repositories. Entry reads go through
// the cache when both cacheService and serializer are provided.
func NewBunRepositories(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) Repositories {
	return Repositories{
		Entries:   NewBunEntryRepositoryWithCache(db, cacheService, serializer),
		Revisions: NewBunRevisionRepository(db),
	}
}

// BunEntryRepository implements EntryRepository with optional caching.
type BunEntryRepository struct {
	repo repository.Repository[*entries.Entry]
}

// NewBunEntryRepository creates an entry repository without caching.
func NewBunEntryRepository(db *bun.DB) *BunEntryRepository {
	return NewBunEntryRepositoryWithCache(db, nil, nil)
}

// NewBunEntryRepositoryWithCache creates an entry repository with caching.
func NewBunEntryRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunEntryRepository {
	base := NewEntryModelRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunEntryRepository{repo: base}
}

func (r *BunEntryRepository) Create(ctx context.Context, entry *entries.Entry) (*entries.Entry, error) {
	record, err := r.repo.Create(ctx, entry)
	if err != nil {
		return nil, mapRepositoryError(err, resourceEntry, entry.ID.String())
	}
	return record, nil
}

func (r *BunEntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entries.Entry, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, resourceEntry, id.String())
	}
	return record, nil
}

func (r *BunEntryRepository) Update(ctx context.Context, entry *entries.Entry) (*entries.Entry, error) {
	record, err := r.repo.Update(ctx, entry)
	if err != nil {
		return nil, mapRepositoryError(err, resourceEntry, entry.ID.String())
	}
	return record, nil
}

func (r *BunEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &entries.Entry{ID: id}); err != nil {
		return mapRepositoryError(err, resourceEntry, id.String())
	}
	return nil
}

// BunRevisionRepository implements RevisionRepository.
type BunRevisionRepository struct {
	repo repository.Repository[*entries.Revision]
}

// NewBunRevisionRepository creates a revision repository.
func NewBunRevisionRepository(db *bun.DB) *BunRevisionRepository {
	return &BunRevisionRepository{repo: NewRevisionModelRepository(db)}
}

func (r *BunRevisionRepository) Create(ctx context.Context, revision *entries.Revision) (*entries.Revision, error) {
	record, err := r.repo.Create(ctx, revision)
	if err != nil {
		return nil, mapRepositoryError(err, resourceRevision, revision.ID.String())
	}
	return record, nil
}

func (r *BunRevisionRepository) ListByEntry(ctx context.Context, entryID uuid.UUID) ([]*entries.Revision, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.entry_id = ?", entryID).OrderExpr("?TableAlias.created_at ASC")
	}))
	return records, err
}

func (r *BunRevisionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &entries.Revision{ID: id}); err != nil {
		return mapRepositoryError(err, resourceRevision, id.String())
	}
	return nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if errors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return entries.NotFound(resource, key)
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
