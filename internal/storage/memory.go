package storage

import (
	"context"
	"sync"

	"github.com/goliatone/go-guestentries/entries"
	"github.com/google/uuid"
)

// NewMemoryRepositories returns in-memory entry and revision repositories.
func NewMemoryRepositories() Repositories {
	return Repositories{
		Entries:   NewMemoryEntryRepository(),
		Revisions: NewMemoryRevisionRepository(),
	}
}

// NewMemoryEntryRepository constructs an in-memory entry repository.
func NewMemoryEntryRepository() EntryRepository {
	return &memoryEntryRepository{byID: make(map[uuid.UUID]*entries.Entry)}
}

type memoryEntryRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*entries.Entry
}

func (m *memoryEntryRepository) Create(_ context.Context, entry *entries.Entry) (*entries.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := entry.Clone()
	if cloned.ID == uuid.Nil {
		cloned.ID = uuid.New()
	}
	m.byID[cloned.ID] = cloned
	return cloned.Clone(), nil
}

func (m *memoryEntryRepository) GetByID(_ context.Context, id uuid.UUID) (*entries.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, entries.NotFound(resourceEntry, id.String())
	}
	return record.Clone(), nil
}

func (m *memoryEntryRepository) Update(_ context.Context, entry *entries.Entry) (*entries.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[entry.ID]; !ok {
		return nil, entries.NotFound(resourceEntry, entry.ID.String())
	}
	cloned := entry.Clone()
	m.byID[cloned.ID] = cloned
	return cloned.Clone(), nil
}

func (m *memoryEntryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[id]; !ok {
		return entries.NotFound(resourceEntry, id.String())
	}
	delete(m.byID, id)
	return nil
}

// NewMemoryRevisionRepository constructs an in-memory revision repository.
func NewMemoryRevisionRepository() RevisionRepository {
	return &memoryRevisionRepository{byEntry: make(map[uuid.UUID][]*entries.Revision)}
}

type memoryRevisionRepository struct {
	mu      sync.RWMutex
	byEntry map[uuid.UUID][]*entries.Revision
}

func (m *memoryRevisionRepository) Create(_ context.Context, revision *entries.Revision) (*entries.Revision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneRevision(revision)
	if cloned.ID == uuid.Nil {
		cloned.ID = uuid.New()
	}
	m.byEntry[cloned.EntryID] = append(m.byEntry[cloned.EntryID], cloned)
	return cloneRevision(cloned), nil
}

func (m *memoryRevisionRepository) ListByEntry(_ context.Context, entryID uuid.UUID) ([]*entries.Revision, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := m.byEntry[entryID]
	out := make([]*entries.Revision, 0, len(records))
	for _, record := range records {
		out = append(out, cloneRevision(record))
	}
	return out, nil
}

func (m *memoryRevisionRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for entryID, records := range m.byEntry {
		for i, record := range records {
			if record.ID != id {
				continue
			}
			m.byEntry[entryID] = append(records[:i:i], records[i+1:]...)
			return nil
		}
	}
	return entries.NotFound(resourceRevision, id.String())
}

func cloneRevision(rev *entries.Revision) *entries.Revision {
	if rev == nil {
		return nil
	}
	copied := *rev
	copied.Data = entries.CloneData(rev.Data)
	if rev.Date != nil {
		date := *rev.Date
		copied.Date = &date
	}
	if rev.UserID != nil {
		user := *rev.UserID
		copied.UserID = &user
	}
	return &copied
}
