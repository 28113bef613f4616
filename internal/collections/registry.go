package collections

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-guestentries/entries"
	"github.com/goliatone/go-guestentries/internal/identity"
	"github.com/google/uuid"
)

// Registry holds collections in memory, keyed by handle.
type Registry struct {
	mu       sync.RWMutex
	byHandle map[string]*entries.Collection
}

// NewRegistry seeds a registry with collections.
func NewRegistry(collections ...*entries.Collection) *Registry {
	r := &Registry{byHandle: make(map[string]*entries.Collection, len(collections))}
	for _, collection := range collections {
		r.Register(collection)
	}
	return r
}

// Register adds or replaces a collection. Collections without an ID get one
// derived from their handle.
func (r *Registry) Register(collection *entries.Collection) {
	if collection == nil {
		return
	}
	handle := strings.TrimSpace(collection.Handle)
	if handle == "" {
		return
	}
	copied := *collection
	copied.Handle = handle
	if copied.ID == uuid.Nil {
		copied.ID = identity.CollectionUUID(handle)
	}

	r.mu.Lock()
	r.byHandle[handle] = &copied
	r.mu.Unlock()
}

// FindByHandle returns the collection or a not found error.
func (r *Registry) FindByHandle(_ context.Context, handle string) (*entries.Collection, error) {
	handle = strings.TrimSpace(handle)

	r.mu.RLock()
	collection, ok := r.byHandle[handle]
	r.mu.RUnlock()

	if !ok || handle == "" {
		return nil, entries.NotFound("collection", handle)
	}
	copied := *collection
	return &copied, nil
}

// Handles lists registered handles in sorted order.
func (r *Registry) Handles() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handles := make([]string, 0, len(r.byHandle))
	for handle := range r.byHandle {
		handles = append(handles, handle)
	}
	sort.Strings(handles)
	return handles
}
