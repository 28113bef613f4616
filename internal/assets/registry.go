package assets

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/go-guestentries/entries"
	"github.com/goliatone/go-guestentries/pkg/interfaces"
)

// Registry resolves asset containers by handle.
type Registry struct {
	mu         sync.RWMutex
	containers map[string]interfaces.AssetContainer
}

var _ interfaces.AssetContainerRegistry = (*Registry)(nil)

// NewRegistry returns a registry holding the supplied containers.
func NewRegistry(containers ...interfaces.AssetContainer) *Registry {
	r := &Registry{containers: make(map[string]interfaces.AssetContainer, len(containers))}
	for _, c := range containers {
		r.Register(c)
	}
	return r
}

// Register adds or replaces a container.
func (r *Registry) Register(container interfaces.AssetContainer) {
	if container == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.containers[strings.TrimSpace(container.Handle())] = container
}

// FindByHandle returns the container or a configuration error when the
// handle is not registered.
func (r *Registry) FindByHandle(_ context.Context, handle string) (interfaces.AssetContainer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	container, ok := r.containers[strings.TrimSpace(handle)]
	if !ok {
		return nil, entries.Misconfigured(handle, "asset container is not registered")
	}
	return container, nil
}
