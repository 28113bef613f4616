package guestentries

import (
	"context"
	"net/http"

	"github.com/goliatone/go-guestentries/entries"
	"github.com/goliatone/go-guestentries/internal/di"
	"github.com/goliatone/go-guestentries/internal/events"
	"github.com/goliatone/go-guestentries/internal/forms"
	"github.com/goliatone/go-guestentries/internal/submissions"
	"github.com/goliatone/go-guestentries/pkg/interfaces"
)

type (
	Entry      = entries.Entry
	Revision   = entries.Revision
	Collection = entries.Collection
	Blueprint  = entries.Blueprint
	Field      = entries.Field
	EntryEvent = interfaces.EntryEvent
	Submission = forms.Submission
	Upload     = forms.Upload
	Outcome    = submissions.Outcome
	Option     = di.Option
)

// Event names published after each successful submission.
const (
	EventEntryCreated = events.EntryCreated
	EventEntryUpdated = events.EntryUpdated
	EventEntryDeleted = events.EntryDeleted
)

var (
	WithLoggerProvider = di.WithLoggerProvider
	WithBunDB          = di.WithBunDB
	WithCache          = di.WithCache
	WithRepositories   = di.WithRepositories
	WithCollections    = di.WithCollections
	WithAssetContainer = di.WithAssetContainer
	WithValidator      = di.WithValidator
	WithUserResolver   = di.WithUserResolver
	WithSessionStore   = di.WithSessionStore
	WithClock          = di.WithClock
)

// NewSubmission builds a submission from plain values, mostly for hosts that
// feed entries from somewhere other than the bundled HTTP endpoints.
func NewSubmission(values map[string]any, opts ...forms.Option) Submission {
	return forms.New(values, opts...)
}

// Module is the guest entries entry point for host applications.
type Module struct {
	container *di.Container
}

// New wires the module from cfg.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Register mounts the public form endpoints on mux.
func (m *Module) Register(mux *http.ServeMux) error {
	return m.container.PublicAPI().Register(mux)
}

// Handler returns a standalone handler serving the form endpoints.
func (m *Module) Handler() (http.Handler, error) {
	return m.container.Handler()
}

// Subscribe streams entry events until ctx is done.
func (m *Module) Subscribe(ctx context.Context) <-chan EntryEvent {
	return m.container.Events().Subscribe(ctx)
}

// Listen registers a synchronous entry event hook.
func (m *Module) Listen(fn func(ctx context.Context, event EntryEvent)) {
	m.container.Events().Listen(fn)
}

// Create runs a create submission through the command pipeline.
func (m *Module) Create(ctx context.Context, sub Submission) error {
	return m.container.CreateHandler().Execute(ctx, createCommand(sub))
}

// Update runs an update submission through the command pipeline.
func (m *Module) Update(ctx context.Context, sub Submission) error {
	return m.container.UpdateHandler().Execute(ctx, updateCommand(sub))
}

// Delete runs a delete submission through the command pipeline.
func (m *Module) Delete(ctx context.Context, sub Submission) error {
	return m.container.DeleteHandler().Execute(ctx, deleteCommand(sub))
}

// Entry loads a stored entry by id.
func (m *Module) Entry(ctx context.Context, id string) (*Entry, error) {
	parsed, err := parseEntryID(id)
	if err != nil {
		return nil, err
	}
	return m.container.Repositories().Entries.GetByID(ctx, parsed)
}

// Revisions lists the working copies recorded for an entry.
func (m *Module) Revisions(ctx context.Context, id string) ([]*Revision, error) {
	parsed, err := parseEntryID(id)
	if err != nil {
		return nil, err
	}
	return m.container.Repositories().Revisions.ListByEntry(ctx, parsed)
}

// Close releases resources the module opened.
func (m *Module) Close() error {
	return m.container.Close()
}
