package submissions

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-guestentries/entries"
	"github.com/goliatone/go-guestentries/internal/events"
	"github.com/goliatone/go-guestentries/internal/fields"
	"github.com/goliatone/go-guestentries/internal/forms"
	"github.com/goliatone/go-guestentries/internal/logging"
	"github.com/goliatone/go-guestentries/internal/storage"
	"github.com/goliatone/go-guestentries/pkg/interfaces"
	"github.com/google/uuid"
)

// RevisionMessage is recorded on working copies created by guest updates.
const RevisionMessage = "Guest Entry Updated"

// DefaultLocale is used when a submission does not name a site.
const DefaultLocale = "default"

const (
	actionCreate = "create"
	actionUpdate = "update"
	actionDelete = "delete"
)

// CollectionRegistry resolves collections by handle.
type CollectionRegistry interface {
	FindByHandle(ctx context.Context, handle string) (*entries.Collection, error)
}

// Outcome describes the result of a submission. Ignored is set when the
// honeypot tripped; callers must answer exactly as they would on success.
type Outcome struct {
	Entry   *entries.Entry
	Ignored bool
}

// Service runs guest create, update and delete submissions.
type Service struct {
	collections CollectionRegistry
	entries     storage.EntryRepository
	revisions   storage.RevisionRepository
	events      interfaces.EventBus
	uploader    fields.Uploader
	resolver    *fields.Resolver
	logger      interfaces.Logger
	honeypot    string
	location    *time.Location
	now         func() time.Time
	id          func() uuid.UUID
}

// ServiceOption customises the service.
type ServiceOption func(*Service)

// WithClock overrides the clock.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how entry and revision ids are generated.
func WithIDGenerator(id func() uuid.UUID) ServiceOption {
	return func(s *Service) {
		if id != nil {
			s.id = id
		}
	}
}

// WithHoneypot sets the honeypot field name. Empty disables the guard.
func WithHoneypot(field string) ServiceOption {
	return func(s *Service) {
		s.honeypot = strings.TrimSpace(field)
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDateLocation sets the location used to interpret submitted dates.
func WithDateLocation(loc *time.Location) ServiceOption {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithEventBus sets the bus entry events are published to.
func WithEventBus(bus interfaces.EventBus) ServiceOption {
	return func(s *Service) {
		s.events = bus
	}
}

// WithUploader sets the uploader used for asset fields.
func WithUploader(uploader fields.Uploader) ServiceOption {
	return func(s *Service) {
		s.uploader = uploader
	}
}

// NewService constructs the submission service.
func NewService(collections CollectionRegistry, repos storage.Repositories, opts ...ServiceOption) *Service {
	s := &Service{
		collections: collections,
		entries:     repos.Entries,
		revisions:   repos.Revisions,
		logger:      logging.NoOp(),
		location:    time.UTC,
		now:         time.Now,
		id:          uuid.New,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	resolverOpts := []fields.ResolverOption{fields.WithLocation(s.location)}
	if s.uploader != nil {
		resolverOpts = append(resolverOpts, fields.WithUploader(s.uploader))
	}
	s.resolver = fields.NewResolver(resolverOpts...)
	return s
}

// Create builds a new unpublished entry from the submission.
func (s *Service) Create(ctx context.Context, sub forms.Submission) (*Outcome, error) {
	logger := s.contextLogger(ctx, sub, actionCreate, "")
	if !HoneypotPassed(sub, s.honeypot) {
		logger.Info("submissions.create.honeypot")
		return &Outcome{Ignored: true}, nil
	}

	collection, err := s.collections.FindByHandle(ctx, sub.String(forms.KeyCollection))
	if err != nil {
		logger.Warn("submissions.create.collection_missing", "error", err)
		return nil, err
	}

	entry := entries.NewEntry(collection.Handle, localeFor(sub))
	entry.ID = s.id()
	entry.Slug = slugFor(sub)

	var date *time.Time
	if collection.IsDated() {
		date, err = s.reserveDate(sub)
		if err != nil {
			return nil, err
		}
	}

	if sub.HasValue(forms.KeyPublished) {
		entry.Published = parsePublished(sub.String(forms.KeyPublished))
	}

	if err := s.resolveInto(ctx, logger, collection, sub, entry.Data); err != nil {
		logger.Error("submissions.create.failed", "error", err)
		return nil, err
	}
	if date != nil {
		entry.Date = date
	}

	now := s.now()
	entry.CreatedAt = now
	entry.Touch(now)

	saved, err := s.entries.Create(ctx, entry)
	if err != nil {
		logger.Error("submissions.create.failed", "error", err)
		return nil, err
	}

	logging.WithSubmissionContext(logger, "", "", saved.ID.String()).Info("submissions.create.success")
	s.publish(ctx, events.EntryCreated, saved)
	return &Outcome{Entry: saved}, nil
}

// Update merges the submission into an existing entry, or records a
// working copy when the collection has revisions enabled.
func (s *Service) Update(ctx context.Context, sub forms.Submission) (*Outcome, error) {
	logger := s.contextLogger(ctx, sub, actionUpdate, sub.String(forms.KeyID))
	if !HoneypotPassed(sub, s.honeypot) {
		logger.Info("submissions.update.honeypot")
		return &Outcome{Ignored: true}, nil
	}

	entry, collection, err := s.load(ctx, sub)
	if err != nil {
		logger.Warn("submissions.update.lookup_failed", "error", err)
		return nil, err
	}

	data := entries.CloneData(entry.Data)

	if sub.HasValue(forms.KeySlug) {
		entry.Slug = sub.String(forms.KeySlug)
	}
	if sub.HasValue(forms.KeyPublished) {
		entry.Published = parsePublished(sub.String(forms.KeyPublished))
	}

	if err := s.resolveInto(ctx, logger, collection, sub, data); err != nil {
		logger.Error("submissions.update.failed", "error", err)
		return nil, err
	}

	var date *time.Time
	if collection.IsDated() && sub.HasValue(forms.KeyDate) {
		date, err = ParseSubmittedDate(sub.String(forms.KeyDate), s.location)
		if err != nil {
			return nil, err
		}
	}

	now := s.now()
	var saved *entries.Entry
	if collection.RevisionsEnabled() {
		saved, err = s.saveRevision(ctx, logger, sub, entry, data, date, now)
	} else {
		entry.Data = data
		if date != nil {
			entry.Date = date
		}
		entry.Touch(now)
		saved, err = s.entries.Update(ctx, entry)
	}
	if err != nil {
		logger.Error("submissions.update.failed", "error", err)
		return nil, err
	}

	logger.Info("submissions.update.success", "revision", collection.RevisionsEnabled())
	s.publish(ctx, events.EntryUpdated, saved)
	return &Outcome{Entry: saved}, nil
}

// Delete removes the entry named by the submission.
func (s *Service) Delete(ctx context.Context, sub forms.Submission) (*Outcome, error) {
	logger := s.contextLogger(ctx, sub, actionDelete, sub.String(forms.KeyID))
	if !HoneypotPassed(sub, s.honeypot) {
		logger.Info("submissions.delete.honeypot")
		return &Outcome{Ignored: true}, nil
	}

	entry, _, err := s.load(ctx, sub)
	if err != nil {
		logger.Warn("submissions.delete.lookup_failed", "error", err)
		return nil, err
	}
	if err := s.entries.Delete(ctx, entry.ID); err != nil {
		logger.Error("submissions.delete.failed", "error", err)
		return nil, err
	}

	logger.Info("submissions.delete.success")
	s.publish(ctx, events.EntryDeleted, entry)
	return &Outcome{Entry: entry}, nil
}

// saveRevision stores data and date on a revision, then persists entry with
// its slug and published flag but its live data and date unchanged. The
// revision is removed again when the entry cannot be saved.
func (s *Service) saveRevision(ctx context.Context, logger interfaces.Logger, sub forms.Submission, entry *entries.Entry, data map[string]any, date *time.Time, now time.Time) (*entries.Entry, error) {
	if s.revisions == nil {
		return nil, entries.Misconfigured("revisions", "revision storage is not configured")
	}

	revision := entries.MakeWorkingCopy(entry)
	revision.ID = s.id()
	revision.Data = data
	if date != nil {
		revision.Date = date
	}
	if user := sub.UserID(); user != "" {
		revision.UserID = &user
	}
	revision.Message = RevisionMessage
	revision.Action = entries.RevisionActionRevision
	revision.CreatedAt = now

	created, err := s.revisions.Create(ctx, revision)
	if err != nil {
		return nil, err
	}

	entry.HasWorkingCopy = true
	entry.UpdatedAt = now
	saved, err := s.entries.Update(ctx, entry)
	if err != nil {
		if rbErr := s.revisions.Delete(ctx, created.ID); rbErr != nil {
			logger.Error("submissions.update.revision_rollback_failed", "revision_id", created.ID.String(), "error", rbErr)
		}
		return nil, err
	}
	return saved, nil
}

// load fetches the entry named by _id and checks it belongs to _collection.
func (s *Service) load(ctx context.Context, sub forms.Submission) (*entries.Entry, *entries.Collection, error) {
	raw := strings.TrimSpace(sub.String(forms.KeyID))
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, nil, entries.NotFound("entry", raw)
	}
	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if entry.Collection != strings.TrimSpace(sub.String(forms.KeyCollection)) {
		return nil, nil, entries.NotFound("entry", raw)
	}
	collection, err := s.collections.FindByHandle(ctx, entry.Collection)
	if err != nil {
		return nil, nil, err
	}
	return entry, collection, nil
}

// resolveInto resolves every non reserved key in sorted order and writes the
// results into data. The first failure aborts the whole loop.
func (s *Service) resolveInto(ctx context.Context, logger interfaces.Logger, collection *entries.Collection, sub forms.Submission, data map[string]any) error {
	for _, key := range sub.Keys() {
		if IsReserved(key, collection) || key == s.honeypot {
			continue
		}
		desc := fields.Describe(collection.Field(key))
		_, isAsset := desc.(fields.Asset)
		if !isAsset && !sub.HasValue(key) {
			logger.Warn("submissions.field.unexpected_files", "field", key)
			continue
		}

		value, err := s.resolver.Resolve(ctx, key, desc, sub)
		if err != nil {
			return err
		}
		if isAsset && value == nil {
			continue
		}
		data[key] = value
	}
	return nil
}

func (s *Service) reserveDate(sub forms.Submission) (*time.Time, error) {
	raw := strings.TrimSpace(sub.String(forms.KeyDate))
	if raw == "" {
		now := s.now().In(s.location)
		return &now, nil
	}
	return ParseSubmittedDate(raw, s.location)
}

func (s *Service) publish(ctx context.Context, name string, entry *entries.Entry) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, interfaces.EntryEvent{
		Name:       name,
		Entry:      entry.Clone(),
		OccurredAt: s.now(),
	})
}

func (s *Service) contextLogger(ctx context.Context, sub forms.Submission, action, entryID string) interfaces.Logger {
	logger := logging.FromContext(ctx, s.logger)
	return logging.WithSubmissionContext(logger, sub.String(forms.KeyCollection), action, entryID)
}

// ParseSubmittedDate parses a reserved date value.
func ParseSubmittedDate(raw string, loc *time.Location) (*time.Time, error) {
	parsed, err := fields.ParseDate(raw, loc)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func slugFor(sub forms.Submission) string {
	if sub.HasValue(forms.KeySlug) {
		return sub.String(forms.KeySlug)
	}
	return entries.Slugify(sub.String(forms.KeyTitle))
}

func localeFor(sub forms.Submission) string {
	if site := sub.Site(); site != "" {
		return site
	}
	return DefaultLocale
}
