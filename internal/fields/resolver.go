package fields

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-guestentries/entries"
	"github.com/goliatone/go-guestentries/internal/forms"
)

// Uploader persists uploaded files for an asset field and returns nil, a
// single path, or a list of paths depending on how many files were stored.
type Uploader interface {
	Store(ctx context.Context, field string, asset Asset, files []*forms.Upload) (any, error)
}

// Resolver turns a submitted value into the value stored on the entry.
type Resolver struct {
	uploader Uploader
	location *time.Location
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithUploader sets the uploader used for asset fields.
func WithUploader(uploader Uploader) ResolverOption {
	return func(r *Resolver) {
		r.uploader = uploader
	}
}

// WithLocation sets the location used to parse dates without a zone.
func WithLocation(loc *time.Location) ResolverOption {
	return func(r *Resolver) {
		if loc != nil {
			r.location = loc
		}
	}
}

// NewResolver constructs a resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{location: time.UTC}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Resolve returns the normalized value for name.
func (r *Resolver) Resolve(ctx context.Context, name string, desc Descriptor, sub forms.Submission) (any, error) {
	switch d := desc.(type) {
	case nil:
		return sub.Value(name), nil
	case Plain:
		return sub.Value(name), nil
	case Unknown:
		return sub.Value(name), nil
	case Asset:
		if r.uploader == nil {
			return nil, entries.Misconfigured(name, "file uploads are not configured")
		}
		return r.uploader.Store(ctx, name, d, sub.Files(name))
	case Date:
		return NormalizeDate(sub.String(name), d.Format, r.location)
	default:
		panic(fmt.Sprintf("fields: unhandled descriptor %T", desc))
	}
}
