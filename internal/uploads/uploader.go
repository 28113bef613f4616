package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-guestentries/entries"
	"github.com/goliatone/go-guestentries/internal/fields"
	"github.com/goliatone/go-guestentries/internal/forms"
	"github.com/goliatone/go-guestentries/internal/logging"
	"github.com/goliatone/go-guestentries/pkg/interfaces"
)

// MaxNameAttempts bounds how many suffixed names are tried when the stored
// name is already taken.
const MaxNameAttempts = 100

// Uploader stores files submitted for asset fields.
type Uploader struct {
	containers   interfaces.AssetContainerRegistry
	logger       interfaces.Logger
	now          func() time.Time
	stripLeading bool
}

var _ fields.Uploader = (*Uploader)(nil)

// Option configures an Uploader.
type Option func(*Uploader)

// WithLogger overrides the uploads logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(u *Uploader) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// WithClock overrides the clock used to prefix stored file names.
func WithClock(now func() time.Time) Option {
	return func(u *Uploader) {
		if now != nil {
			u.now = now
		}
	}
}

// WithStripLeadingSlash controls whether stored paths drop their leading "/".
// Enabled by default.
func WithStripLeadingSlash(strip bool) Option {
	return func(u *Uploader) {
		u.stripLeading = strip
	}
}

// New constructs an uploader backed by the container registry.
func New(containers interfaces.AssetContainerRegistry, opts ...Option) *Uploader {
	u := &Uploader{
		containers:   containers,
		logger:       logging.NoOp(),
		now:          time.Now,
		stripLeading: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(u)
		}
	}
	return u
}

// Store writes every file to the field's container. It returns nil when no
// files were submitted, the path when exactly one was, and the list of paths
// otherwise.
func (u *Uploader) Store(ctx context.Context, field string, asset fields.Asset, files []*forms.Upload) (any, error) {
	handle := strings.TrimSpace(asset.Container)
	if handle == "" {
		return nil, entries.Misconfigured(field, "asset container not specified")
	}
	if len(files) == 0 {
		return nil, nil
	}
	if u.containers == nil {
		return nil, entries.Misconfigured(field, "asset containers are not configured")
	}
	container, err := u.containers.FindByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}

	logger := logging.WithFields(u.logger, map[string]any{
		"field":     field,
		"container": handle,
	})

	paths := make([]string, 0, len(files))
	for _, file := range files {
		if file == nil {
			continue
		}
		path, err := u.put(ctx, container, asset.Folder, file)
		if err != nil {
			logger.Error("uploads.store.failed", "file", file.Filename, "error", err)
			return nil, err
		}
		logger.Debug("uploads.store.success", "path", path, "size", file.Size)
		paths = append(paths, path)
	}

	switch len(paths) {
	case 0:
		return nil, nil
	case 1:
		return paths[0], nil
	default:
		return paths, nil
	}
}

func (u *Uploader) put(ctx context.Context, container interfaces.AssetContainer, folder string, file *forms.Upload) (string, error) {
	if file.Open == nil {
		return "", fmt.Errorf("uploads: %s has no content", file.Filename)
	}
	body, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("uploads: open %s: %w", file.Filename, err)
	}
	defer body.Close()

	path, err := u.putUnique(ctx, container, strings.Trim(strings.TrimSpace(folder), "/"), file.Filename, body)
	if err != nil {
		return "", err
	}
	if u.stripLeading {
		path = strings.TrimPrefix(path, "/")
	}
	return path, nil
}

// putUnique stores body as "<unix>-<name>", falling back to "<unix>-<stem>-<n><ext>"
// while the container reports the name as taken.
func (u *Uploader) putUnique(ctx context.Context, container interfaces.AssetContainer, folder, filename string, body io.Reader) (string, error) {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	prefix := u.now().Unix()

	for attempt := 0; attempt < MaxNameAttempts; attempt++ {
		name := fmt.Sprintf("%d-%s", prefix, base)
		if attempt > 0 {
			name = fmt.Sprintf("%d-%s-%d%s", prefix, stem, attempt, ext)
		}
		path, err := container.Put(ctx, folder, name, body)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		return path, err
	}
	return "", fmt.Errorf("uploads: no free name for %s after %d attempts", base, MaxNameAttempts)
}
