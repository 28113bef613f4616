package uploads

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-guestentries/entries"
	"github.com/goliatone/go-guestentries/internal/assets"
	"github.com/goliatone/go-guestentries/internal/fields"
	"github.com/goliatone/go-guestentries/internal/forms"
)

func textUpload(name, body string) *forms.Upload {
	return &forms.Upload{
		Filename: name,
		Size:     int64(len(body)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

func fixedClock() time.Time {
	return time.Unix(1700000000, 0)
}

func newUploader(t *testing.T, opts ...Option) *Uploader {
	t.Helper()
	registry := assets.NewRegistry(assets.NewDiskContainer("main", t.TempDir()))
	return New(registry, append([]Option{WithClock(fixedClock)}, opts...)...)
}

func TestStoreCardinality(t *testing.T) {
	uploader := newUploader(t)
	asset := fields.Asset{Container: "main", Folder: "photos"}
	ctx := context.Background()

	none, err := uploader.Store(ctx, "photo", asset, nil)
	if err != nil || none != nil {
		t.Fatalf("expected nil for zero files, got %#v, %v", none, err)
	}

	one, err := uploader.Store(ctx, "photo", asset, []*forms.Upload{textUpload("a.jpg", "a")})
	if err != nil {
		t.Fatalf("Store one: %v", err)
	}
	if one != "photos/1700000000-a.jpg" {
		t.Fatalf("expected single path, got %#v", one)
	}

	many, err := uploader.Store(ctx, "photo", asset, []*forms.Upload{
		textUpload("a.jpg", "a"),
		textUpload("b.jpg", "b"),
	})
	if err != nil {
		t.Fatalf("Store many: %v", err)
	}
	want := []string{"photos/1700000000-a.jpg", "photos/1700000000-b.jpg"}
	if !reflect.DeepEqual(many, want) {
		t.Fatalf("expected %v, got %#v", want, many)
	}
}

func TestStoreKeepsLeadingSlashWhenDisabled(t *testing.T) {
	uploader := newUploader(t, WithStripLeadingSlash(false))
	got, err := uploader.Store(context.Background(), "photo", fields.Asset{Container: "main"}, []*forms.Upload{textUpload("dir/a.jpg", "a")})
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if got != "/1700000000-a.jpg" {
		t.Fatalf("expected root path with slash, got %#v", got)
	}
}

func TestStoreWithoutContainerFailsBeforeIO(t *testing.T) {
	uploader := New(nil, WithClock(fixedClock))
	opened := false
	upload := &forms.Upload{
		Filename: "a.jpg",
		Open: func() (io.ReadCloser, error) {
			opened = true
			return io.NopCloser(strings.NewReader("a")), nil
		},
	}

	_, err := uploader.Store(context.Background(), "photo", fields.Asset{}, []*forms.Upload{upload})
	if !errors.Is(err, entries.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "asset container not specified") {
		t.Fatalf("unexpected message: %v", err)
	}
	if opened {
		t.Fatalf("expected no file to be opened")
	}
}

func TestStoreUnknownContainer(t *testing.T) {
	uploader := newUploader(t)
	_, err := uploader.Store(context.Background(), "photo", fields.Asset{Container: "missing"}, []*forms.Upload{textUpload("a.jpg", "a")})
	if !errors.Is(err, entries.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestStoreSameNameKeepsEveryFile(t *testing.T) {
	root := t.TempDir()
	uploader := New(assets.NewRegistry(assets.NewDiskContainer("main", root)), WithClock(fixedClock))
	asset := fields.Asset{Container: "main"}
	ctx := context.Background()

	got, err := uploader.Store(ctx, "photo", asset, []*forms.Upload{
		textUpload("image.jpg", "first"),
		textUpload("image.jpg", "second"),
	})
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	want := []string{"1700000000-image.jpg", "1700000000-image-1.jpg"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %#v", want, got)
	}

	later, err := uploader.Store(ctx, "photo", asset, []*forms.Upload{textUpload("image.jpg", "third")})
	if err != nil {
		t.Fatalf("Store later: %v", err)
	}
	if later != "1700000000-image-2.jpg" {
		t.Fatalf("expected next free name, got %#v", later)
	}

	for name, body := range map[string]string{
		"1700000000-image.jpg":   "first",
		"1700000000-image-1.jpg": "second",
		"1700000000-image-2.jpg": "third",
	} {
		data, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if string(data) != body {
			t.Fatalf("%s: expected %q, got %q", name, body, data)
		}
	}
}
