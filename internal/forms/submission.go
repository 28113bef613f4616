package forms

import (
	"io"
	"maps"
	"mime/multipart"
	"net/http"
	"slices"
	"strings"
)

// DefaultMaxMemory bounds the multipart payload kept in memory while parsing.
const DefaultMaxMemory int64 = 32 << 20

// Upload is one uploaded file as received from the form.
type Upload struct {
	Filename    string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// Submission is a flat, read-only view of a submitted form. Values are either
// a string or, for inputs named "key[]", a []string. Files are kept per key.
type Submission struct {
	values map[string]any
	files  map[string][]*Upload
	site   string
	userID string
}

// Option customises a Submission at construction time.
type Option func(*Submission)

// WithFile attaches uploads to key.
func WithFile(key string, uploads ...*Upload) Option {
	return func(s *Submission) {
		if len(uploads) == 0 {
			return
		}
		s.files[key] = append(s.files[key], uploads...)
	}
}

// WithSite records the site handle the submission was made from.
func WithSite(handle string) Option {
	return func(s *Submission) {
		s.site = strings.TrimSpace(handle)
	}
}

// WithUser records the acting user, when the host knows one.
func WithUser(id string) Option {
	return func(s *Submission) {
		s.userID = strings.TrimSpace(id)
	}
}

// New builds a submission from plain values (string or []string).
func New(values map[string]any, opts ...Option) Submission {
	sub := Submission{
		values: make(map[string]any, len(values)),
		files:  map[string][]*Upload{},
	}
	for key, value := range values {
		switch typed := value.(type) {
		case []string:
			sub.values[key] = slices.Clone(typed)
		default:
			sub.values[key] = value
		}
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&sub)
		}
	}
	return sub
}

// FromRequest parses an urlencoded or multipart request body. Inputs named
// "key[]" are exposed under "key" as lists; for other repeated keys the last
// value wins.
func FromRequest(r *http.Request, maxMemory int64, opts ...Option) (Submission, error) {
	if maxMemory <= 0 {
		maxMemory = DefaultMaxMemory
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return Submission{}, err
		}
	} else if err := r.ParseForm(); err != nil {
		return Submission{}, err
	}

	values := make(map[string]any, len(r.PostForm))
	for key, list := range r.PostForm {
		if name, ok := strings.CutSuffix(key, "[]"); ok {
			values[name] = slices.Clone(list)
			continue
		}
		if len(list) > 0 {
			values[key] = list[len(list)-1]
		}
	}

	if r.MultipartForm != nil {
		for key, headers := range r.MultipartForm.File {
			name := strings.TrimSuffix(key, "[]")
			uploads := make([]*Upload, 0, len(headers))
			for _, header := range headers {
				uploads = append(uploads, uploadFromHeader(header))
			}
			opts = append(opts, WithFile(name, uploads...))
		}
	}
	return New(values, opts...), nil
}

func uploadFromHeader(header *multipart.FileHeader) *Upload {
	return &Upload{
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return header.Open()
		},
	}
}

// Has reports whether key was submitted as a value or a file.
func (s Submission) Has(key string) bool {
	if _, ok := s.values[key]; ok {
		return true
	}
	_, ok := s.files[key]
	return ok
}

// HasValue reports whether key was submitted as a non-file value.
func (s Submission) HasValue(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Value returns the raw submitted value.
func (s Submission) Value(key string) any {
	value := s.values[key]
	if list, ok := value.([]string); ok {
		return slices.Clone(list)
	}
	return value
}

// String returns the value as a string; lists yield their first element.
func (s Submission) String(key string) string {
	switch typed := s.values[key].(type) {
	case string:
		return typed
	case []string:
		if len(typed) > 0 {
			return typed[0]
		}
	}
	return ""
}

// Files returns the uploads submitted under key.
func (s Submission) Files(key string) []*Upload {
	return slices.Clone(s.files[key])
}

// Keys returns every submitted key, values and files, in sorted order.
func (s Submission) Keys() []string {
	seen := maps.Clone(s.values)
	if seen == nil {
		seen = map[string]any{}
	}
	for key := range s.files {
		seen[key] = nil
	}
	return slices.Sorted(maps.Keys(seen))
}

// Values returns a copy of the non-file values.
func (s Submission) Values() map[string]any {
	out := make(map[string]any, len(s.values))
	for key := range s.values {
		out[key] = s.Value(key)
	}
	return out
}

// Site returns the site handle recorded on the submission.
func (s Submission) Site() string {
	return s.site
}

// UserID returns the acting user, or "" for anonymous visitors.
func (s Submission) UserID() string {
	return s.userID
}
