package entries

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Entry is a content entry owned by the host storage layer. Guest submissions
// borrow entries for a single request and never keep references around.
type Entry struct {
	bun.BaseModel `bun:"table:guest_entries,alias:ge"`

	ID             uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	Collection     string         `bun:"collection,notnull" json:"collection"`
	Locale         string         `bun:"locale,notnull,default:'default'" json:"locale"`
	Slug           string         `bun:"slug,notnull" json:"slug"`
	Published      bool           `bun:"published,notnull,default:false" json:"published"`
	Date           *time.Time     `bun:"date,nullzero" json:"date,omitempty"`
	Data           map[string]any `bun:"data,type:jsonb,notnull" json:"data"`
	HasWorkingCopy bool           `bun:"has_working_copy,notnull,default:false" json:"has_working_copy"`
	CreatedAt      time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// NewEntry returns an unpublished entry for the collection and locale.
func NewEntry(collection, locale string) *Entry {
	return &Entry{
		Collection: collection,
		Locale:     locale,
		Published:  false,
		Data:       map[string]any{},
	}
}

// Get returns the data value stored under key.
func (e *Entry) Get(key string) any {
	if e == nil || e.Data == nil {
		return nil
	}
	return e.Data[key]
}

// Set assigns a data value.
func (e *Entry) Set(key string, value any) {
	if e.Data == nil {
		e.Data = map[string]any{}
	}
	e.Data[key] = value
}

// Title returns the title data field when it is a string.
func (e *Entry) Title() string {
	title, _ := e.Get("title").(string)
	return title
}

// Touch stamps the modification time on the record and in its data, where
// the host CMS reads it from.
func (e *Entry) Touch(now time.Time) {
	e.UpdatedAt = now
	e.Set("updated_at", now.Unix())
}

// Clone returns a deep enough copy to mutate data without aliasing.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	copied := *e
	copied.Data = CloneData(e.Data)
	if e.Date != nil {
		date := *e.Date
		copied.Date = &date
	}
	return &copied
}

// Revision is a working copy holding the prospective state of an entry until
// an editor approves it.
type Revision struct {
	bun.BaseModel `bun:"table:guest_entry_revisions,alias:ger"`

	ID        uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	EntryID   uuid.UUID      `bun:"entry_id,notnull,type:uuid" json:"entry_id"`
	Title     string         `bun:"title" json:"title"`
	Slug      string         `bun:"slug,notnull" json:"slug"`
	Published bool           `bun:"published,notnull,default:false" json:"published"`
	Date      *time.Time     `bun:"date,nullzero" json:"date,omitempty"`
	Data      map[string]any `bun:"data,type:jsonb,notnull" json:"data"`
	UserID    *string        `bun:"user_id" json:"user_id,omitempty"`
	Message   string         `bun:"message" json:"message"`
	Action    string         `bun:"action,notnull" json:"action"`
	CreatedAt time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// RevisionActionRevision tags revisions recorded from guest updates.
const RevisionActionRevision = "revision"

// MakeWorkingCopy builds a revision seeded from the entry's current state.
func MakeWorkingCopy(entry *Entry) *Revision {
	rev := &Revision{
		EntryID:   entry.ID,
		Title:     entry.Title(),
		Slug:      entry.Slug,
		Published: entry.Published,
		Data:      CloneData(entry.Data),
	}
	if entry.Date != nil {
		date := *entry.Date
		rev.Date = &date
	}
	return rev
}

// Collection is a content group: entries sharing a blueprint.
type Collection struct {
	ID        uuid.UUID      `yaml:"-" json:"id"`
	Handle    string         `yaml:"handle" json:"handle"`
	Title     string         `yaml:"title" json:"title"`
	Dated     bool           `yaml:"dated" json:"dated"`
	Revisions bool           `yaml:"revisions" json:"revisions"`
	Blueprint Blueprint      `yaml:"blueprint" json:"blueprint"`
	Schema    map[string]any `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// IsDated reports whether entries are ordered by date.
func (c *Collection) IsDated() bool {
	return c != nil && c.Dated
}

// RevisionsEnabled reports whether updates go through working copies.
func (c *Collection) RevisionsEnabled() bool {
	return c != nil && c.Revisions
}

// Field returns the blueprint field for handle, or nil.
func (c *Collection) Field(handle string) *Field {
	if c == nil {
		return nil
	}
	return c.Blueprint.Field(handle)
}

// Blueprint lists the fields of a collection.
type Blueprint struct {
	Fields []Field `yaml:"fields" json:"fields"`
}

// Field returns the field for handle, or nil when the blueprint does not declare it.
func (b Blueprint) Field(handle string) *Field {
	handle = strings.TrimSpace(handle)
	for i := range b.Fields {
		if b.Fields[i].Handle == handle {
			return &b.Fields[i]
		}
	}
	return nil
}

// Field type tags understood by the submission pipeline.
const (
	FieldTypeText   = "text"
	FieldTypeAssets = "assets"
	FieldTypeDate   = "date"
)

// Field is the schema metadata for one field.
type Field struct {
	Handle   string         `yaml:"handle" json:"handle"`
	Type     string         `yaml:"type" json:"type"`
	Config   map[string]any `yaml:"config,omitempty" json:"config,omitempty"`
	Validate []string       `yaml:"validate,omitempty" json:"validate,omitempty"`
}

// ConfigString returns a trimmed string config value.
func (f *Field) ConfigString(key string) string {
	if f == nil || f.Config == nil {
		return ""
	}
	value, _ := f.Config[key].(string)
	return strings.TrimSpace(value)
}

// CloneData copies a data map, including nested maps and slices.
func CloneData(src map[string]any) map[string]any {
	if src == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return CloneData(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		out := make([]string, len(typed))
		copy(out, typed)
		return out
	default:
		return value
	}
}
