package fields

import (
	"strings"

	"github.com/goliatone/go-guestentries/entries"
)

// Descriptor is the closed set of field kinds the resolver understands:
// Plain, Asset, Date and Unknown. A nil Descriptor means the blueprint does
// not declare the field.
type Descriptor interface {
	descriptor()
}

// Plain fields store the submitted value verbatim.
type Plain struct {
	Type string
}

// Asset fields store uploaded files in an asset container.
type Asset struct {
	Container string
	Folder    string
}

// Date fields are parsed and re-formatted. An empty Format selects a default
// based on the submitted value.
type Date struct {
	Format string
}

// Unknown covers field types without coercion rules.
type Unknown struct {
	Type string
}

func (Plain) descriptor()   {}
func (Asset) descriptor()   {}
func (Date) descriptor()    {}
func (Unknown) descriptor() {}

var plainTypes = map[string]struct{}{
	entries.FieldTypeText: {},
	"textarea":            {},
	"markdown":            {},
	"slug":                {},
	"select":              {},
	"radio":               {},
	"checkboxes":          {},
	"toggle":              {},
	"integer":             {},
	"float":               {},
	"hidden":              {},
	"email":               {},
	"url":                 {},
}

// Describe maps a blueprint field onto a Descriptor.
func Describe(field *entries.Field) Descriptor {
	if field == nil {
		return nil
	}
	kind := strings.ToLower(strings.TrimSpace(field.Type))
	switch kind {
	case entries.FieldTypeAssets:
		return Asset{
			Container: field.ConfigString("container"),
			Folder:    field.ConfigString("folder"),
		}
	case entries.FieldTypeDate:
		return Date{Format: field.ConfigString("format")}
	}
	if _, ok := plainTypes[kind]; ok {
		return Plain{Type: kind}
	}
	return Unknown{Type: kind}
}
