package validation

import (
	"fmt"
	"sort"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-guestentries/entries"
)

// ValidationError lists the fields that failed validation, keyed by field
// handle. Schema-wide failures are reported under "#".
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return entries.ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", key, e.Fields[key]))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return entries.ErrValidation
}

// Invalid returns a categorised validation error for fields.
func Invalid(fields map[string]string) error {
	source := &ValidationError{Fields: fields}
	return goerrors.Wrap(source, goerrors.CategoryValidation, source.Error()).
		WithTextCode(entries.TextCodeValidation)
}
