package entries

import (
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeNotFound         = "NOT_FOUND"
	TextCodeConfiguration    = "CONFIGURATION_ERROR"
	TextCodeDateParse        = "DATE_PARSE_ERROR"
	TextCodePermissionDenied = "PERMISSION_DENIED"
	TextCodeValidation       = "VALIDATION_FAILED"
)

var (
	ErrNotFound         = errors.New("guest entries: not found")
	ErrConfiguration    = errors.New("guest entries: configuration error")
	ErrDateParse        = errors.New("guest entries: date could not be parsed")
	ErrPermissionDenied = errors.New("guest entries: permission denied")
	ErrValidation       = errors.New("guest entries: validation failed")
)

// NotFoundError represents missing collections or entries.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ConfigurationError reports schema or deployment mistakes, such as an asset
// field without a container. These are never caused by visitor input.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = ErrConfiguration.Error()
	}
	if e.Field == "" {
		return msg
	}
	return fmt.Sprintf("%s [%s]", msg, e.Field)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// DateParseError reports a submitted date that could not be parsed.
type DateParseError struct {
	Value string
	Cause error
}

func (e *DateParseError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %q", ErrDateParse.Error(), e.Value)
	}
	return fmt.Sprintf("%s: %q: %v", ErrDateParse.Error(), e.Value, e.Cause)
}

func (e *DateParseError) Unwrap() error {
	return ErrDateParse
}

// PermissionDeniedError reports a collection outside the allow-list.
type PermissionDeniedError struct {
	Collection string
	Action     string
}

func (e *PermissionDeniedError) Error() string {
	if e.Collection == "" {
		return ErrPermissionDenied.Error()
	}
	return fmt.Sprintf("%s: %s %s", ErrPermissionDenied.Error(), e.Action, e.Collection)
}

func (e *PermissionDeniedError) Unwrap() error {
	return ErrPermissionDenied
}

// NotFound returns a categorised not found error.
func NotFound(resource, key string) error {
	source := &NotFoundError{Resource: resource, Key: key}
	return goerrors.Wrap(source, goerrors.CategoryNotFound, source.Error()).
		WithTextCode(TextCodeNotFound)
}

// Misconfigured returns a categorised configuration error.
func Misconfigured(field, message string) error {
	source := &ConfigurationError{Field: field, Message: message}
	return goerrors.Wrap(source, goerrors.CategoryInternal, source.Error()).
		WithTextCode(TextCodeConfiguration)
}

// InvalidDate returns a categorised date parse error.
func InvalidDate(value string, cause error) error {
	source := &DateParseError{Value: value, Cause: cause}
	return goerrors.Wrap(source, goerrors.CategoryBadInput, source.Error()).
		WithTextCode(TextCodeDateParse)
}

// PermissionDenied returns a categorised permission error.
func PermissionDenied(action, collection string) error {
	source := &PermissionDeniedError{Collection: collection, Action: action}
	return goerrors.Wrap(source, goerrors.CategoryAuthz, source.Error()).
		WithTextCode(TextCodePermissionDenied)
}
