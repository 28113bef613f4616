package fields

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/goliatone/go-guestentries/entries"
)

const (
	// DefaultDateFormat mirrors the host CMS date-only default (Y-m-d).
	DefaultDateFormat = "2006-01-02"
	// DefaultDateTimeFormat mirrors the host CMS date-time default (Y-m-d H:i).
	DefaultDateTimeFormat = "2006-01-02 15:04"
)

// dateOnlyLength is len("YYYY-MM-DD"); longer values are assumed to carry a time.
const dateOnlyLength = 10

// DateFormatFor returns format when set, otherwise the date-only or date-time
// default chosen by the length of raw.
func DateFormatFor(raw, format string) string {
	if format = strings.TrimSpace(format); format != "" {
		return format
	}
	if len(raw) > dateOnlyLength {
		return DefaultDateTimeFormat
	}
	return DefaultDateFormat
}

// ParseDate parses raw permissively in loc (UTC when nil).
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, entries.InvalidDate(raw, nil)
	}
	parsed, err := dateparse.ParseIn(trimmed, loc)
	if err != nil {
		return time.Time{}, entries.InvalidDate(raw, err)
	}
	return parsed, nil
}

// NormalizeDate parses raw and formats it canonically. Empty input is kept
// empty so optional date inputs left blank do not turn into "now".
func NormalizeDate(raw, format string, loc *time.Location) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	parsed, err := ParseDate(raw, loc)
	if err != nil {
		return "", err
	}
	return parsed.Format(DateFormatFor(raw, format)), nil
}
