package submissions

import (
	"strings"

	"github.com/goliatone/go-guestentries/internal/forms"
)

// HoneypotPassed reports whether the submission may proceed. An empty field
// name disables the check; otherwise the named value must be absent or empty.
func HoneypotPassed(sub forms.Submission, field string) bool {
	field = strings.TrimSpace(field)
	if field == "" {
		return true
	}
	if !sub.HasValue(field) {
		return true
	}
	switch value := sub.Value(field).(type) {
	case string:
		return value == ""
	case []string:
		for _, item := range value {
			if item != "" {
				return false
			}
		}
		return true
	default:
		return value == nil
	}
}
