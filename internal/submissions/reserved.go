package submissions

import (
	"github.com/goliatone/go-guestentries/entries"
	"github.com/goliatone/go-guestentries/internal/forms"
)

var reservedKeys = map[string]struct{}{
	forms.KeyToken:         {},
	forms.KeyCollection:    {},
	forms.KeyID:            {},
	forms.KeyRedirect:      {},
	forms.KeyErrorRedirect: {},
	forms.KeyRequest:       {},
	forms.KeySlug:          {},
	forms.KeyPublished:     {},
	forms.KeySite:          {},
}

// IsReserved reports whether key is a control key that never becomes entry
// data. "date" is reserved only for dated collections.
func IsReserved(key string, collection *entries.Collection) bool {
	if _, ok := reservedKeys[key]; ok {
		return true
	}
	return key == forms.KeyDate && collection.IsDated()
}

// parsePublished keeps the historical truthy set: only "1" and "true".
func parsePublished(raw string) bool {
	return raw == "1" || raw == "true"
}
