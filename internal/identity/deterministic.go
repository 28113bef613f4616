package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must prefix keys by kind so different records never share a key.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// CollectionUUID returns the identifier of a collection handle.
func CollectionUUID(handle string) uuid.UUID {
	return UUID("guestentries:collection:" + strings.ToLower(strings.TrimSpace(handle)))
}

// SiteUUID returns the identifier of a site handle.
func SiteUUID(handle string) uuid.UUID {
	return UUID("guestentries:site:" + strings.ToLower(strings.TrimSpace(handle)))
}
