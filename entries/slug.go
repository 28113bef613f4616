package entries

import "github.com/goliatone/go-slug"

// Slugify converts a title into a URL-safe slug. Titles that cannot be
// normalised yield an empty slug.
func Slugify(value string) string {
	normalized, err := slug.Normalize(value)
	if err != nil {
		return ""
	}
	return normalized
}

// IsValidSlug reports whether the slug matches the default rules.
func IsValidSlug(value string) bool {
	return slug.IsValid(value)
}
