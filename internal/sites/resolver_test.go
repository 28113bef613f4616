package sites

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func testSites() []Site {
	return []Site{
		{Handle: "default", URL: "https://example.com", Locale: "en"},
		{Handle: "french", URL: "https://example.com/fr", Locale: "fr"},
	}
}

func TestGuessPrefersExplicitSite(t *testing.T) {
	resolver := NewResolver(testSites()...)
	req := httptest.NewRequest("POST", "https://example.com/!/guest-entries/create", strings.NewReader("site=french"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if got := resolver.Guess(req); got.Handle != "french" {
		t.Fatalf("expected french, got %q", got.Handle)
	}
}

func TestGuessUsesRefererWhenURLDoesNotMatch(t *testing.T) {
	resolver := NewResolver(testSites()...)
	req := httptest.NewRequest("POST", "https://api.internal/!/guest-entries/create", nil)
	req.Header.Set("Referer", "https://example.com/fr/contact")

	if got := resolver.Guess(req); got.Handle != "french" {
		t.Fatalf("expected french from referer, got %q", got.Handle)
	}
}

func TestGuessMatchesRequestURL(t *testing.T) {
	resolver := NewResolver(testSites()...)
	req := httptest.NewRequest("POST", "https://example.com/fr/!/guest-entries/create", nil)
	if got := resolver.Guess(req); got.Handle != "french" {
		t.Fatalf("expected longest match, got %q", got.Handle)
	}
}

func TestGuessFallsBackToDefault(t *testing.T) {
	resolver := NewResolver(testSites()...)
	req := httptest.NewRequest("POST", "https://other.org/submit", nil)
	if got := resolver.Guess(req); got.Handle != "default" {
		t.Fatalf("expected default, got %q", got.Handle)
	}

	empty := NewResolver()
	if got := empty.Guess(req); got.Handle != "default" {
		t.Fatalf("expected built-in default, got %q", got.Handle)
	}
}
