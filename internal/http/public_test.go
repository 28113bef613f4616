package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/goliatone/go-guestentries/entries"
	"github.com/goliatone/go-guestentries/internal/collections"
	guestentrycmd "github.com/goliatone/go-guestentries/internal/commands/guestentry"
	"github.com/goliatone/go-guestentries/internal/events"
	"github.com/goliatone/go-guestentries/internal/logging"
	"github.com/goliatone/go-guestentries/internal/permissions"
	"github.com/goliatone/go-guestentries/internal/sites"
	"github.com/goliatone/go-guestentries/internal/storage"
	"github.com/goliatone/go-guestentries/internal/submissions"
	"github.com/goliatone/go-guestentries/internal/validation"
	"github.com/goliatone/go-guestentries/pkg/interfaces"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type publicFixture struct {
	mux     *http.ServeMux
	repos   storage.Repositories
	flashes *FlashStore

	mu     sync.Mutex
	events []interfaces.EntryEvent
}

func (f *publicFixture) published() []interfaces.EntryEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]interfaces.EntryEvent(nil), f.events...)
}

func setupPublicAPI(t *testing.T, opts ...PublicOption) *publicFixture {
	t.Helper()

	f := &publicFixture{repos: storage.NewMemoryRepositories()}
	bus := events.NewBroadcaster(4)
	bus.Listen(func(_ context.Context, event interfaces.EntryEvent) {
		f.mu.Lock()
		f.events = append(f.events, event)
		f.mu.Unlock()
	})

	registry := collections.NewRegistry(
		&entries.Collection{
			Handle: "albums",
			Blueprint: entries.Blueprint{Fields: []entries.Field{
				{Handle: "title", Type: entries.FieldTypeText, Validate: []string{"required"}},
				{Handle: "website", Type: entries.FieldTypeText, Validate: []string{"url"}},
			}},
		},
		&entries.Collection{Handle: "secrets"},
	)

	gate, err := permissions.NewGate(permissions.Config{
		Collections: map[string]bool{"albums": true, "secrets": false},
	})
	require.NoError(t, err)

	service := submissions.NewService(registry, f.repos,
		submissions.WithEventBus(bus),
		submissions.WithHoneypot("winnie"),
	)
	logger := logging.NoOp()
	f.flashes = NewFlashStore(testSecret, "")

	base := []PublicOption{
		WithGate(gate),
		WithCollections(registry),
		WithValidator(validation.NewRegistry()),
		WithSites(sites.NewResolver(sites.Site{Handle: "default", URL: "http://example.com", Locale: "en"})),
		WithFlashStore(f.flashes),
		WithDefaultRedirect("/home"),
		WithCommands(
			guestentrycmd.NewCreateEntryHandler(service, logger),
			guestentrycmd.NewUpdateEntryHandler(service, logger),
			guestentrycmd.NewDeleteEntryHandler(service, logger),
		),
	}
	api := NewPublicAPI(append(base, opts...)...)
	f.mux = http.NewServeMux()
	require.NoError(t, api.Register(f.mux))
	return f
}

func formRequest(path string, values url.Values, jsonWanted bool) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if jsonWanted {
		req.Header.Set("Accept", "application/json")
	}
	return req
}

func serve(f *publicFixture, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestPublicAPI_CreateJSON(t *testing.T) {
	f := setupPublicAPI(t)

	rec := serve(f, formRequest("/!/guest-entries/create", url.Values{
		"_collection": {"albums"},
		"title":       {"Kind of Blue"},
		"tags[]":      {"jazz", "modal"},
	}, true))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "success", body["status"])
	require.Contains(t, body, "message")
	require.Nil(t, body["message"])

	published := f.published()
	require.Len(t, published, 1)
	require.Equal(t, events.EntryCreated, published[0].Name)
	entry := published[0].Entry
	require.Equal(t, "kind-of-blue", entry.Slug)
	require.Equal(t, "default", entry.Locale)
	require.False(t, entry.Published)
	require.Equal(t, []string{"jazz", "modal"}, entry.Data["tags"])
}

func TestPublicAPI_CreateRedirects(t *testing.T) {
	f := setupPublicAPI(t)

	rec := serve(f, formRequest("/!/guest-entries/create", url.Values{
		"_collection": {"albums"},
		"_redirect":   {"/thanks"},
		"title":       {"Blue Train"},
	}, false))
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/thanks", rec.Header().Get("Location"))

	req := formRequest("/!/guest-entries/create", url.Values{
		"_collection": {"albums"},
		"title":       {"Giant Steps"},
	}, false)
	req.Header.Set("Referer", "http://example.com/albums/new")
	rec = serve(f, req)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "http://example.com/albums/new", rec.Header().Get("Location"))

	rec = serve(f, formRequest("/!/guest-entries/create", url.Values{
		"_collection": {"albums"},
		"title":       {"Moanin"},
	}, false))
	require.Equal(t, "/home", rec.Header().Get("Location"))
}

func TestPublicAPI_ForbiddenCollection(t *testing.T) {
	f := setupPublicAPI(t)

	for _, handle := range []string{"secrets", "unknown", ""} {
		rec := serve(f, formRequest("/!/guest-entries/create", url.Values{
			"_collection": {handle},
			"title":       {"Nope"},
		}, true))
		require.Equal(t, http.StatusForbidden, rec.Code, "collection %q", handle)
		body := decodeBody(t, rec)
		require.Equal(t, "error", body["status"])
		require.NotEmpty(t, body["message"])
	}
	require.Empty(t, f.published())

	rec := serve(f, formRequest("/!/guest-entries/create", url.Values{"_collection": {"secrets"}}, false))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPublicAPI_ValidationJSON(t *testing.T) {
	f := setupPublicAPI(t)

	rec := serve(f, formRequest("/!/guest-entries/create", url.Values{
		"_collection": {"albums"},
		"website":     {"not a url"},
	}, true))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "error", body["status"])
	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok, "errors payload missing: %v", body)
	require.Contains(t, errs, "title")
	require.Contains(t, errs, "website")
	require.Empty(t, f.published())
}

func TestPublicAPI_ValidationRedirectFlashes(t *testing.T) {
	f := setupPublicAPI(t)

	rec := serve(f, formRequest("/!/guest-entries/create", url.Values{
		"_collection":     {"albums"},
		"_error_redirect": {"/albums/new?failed=1"},
	}, false))

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/albums/new?failed=1", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	follow := httptest.NewRequest(http.MethodGet, "/albums/new", nil)
	for _, cookie := range cookies {
		follow.AddCookie(cookie)
	}
	flashes, err := f.flashes.Flashes(httptest.NewRecorder(), follow)
	require.NoError(t, err)
	require.Len(t, flashes, 1)
	require.Equal(t, "error", flashes[0].Status)
	require.Contains(t, flashes[0].Errors, "title")
}

func TestPublicAPI_HoneypotLooksLikeSuccess(t *testing.T) {
	f := setupPublicAPI(t)

	rec := serve(f, formRequest("/!/guest-entries/create", url.Values{
		"_collection": {"albums"},
		"title":       {"Bot Album"},
		"winnie":      {"the pooh"},
	}, true))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "success", decodeBody(t, rec)["status"])
	require.Empty(t, f.published())
}

func TestPublicAPI_UpdateAndDelete(t *testing.T) {
	f := setupPublicAPI(t)

	rec := serve(f, formRequest("/!/guest-entries/create", url.Values{
		"_collection": {"albums"},
		"title":       {"Mingus Ah Um"},
	}, true))
	require.Equal(t, http.StatusOK, rec.Code)
	created := f.published()[0].Entry

	rec = serve(f, formRequest("/!/guest-entries/update", url.Values{
		"_collection": {"albums"},
		"_id":         {created.ID.String()},
		"title":       {"Mingus Ah Um"},
		"label":       {"Columbia"},
	}, true))
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := f.repos.Entries.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "Columbia", stored.Data["label"])

	rec = serve(f, formRequest("/!/guest-entries/delete", url.Values{
		"_collection": {"albums"},
		"_id":         {created.ID.String()},
	}, true))
	require.Equal(t, http.StatusOK, rec.Code)

	_, err = f.repos.Entries.GetByID(context.Background(), created.ID)
	require.ErrorIs(t, err, entries.ErrNotFound)

	names := []string{}
	for _, event := range f.published() {
		names = append(names, event.Name)
	}
	require.Equal(t, []string{events.EntryCreated, events.EntryUpdated, events.EntryDeleted}, names)
}

func TestPublicAPI_UpdateMissingEntry(t *testing.T) {
	f := setupPublicAPI(t)

	rec := serve(f, formRequest("/!/guest-entries/update", url.Values{
		"_collection": {"albums"},
		"_id":         {"3f1c1d3e-8f0a-4a55-9d1b-1c2d3e4f5a6b"},
		"title":       {"Ghost"},
	}, true))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, entries.TextCodeNotFound, decodeBody(t, rec)["code"])
}

func TestPublicAPI_DeleteRequiresID(t *testing.T) {
	f := setupPublicAPI(t)

	rec := serve(f, formRequest("/!/guest-entries/delete", url.Values{
		"_collection": {"albums"},
	}, true))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPublicAPI_MultipartAndUser(t *testing.T) {
	f := setupPublicAPI(t, WithUserResolver(func(*http.Request) string { return "user-7" }))

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("_collection", "albums"))
	require.NoError(t, writer.WriteField("title", "Time Out"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/!/guest-entries/create", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	rec := serve(f, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, f.published(), 1)
	require.Equal(t, "time-out", f.published()[0].Entry.Slug)
}

func TestPublicAPI_CustomBasePathAndMethod(t *testing.T) {
	f := setupPublicAPI(t, WithBasePath("/forms/"))

	rec := serve(f, formRequest("/forms/create", url.Values{
		"_collection": {"albums"},
		"title":       {"Somethin Else"},
	}, true))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(f, httptest.NewRequest(http.MethodGet, "/forms/create", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPublicAPI_RegisterRequiresCollaborators(t *testing.T) {
	api := NewPublicAPI()
	require.Error(t, api.Register(http.NewServeMux()))
	require.Error(t, api.Register(nil))
}

func TestMapError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{entries.PermissionDenied("create", "albums"), http.StatusForbidden},
		{entries.NotFound("entry", "x"), http.StatusNotFound},
		{entries.InvalidDate("nope", nil), http.StatusBadRequest},
		{entries.Misconfigured("cover", "asset container not specified"), http.StatusInternalServerError},
		{validation.Invalid(map[string]string{"title": "required"}), http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		status, payload := mapError(tc.err)
		require.Equal(t, tc.status, status, tc.err.Error())
		require.Equal(t, "error", payload.Status)
	}
}
