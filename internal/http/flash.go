package http

import (
	"encoding/gob"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
)

// FlashKey is the flash bag guest entry messages are stored under.
const FlashKey = "guest-entries"

// DefaultSessionName names the cookie carrying flashes.
const DefaultSessionName = "guest_entries"

// FlashMessage is what redirecting responses leave in the session.
type FlashMessage struct {
	Status  string
	Message string
	Errors  map[string]string
}

func init() {
	gob.Register(FlashMessage{})
}

// FlashStore keeps one-shot messages in a signed cookie session.
type FlashStore struct {
	store sessions.Store
	name  string
}

// NewFlashStore builds a cookie backed flash store.
func NewFlashStore(secret, name string) *FlashStore {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultSessionName
	}
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &FlashStore{store: store, name: name}
}

// NewFlashStoreFrom wraps an existing sessions.Store.
func NewFlashStoreFrom(store sessions.Store, name string) *FlashStore {
	if strings.TrimSpace(name) == "" {
		name = DefaultSessionName
	}
	return &FlashStore{store: store, name: name}
}

// Add appends msg to the flash bag. A cookie that fails to decode is replaced.
func (f *FlashStore) Add(w http.ResponseWriter, r *http.Request, msg FlashMessage) error {
	session, err := f.store.Get(r, f.name)
	if session == nil {
		return err
	}
	session.AddFlash(msg, FlashKey)
	return session.Save(r, w)
}

// Flashes drains the flash bag.
func (f *FlashStore) Flashes(w http.ResponseWriter, r *http.Request) ([]FlashMessage, error) {
	session, err := f.store.Get(r, f.name)
	if session == nil {
		return nil, err
	}
	raw := session.Flashes(FlashKey)
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]FlashMessage, 0, len(raw))
	for _, item := range raw {
		if msg, ok := item.(FlashMessage); ok {
			out = append(out, msg)
		}
	}
	return out, session.Save(r, w)
}
