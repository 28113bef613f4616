package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-guestentries/entries"
	guestentrycmd "github.com/goliatone/go-guestentries/internal/commands/guestentry"
	"github.com/goliatone/go-guestentries/internal/forms"
	"github.com/goliatone/go-guestentries/internal/logging"
	"github.com/goliatone/go-guestentries/internal/permissions"
	"github.com/goliatone/go-guestentries/internal/sites"
	"github.com/goliatone/go-guestentries/pkg/interfaces"
)

// DefaultBasePath is where the form endpoints mount unless configured.
const DefaultBasePath = "/!/guest-entries"

// Authorizer decides whether guests may act on a collection.
type Authorizer interface {
	Authorize(ctx context.Context, action permissions.Action, collection string) error
}

// CollectionFinder resolves collections by handle.
type CollectionFinder interface {
	FindByHandle(ctx context.Context, handle string) (*entries.Collection, error)
}

// RequestValidator validates a submission before it reaches the commands.
type RequestValidator interface {
	Validate(ctx context.Context, collection *entries.Collection, sub forms.Submission) error
}

// SiteGuesser picks the site a request was made from.
type SiteGuesser interface {
	Guess(r *http.Request) sites.Site
}

// UserResolver returns the acting user id, or "" for anonymous visitors.
type UserResolver func(r *http.Request) string

// PublicAPI serves the guest entry form endpoints.
type PublicAPI struct {
	basePath        string
	defaultRedirect string
	maxMemory       int64
	gate            Authorizer
	collections     CollectionFinder
	validator       RequestValidator
	sites           SiteGuesser
	users           UserResolver
	flashes         *FlashStore
	logger          interfaces.Logger

	create command.Commander[guestentrycmd.CreateEntryCommand]
	update command.Commander[guestentrycmd.UpdateEntryCommand]
	remove command.Commander[guestentrycmd.DeleteEntryCommand]
}

// PublicOption mutates the PublicAPI configuration.
type PublicOption func(*PublicAPI)

// NewPublicAPI constructs the form endpoints.
func NewPublicAPI(opts ...PublicOption) *PublicAPI {
	api := &PublicAPI{
		basePath:        DefaultBasePath,
		defaultRedirect: "/",
		maxMemory:       forms.DefaultMaxMemory,
		sites:           sites.NewResolver(),
		logger:          logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base path (defaults to "/!/guest-entries").
func WithBasePath(path string) PublicOption {
	return func(api *PublicAPI) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithDefaultRedirect sets where browsers go when neither _redirect nor a
// Referer is available.
func WithDefaultRedirect(target string) PublicOption {
	return func(api *PublicAPI) {
		if trimmed := strings.TrimSpace(target); trimmed != "" {
			api.defaultRedirect = trimmed
		}
	}
}

// WithMaxMemory bounds in-memory multipart parsing.
func WithMaxMemory(size int64) PublicOption {
	return func(api *PublicAPI) {
		if size > 0 {
			api.maxMemory = size
		}
	}
}

// WithGate wires the permission gate.
func WithGate(gate Authorizer) PublicOption {
	return func(api *PublicAPI) {
		api.gate = gate
	}
}

// WithCollections wires the collection registry.
func WithCollections(collections CollectionFinder) PublicOption {
	return func(api *PublicAPI) {
		api.collections = collections
	}
}

// WithValidator wires request validation.
func WithValidator(validator RequestValidator) PublicOption {
	return func(api *PublicAPI) {
		api.validator = validator
	}
}

// WithSites wires site detection.
func WithSites(guesser SiteGuesser) PublicOption {
	return func(api *PublicAPI) {
		if guesser != nil {
			api.sites = guesser
		}
	}
}

// WithUserResolver wires the acting user hook.
func WithUserResolver(resolver UserResolver) PublicOption {
	return func(api *PublicAPI) {
		api.users = resolver
	}
}

// WithFlashStore enables flash messages on redirecting responses.
func WithFlashStore(store *FlashStore) PublicOption {
	return func(api *PublicAPI) {
		api.flashes = store
	}
}

// WithLogger sets the adapter logger.
func WithLogger(logger interfaces.Logger) PublicOption {
	return func(api *PublicAPI) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// WithCommands wires the command handlers the endpoints dispatch to.
func WithCommands(
	create command.Commander[guestentrycmd.CreateEntryCommand],
	update command.Commander[guestentrycmd.UpdateEntryCommand],
	remove command.Commander[guestentrycmd.DeleteEntryCommand],
) PublicOption {
	return func(api *PublicAPI) {
		api.create = create
		api.update = update
		api.remove = remove
	}
}

// Register attaches the form endpoints to the provided mux.
func (api *PublicAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: public api is nil")
	}
	if api.create == nil || api.update == nil || api.remove == nil {
		return fmt.Errorf("http: command handlers are required")
	}
	if api.gate == nil || api.collections == nil {
		return fmt.Errorf("http: permission gate and collections are required")
	}

	base := joinPath(api.basePath, "")
	mux.HandleFunc("POST "+joinPath(base, "create"), api.handle(permissions.ActionCreate, true, func(ctx context.Context, sub forms.Submission) error {
		return api.create.Execute(ctx, guestentrycmd.CreateEntryCommand{Submission: sub})
	}))
	mux.HandleFunc("POST "+joinPath(base, "update"), api.handle(permissions.ActionUpdate, true, func(ctx context.Context, sub forms.Submission) error {
		return api.update.Execute(ctx, guestentrycmd.UpdateEntryCommand{Submission: sub})
	}))
	mux.HandleFunc("POST "+joinPath(base, "delete"), api.handle(permissions.ActionDelete, false, func(ctx context.Context, sub forms.Submission) error {
		return api.remove.Execute(ctx, guestentrycmd.DeleteEntryCommand{Submission: sub})
	}))
	return nil
}

func (api *PublicAPI) handle(action permissions.Action, validate bool, dispatch func(context.Context, forms.Submission) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := logging.WithSubmissionContext(logging.FromContext(ctx, api.logger), "", string(action), "")

		sub, err := api.parse(r)
		if err != nil {
			logger.Warn("http."+string(action)+".parse_failed", "error", err)
			api.respondError(w, r, sub, goerrors.Wrap(err, goerrors.CategoryBadInput, "form payload could not be parsed"))
			return
		}

		handle := strings.TrimSpace(sub.String(forms.KeyCollection))
		logger = logging.WithSubmissionContext(logger, handle, "", sub.String(forms.KeyID))

		if err := api.gate.Authorize(ctx, action, handle); err != nil {
			logger.Warn("http."+string(action)+".forbidden", "error", err)
			api.respondError(w, r, sub, err)
			return
		}

		if validate && api.validator != nil {
			collection, err := api.collections.FindByHandle(ctx, handle)
			if err != nil {
				logger.Warn("http."+string(action)+".collection_missing", "error", err)
				api.respondError(w, r, sub, err)
				return
			}
			if err := api.validator.Validate(ctx, collection, sub); err != nil {
				logger.Info("http."+string(action)+".invalid", "error", err)
				api.respondError(w, r, sub, err)
				return
			}
		}

		if err := dispatch(ctx, sub); err != nil {
			logger.Error("http."+string(action)+".failed", "error", err)
			api.respondError(w, r, sub, err)
			return
		}

		logger.Debug("http." + string(action) + ".success")
		api.respondSuccess(w, r, sub)
	}
}

// parse reads the body before the site is guessed, so the "site" form value
// is read under the configured memory bound.
func (api *PublicAPI) parse(r *http.Request) (forms.Submission, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(api.maxMemory); err != nil {
			return forms.Submission{}, err
		}
	}
	var opts []forms.Option
	if api.sites != nil {
		opts = append(opts, forms.WithSite(api.sites.Guess(r).Handle))
	}
	if api.users != nil {
		opts = append(opts, forms.WithUser(api.users(r)))
	}
	return forms.FromRequest(r, api.maxMemory, opts...)
}

func (api *PublicAPI) respondSuccess(w http.ResponseWriter, r *http.Request, sub forms.Submission) {
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, successResponse{Status: statusSuccess})
		return
	}
	http.Redirect(w, r, api.redirectTarget(r, sub.String(forms.KeyRedirect)), http.StatusFound)
}

func (api *PublicAPI) respondError(w http.ResponseWriter, r *http.Request, sub forms.Submission, err error) {
	status, payload := mapError(err)
	if wantsJSON(r) {
		writeJSON(w, status, payload)
		return
	}
	if status != http.StatusUnprocessableEntity && status != http.StatusBadRequest {
		http.Error(w, payload.Message, status)
		return
	}
	if api.flashes != nil {
		msg := FlashMessage{Status: payload.Status, Message: payload.Message, Errors: payload.Errors}
		if flashErr := api.flashes.Add(w, r, msg); flashErr != nil {
			api.logger.Warn("http.flash.failed", "error", flashErr)
		}
	}
	http.Redirect(w, r, api.redirectTarget(r, sub.String(forms.KeyErrorRedirect)), http.StatusFound)
}

func (api *PublicAPI) redirectTarget(r *http.Request, explicit string) string {
	if target := strings.TrimSpace(explicit); target != "" {
		return target
	}
	if referer := strings.TrimSpace(r.Referer()); referer != "" {
		return referer
	}
	return api.defaultRedirect
}
