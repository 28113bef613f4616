package di

import (
	"context"
	"fmt"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/goliatone/go-guestentries/entries"
	"github.com/goliatone/go-guestentries/internal/assets"
	"github.com/goliatone/go-guestentries/internal/collections"
	"github.com/goliatone/go-guestentries/internal/commands"
	guestentrycmd "github.com/goliatone/go-guestentries/internal/commands/guestentry"
	"github.com/goliatone/go-guestentries/internal/events"
	"github.com/goliatone/go-guestentries/internal/http"
	"github.com/goliatone/go-guestentries/internal/logging"
	"github.com/goliatone/go-guestentries/internal/logging/gologger"
	"github.com/goliatone/go-guestentries/internal/permissions"
	"github.com/goliatone/go-guestentries/internal/runtimeconfig"
	"github.com/goliatone/go-guestentries/internal/sites"
	"github.com/goliatone/go-guestentries/internal/storage"
	"github.com/goliatone/go-guestentries/internal/submissions"
	"github.com/goliatone/go-guestentries/internal/uploads"
	"github.com/goliatone/go-guestentries/internal/validation"
	"github.com/goliatone/go-guestentries/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/gorilla/sessions"
	"github.com/uptrace/bun"
)

const eventBuffer = 16

// Container wires module dependencies from runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	repos        *storage.Repositories
	extraColls   []*entries.Collection
	extraAssets  []interfaces.AssetContainer
	validators   map[string]validation.Validator
	userResolver http.UserResolver
	sessionStore sessions.Store
	clock        func() time.Time

	collections *collections.Registry
	assets      *assets.Registry
	uploader    *uploads.Uploader
	events      *events.Broadcaster
	gate        *permissions.Gate
	validation  *validation.Registry
	sites       *sites.Resolver
	service     *submissions.Service

	createHandler *guestentrycmd.CreateEntryHandler
	updateHandler *guestentrycmd.UpdateEntryHandler
	deleteHandler *guestentrycmd.DeleteEntryHandler

	api *http.PublicAPI
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the logger provider built from configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB uses an existing database handle instead of opening one.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache service and key serializer.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithRepositories overrides the storage repositories.
func WithRepositories(repos storage.Repositories) Option {
	return func(c *Container) {
		c.repos = &repos
	}
}

// WithCollections registers collections in addition to the blueprint file.
func WithCollections(cols ...*entries.Collection) Option {
	return func(c *Container) {
		c.extraColls = append(c.extraColls, cols...)
	}
}

// WithAssetContainer registers an asset container next to the configured ones.
func WithAssetContainer(container interfaces.AssetContainer) Option {
	return func(c *Container) {
		if container != nil {
			c.extraAssets = append(c.extraAssets, container)
		}
	}
}

// WithValidator registers a named request validator.
func WithValidator(name string, validator validation.Validator) Option {
	return func(c *Container) {
		if c.validators == nil {
			c.validators = map[string]validation.Validator{}
		}
		c.validators[name] = validator
	}
}

// WithUserResolver sets the hook used to identify the acting user.
func WithUserResolver(resolver http.UserResolver) Option {
	return func(c *Container) {
		c.userResolver = resolver
	}
}

// WithSessionStore overrides the cookie store used for flash messages.
func WithSessionStore(store sessions.Store) Option {
	return func(c *Container) {
		c.sessionStore = store
	}
}

// WithClock overrides the clock used by submissions and uploads.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		c.clock = now
	}
}

// NewContainer validates cfg and wires every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	steps := []func() error{
		c.configureLoggerProvider,
		c.configureStorage,
		c.configureCollections,
		c.configureUploads,
		c.configureSubmissions,
		c.configureGate,
		c.configureValidation,
		c.configureCommands,
		c.configureHTTP,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			_ = c.Close()
			return nil, err
		}
	}
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider == nil {
		switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
		case "gologger":
			provider, err := gologger.NewProvider(gologger.Config{
				Level:     c.Config.Logging.Level,
				Format:    c.Config.Logging.Format,
				AddSource: c.Config.Logging.AddSource,
			})
			if err != nil {
				return err
			}
			c.loggerProvider = provider
		}
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "")
	return nil
}

func (c *Container) configureStorage() error {
	if c.repos != nil {
		return nil
	}

	driver := strings.ToLower(strings.TrimSpace(c.Config.Storage.Driver))
	if c.bunDB == nil && (driver == "" || driver == "memory") {
		repos := storage.NewMemoryRepositories()
		c.repos = &repos
		return nil
	}

	if c.bunDB == nil {
		db, err := storage.Open(storage.Config{Driver: driver, DSN: c.Config.Storage.DSN})
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if err := storage.EnsureSchema(context.Background(), c.bunDB); err != nil {
		return fmt.Errorf("di: ensure schema: %w", err)
	}

	c.configureCacheDefaults()
	repos := storage.NewBunRepositories(c.bunDB, c.cacheService, c.keySerializer)
	c.repos = &repos
	c.logger.Debug("di.storage.ready", "driver", driver, "cache", c.cacheService != nil)
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.TTL > 0 {
			cfg.TTL = c.Config.Cache.TTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			c.logger.Warn("di.cache.disabled", "error", err)
			return
		}
		c.cacheService = service
	}

	if c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureCollections() error {
	c.collections = collections.NewRegistry()
	if path := strings.TrimSpace(c.Config.Blueprints); path != "" {
		loaded, err := collections.LoadFile(path)
		if err != nil {
			return err
		}
		for _, collection := range loaded {
			c.collections.Register(collection)
		}
	}
	for _, collection := range c.extraColls {
		c.collections.Register(collection)
	}
	return nil
}

func (c *Container) configureUploads() error {
	c.assets = assets.NewRegistry()
	for handle, container := range c.Config.Containers {
		c.assets.Register(assets.NewDiskContainer(handle, container.Root))
	}
	for _, container := range c.extraAssets {
		c.assets.Register(container)
	}
	c.uploader = uploads.New(c.assets,
		uploads.WithLogger(logging.UploadsLogger(c.loggerProvider)),
		uploads.WithClock(c.clock),
		uploads.WithStripLeadingSlash(c.Config.Uploads.StripLeadingSlash),
	)
	return nil
}

func (c *Container) configureSubmissions() error {
	loc, err := c.Config.Location()
	if err != nil {
		return err
	}
	c.events = events.NewBroadcaster(eventBuffer)
	c.service = submissions.NewService(c.collections, *c.repos,
		submissions.WithLogger(logging.SubmissionsLogger(c.loggerProvider)),
		submissions.WithClock(c.clock),
		submissions.WithHoneypot(c.Config.Honeypot),
		submissions.WithDateLocation(loc),
		submissions.WithEventBus(c.events),
		submissions.WithUploader(c.uploader),
	)
	return nil
}

func (c *Container) configureGate() error {
	gate, err := permissions.NewGate(permissions.Config{
		Collections: c.Config.Collections,
		Actions:     c.Config.Actions,
		PolicyPath:  c.Config.PolicyPath,
	})
	if err != nil {
		return err
	}
	c.gate = gate
	return nil
}

func (c *Container) configureValidation() error {
	c.validation = validation.NewRegistry()
	for name, validator := range c.validators {
		c.validation.Register(name, validator)
	}

	list := make([]sites.Site, 0, len(c.Config.Sites))
	for _, site := range c.Config.Sites {
		list = append(list, sites.Site{Handle: site.Handle, URL: site.URL, Locale: site.Locale})
	}
	c.sites = sites.NewResolver(list...)
	return nil
}

func (c *Container) configureCommands() error {
	logger := commands.CommandLogger(c.loggerProvider, "guest_entries")
	c.createHandler = guestentrycmd.NewCreateEntryHandler(c.service, logger)
	c.updateHandler = guestentrycmd.NewUpdateEntryHandler(c.service, logger)
	c.deleteHandler = guestentrycmd.NewDeleteEntryHandler(c.service, logger)
	return nil
}

func (c *Container) configureHTTP() error {
	opts := []http.PublicOption{
		http.WithBasePath(c.Config.Routes.Base),
		http.WithDefaultRedirect(c.Config.Routes.DefaultRedirect),
		http.WithMaxMemory(c.Config.Uploads.MaxMemory),
		http.WithGate(c.gate),
		http.WithCollections(c.collections),
		http.WithValidator(c.validation),
		http.WithSites(c.sites),
		http.WithUserResolver(c.userResolver),
		http.WithLogger(logging.HTTPLogger(c.loggerProvider)),
		http.WithCommands(c.createHandler, c.updateHandler, c.deleteHandler),
	}
	switch {
	case c.sessionStore != nil:
		opts = append(opts, http.WithFlashStore(http.NewFlashStoreFrom(c.sessionStore, c.Config.Session.Name)))
	case c.Config.Session.Secret != "":
		opts = append(opts, http.WithFlashStore(http.NewFlashStore(c.Config.Session.Secret, c.Config.Session.Name)))
	}
	c.api = http.NewPublicAPI(opts...)
	return nil
}

// Handler returns a mux with the form endpoints registered.
func (c *Container) Handler() (nethttp.Handler, error) {
	mux := nethttp.NewServeMux()
	if err := c.api.Register(mux); err != nil {
		return nil, err
	}
	return mux, nil
}

// Close releases the database handle when the container opened it.
func (c *Container) Close() error {
	if c == nil || c.bunDB == nil || !c.ownsDB {
		return nil
	}
	return c.bunDB.Close()
}

func (c *Container) PublicAPI() *http.PublicAPI { return c.api }

func (c *Container) Service() *submissions.Service { return c.service }

func (c *Container) Events() *events.Broadcaster { return c.events }

func (c *Container) Repositories() storage.Repositories { return *c.repos }

func (c *Container) Collections() *collections.Registry { return c.collections }

func (c *Container) Gate() *permissions.Gate { return c.gate }

func (c *Container) Logger() interfaces.Logger { return c.logger }

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

func (c *Container) CreateHandler() *guestentrycmd.CreateEntryHandler { return c.createHandler }

func (c *Container) UpdateHandler() *guestentrycmd.UpdateEntryHandler { return c.updateHandler }

func (c *Container) DeleteHandler() *guestentrycmd.DeleteEntryHandler { return c.deleteHandler }
