package glaive

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/mkoppen/glaive/pkg/router"
	"github.com/mkoppen/glaive/pkg/transport"
)

// App wires route registration, the dispatcher, and server lifecycle
// into the embeddable framework surface. It implements http.Handler, so
// it can be mounted in any host server or driven by httptest.
type App struct {
	config     Config
	registry   *router.Registry[Handler]
	dispatcher *Dispatcher

	serverMu sync.Mutex
	server   *http.Server
}

// Config holds the dispatch engine's tunables. Zero values are filled by
// DefaultConfig; most embeddings configure through Options instead.
type Config struct {
	CaseInsensitiveRoutes bool
	Prefer405             bool
	AutogenerateETags     bool
	DynamicGzip           bool
	DefaultContentType    string
	ServerName            string
	MaxBodySize           int64
	Logger                *slog.Logger
	RequestLogger         RequestLogger
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		Prefer405:          true,
		DynamicGzip:        true,
		DefaultContentType: "text/plain",
		ServerName:         "glaive",
		MaxBodySize:        transport.DefaultMaxBodySize,
		Logger:             slog.Default(),
	}
}

// Option configures an App.
type Option func(*Config)

// WithCaseInsensitiveRoutes lower-cases request paths and pattern
// literals before matching.
func WithCaseInsensitiveRoutes(v bool) Option {
	return func(c *Config) { c.CaseInsensitiveRoutes = v }
}

// WithPrefer405 answers unmatched requests with 405 instead of 404 when
// other methods have bindings at the path.
func WithPrefer405(v bool) Option {
	return func(c *Config) { c.Prefer405 = v }
}

// WithAutogenerateETags computes an ETag for every GET response that
// does not carry one.
func WithAutogenerateETags(v bool) Option {
	return func(c *Config) { c.AutogenerateETags = v }
}

// WithDynamicGzip enables gzip encoding for large bodies when the client
// accepts it.
func WithDynamicGzip(v bool) Option {
	return func(c *Config) { c.DynamicGzip = v }
}

// WithDefaultContentType sets the content type used when no handler
// overrides it.
func WithDefaultContentType(ct string) Option {
	return func(c *Config) { c.DefaultContentType = ct }
}

// WithServerName sets the default Server response header.
func WithServerName(name string) Option {
	return func(c *Config) { c.ServerName = name }
}

// WithMaxBodySize bounds the cached request body.
func WithMaxBodySize(n int64) Option {
	return func(c *Config) { c.MaxBodySize = n }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithRequestLogger replaces the per-request completion log.
func WithRequestLogger(rl RequestLogger) Option {
	return func(c *Config) { c.RequestLogger = rl }
}

// New creates an App with the given options applied over DefaultConfig.
func New(opts ...Option) *App {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.RequestLogger == nil {
		cfg.RequestLogger = defaultRequestLogger(cfg.Logger)
	}

	registry := router.New[Handler](cfg.CaseInsensitiveRoutes)
	return &App{
		config:   cfg,
		registry: registry,
		dispatcher: &Dispatcher{
			registry: registry,
			faults:   newFaultBoundary(cfg.Logger),
			statuses: newStatusHandlers(),
			fin: finalizer{
				autogenerateETags: cfg.AutogenerateETags,
				dynamicGzip:       cfg.DynamicGzip,
			},
			logger:             cfg.Logger,
			requestLog:         cfg.RequestLogger,
			caseInsensitive:    cfg.CaseInsensitiveRoutes,
			prefer405:          cfg.Prefer405,
			defaultContentType: cfg.DefaultContentType,
			serverName:         cfg.ServerName,
		},
	}
}

// add registers a binding, panicking on malformed patterns. Registration
// happens at setup time; a bad pattern is a programmer error, handled
// the way net/http's ServeMux handles one.
func (a *App) add(phase router.Phase, path string, h Handler) *App {
	if err := a.registry.Add(phase, path, h); err != nil {
		panic(fmt.Sprintf("glaive: %v", err))
	}
	return a
}

// Before registers a handler that runs ahead of the endpoint for every
// request matching path.
func (a *App) Before(path string, h Handler) *App { return a.add(router.Before, path, h) }

// After registers a handler that runs after the status phase for every
// request matching path.
func (a *App) After(path string, h Handler) *App { return a.add(router.After, path, h) }

// Get registers a GET endpoint handler.
func (a *App) Get(path string, h Handler) *App { return a.add(router.Phase(http.MethodGet), path, h) }

// Post registers a POST endpoint handler.
func (a *App) Post(path string, h Handler) *App {
	return a.add(router.Phase(http.MethodPost), path, h)
}

// Put registers a PUT endpoint handler.
func (a *App) Put(path string, h Handler) *App { return a.add(router.Phase(http.MethodPut), path, h) }

// Patch registers a PATCH endpoint handler.
func (a *App) Patch(path string, h Handler) *App {
	return a.add(router.Phase(http.MethodPatch), path, h)
}

// Delete registers a DELETE endpoint handler.
func (a *App) Delete(path string, h Handler) *App {
	return a.add(router.Phase(http.MethodDelete), path, h)
}

// Head registers a HEAD endpoint handler.
func (a *App) Head(path string, h Handler) *App {
	return a.add(router.Phase(http.MethodHead), path, h)
}

// Error registers a status handler invoked when the response carries the
// given status code after routing has resolved.
func (a *App) Error(status int, h Handler) *App {
	a.dispatcher.statuses.add(status, h)
	return a
}

// Exception registers a handler for failures matching target via
// errors.Is, consulted before the built-in HTTPError mapping.
func (a *App) Exception(target error, h ExceptionHandler) *App {
	a.dispatcher.faults.on(target, h)
	return a
}

// Fallback appends a last-resort resolver tried, in registration order,
// for unmatched GET/HEAD requests.
func (a *App) Fallback(r Resolver) *App {
	a.dispatcher.resolvers = append(a.dispatcher.resolvers, r)
	return a
}

// ServeHTTP adapts the dispatch engine to the host server. For a
// suspended exchange it blocks until the continuation signals
// completion, since net/http ends the response when the handler
// returns.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ex := transport.NewExchange(w, r, a.config.MaxBodySize)
	a.dispatcher.Dispatch(ex)
	if ex.Suspended() {
		<-ex.Done()
	}
}
