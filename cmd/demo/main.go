// Command demo runs a glaive server assembled from a config file.
//
// Configuration is loaded from (in order) the path given as the first
// argument, GLAIVE_CONFIG, ./glaive.yaml, or /etc/glaive/glaive.yaml,
// with GLAIVE_* environment variables overriding individual settings.
//
// The demo exposes a few JSON endpoints, optional static file serving,
// optional authentication and sessions, and a Prometheus metrics
// endpoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mkoppen/glaive/pkg/auth"
	"github.com/mkoppen/glaive/pkg/config"
	"github.com/mkoppen/glaive/pkg/debug"
	"github.com/mkoppen/glaive/pkg/fallback"
	"github.com/mkoppen/glaive/pkg/glaive"
	"github.com/mkoppen/glaive/pkg/observability"
	"github.com/mkoppen/glaive/pkg/session"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := ""
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	debug.Init(cfg.Logging.Debug, cfg.Logging.Level)

	app := glaive.New(
		glaive.WithCaseInsensitiveRoutes(cfg.Routing.CaseInsensitive),
		glaive.WithPrefer405(cfg.Routing.Prefer405),
		glaive.WithAutogenerateETags(cfg.Responses.AutogenerateETags),
		glaive.WithDynamicGzip(cfg.Responses.DynamicGzip),
		glaive.WithDefaultContentType(cfg.Responses.DefaultContentType),
		glaive.WithServerName(cfg.Responses.ServerName),
		glaive.WithMaxBodySize(cfg.Server.MaxBodySize),
	)

	if err := configureAuth(app, cfg); err != nil {
		return err
	}

	store, err := configureSessions(app, cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	registerRoutes(app)
	configureFallbacks(app, cfg)

	// Build the outer mux: metrics endpoint plus the app itself wrapped
	// in the metrics middleware.
	mux := http.NewServeMux()
	if cfg.Metrics.Enabled {
		mux.Handle("GET "+cfg.Metrics.Path, promhttp.Handler())
		mux.Handle("/", observability.MetricsMiddleware(app))
	} else {
		mux.Handle("/", app)
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down gracefully", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// configureAuth installs an authentication chain on /api/* when auth is
// enabled in the config.
func configureAuth(app *glaive.App, cfg *config.Config) error {
	var authenticators []auth.Authenticator

	switch cfg.Auth.Type {
	case "", "none":
		return nil
	case "apikey":
		keys := make([]auth.RawKey, 0, len(cfg.Auth.APIKeys))
		for _, k := range cfg.Auth.APIKeys {
			keys = append(keys, auth.RawKey{Key: k.Key, Subject: k.Subject})
		}
		authenticators = append(authenticators, auth.NewAPIKey(keys))
	case "jwt":
		authenticators = append(authenticators, auth.NewJWT(auth.JWTConfig{
			Secret:   []byte(cfg.Auth.JWT.Secret),
			Issuer:   cfg.Auth.JWT.Issuer,
			Audience: cfg.Auth.JWT.Audience,
		}))
	default:
		return fmt.Errorf("unknown auth type %q", cfg.Auth.Type)
	}

	chain := &auth.Chain{Authenticators: authenticators}
	app.Before("/api/*", auth.Handler(chain))
	slog.Info("auth enabled", "type", cfg.Auth.Type)
	return nil
}

// configureSessions installs session middleware when a session store is
// configured. Returns the store so the caller can close it on exit.
func configureSessions(app *glaive.App, cfg *config.Config) (session.Store, error) {
	var store session.Store

	switch cfg.Session.Type {
	case "", "none":
		return nil, nil
	case "memory":
		store = session.NewMemoryStore(cfg.Session.MaxSize)
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		pg, err := session.NewPostgresStore(ctx, session.PostgresConfig{
			DSN:            cfg.Session.Postgres.DSN,
			MaxConns:       cfg.Session.Postgres.MaxConns,
			MigrateOnStart: cfg.Session.Postgres.MigrateOnStart,
		})
		if err != nil {
			return nil, fmt.Errorf("creating session store: %w", err)
		}
		store = pg
	default:
		return nil, fmt.Errorf("unknown session type %q", cfg.Session.Type)
	}

	before, after := session.Middleware(store, cfg.Session.TTL)
	app.Before("/*", before)
	app.After("/*", after)
	slog.Info("sessions enabled", "type", cfg.Session.Type, "ttl", cfg.Session.TTL)
	return store, nil
}

// registerRoutes wires the demo endpoints.
func registerRoutes(app *glaive.App) {
	app.Get("/api/ping", func(c *glaive.Context) error {
		return c.JSON(map[string]string{"message": "pong"})
	})

	app.Get("/api/greet/{name}", func(c *glaive.Context) error {
		return c.JSON(map[string]string{"greeting": "hello " + c.PathParam("name")})
	})

	app.Get("/api/whoami", func(c *glaive.Context) error {
		if id := auth.FromContext(c); id != nil {
			return c.JSON(map[string]any{"subject": id.Subject, "scopes": id.Scopes})
		}
		return c.JSON(map[string]string{"subject": "anonymous"})
	})

	// A slow endpoint served asynchronously: the dispatch thread is
	// released while the result is produced.
	app.Get("/api/slow", func(c *glaive.Context) error {
		f := glaive.NewFuture()
		go func() {
			time.Sleep(250 * time.Millisecond)
			f.Complete([]byte("done\n"))
		}()
		c.ResultFuture(f)
		return nil
	})

	app.Post("/api/counter", func(c *glaive.Context) error {
		sess := session.FromContext(c)
		if sess == nil {
			return glaive.NewHTTPError(http.StatusNotImplemented, "sessions disabled")
		}
		n := 1
		if prev := sess.Get("count"); prev != "" {
			fmt.Sscanf(prev, "%d", &n)
			n++
		}
		sess.Set("count", fmt.Sprintf("%d", n))
		return c.JSON(map[string]int{"count": n})
	})

	app.Error(http.StatusNotFound, func(c *glaive.Context) error {
		c.ContentType("application/json")
		c.ResultString(`{"error":"not found"}`)
		return nil
	})
}

// configureFallbacks installs static file and single-page resolvers when
// configured.
func configureFallbacks(app *glaive.App, cfg *config.Config) {
	if cfg.Static.Dir != "" {
		app.Fallback(fallback.NewStatic(os.DirFS(cfg.Static.Dir)))
		slog.Info("static files enabled", "dir", cfg.Static.Dir)
	}
	if cfg.Static.Dir != "" && cfg.Static.SinglePageShell != "" {
		app.Fallback(fallback.NewSinglePage(
			os.DirFS(cfg.Static.Dir),
			cfg.Static.SinglePageShell,
			cfg.Static.SinglePagePrefix,
		))
		slog.Info("single-page shell enabled",
			"shell", cfg.Static.SinglePageShell, "prefix", cfg.Static.SinglePagePrefix)
	}
}
