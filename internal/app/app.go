// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package app wires the admin's services together in a dependency
// injection container. Services are built lazily on first use and closed
// in reverse order by Shutdown.
package app

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do/v2"

	"audiobook-admin/internal/backend"
	"audiobook-admin/internal/cache"
	"audiobook-admin/internal/config"
	"audiobook-admin/internal/database"
	"audiobook-admin/internal/handlers"
	"audiobook-admin/internal/identity"
	"audiobook-admin/internal/middleware"
	"audiobook-admin/internal/render"
	"audiobook-admin/internal/router"
	"audiobook-admin/internal/session"
	"audiobook-admin/internal/storage"
	"audiobook-admin/internal/store"
	"audiobook-admin/internal/upload"
)

const (
	// shutdownTimeout bounds the HTTP server drain.
	shutdownTimeout = 30 * time.Second

	// Uploads allowed per client per uploadWindow.
	uploadBurst  = 30
	uploadWindow = time.Minute
)

// DB wraps the journal database so the container closes it.
type DB struct {
	*sql.DB
}

// Shutdown implements do.Shutdownable.
func (h *DB) Shutdown() error {
	return h.Close()
}

// Valkey wraps the session and cache client.
type Valkey struct {
	*redis.Client
}

// Shutdown implements do.Shutdownable.
func (h *Valkey) Shutdown() error {
	return h.Close()
}

// UploadLimiter wraps the per-client upload rate limiter.
type UploadLimiter struct {
	*middleware.RateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *UploadLimiter) Shutdown() {
	h.Stop()
}

// Server wraps the HTTP server.
type Server struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// NewContainer creates the container for cfg with every provider
// registered. Nothing is connected until a service is invoked.
func NewContainer(cfg *config.Config) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, cfg)

	// Infrastructure
	do.Provide(injector, ProvideDB)
	do.Provide(injector, ProvideValkey)
	do.Provide(injector, ProvideRenderer)
	do.Provide(injector, ProvideBackend)

	// Domain services
	do.Provide(injector, ProvidePresigner)
	do.Provide(injector, ProvideSagaStore)
	do.Provide(injector, ProvideTreeCache)
	do.Provide(injector, ProvideSessions)
	do.Provide(injector, ProvideVerifier)

	// HTTP
	do.Provide(injector, ProvideAdmin)
	do.Provide(injector, ProvideAuth)
	do.Provide(injector, ProvideUploadLimiter)
	do.Provide(injector, ProvideServer)

	return injector
}

// ProvideDB connects to PostgreSQL and applies pending migrations.
func ProvideDB(i do.Injector) (*DB, error) {
	cfg := do.MustInvoke[*config.Config](i)
	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{DB: db}, nil
}

// ProvideValkey connects to Valkey.
func ProvideValkey(i do.Injector) (*Valkey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	client, err := cache.ConnectValkey(context.Background(), cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return nil, err
	}
	return &Valkey{Client: client}, nil
}

// ProvideRenderer parses the admin templates.
func ProvideRenderer(i do.Injector) (*render.Renderer, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return render.New(cfg.IsDev())
}

// ProvideBackend creates the REST backend client.
func ProvideBackend(i do.Injector) (*backend.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return backend.New(cfg.BackendURL, cfg.BackendTimeout), nil
}

// ProvidePresigner picks where upload targets are signed: by the backend
// or locally against the S3 bucket.
func ProvidePresigner(i do.Injector) (upload.Presigner, error) {
	cfg := do.MustInvoke[*config.Config](i)

	if cfg.UploadPresigner != config.PresignerS3 {
		return do.MustInvoke[*backend.Client](i), nil
	}

	client, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, errors.New("s3 presigner selected but S3 credentials are incomplete")
	}
	slog.Info("s3 presigner enabled", "endpoint", cfg.S3Endpoint, "bucket", client.Bucket())
	return client, nil
}

// ProvideSagaStore creates the creation journal.
func ProvideSagaStore(i do.Injector) (*store.SagaStore, error) {
	db := do.MustInvoke[*DB](i)
	return store.NewSagaStore(db.DB), nil
}

// ProvideTreeCache creates the category tree cache.
func ProvideTreeCache(i do.Injector) (*cache.TreeCache, error) {
	v := do.MustInvoke[*Valkey](i)
	return cache.NewTreeCache(v.Client, cache.DefaultTreeTTL), nil
}

// ProvideSessions creates the session store. Cookies are HTTPS-only
// outside development.
func ProvideSessions(i do.Injector) (*session.Store, error) {
	cfg := do.MustInvoke[*config.Config](i)
	v := do.MustInvoke[*Valkey](i)
	return session.NewStore(v.Client, !cfg.IsDev()), nil
}

// ProvideVerifier creates the identity token verifier. Without a key the
// verifier is nil and sign-in callbacks are refused.
func ProvideVerifier(i do.Injector) (*identity.Verifier, error) {
	cfg := do.MustInvoke[*config.Config](i)
	v, err := identity.New(cfg.IDPHMACSecret, cfg.IDPPublicKey, cfg.IDPIssuer)
	if errors.Is(err, identity.ErrNoKey) {
		slog.Warn("identity provider key not configured, sign-in disabled")
		return nil, nil
	}
	return v, err
}

// ProvideAdmin creates the admin handler group.
func ProvideAdmin(i do.Injector) (*handlers.Admin, error) {
	cfg := do.MustInvoke[*config.Config](i)
	admin := handlers.NewAdmin(
		do.MustInvoke[*render.Renderer](i),
		do.MustInvoke[*backend.Client](i),
		do.MustInvoke[*store.SagaStore](i),
		do.MustInvoke[*cache.TreeCache](i),
		do.MustInvoke[upload.Presigner](i),
		handlers.UploadLimits{Audio: cfg.MaxAudioBytes(), Image: cfg.MaxImageBytes()},
	)
	admin.SetAudioProber(upload.MetadataProber{})
	return admin, nil
}

// ProvideAuth creates the sign-in handler group.
func ProvideAuth(i do.Injector) (*handlers.Auth, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return handlers.NewAuth(
		do.MustInvoke[*render.Renderer](i),
		do.MustInvoke[*session.Store](i),
		do.MustInvoke[*identity.Verifier](i),
		cfg.IDPSignInURL,
	), nil
}

// ProvideUploadLimiter creates the per-client upload limiter.
func ProvideUploadLimiter(i do.Injector) (*UploadLimiter, error) {
	return &UploadLimiter{RateLimiter: middleware.NewRateLimiter(uploadBurst, uploadWindow)}, nil
}

// ProvideServer builds the HTTP server. It does not start listening.
func ProvideServer(i do.Injector) (*Server, error) {
	cfg := do.MustInvoke[*config.Config](i)

	handler := router.New(
		do.MustInvoke[*session.Store](i),
		do.MustInvoke[*render.Renderer](i),
		do.MustInvoke[*handlers.Admin](i),
		do.MustInvoke[*handlers.Auth](i),
		router.Options{
			SecureCookies: !cfg.IsDev(),
			UploadLimiter: do.MustInvoke[*UploadLimiter](i).RateLimiter,
		},
	)

	// WriteTimeout covers an audiobook upload streamed through to storage.
	return &Server{Server: &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Minute,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}}, nil
}
