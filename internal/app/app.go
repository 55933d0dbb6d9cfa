// Package app wires the session service together and runs it.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/wasgeurtjeNL/storefront-session/internal/backend"
	"github.com/wasgeurtjeNL/storefront-session/internal/cache"
	"github.com/wasgeurtjeNL/storefront-session/internal/config"
	"github.com/wasgeurtjeNL/storefront-session/internal/domain"
	handler "github.com/wasgeurtjeNL/storefront-session/internal/handler/http"
	"github.com/wasgeurtjeNL/storefront-session/internal/identity"
	"github.com/wasgeurtjeNL/storefront-session/internal/reorder"
	"github.com/wasgeurtjeNL/storefront-session/internal/session"
	"github.com/wasgeurtjeNL/storefront-session/internal/store"
	"github.com/wasgeurtjeNL/storefront-session/pkg/health"
	"github.com/wasgeurtjeNL/storefront-session/pkg/httpclient"
	"github.com/wasgeurtjeNL/storefront-session/pkg/middleware"
)

// App wires together all dependencies and runs the session service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *store.Store
	lifecycle  *session.Lifecycle
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Open the device-local session store.
	sessionStore, err := store.Open(cfg.StorePath, logger)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	logger.Info("session store opened", slog.String("path", cfg.StorePath))

	registry := identity.NewRegistry(sessionStore)

	// One retrying client shared by all collaborators.
	client := httpclient.New(httpclient.Config{
		Timeout:         10 * time.Second,
		MaxRetries:      3,
		RetryWaitMin:    500 * time.Millisecond,
		RetryWaitMax:    5 * time.Second,
		MaxConnsPerHost: 100,
	})

	authClient := backend.NewAuthClient(cfg.AuthBaseURL, client, logger)
	customerClient := backend.NewCustomerClient(cfg.CommerceBaseURL, cfg.CommerceKey, cfg.CommerceSecret, client, logger)
	orderClient := backend.NewOrderClient(cfg.CommerceBaseURL, cfg.CommerceKey, cfg.CommerceSecret, client, logger)
	loyaltyClient := backend.NewLoyaltyClient(cfg.LoyaltyBaseURL, client, logger)
	catalogClient := backend.NewCatalogClient(cfg.CommerceBaseURL, cfg.CommerceKey, cfg.CommerceSecret, client, logger)

	lifecycle := session.NewLifecycle(session.Deps{
		Store:        sessionStore,
		Auth:         authClient,
		Customers:    customerClient,
		Orders:       orderClient,
		Loyalty:      loyaltyClient,
		Registry:     registry,
		OrdersCache:  cache.New[[]domain.Order]("orders", cfg.CacheTTL),
		LoyaltyCache: cache.New[*domain.LoyaltySnapshot]("loyalty", cfg.CacheTTL),
		OfferCache:   cache.New[bool]("offers", cfg.CacheTTL),
		Logger:       logger,
	})

	resolver := reorder.NewResolver(catalogClient, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("store", func(ctx context.Context) error {
		return sessionStore.Ping(ctx)
	})

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.AllowedOrigins

	router := handler.NewRouter(lifecycle, resolver, healthHandler, corsCfg, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		store:      sessionStore,
		lifecycle:  lifecycle,
		httpServer: httpServer,
	}, nil
}

// Run restores the persisted session, starts the HTTP server, and blocks
// until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	// Restore before serving: a persisted identity must be visible to the
	// first request without a network round-trip.
	if err := a.lifecycle.Restore(ctx); err != nil {
		a.logger.Warn("session restore failed", slog.String("error", err.Error()))
	}

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components: the HTTP server first so
// in-flight requests drain, then the session store.
func (a *App) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown failed", slog.String("error", err.Error()))
	}

	if err := a.store.Close(); err != nil {
		a.logger.Error("session store close failed", slog.String("error", err.Error()))
		return err
	}

	a.logger.Info("shutdown complete")
	return nil
}
