// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Kubolor blog server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"kubolor/internal/access"
	"kubolor/internal/ai"
	"kubolor/internal/cache"
	"kubolor/internal/config"
	"kubolor/internal/content"
	"kubolor/internal/database"
	"kubolor/internal/handlers"
	"kubolor/internal/logging"
	"kubolor/internal/middleware"
	"kubolor/internal/render"
	"kubolor/internal/router"
	"kubolor/internal/store"
	"kubolor/web"
)

func main() {
	if err := run(); err != nil {
		logrus.WithField("error", eris.ToString(err, true)).Fatal("kubolor stopped")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return eris.Wrap(err, "loading configuration")
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}

	hub, flush, err := logging.InitSentry(logger, logging.SentrySettings{
		DSN:         cfg.Log.SentryDSN,
		Environment: cfg.Server.Env,
		Release:     cfg.Log.SentryRelease,
	})
	if err != nil {
		return eris.Wrap(err, "initializing sentry")
	}
	defer flush()

	logger.WithFields(logrus.Fields{
		"env":  cfg.Server.Env,
		"addr": cfg.Addr(),
	}).Info("configuration loaded")

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return eris.Wrap(err, "connecting to database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return eris.Wrap(err, "running migrations")
	}

	// Upsert the default categories in development; unchanged rows are skipped.
	if cfg.IsDev() {
		n, err := database.Seed(ctx, db)
		if err != nil {
			return eris.Wrap(err, "seeding database")
		}
		if n > 0 {
			logger.WithField("categories", n).Info("default categories seeded")
		}
	}

	// The page cache is optional; a nil PageCache disables caching.
	var pages *cache.PageCache
	if cfg.Valkey.Addr != "" {
		client, err := cache.Connect(ctx, cfg.Valkey.Addr, cfg.Valkey.Password)
		if err != nil {
			return eris.Wrap(err, "connecting to valkey")
		}
		defer client.Close()
		pages = cache.NewPageCache(client, cfg.Valkey.PageTTL, logger)
	} else {
		logger.Warn("valkey not configured, page cache disabled")
	}

	categories := store.NewCategoryStore(db)
	tags := store.NewTagStore(db)
	posts := store.NewPostStore(db)
	svc := content.NewService(store.NewTxManager(db), categories, tags, posts, store.NewUserStore(db))

	guard, err := newGuard(cfg, logger)
	if err != nil {
		return err
	}

	var drafter handlers.Drafter
	if cfg.AIEnabled() {
		provider, err := ai.NewOpenAI(ai.ClientOptions{
			APIKey:  cfg.AI.APIKey,
			Model:   cfg.AI.Model,
			BaseURL: cfg.AI.BaseURL,
			Timeout: cfg.AI.Timeout,
		})
		if err != nil {
			return eris.Wrap(err, "initializing ai provider")
		}
		drafter = ai.NewDrafter(ai.DrafterOptions{
			Provider:   provider,
			Log:        store.NewGenerationLogStore(db),
			Logger:     logger,
			MaxRetries: cfg.AI.MaxRetries,
			RetryBase:  cfg.AI.RetryBase,
		})
		logger.WithField("model", provider.Model()).Info("draft generator enabled")
	} else {
		logger.Warn("OPENAI_API_KEY not set, draft generator disabled")
	}

	renderer, err := render.New(render.Site{
		URL:             cfg.Site.URL,
		ShowPolicyPages: cfg.Site.ShowPolicyPages,
		SignInURL:       cfg.Identity.SignInURL,
		HostedSignInURL: cfg.Identity.HostedSignInURL,
	})
	if err != nil {
		return eris.Wrap(err, "parsing templates")
	}

	proxies, err := middleware.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return eris.Wrap(err, "parsing trusted proxies")
	}
	limiter := middleware.NewRateLimiter(cfg.AI.RateLimit, time.Minute, logger).TrustProxies(proxies)
	defer limiter.Stop()

	r := router.New(router.Options{
		Logger:          logger,
		Hub:             hub,
		Resolver:        guard,
		SignInURL:       cfg.Identity.SignInURL,
		HSTS:            !cfg.IsDev(),
		Static:          web.Static(),
		GenerateLimiter: limiter,
	}, router.Handlers{
		API:    handlers.NewAPI(svc, drafter, pages, logger),
		Public: handlers.NewPublic(renderer, posts, svc, pages, logger),
		Admin:  handlers.NewAdmin(renderer, svc, store.NewStatsStore(db), drafter != nil, logger),
	})

	// WriteTimeout must accommodate the draft generator waiting on the
	// model, including retries.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", srv.Addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return eris.Wrap(err, "serving http")
	case sig := <-quit:
		logger.WithField("signal", sig.String()).Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "shutting down server")
	}

	logger.Info("server stopped gracefully")
	return nil
}

// newGuard builds the access resolver. Missing identity settings leave the
// corresponding dependency nil so every caller resolves as Anonymous or
// Member.
func newGuard(cfg *config.Config, logger *logrus.Logger) (*access.Guard, error) {
	var verifier access.TokenVerifier
	v, err := access.NewVerifier(cfg.Identity.JWTPublicKey, cfg.Identity.JWTSecret)
	if err != nil {
		return nil, eris.Wrap(err, "parsing identity key")
	}
	if v.Configured() {
		verifier = v
	} else {
		logger.Warn("identity keys not set, admin access disabled")
	}

	var profiles access.ProfileFetcher
	if pc := access.NewProfileClient(cfg.Identity.APIURL, cfg.Identity.SecretKey, nil); pc.Configured() {
		profiles = pc
	}

	return access.NewGuard(verifier, profiles, logger), nil
}
