// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for
// Kubolor. It organizes routes into the public blog, the admin JSON API
// and the admin pages, each with its own access gate.
package router

import (
	"io/fs"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"kubolor/internal/handlers"
	"kubolor/internal/middleware"
	"kubolor/internal/models"
)

// Options carries the cross-cutting dependencies of the router.
type Options struct {
	Logger    *logrus.Logger
	Hub       *sentry.Hub // nil disables Sentry request scopes
	Resolver  middleware.Resolver
	SignInURL string
	HSTS      bool
	Static    fs.FS

	// GenerateLimiter throttles POST /ai/generate per client IP. nil
	// disables throttling.
	GenerateLimiter *middleware.RateLimiter
}

// Handlers are the handler groups mounted by New.
type Handlers struct {
	API    *handlers.API
	Public *handlers.Public
	Admin  *handlers.Admin
}

// New creates the configured chi router.
func New(opts Options, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Sentry(opts.Hub))
	r.Use(middleware.Logger(opts.Logger))
	r.Use(middleware.Recoverer(opts.Logger))
	r.Use(middleware.SecureHeaders(opts.HSTS))
	r.Use(middleware.ResolveAccess(opts.Resolver))

	r.Get("/health", healthHandler)

	if opts.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(opts.Static))))
		r.Get("/kubolor-logo.png", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFileFS(w, r, opts.Static, "kubolor-logo.png")
		})
	}

	// Public blog.
	r.Get("/", h.Public.Home)
	r.Get("/blog", h.Public.Blog)
	r.Get("/blog/{slug}", h.Public.Post)
	r.Get("/sitemap.xml", h.Public.Sitemap)
	r.Get("/sign-in", h.Public.SignIn)
	for _, page := range handlers.Policies {
		r.Get(page.Path, h.Public.PolicyPage(page))
	}
	r.NotFound(h.Public.NotFound)

	// Admin JSON API.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdminAPI)
		r.Use(middleware.RequireJSON)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.API.ListTerms(models.TermCategory))
			r.Post("/", h.API.CreateTerm(models.TermCategory))
			r.Post("/{id}", h.API.UpdateTerm(models.TermCategory))
			r.Post("/{id}/delete", h.API.DeleteTerm(models.TermCategory))
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", h.API.ListTerms(models.TermTag))
			r.Post("/", h.API.CreateTerm(models.TermTag))
			r.Post("/{id}/delete", h.API.DeleteTerm(models.TermTag))
		})

		r.Route("/posts", func(r chi.Router) {
			r.Post("/", h.API.CreatePost)
			r.Get("/{id}", h.API.GetPost)
			r.Post("/{id}", h.API.UpdatePost)
			r.Post("/{id}/publish", h.API.PublishPost)
		})

		generate := r.With()
		if opts.GenerateLimiter != nil {
			generate = r.With(opts.GenerateLimiter.Middleware)
		}
		generate.Post("/ai/generate", h.API.Generate)
	})

	// Admin pages.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdminPage(opts.SignInURL))

		r.Get("/", h.Admin.Dashboard)
		r.Get("/posts", h.Admin.Posts)
		r.Get("/posts/new", h.Admin.NewPost)
		r.Get("/posts/{id}", h.Admin.EditPost)
		r.Get("/categories", h.Admin.Terms(models.TermCategory))
		r.Get("/tags", h.Admin.Terms(models.TermTag))
		r.Get("/ai", h.Admin.Generator)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
