// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"kubolor/internal/cache"
	"kubolor/internal/markdown"
	"kubolor/internal/models"
	"kubolor/internal/render"
	"kubolor/internal/store"
)

const (
	homePostLimit = 6
	blogPageSize  = 9
	relatedLimit  = 3
)

// Public groups the handlers of the public blog. The homepage and post
// pages are served from the Valkey page cache when present and stored
// there after a successful render.
type Public struct {
	renderer *render.Renderer
	posts    PostReader
	terms    TermLister
	pages    PageCache
	logger   *logrus.Logger
}

// NewPublic creates the public handler group.
func NewPublic(renderer *render.Renderer, posts PostReader, terms TermLister, pages PageCache, logger *logrus.Logger) *Public {
	return &Public{renderer: renderer, posts: posts, terms: terms, pages: pages, logger: logger}
}

// Home renders the six latest published posts and all categories. A read
// failure renders empty sections and skips the cache.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if page, ok := p.pages.Get(ctx, cache.HomeKey()); ok {
		render.Write(w, http.StatusOK, page)
		return
	}

	complete := true
	posts, _, err := p.posts.ListPublished(ctx, store.PublishedFilter{Limit: homePostLimit})
	if err != nil {
		p.logger.WithError(err).Warn("home: list posts failed")
		complete = false
	}
	categories, err := p.terms.ListTerms(ctx, models.TermCategory)
	if err != nil {
		p.logger.WithError(err).Warn("home: list categories failed")
		complete = false
	}

	body, err := p.renderer.Bytes("public/home", &render.PageData{
		Meta: render.HomeMeta(p.renderer.Site().URL),
		Data: map[string]any{
			"Posts":      posts,
			"Categories": categories,
		},
	})
	if err != nil {
		p.fail(w, r, err)
		return
	}
	if complete {
		p.pages.Set(ctx, cache.HomeKey(), body)
	}
	render.Write(w, http.StatusOK, body)
}

// Blog renders one page of the published listing, optionally filtered by
// category slug and a search query.
func (p *Public) Blog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	categorySlug := strings.TrimSpace(q.Get("category"))
	query := strings.TrimSpace(q.Get("q"))
	page := render.ParsePage(q.Get("page"))

	posts, total, err := p.posts.ListPublished(ctx, store.PublishedFilter{
		CategorySlug: categorySlug,
		Query:        query,
		Limit:        blogPageSize,
		Offset:       render.Offset(page, blogPageSize),
	})
	if err != nil {
		p.logger.WithError(err).Warn("blog: list posts failed")
		posts, total = nil, 0
	}
	categories, err := p.terms.ListTerms(ctx, models.TermCategory)
	if err != nil {
		p.logger.WithError(err).Warn("blog: list categories failed")
	}

	p.page(w, r, http.StatusOK, "public/blog", &render.PageData{
		Meta: render.BlogMeta(p.renderer.Site().URL),
		Data: map[string]any{
			"CategorySlug": categorySlug,
			"Query":        query,
			"Categories":   categories,
			"Posts":        posts,
			"Pagination": render.Paginate(page, total, blogPageSize, "/blog", url.Values{
				"category": {categorySlug},
				"q":        {query},
			}),
		},
	})
}

// Post renders a published post. A missing post is a 404 and a read
// failure a 503, both with the neutral "Post unavailable" page.
func (p *Public) Post(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "slug")
	key := cache.PostKey(slugParam)

	if page, ok := p.pages.Get(ctx, key); ok {
		render.Write(w, http.StatusOK, page)
		return
	}

	post, err := p.posts.FindPublishedBySlug(ctx, slugParam)
	if err != nil {
		p.logger.WithError(err).WithField("slug", slugParam).Error("post: fetch failed")
		p.unavailable(w, r, http.StatusServiceUnavailable)
		return
	}
	if post == nil {
		p.unavailable(w, r, http.StatusNotFound)
		return
	}

	html, err := markdown.ToHTML(post.Content)
	if err != nil {
		p.logger.WithError(err).WithField("slug", slugParam).Error("post: render markdown failed")
		p.unavailable(w, r, http.StatusServiceUnavailable)
		return
	}

	related, err := p.posts.ListRelated(ctx, post.ID, post.CategoryID, relatedLimit)
	if err != nil {
		p.logger.WithError(err).WithField("slug", slugParam).Warn("post: related posts failed")
		related = nil
	}

	body, err := p.renderer.Bytes("public/post", &render.PageData{
		Meta: render.PostMeta(p.renderer.Site().URL, post),
		Data: map[string]any{
			"Post":    post,
			"Body":    html,
			"Related": related,
		},
	})
	if err != nil {
		p.fail(w, r, err)
		return
	}
	p.pages.Set(ctx, key, body)
	render.Write(w, http.StatusOK, body)
}

// SignIn links to the identity provider's hosted sign-in page.
func (p *Public) SignIn(w http.ResponseWriter, r *http.Request) {
	p.page(w, r, http.StatusOK, "public/sign_in", &render.PageData{
		Title: "Sign in",
		Data:  map[string]any{"HostedURL": p.renderer.Site().HostedSignInURL},
	})
}

// NotFound renders the 404 page.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	p.page(w, r, http.StatusNotFound, "public/not_found", &render.PageData{Title: "Page not found"})
}

func (p *Public) unavailable(w http.ResponseWriter, r *http.Request, status int) {
	p.page(w, r, status, "public/unavailable", &render.PageData{Title: "Post unavailable"})
}

func (p *Public) page(w http.ResponseWriter, r *http.Request, status int, name string, data *render.PageData) {
	if err := p.renderer.Page(w, r, status, name, data); err != nil {
		p.logger.WithError(err).WithField("template", name).Error("render failed")
	}
}

func (p *Public) fail(w http.ResponseWriter, r *http.Request, err error) {
	p.logger.WithError(err).WithField("path", r.URL.Path).Error("render failed")
	http.Error(w, "Something went wrong. Please try again.", http.StatusInternalServerError)
}
