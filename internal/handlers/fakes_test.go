// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"kubolor/internal/access"
	"kubolor/internal/ai"
	"kubolor/internal/content"
	"kubolor/internal/models"
	"kubolor/internal/render"
	"kubolor/internal/store"
)

// stubContent records the calls it receives and answers with the
// configured post, terms and error.
type stubContent struct {
	post     *models.Post
	terms    []models.Term
	tagTerms []models.Term // listed for TermTag when set
	err      error

	author     content.Author
	input      content.PostInput
	patch      content.PostPatch
	publishAt  *time.Time
	calls      []string
	termName   string
	termSlug   string
	termKind   models.TermKind
	recentSize int
}

func (s *stubContent) record(call string) { s.calls = append(s.calls, call) }

func (s *stubContent) term() (*models.Term, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Term{ID: uuid.New(), Name: s.termName, Slug: s.termSlug}, nil
}

func (s *stubContent) CreateTerm(_ context.Context, kind models.TermKind, name, slug string) (*models.Term, error) {
	s.record("CreateTerm")
	s.termKind, s.termName, s.termSlug = kind, name, slug
	return s.term()
}

func (s *stubContent) UpdateTerm(_ context.Context, kind models.TermKind, _ uuid.UUID, name, slug string) (*models.Term, error) {
	s.record("UpdateTerm")
	s.termKind, s.termName, s.termSlug = kind, name, slug
	return s.term()
}

func (s *stubContent) DeleteTerm(_ context.Context, kind models.TermKind, _ uuid.UUID) error {
	s.record("DeleteTerm")
	s.termKind = kind
	return s.err
}

func (s *stubContent) ListTerms(_ context.Context, kind models.TermKind) ([]models.Term, error) {
	s.record("ListTerms")
	s.termKind = kind
	if kind == models.TermTag && s.tagTerms != nil {
		return s.tagTerms, s.err
	}
	return s.terms, s.err
}

func (s *stubContent) CreatePost(_ context.Context, author content.Author, in content.PostInput) (*models.Post, error) {
	s.record("CreatePost")
	s.author, s.input = author, in
	if s.err != nil {
		return nil, s.err
	}
	return s.post, nil
}

func (s *stubContent) UpdatePost(_ context.Context, _ uuid.UUID, patch content.PostPatch) (*models.Post, error) {
	s.record("UpdatePost")
	s.patch = patch
	if s.err != nil {
		return nil, s.err
	}
	return s.post, nil
}

func (s *stubContent) PublishPost(_ context.Context, _ uuid.UUID, at *time.Time) (*models.Post, error) {
	s.record("PublishPost")
	s.publishAt = at
	if s.err != nil {
		return nil, s.err
	}
	return s.post, nil
}

func (s *stubContent) GetPost(_ context.Context, _ uuid.UUID) (*models.Post, error) {
	s.record("GetPost")
	if s.err != nil {
		return nil, s.err
	}
	return s.post, nil
}

func (s *stubContent) RecentPosts(_ context.Context, limit int) ([]models.Post, error) {
	s.record("RecentPosts")
	s.recentSize = limit
	if s.post == nil {
		return nil, s.err
	}
	return []models.Post{*s.post}, s.err
}

// stubDrafter returns a fixed draft or error.
type stubDrafter struct {
	draft *ai.Draft
	err   error
	req   ai.DraftRequest
}

func (d *stubDrafter) Generate(_ context.Context, req ai.DraftRequest) (*ai.Draft, error) {
	d.req = req
	return d.draft, d.err
}

// memPages is an in-memory PageCache.
type memPages struct {
	mu          sync.Mutex
	pages       map[string][]byte
	invalidated int
}

func newMemPages() *memPages { return &memPages{pages: map[string][]byte{}} }

func (m *memPages) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	page, ok := m.pages[key]
	return page, ok
}

func (m *memPages) Set(_ context.Context, key string, page []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[key] = page
}

func (m *memPages) InvalidateAll(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages = map[string][]byte{}
	m.invalidated++
}

// stubPosts is a PostReader over a fixed set of published posts.
type stubPosts struct {
	posts      []models.Post
	total      int
	err        error
	relatedErr error
	sitemap    []store.SitemapEntry

	filter      store.PublishedFilter
	listCalls   int
	bySlugCalls int
}

func (s *stubPosts) FindPublishedBySlug(_ context.Context, slug string) (*models.Post, error) {
	s.bySlugCalls++
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.posts {
		if s.posts[i].Slug == slug {
			return &s.posts[i], nil
		}
	}
	return nil, nil
}

func (s *stubPosts) ListPublished(_ context.Context, f store.PublishedFilter) ([]models.Post, int, error) {
	s.listCalls++
	s.filter = f
	if s.err != nil {
		return nil, 0, s.err
	}
	return s.posts, s.total, nil
}

func (s *stubPosts) ListRelated(_ context.Context, postID, _ uuid.UUID, _ int) ([]models.Post, error) {
	if s.relatedErr != nil {
		return nil, s.relatedErr
	}
	var out []models.Post
	for _, p := range s.posts {
		if p.ID != postID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubPosts) ListSitemap(context.Context) ([]store.SitemapEntry, error) {
	return s.sitemap, s.err
}

type stubStats struct {
	stats *models.DashboardStats
	err   error
}

func (s *stubStats) Dashboard(context.Context) (*models.DashboardStats, error) {
	return s.stats, s.err
}

func newLogger() (*logrus.Logger, *test.Hook) {
	return test.NewNullLogger()
}

func newRenderer(t *testing.T, site render.Site) *render.Renderer {
	t.Helper()
	if site.URL == "" {
		site.URL = "https://blog.example.com"
	}
	rn, err := render.New(site)
	require.NoError(t, err)
	return rn
}

// adminRequest builds a request carrying an admin access context and the
// given chi URL parameters.
func adminRequest(method, target, body string, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	ac := access.Context{Level: access.Admin, UserID: "user_admin", Email: "admin@example.com"}
	ctx := access.WithContext(req.Context(), ac)

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func samplePost() *models.Post {
	published := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	cat := &models.Category{ID: uuid.New(), Name: "News", Slug: "news"}
	return &models.Post{
		ID:          uuid.New(),
		Title:       "Launch Day",
		Slug:        "launch-day",
		Content:     "# Launch Day\n\nWe shipped **it**.",
		Status:      models.PostStatusPublished,
		PublishedAt: &published,
		CategoryID:  cat.ID,
		Category:    cat,
		CreatedAt:   published,
		UpdatedAt:   published,
	}
}
