// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/xml"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kubolor/internal/cache"
	"kubolor/internal/models"
	"kubolor/internal/render"
	"kubolor/internal/store"
)

type publicFixture struct {
	public *Public
	posts  *stubPosts
	terms  *stubContent
	pages  *memPages
}

func newPublicFixture(t *testing.T, site render.Site, posts ...models.Post) *publicFixture {
	t.Helper()
	logger, _ := newLogger()
	f := &publicFixture{
		posts: &stubPosts{posts: posts, total: len(posts)},
		terms: &stubContent{terms: []models.Term{{ID: uuid.New(), Name: "News", Slug: "news"}}},
		pages: newMemPages(),
	}
	f.public = NewPublic(newRenderer(t, site), f.posts, f.terms, f.pages, logger)
	return f
}

func get(handler http.HandlerFunc, target string, params map[string]string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler(rec, adminRequest(http.MethodGet, target, "", params))
	return rec
}

func TestPublic_Home(t *testing.T) {
	f := newPublicFixture(t, render.Site{}, *samplePost())

	rec := get(f.public.Home, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Launch Day")
	assert.Contains(t, rec.Body.String(), "/blog?category=news")
	assert.Equal(t, homePostLimit, f.posts.filter.Limit)

	rec = get(f.public.Home, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Launch Day")
	assert.Equal(t, 1, f.posts.listCalls, "second request is served from the cache")
}

func TestPublic_Home_ReadFailureIsNotCached(t *testing.T) {
	f := newPublicFixture(t, render.Site{})
	f.posts.err = errors.New("db down")

	rec := get(f.public.Home, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No published posts yet")

	_, cached := f.pages.Get(t.Context(), cache.HomeKey())
	assert.False(t, cached)
}

func TestPublic_Blog(t *testing.T) {
	f := newPublicFixture(t, render.Site{}, *samplePost())
	f.posts.total = 20

	rec := get(f.public.Blog, "/blog?page=2&category=news&q=launch", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, store.PublishedFilter{CategorySlug: "news", Query: "launch", Limit: 9, Offset: 9}, f.posts.filter)
	body := rec.Body.String()
	assert.Contains(t, body, "Page 2 of 3")
	assert.Contains(t, body, "/blog?category=news&amp;page=1&amp;q=launch")
	assert.Contains(t, body, "/blog?category=news&amp;page=3&amp;q=launch")
	assert.Contains(t, body, "Launch Day")
}

func TestPublic_Blog_BadPageAndFailure(t *testing.T) {
	f := newPublicFixture(t, render.Site{})
	f.posts.err = errors.New("db down")

	rec := get(f.public.Blog, "/blog?page=-4", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, f.posts.filter.Offset)
	assert.Contains(t, rec.Body.String(), "No posts found yet.")
	assert.Contains(t, rec.Body.String(), "Page 1 of 1")
}

func TestPublic_Post(t *testing.T) {
	post := *samplePost()
	sibling := *samplePost()
	sibling.ID, sibling.Title, sibling.Slug = uuid.New(), "Second Post", "second-post"
	f := newPublicFixture(t, render.Site{URL: "https://kubolor.example"}, post, sibling)

	rec := get(f.public.Post, "/blog/launch-day", map[string]string{"slug": "launch-day"})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<h1 id="launch-day">Launch Day</h1>`)
	assert.Contains(t, body, "<strong>it</strong>")
	assert.Contains(t, body, `<link rel="canonical" href="https://kubolor.example/blog/launch-day">`)
	assert.Contains(t, body, `content="/kubolor-logo.png"`)
	assert.Contains(t, body, "/blog/second-post")

	_, cached := f.pages.Get(t.Context(), cache.PostKey("launch-day"))
	assert.True(t, cached)

	get(f.public.Post, "/blog/launch-day", map[string]string{"slug": "launch-day"})
	assert.Equal(t, 1, f.posts.bySlugCalls)
}

func TestPublic_Post_Unavailable(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		f := newPublicFixture(t, render.Site{})
		rec := get(f.public.Post, "/blog/nope", map[string]string{"slug": "nope"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Post unavailable")
	})

	t.Run("read failure", func(t *testing.T) {
		f := newPublicFixture(t, render.Site{})
		f.posts.err = errors.New("db down")
		rec := get(f.public.Post, "/blog/launch-day", map[string]string{"slug": "launch-day"})
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "Post unavailable")
		assert.NotContains(t, rec.Body.String(), "db down")
	})

	t.Run("related failure still renders", func(t *testing.T) {
		f := newPublicFixture(t, render.Site{}, *samplePost())
		f.posts.relatedErr = errors.New("timeout")
		rec := get(f.public.Post, "/blog/launch-day", map[string]string{"slug": "launch-day"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "No related posts yet.")
	})
}

func TestPublic_Sitemap(t *testing.T) {
	f := newPublicFixture(t, render.Site{URL: "https://kubolor.example"})
	updated := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	f.posts.sitemap = []store.SitemapEntry{{Slug: "launch-day", UpdatedAt: updated}}

	rec := get(f.public.Sitemap, "/sitemap.xml", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml; charset=utf-8", rec.Header().Get("Content-Type"))

	var set urlSet
	require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &set))
	require.Len(t, set.URLs, 3)
	assert.Equal(t, "https://kubolor.example/", set.URLs[0].Loc)
	assert.Equal(t, "https://kubolor.example/blog", set.URLs[1].Loc)
	assert.Equal(t, "https://kubolor.example/blog/launch-day", set.URLs[2].Loc)
	assert.Equal(t, "2026-02-03T04:05:06Z", set.URLs[2].LastMod)
}

func TestPublic_PolicyPages(t *testing.T) {
	for _, page := range Policies {
		t.Run(page.Path, func(t *testing.T) {
			hidden := newPublicFixture(t, render.Site{})
			rec := get(hidden.public.PolicyPage(page), page.Path, nil)
			assert.Equal(t, http.StatusNotFound, rec.Code)

			shown := newPublicFixture(t, render.Site{ShowPolicyPages: true})
			rec = get(shown.public.PolicyPage(page), page.Path, nil)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), page.Heading)
		})
	}
}

func TestPublic_SignIn(t *testing.T) {
	f := newPublicFixture(t, render.Site{HostedSignInURL: "https://accounts.kubolor.example/sign-in"})
	rec := get(f.public.SignIn, "/sign-in", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://accounts.kubolor.example/sign-in")
}
