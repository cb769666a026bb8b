// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kubolor/internal/access"
	"kubolor/internal/models"
)

func strPtr(s string) *string { return &s }

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	rn, err := New(Site{URL: "https://blog.example.com", SignInURL: "/sign-in"})
	require.NoError(t, err)
	return rn
}

func samplePost() *models.Post {
	published := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	return &models.Post{
		ID:          uuid.New(),
		Title:       "Scaling Content",
		Slug:        "scaling-content",
		Content:     "# Scaling Content",
		Excerpt:     strPtr("How to grow an editorial calendar."),
		Status:      models.PostStatusPublished,
		PublishedAt: &published,
		CreatedAt:   published,
		UpdatedAt:   published,
		Category:    &models.Category{ID: uuid.New(), Name: "Growth", Slug: "growth"},
		Tags:        []models.Tag{{ID: uuid.New(), Name: "SEO", Slug: "seo"}, {ID: uuid.New(), Name: "AI", Slug: "ai"}},
	}
}

func TestNew_ParsesEveryPage(t *testing.T) {
	rn := newTestRenderer(t)

	for _, name := range []string{
		"public/home", "public/blog", "public/post", "public/unavailable",
		"public/not_found", "public/sign_in", "public/policy",
		"admin/dashboard", "admin/posts", "admin/post_edit", "admin/terms", "admin/ai",
	} {
		assert.Contains(t, rn.templates, name)
	}
	assert.NotContains(t, rn.templates, "public/layout")
	assert.Equal(t, "Kubolor", rn.Site().Name)
	assert.Equal(t, time.Now().Year(), rn.Site().Year)
}

func TestBytes_UnknownTemplate(t *testing.T) {
	rn := newTestRenderer(t)
	_, err := rn.Bytes("public/nope", nil)
	assert.Error(t, err)
}

func TestBytes_Pages(t *testing.T) {
	rn := newTestRenderer(t)
	post := samplePost()
	admin := access.Context{Level: access.Admin, UserID: "user_1", Email: "editor@example.com"}

	// The editor's post carries its category id and only the first tag.
	editing := *post
	editing.CategoryID = post.Category.ID
	editing.Tags = post.Tags[:1]

	tests := []struct {
		name     string
		template string
		data     *PageData
		contains []string
	}{
		{
			name:     "home",
			template: "public/home",
			data: &PageData{Meta: HomeMeta("https://blog.example.com"), Data: map[string]any{
				"Posts":      []models.Post{*post},
				"Categories": []models.Category{*post.Category},
			}},
			contains: []string{"Scaling Content", "/blog/scaling-content", "/blog?category=growth", `rel="canonical" href="https://blog.example.com/"`},
		},
		{
			name:     "home empty",
			template: "public/home",
			data:     &PageData{Title: "Home", Data: map[string]any{}},
			contains: []string{"No published posts yet", "No categories yet."},
		},
		{
			name:     "blog",
			template: "public/blog",
			data: &PageData{Meta: BlogMeta("https://blog.example.com"), Data: map[string]any{
				"CategorySlug": "growth",
				"Query":        "scale",
				"Categories":   []models.Category{*post.Category},
				"Posts":        []models.Post{*post},
				"Pagination":   Paginate(2, 20, 9, "/blog", url.Values{"category": {"growth"}}),
			}},
			contains: []string{"Page 2 of 3", "Previous", "Next", `value="scale"`, `chip active" href="/blog?category=growth"`},
		},
		{
			name:     "post",
			template: "public/post",
			data: &PageData{Meta: PostMeta("https://blog.example.com", post), Data: map[string]any{
				"Post":    post,
				"Body":    template.HTML("<h1 id=\"scaling-content\">Scaling Content</h1>"),
				"Related": []models.Post{{Title: "Second", Slug: "second"}},
			}},
			contains: []string{`<h1 id="scaling-content">`, "Growth", "SEO, AI", "Mar 14, 2026", "/blog/second", `og:type" content="article"`},
		},
		{
			name:     "unavailable",
			template: "public/unavailable",
			data:     &PageData{Title: "Post unavailable"},
			contains: []string{"Post unavailable"},
		},
		{
			name:     "sign in",
			template: "public/sign_in",
			data:     &PageData{Title: "Sign in", Data: map[string]any{"HostedURL": "https://accounts.example.com/sign-in"}},
			contains: []string{"https://accounts.example.com/sign-in"},
		},
		{
			name:     "policy",
			template: "public/policy",
			data: &PageData{Title: "Support", Data: map[string]any{"Policy": struct {
				Eyebrow, Heading, Lead string
				Paragraphs             []string
			}{"Support", "We are here to help", "Lead text", []string{"Email us."}}}},
			contains: []string{"We are here to help", "Email us."},
		},
		{
			name:     "dashboard",
			template: "admin/dashboard",
			data: &PageData{Title: "Dashboard", Section: "dashboard", Access: admin, Data: map[string]any{
				"Stats": &models.DashboardStats{TotalPosts: 7, DraftPosts: 3, PublishedPosts: 4, RecentPosts: []models.Post{*post}},
			}},
			contains: []string{"editor@example.com", "Scaling Content", "<strong>7</strong>"},
		},
		{
			name:     "posts",
			template: "admin/posts",
			data:     &PageData{Title: "Posts", Section: "posts", Access: admin, Data: map[string]any{"Posts": []models.Post{*post}}},
			contains: []string{"Scaling Content", "/admin/posts/" + post.ID.String()},
		},
		{
			name:     "new post",
			template: "admin/post_edit",
			data:     &PageData{Title: "New post", Section: "new-post", Access: admin, Data: map[string]any{"Categories": []models.Category{*post.Category}}},
			contains: []string{`data-api="/posts"`, `data-redirect="/admin/posts/:id"`},
		},
		{
			name:     "edit post",
			template: "admin/post_edit",
			data: &PageData{Title: "Edit post", Section: "posts", Access: admin, Data: map[string]any{
				"Post":       &editing,
				"Categories": []models.Category{*post.Category},
				"Tags":       post.Tags,
			}},
			contains: []string{
				`data-api="/posts/` + post.ID.String() + `"`, "scaling-content",
				`<option value="` + post.Category.ID.String() + `" selected>Growth</option>`,
				`name="tagIds" value="` + post.Tags[0].ID.String() + `" checked>`,
				`name="tagIds" value="` + post.Tags[1].ID.String() + `">`,
			},
		},
		{
			name:     "edit post load failure",
			template: "admin/post_edit",
			data:     &PageData{Title: "Edit post", Section: "posts", Access: admin, Data: map[string]any{"LoadFailed": true}},
			contains: []string{"We could not load this post right now."},
		},
		{
			name:     "categories",
			template: "admin/terms",
			data: &PageData{Title: "Categories", Section: "categories", Access: admin, Data: map[string]any{
				"Kind": "categories", "Noun": "categories", "Renamable": true,
				"Terms": []models.Category{{ID: post.Category.ID, Name: "Growth", Slug: "growth", PostCount: 2}},
			}},
			contains: []string{`data-api="/categories"`, "/categories/" + post.Category.ID.String() + "/delete", "disabled"},
		},
		{
			name:     "ai disabled",
			template: "admin/ai",
			data:     &PageData{Title: "AI Generator", Section: "ai", Access: admin, Data: map[string]any{"Enabled": false}},
			contains: []string{"not configured"},
		},
		{
			name:     "ai enabled",
			template: "admin/ai",
			data:     &PageData{Title: "AI Generator", Section: "ai", Access: admin, Data: map[string]any{"Enabled": true}},
			contains: []string{`data-api="/ai/generate"`, "data-draft"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := rn.Bytes(tt.template, tt.data)
			require.NoError(t, err)
			body := string(out)
			for _, want := range tt.contains {
				assert.Contains(t, body, want)
			}
		})
	}
}

func TestBytes_PolicyLinksFollowSite(t *testing.T) {
	hidden := newTestRenderer(t)
	out, err := hidden.Bytes("public/not_found", &PageData{Title: "Not found"})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "/privacy-policy")

	shown, err := New(Site{ShowPolicyPages: true})
	require.NoError(t, err)
	out, err = shown.Bytes("public/not_found", &PageData{Title: "Not found"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "/privacy-policy")
}

func TestPage_InjectsAccessAndStatus(t *testing.T) {
	rn := newTestRenderer(t)
	req := httptest.NewRequest(http.MethodGet, "/admin/posts", nil)
	ac := access.Context{Level: access.Admin, UserID: "user_9", Email: "boss@example.com"}
	req = req.WithContext(access.WithContext(req.Context(), ac))
	rec := httptest.NewRecorder()

	err := rn.Page(rec, req, http.StatusOK, "admin/posts", &PageData{Title: "Posts", Section: "posts", Data: map[string]any{}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "boss@example.com")
}

func TestPage_UnknownTemplateWrites500(t *testing.T) {
	rn := newTestRenderer(t)
	rec := httptest.NewRecorder()
	err := rn.Page(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "public/missing", nil)
	assert.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPostMeta(t *testing.T) {
	const site = "https://blog.example.com"

	t.Run("falls back to title, excerpt, and logo", func(t *testing.T) {
		p := &models.Post{Title: "Hello", Slug: "hello", Excerpt: strPtr("Short intro")}
		m := PostMeta(site, p)
		assert.Equal(t, "Hello", m.Title)
		assert.Equal(t, "Short intro", m.Description)
		assert.Equal(t, "https://blog.example.com/blog/hello", m.Canonical)
		assert.Equal(t, FallbackImage, m.Image)
		assert.Equal(t, "article", m.Type)
	})

	t.Run("prefers SEO fields", func(t *testing.T) {
		p := &models.Post{
			Title:           "Hello",
			Slug:            "hello",
			Excerpt:         strPtr("Short intro"),
			MetaTitle:       strPtr("Hello | Guide"),
			MetaDescription: strPtr("All about hello."),
			FeaturedImage:   strPtr("https://cdn.example.com/hello.png"),
		}
		m := PostMeta(site, p)
		assert.Equal(t, "Hello | Guide", m.Title)
		assert.Equal(t, "All about hello.", m.Description)
		assert.Equal(t, "https://cdn.example.com/hello.png", m.Image)
	})

	t.Run("empty SEO fields fall back", func(t *testing.T) {
		p := &models.Post{Title: "Hello", Slug: "hello", MetaTitle: strPtr(""), MetaDescription: strPtr("")}
		m := PostMeta(site, p)
		assert.Equal(t, "Hello", m.Title)
		assert.Empty(t, m.Description)
	})
}

func TestParsePage(t *testing.T) {
	tests := map[string]int{"": 1, "abc": 1, "0": 1, "-3": 1, "1": 1, "4": 4}
	for raw, want := range tests {
		assert.Equal(t, want, ParsePage(raw), "ParsePage(%q)", raw)
	}
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		total     int
		params    url.Values
		wantPages int
		wantPrev  string
		wantNext  string
	}{
		{name: "no posts", page: 1, total: 0, wantPages: 1},
		{name: "exactly one page", page: 1, total: 9, wantPages: 1},
		{name: "first of three", page: 1, total: 20, wantPages: 3, wantNext: "/blog?page=2"},
		{name: "middle", page: 2, total: 20, wantPages: 3, wantPrev: "/blog?page=1", wantNext: "/blog?page=3"},
		{name: "last", page: 3, total: 20, wantPages: 3, wantPrev: "/blog?page=2"},
		{
			name: "filters preserved", page: 1, total: 10,
			params:    url.Values{"category": {"news"}, "q": {"go lang"}},
			wantPages: 2, wantNext: "/blog?category=news&page=2&q=go+lang",
		},
		{
			name: "empty filters dropped", page: 2, total: 10,
			params:    url.Values{"category": {""}, "q": {""}},
			wantPages: 2, wantPrev: "/blog?page=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(tt.page, tt.total, 9, "/blog", tt.params)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.total, p.Total)
			assert.Equal(t, tt.wantPrev, p.PrevURL)
			assert.Equal(t, tt.wantNext, p.NextURL)
		})
	}
	assert.Equal(t, 18, Offset(3, 9))
}
