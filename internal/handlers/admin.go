// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"kubolor/internal/models"
	"kubolor/internal/render"
)

// Admin groups the server-rendered admin pages. The pages only read; every
// form on them submits to the JSON API.
type Admin struct {
	renderer  *render.Renderer
	content   ContentService
	stats     StatsReader
	aiEnabled bool
	logger    *logrus.Logger
}

// NewAdmin creates the admin page handlers.
func NewAdmin(renderer *render.Renderer, svc ContentService, stats StatsReader, aiEnabled bool, logger *logrus.Logger) *Admin {
	return &Admin{renderer: renderer, content: svc, stats: stats, aiEnabled: aiEnabled, logger: logger}
}

// Dashboard renders the content counts and the most recent posts.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := a.stats.Dashboard(r.Context())
	degraded := err != nil
	if degraded {
		a.logger.WithError(err).Warn("dashboard stats failed")
		stats = &models.DashboardStats{}
	}

	a.page(w, r, http.StatusOK, "admin/dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Data: map[string]any{
			"Stats":    stats,
			"Degraded": degraded,
		},
	})
}

// Posts lists every post, newest edit first.
func (a *Admin) Posts(w http.ResponseWriter, r *http.Request) {
	posts, err := a.content.RecentPosts(r.Context(), 0)
	if err != nil {
		a.logger.WithError(err).Error("list posts failed")
	}

	a.page(w, r, http.StatusOK, "admin/posts", &render.PageData{
		Title:   "Posts",
		Section: "posts",
		Data:    map[string]any{"Posts": posts},
	})
}

// NewPost renders an empty editor.
func (a *Admin) NewPost(w http.ResponseWriter, r *http.Request) {
	a.page(w, r, http.StatusOK, "admin/post_edit", &render.PageData{
		Title:   "New post",
		Section: "new-post",
		Data:    a.editorData(r),
	})
}

// EditPost renders the editor for an existing post. An unknown or
// unreadable post shows an inline message instead of the form.
func (a *Admin) EditPost(w http.ResponseWriter, r *http.Request) {
	data := a.editorData(r)
	status := http.StatusOK

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err == nil {
		var post *models.Post
		post, err = a.content.GetPost(r.Context(), id)
		if err == nil {
			data["Post"] = post
		}
	}
	if err != nil {
		a.logger.WithError(err).WithField("id", chi.URLParam(r, "id")).Warn("load post for editing failed")
		data["LoadFailed"] = true
		status = http.StatusNotFound
	}

	a.page(w, r, status, "admin/post_edit", &render.PageData{
		Title:   "Edit post",
		Section: "posts",
		Data:    data,
	})
}

// Terms returns the listing page for categories or tags. Categories can be
// renamed in place; tags can only be added and removed.
func (a *Admin) Terms(kind models.TermKind) http.HandlerFunc {
	title := "Categories"
	if kind == models.TermTag {
		title = "Tags"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		terms, err := a.content.ListTerms(r.Context(), kind)
		if err != nil {
			a.logger.WithError(err).WithField("kind", kind).Error("list terms failed")
		}

		a.page(w, r, http.StatusOK, "admin/terms", &render.PageData{
			Title:   title,
			Section: kind.Plural(),
			Data: map[string]any{
				"Kind":      kind.Plural(),
				"Noun":      kind.Plural(),
				"Terms":     terms,
				"Renamable": kind == models.TermCategory,
			},
		})
	}
}

// Generator renders the draft generator form.
func (a *Admin) Generator(w http.ResponseWriter, r *http.Request) {
	a.page(w, r, http.StatusOK, "admin/ai", &render.PageData{
		Title:   "AI Generator",
		Section: "ai",
		Data: map[string]any{
			"Enabled":    a.aiEnabled,
			"Categories": a.categories(r),
		},
	})
}

// editorData holds the term pickers of the post editor. Existing terms are
// submitted by id; only new ones go by name.
func (a *Admin) editorData(r *http.Request) map[string]any {
	tags, err := a.content.ListTerms(r.Context(), models.TermTag)
	if err != nil {
		a.logger.WithError(err).Warn("list tags failed")
	}
	return map[string]any{"Categories": a.categories(r), "Tags": tags}
}

// categories feeds the category pickers; a failure leaves them empty.
func (a *Admin) categories(r *http.Request) []models.Category {
	cats, err := a.content.ListTerms(r.Context(), models.TermCategory)
	if err != nil {
		a.logger.WithError(err).Warn("list categories failed")
	}
	return cats
}

func (a *Admin) page(w http.ResponseWriter, r *http.Request, status int, name string, data *render.PageData) {
	if err := a.renderer.Page(w, r, status, name, data); err != nil {
		a.logger.WithError(err).WithField("template", name).Error("render failed")
	}
}
