// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"kubolor/internal/access"
	"kubolor/internal/ai"
	"kubolor/internal/content"
	"kubolor/internal/models"
)

// API groups the admin JSON endpoints. Every route is mounted behind
// middleware.RequireAdminAPI.
type API struct {
	content ContentService
	drafter Drafter
	pages   PageCache
	logger  *logrus.Logger
}

// NewAPI creates the admin API handlers. drafter may be nil when no
// generation provider is configured.
func NewAPI(svc ContentService, drafter Drafter, pages PageCache, logger *logrus.Logger) *API {
	return &API{content: svc, drafter: drafter, pages: pages, logger: logger}
}

// --- Terms ---

type termRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CreateTerm returns the handler for POST /categories and POST /tags.
func (a *API) CreateTerm(kind models.TermKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req termRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeBadRequest(w)
			return
		}

		term, err := a.content.CreateTerm(r.Context(), kind, req.Name, req.Slug)
		if err != nil {
			writeError(w, r, a.logger, err)
			return
		}

		a.logger.WithFields(logrus.Fields{"kind": kind, "slug": term.Slug}).Info("term saved")
		a.invalidate(r)
		writeJSON(w, http.StatusOK, map[string]any{string(kind): term})
	}
}

// UpdateTerm returns the handler for POST /categories/{id}.
func (a *API) UpdateTerm(kind models.TermKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, chi.URLParam(r, "id"))
		if !ok {
			return
		}
		var req termRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeBadRequest(w)
			return
		}

		term, err := a.content.UpdateTerm(r.Context(), kind, id, req.Name, req.Slug)
		if err != nil {
			writeError(w, r, a.logger, err)
			return
		}

		a.invalidate(r)
		writeJSON(w, http.StatusOK, map[string]any{string(kind): term})
	}
}

// DeleteTerm returns the handler for POST /categories/{id}/delete and
// POST /tags/{id}/delete.
func (a *API) DeleteTerm(kind models.TermKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, chi.URLParam(r, "id"))
		if !ok {
			return
		}

		if err := a.content.DeleteTerm(r.Context(), kind, id); err != nil {
			writeError(w, r, a.logger, err)
			return
		}

		a.logger.WithFields(logrus.Fields{"kind": kind, "id": id}).Info("term deleted")
		a.invalidate(r)
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// ListTerms returns the handler for GET /categories and GET /tags.
func (a *API) ListTerms(kind models.TermKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		terms, err := a.content.ListTerms(r.Context(), kind)
		if err != nil {
			writeError(w, r, a.logger, err)
			return
		}
		if terms == nil {
			terms = []models.Term{}
		}
		writeJSON(w, http.StatusOK, map[string]any{kind.Plural(): terms})
	}
}

// --- Posts ---

// postRequest is the JSON body of the post create and update calls.
// Pointer fields distinguish "absent" from "empty" on update.
type postRequest struct {
	Title           *string            `json:"title"`
	Slug            *string            `json:"slug"`
	Content         *string            `json:"content"`
	Excerpt         *string            `json:"excerpt"`
	FeaturedImage   *string            `json:"featuredImage"`
	MetaTitle       *string            `json:"metaTitle"`
	MetaDescription *string            `json:"metaDescription"`
	Status          *models.PostStatus `json:"status"`
	PublishedAt     *time.Time         `json:"publishedAt"`
	CategoryID      *uuid.UUID         `json:"categoryId"`
	CategoryName    string             `json:"categoryName"`
	TagIDs          *[]uuid.UUID       `json:"tagIds"`
	TagNames        *string            `json:"tagNames"`
}

func (p *postRequest) category() content.TermRef {
	return content.TermRef{ID: p.CategoryID, Name: p.CategoryName}
}

// tags returns nil when neither tag field was sent.
func (p *postRequest) tags() *content.TagSet {
	if p.TagIDs == nil && p.TagNames == nil {
		return nil
	}
	set := &content.TagSet{}
	if p.TagIDs != nil {
		set.IDs = *p.TagIDs
	}
	if p.TagNames != nil {
		set.Names = *p.TagNames
	}
	return set
}

func (p *postRequest) input() content.PostInput {
	in := content.PostInput{
		Title:           deref(p.Title),
		Slug:            deref(p.Slug),
		Content:         deref(p.Content),
		Excerpt:         optional(p.Excerpt),
		FeaturedImage:   optional(p.FeaturedImage),
		MetaTitle:       optional(p.MetaTitle),
		MetaDescription: optional(p.MetaDescription),
		PublishedAt:     p.PublishedAt,
		Category:        p.category(),
	}
	if p.Status != nil {
		in.Status = *p.Status
	}
	if set := p.tags(); set != nil {
		in.Tags = *set
	}
	return in
}

func (p *postRequest) patch() content.PostPatch {
	return content.PostPatch{
		Title:           p.Title,
		Slug:            p.Slug,
		Content:         p.Content,
		Excerpt:         p.Excerpt,
		FeaturedImage:   p.FeaturedImage,
		MetaTitle:       p.MetaTitle,
		MetaDescription: p.MetaDescription,
		Status:          p.Status,
		PublishedAt:     p.PublishedAt,
		Category:        p.category(),
		Tags:            p.tags(),
	}
}

// CreatePost handles POST /posts. The author is the signed-in admin.
func (a *API) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w)
		return
	}

	author := content.Author{Email: access.FromContext(r.Context()).AuthorEmail()}
	post, err := a.content.CreatePost(r.Context(), author, req.input())
	if err != nil {
		writeError(w, r, a.logger, err)
		return
	}

	a.logger.WithFields(logrus.Fields{"post_id": post.ID, "slug": post.Slug, "status": post.Status}).Info("post created")
	a.invalidate(r)
	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}

// UpdatePost handles POST /posts/{id}.
func (a *API) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w)
		return
	}

	post, err := a.content.UpdatePost(r.Context(), id, req.patch())
	if err != nil {
		writeError(w, r, a.logger, err)
		return
	}

	a.logger.WithFields(logrus.Fields{"post_id": post.ID, "slug": post.Slug}).Info("post updated")
	a.invalidate(r)
	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}

type publishRequest struct {
	PublishedAt *time.Time `json:"publishedAt"`
}

// PublishPost handles POST /posts/{id}/publish.
func (a *API) PublishPost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	var req publishRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w)
		return
	}

	post, err := a.content.PublishPost(r.Context(), id, req.PublishedAt)
	if err != nil {
		writeError(w, r, a.logger, err)
		return
	}

	a.logger.WithFields(logrus.Fields{"post_id": post.ID, "slug": post.Slug}).Info("post published")
	a.invalidate(r)
	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}

// GetPost handles GET /posts/{id}.
func (a *API) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	post, err := a.content.GetPost(r.Context(), id)
	if err != nil {
		writeError(w, r, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"post": post})
}

// --- Generation ---

// Generate handles POST /ai/generate. The draft is returned to the admin
// and not stored as a post.
func (a *API) Generate(w http.ResponseWriter, r *http.Request) {
	if a.drafter == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "GeneratorDisabled", Message: "The draft generator is not configured."})
		return
	}

	var req ai.DraftRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w)
		return
	}

	draft, err := a.drafter.Generate(r.Context(), req)
	if err != nil {
		writeError(w, r, a.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// invalidate drops every cached public page. Any write can change the
// homepage, a post page, or the related posts of other posts.
func (a *API) invalidate(r *http.Request) {
	if a.pages != nil {
		a.pages.InvalidateAll(r.Context())
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// optional drops blank optional fields so they are stored as NULL.
func optional(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
