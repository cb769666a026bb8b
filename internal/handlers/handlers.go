// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for Kubolor. Handlers are
// grouped by concern (the admin JSON API, the public blog, the admin
// pages) and receive their dependencies through the handler struct.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"kubolor/internal/ai"
	"kubolor/internal/content"
	"kubolor/internal/models"
	"kubolor/internal/store"
)

// maxBodyBytes bounds JSON request bodies. Post content is Markdown, so
// this is generous.
const maxBodyBytes = 2 << 20

// ContentService is the part of content.Service the handlers call.
type ContentService interface {
	CreateTerm(ctx context.Context, kind models.TermKind, name, slug string) (*models.Term, error)
	UpdateTerm(ctx context.Context, kind models.TermKind, id uuid.UUID, name, slug string) (*models.Term, error)
	DeleteTerm(ctx context.Context, kind models.TermKind, id uuid.UUID) error
	ListTerms(ctx context.Context, kind models.TermKind) ([]models.Term, error)
	CreatePost(ctx context.Context, author content.Author, in content.PostInput) (*models.Post, error)
	UpdatePost(ctx context.Context, id uuid.UUID, patch content.PostPatch) (*models.Post, error)
	PublishPost(ctx context.Context, id uuid.UUID, at *time.Time) (*models.Post, error)
	GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error)
	RecentPosts(ctx context.Context, limit int) ([]models.Post, error)
}

// Drafter generates article drafts.
type Drafter interface {
	Generate(ctx context.Context, req ai.DraftRequest) (*ai.Draft, error)
}

// PageCache stores rendered public pages. *cache.PageCache satisfies it,
// including a nil one.
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, page []byte)
	InvalidateAll(ctx context.Context)
}

// PostReader is the public read side of the post store.
type PostReader interface {
	FindPublishedBySlug(ctx context.Context, slug string) (*models.Post, error)
	ListPublished(ctx context.Context, f store.PublishedFilter) ([]models.Post, int, error)
	ListRelated(ctx context.Context, postID, categoryID uuid.UUID, limit int) ([]models.Post, error)
	ListSitemap(ctx context.Context) ([]store.SitemapEntry, error)
}

// TermLister lists categories or tags with their post counts.
type TermLister interface {
	ListTerms(ctx context.Context, kind models.TermKind) ([]models.Term, error)
}

// StatsReader loads the admin dashboard figures.
type StatsReader interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, error)
}

// errorResponse is the body of every failed API call.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// generationFailedResponse passes the upstream status and body through to
// the operator.
type generationFailedResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Body    string `json:"body"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst as is.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeBadRequest(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "InvalidRequest", Message: "Request body must be valid JSON."})
}

// writeError maps a service error onto a status code and JSON body.
// Store failures that are not constraint violations are logged and
// answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, logger *logrus.Logger, err error) {
	var reqErr *ai.RequestError
	if errors.As(err, &reqErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: reqErr.Kind, Message: reqErr.Message})
		return
	}

	var upErr *ai.UpstreamError
	if errors.As(err, &upErr) {
		writeJSON(w, http.StatusBadGateway, generationFailedResponse{
			Error:   "GenerationFailed",
			Message: "The draft generator did not respond successfully.",
			Status:  upErr.Status,
			Body:    upErr.Body,
		})
		return
	}

	if e, ok := content.AsError(err); ok {
		switch {
		case e.Kind == content.KindNotFound:
			writeJSON(w, http.StatusNotFound, errorResponse{Error: string(e.Kind), Message: e.Message})
			return
		case e.IsValidation(), e.Kind == content.KindInUse:
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: string(e.Kind), Message: e.Message})
			return
		case store.IsConstraintViolation(e.Err):
			logger.WithError(err).WithField("path", r.URL.Path).Warn("write rejected by constraint")
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: string(e.Kind), Message: constraintMessage(e.Err)})
			return
		}
	}

	logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "InternalError", Message: "Something went wrong. Please try again."})
}

func constraintMessage(err error) string {
	if store.IsUniqueViolation(err) {
		return "The slug is already in use."
	}
	return "The change refers to something that does not exist."
}

// parseID reads a UUID path parameter. It reports false after writing a
// 404 when the value is not a UUID.
func parseID(w http.ResponseWriter, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "NotFound", Message: "Not found."})
		return uuid.Nil, false
	}
	return id, true
}
