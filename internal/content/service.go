// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content owns every write to posts, categories and tags: the
// slug-keyed term resolver and the post reconciler that creates or updates
// a post and swaps its tag set in one transaction.
package content

import (
	"context"
	"time"

	"github.com/google/uuid"

	"kubolor/internal/models"
	"kubolor/internal/store"
)

// TxRunner runs fn in one database transaction carried by its context.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// TermRepository persists one kind of term.
type TermRepository interface {
	Kind() models.TermKind
	UpsertBySlug(ctx context.Context, name, slug string) (*models.Term, error)
	Update(ctx context.Context, id uuid.UUID, name, slug string) (*models.Term, error)
	DeleteUnused(ctx context.Context, id uuid.UUID) (store.DeleteOutcome, error)
	List(ctx context.Context) ([]models.Term, error)
}

// PostRepository persists posts and their tag associations.
type PostRepository interface {
	Create(ctx context.Context, p *models.Post) (*models.Post, error)
	Update(ctx context.Context, id uuid.UUID, u store.PostUpdate) (*models.Post, error)
	Publish(ctx context.Context, id uuid.UUID, at time.Time) (*models.Post, error)
	ReplaceTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	ListRecent(ctx context.Context, limit int) ([]models.Post, error)
}

// AuthorRepository finds or creates the local shadow user of an author.
type AuthorRepository interface {
	FindOrCreateByEmail(ctx context.Context, email string, role models.Role) (*models.User, error)
}

// Service coordinates the resolver and reconciler over the repositories.
type Service struct {
	tx         TxRunner
	categories TermRepository
	tags       TermRepository
	posts      PostRepository
	authors    AuthorRepository
	now        func() time.Time
}

// NewService creates a Service.
func NewService(tx TxRunner, categories, tags TermRepository, posts PostRepository, authors AuthorRepository) *Service {
	return &Service{
		tx:         tx,
		categories: categories,
		tags:       tags,
		posts:      posts,
		authors:    authors,
		now:        time.Now,
	}
}

func (s *Service) terms(kind models.TermKind) TermRepository {
	if kind == models.TermTag {
		return s.tags
	}
	return s.categories
}
