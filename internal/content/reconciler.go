// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"kubolor/internal/models"
	"kubolor/internal/slug"
	"kubolor/internal/store"
)

// Author is the external identity writing a post.
type Author struct {
	Email string
}

// PostInput is the create request.
type PostInput struct {
	Title           string
	Slug            string
	Content         string
	Excerpt         *string
	FeaturedImage   *string
	MetaTitle       *string
	MetaDescription *string
	Status          models.PostStatus
	PublishedAt     *time.Time
	Category        TermRef
	Tags            TagSet
}

// PostPatch is the update request. Nil fields are left untouched. A
// non-nil Tags replaces the whole tag set, so an empty TagSet clears it.
type PostPatch struct {
	Title           *string
	Slug            *string
	Content         *string
	Excerpt         *string
	FeaturedImage   *string
	MetaTitle       *string
	MetaDescription *string
	Status          *models.PostStatus
	PublishedAt     *time.Time
	Category        TermRef
	Tags            *TagSet
}

func parseStatus(s models.PostStatus) (models.PostStatus, error) {
	if s == "" {
		return models.PostStatusDraft, nil
	}
	if !s.Valid() {
		return "", newError(KindInvalidStatus, "Status must be draft or published.")
	}
	return s, nil
}

// resolveCategory maps resolver failures onto category-specific kinds.
func (s *Service) resolveCategory(ctx context.Context, ref TermRef) (uuid.UUID, error) {
	id, err := s.ResolveTerm(ctx, models.TermCategory, ref)
	if e, ok := AsError(err); ok {
		switch e.Kind {
		case KindInvalidSlug:
			return uuid.Nil, newError(KindInvalidCategoryName, "Invalid category name.")
		case KindMissingReference:
			return uuid.Nil, newError(KindMissingCategory, "Category is required.")
		}
	}
	return id, err
}

// CreatePost validates in, then resolves the author, category and tags and
// inserts the post with its tags in one transaction. On failure nothing
// from the attempt persists.
func (s *Service) CreatePost(ctx context.Context, author Author, in PostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || strings.TrimSpace(in.Content) == "" || !in.Category.Present() {
		return nil, newError(KindMissingFields, "Title, content, and category are required.")
	}

	status, err := parseStatus(in.Status)
	if err != nil {
		return nil, err
	}

	source := strings.TrimSpace(in.Slug)
	if source == "" {
		source = title
	}
	postSlug := slug.Normalize(source)
	if postSlug == "" {
		return nil, newError(KindInvalidSlug, "Invalid slug.")
	}

	publishedAt := in.PublishedAt
	if status == models.PostStatusPublished && publishedAt == nil {
		now := s.now()
		publishedAt = &now
	}

	var created *models.Post
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		user, err := s.authors.FindOrCreateByEmail(ctx, author.Email, models.RoleAdmin)
		if err != nil {
			return writeFailed(err)
		}

		categoryID, err := s.resolveCategory(ctx, in.Category)
		if err != nil {
			return err
		}

		tagIDs, err := s.ResolveTags(ctx, in.Tags)
		if err != nil {
			return err
		}

		p, err := s.posts.Create(ctx, &models.Post{
			Title:           title,
			Slug:            postSlug,
			Content:         in.Content,
			Excerpt:         in.Excerpt,
			FeaturedImage:   in.FeaturedImage,
			MetaTitle:       in.MetaTitle,
			MetaDescription: in.MetaDescription,
			Status:          status,
			PublishedAt:     publishedAt,
			AuthorID:        user.ID,
			CategoryID:      categoryID,
		})
		if err != nil {
			return writeFailed(err)
		}

		if err := s.posts.ReplaceTags(ctx, p.ID, tagIDs); err != nil {
			return writeFailed(err)
		}

		created, err = s.posts.FindByID(ctx, p.ID)
		return writeFailed(err)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdatePost applies patch to the post with the given id in one
// transaction.
func (s *Service) UpdatePost(ctx context.Context, id uuid.UUID, patch PostPatch) (*models.Post, error) {
	if id == uuid.Nil {
		return nil, newError(KindMissingPostID, "Post id is required.")
	}

	u := store.PostUpdate{
		Content:         patch.Content,
		Excerpt:         patch.Excerpt,
		FeaturedImage:   patch.FeaturedImage,
		MetaTitle:       patch.MetaTitle,
		MetaDescription: patch.MetaDescription,
		PublishedAt:     patch.PublishedAt,
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, newError(KindMissingFields, "Title cannot be empty.")
		}
		u.Title = &title
	}
	if patch.Content != nil && strings.TrimSpace(*patch.Content) == "" {
		return nil, newError(KindMissingFields, "Content cannot be empty.")
	}
	if patch.Slug != nil {
		postSlug := slug.Normalize(*patch.Slug)
		if postSlug == "" {
			return nil, newError(KindInvalidSlug, "Invalid slug.")
		}
		u.Slug = &postSlug
	}
	if patch.Status != nil {
		status, err := parseStatus(*patch.Status)
		if err != nil {
			return nil, err
		}
		u.Status = &status
		if status == models.PostStatusPublished && patch.PublishedAt == nil {
			now := s.now()
			u.PublishedAtIfUnset = &now
		}
	}

	var updated *models.Post
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if patch.Category.Present() {
			categoryID, err := s.resolveCategory(ctx, patch.Category)
			if err != nil {
				return err
			}
			u.CategoryID = &categoryID
		}

		var tagIDs []uuid.UUID
		if patch.Tags != nil {
			var err error
			if tagIDs, err = s.ResolveTags(ctx, *patch.Tags); err != nil {
				return err
			}
		}

		p, err := s.posts.Update(ctx, id, u)
		if err != nil {
			return writeFailed(err)
		}
		if p == nil {
			return newError(KindNotFound, "Post not found.")
		}

		if patch.Tags != nil {
			if err := s.posts.ReplaceTags(ctx, id, tagIDs); err != nil {
				return writeFailed(err)
			}
		}

		updated, err = s.posts.FindByID(ctx, id)
		return writeFailed(err)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// PublishPost marks the post published at the given time, or now.
func (s *Service) PublishPost(ctx context.Context, id uuid.UUID, at *time.Time) (*models.Post, error) {
	if id == uuid.Nil {
		return nil, newError(KindMissingPostID, "Post id is required.")
	}
	when := s.now()
	if at != nil {
		when = *at
	}

	var published *models.Post
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		p, err := s.posts.Publish(ctx, id, when)
		if err != nil {
			return writeFailed(err)
		}
		if p == nil {
			return newError(KindNotFound, "Post not found.")
		}
		published, err = s.posts.FindByID(ctx, id)
		return writeFailed(err)
	})
	if err != nil {
		return nil, err
	}
	return published, nil
}

// GetPost returns the post with its category and tags.
func (s *Service) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, newError(KindNotFound, "Post not found.")
	}
	return p, nil
}

// RecentPosts returns the most recently edited posts in any status.
func (s *Service) RecentPosts(ctx context.Context, limit int) ([]models.Post, error) {
	return s.posts.ListRecent(ctx, limit)
}
