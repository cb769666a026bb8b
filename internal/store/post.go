// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"kubolor/internal/models"
)

// PostStore manages posts and their tag associations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore returns a new PostStore.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

var postColumnNames = []string{
	"id", "title", "slug", "content", "excerpt", "featured_image",
	"meta_title", "meta_description", "status", "published_at",
	"author_id", "category_id", "created_at", "updated_at",
}

func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.FeaturedImage,
		&p.MetaTitle, &p.MetaDescription, &p.Status, &p.PublishedAt,
		&p.AuthorID, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// scanPostWithCategory scans post columns followed by the category's
// id, name and slug.
func scanPostWithCategory(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	var c models.Category
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.FeaturedImage,
		&p.MetaTitle, &p.MetaDescription, &p.Status, &p.PublishedAt,
		&p.AuthorID, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
		&c.ID, &c.Name, &c.Slug,
	)
	if err != nil {
		return nil, err
	}
	p.Category = &c
	return &p, nil
}

// selectWithCategory starts a query over posts p joined to categories c.
func selectWithCategory() sq.SelectBuilder {
	return psql.Select(columns("p", postColumnNames), "c.id", "c.name", "c.slug").
		From("posts p").
		Join("categories c ON c.id = p.category_id")
}

// nullable maps an empty string to NULL.
func nullable(s *string) any {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return *s
}

// Create inserts a new post and returns the stored row.
func (s *PostStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	query, args, err := psql.Insert("posts").
		Columns("title", "slug", "content", "excerpt", "featured_image",
			"meta_title", "meta_description", "status", "published_at",
			"author_id", "category_id").
		Values(p.Title, p.Slug, p.Content, nullable(p.Excerpt), nullable(p.FeaturedImage),
			nullable(p.MetaTitle), nullable(p.MetaDescription), p.Status, p.PublishedAt,
			p.AuthorID, p.CategoryID).
		Suffix("RETURNING " + columns("", postColumnNames)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build create post: %w", err)
	}

	created, err := scanPost(conn(ctx, s.db).QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// PostUpdate lists the columns to change. Nil fields are left untouched;
// an empty optional text field clears the column.
type PostUpdate struct {
	Title           *string
	Slug            *string
	Content         *string
	Excerpt         *string
	FeaturedImage   *string
	MetaTitle       *string
	MetaDescription *string
	Status          *models.PostStatus
	CategoryID      *uuid.UUID

	// PublishedAt overwrites the publish time.
	PublishedAt *time.Time
	// PublishedAtIfUnset sets the publish time only when it is NULL.
	PublishedAtIfUnset *time.Time
}

// Update applies the non-nil fields of u to the post and returns the
// stored row, or nil if the id does not exist.
func (s *PostStore) Update(ctx context.Context, id uuid.UUID, u PostUpdate) (*models.Post, error) {
	b := psql.Update("posts").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + columns("", postColumnNames))

	if u.Title != nil {
		b = b.Set("title", *u.Title)
	}
	if u.Slug != nil {
		b = b.Set("slug", *u.Slug)
	}
	if u.Content != nil {
		b = b.Set("content", *u.Content)
	}
	if u.Excerpt != nil {
		b = b.Set("excerpt", nullable(u.Excerpt))
	}
	if u.FeaturedImage != nil {
		b = b.Set("featured_image", nullable(u.FeaturedImage))
	}
	if u.MetaTitle != nil {
		b = b.Set("meta_title", nullable(u.MetaTitle))
	}
	if u.MetaDescription != nil {
		b = b.Set("meta_description", nullable(u.MetaDescription))
	}
	if u.Status != nil {
		b = b.Set("status", *u.Status)
	}
	if u.CategoryID != nil {
		b = b.Set("category_id", *u.CategoryID)
	}
	switch {
	case u.PublishedAt != nil:
		b = b.Set("published_at", *u.PublishedAt)
	case u.PublishedAtIfUnset != nil:
		b = b.Set("published_at", sq.Expr("COALESCE(published_at, ?)", *u.PublishedAtIfUnset))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update post: %w", err)
	}

	updated, err := scanPost(conn(ctx, s.db).QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return updated, nil
}

// Publish marks the post published at the given time. Returns nil if the
// id does not exist.
func (s *PostStore) Publish(ctx context.Context, id uuid.UUID, at time.Time) (*models.Post, error) {
	query := `
		UPDATE posts SET status = 'published', published_at = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + columns("", postColumnNames)

	p, err := scanPost(conn(ctx, s.db).QueryRowContext(ctx, query, id, at))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("publish post: %w", err)
	}
	return p, nil
}

// ReplaceTags deletes every tag association of the post and inserts
// tagIDs. Callers run it inside TxManager.RunInTx so the swap is atomic.
func (s *PostStore) ReplaceTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error {
	q := conn(ctx, s.db)

	if _, err := q.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("clear post tags: %w", err)
	}
	if len(tagIDs) == 0 {
		return nil
	}

	b := psql.Insert("post_tags").Columns("post_id", "tag_id")
	for _, tagID := range tagIDs {
		b = b.Values(postID, tagID)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build insert post tags: %w", err)
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert post tags: %w", err)
	}
	return nil
}

// FindByID returns the post with its category and tags, or nil.
func (s *PostStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return s.findOne(ctx, sq.Eq{"p.id": id})
}

// FindPublishedBySlug returns a published post with its category and tags,
// or nil if no published post has that slug.
func (s *PostStore) FindPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.findOne(ctx, sq.Eq{"p.slug": slug, "p.status": models.PostStatusPublished})
}

func (s *PostStore) findOne(ctx context.Context, where sq.Eq) (*models.Post, error) {
	query, args, err := selectWithCategory().Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find post: %w", err)
	}

	q := conn(ctx, s.db)
	p, err := scanPostWithCategory(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}

	tags, err := s.tagsFor(ctx, q, p.ID)
	if err != nil {
		return nil, err
	}
	p.Tags = tags
	return p, nil
}

func (s *PostStore) tagsFor(ctx context.Context, q querier, postID uuid.UUID) ([]models.Tag, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+columns("t", termColumnNames)+`
		FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = $1
		ORDER BY t.name`, postID)
	if err != nil {
		return nil, fmt.Errorf("list post tags: %w", err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		t, err := scanTerm(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post tag: %w", err)
		}
		tags = append(tags, *t)
	}
	return tags, rows.Err()
}

// PublishedFilter narrows the public listing.
type PublishedFilter struct {
	CategorySlug string
	Query        string
	Limit        int
	Offset       int
}

func (f PublishedFilter) apply(b sq.SelectBuilder) sq.SelectBuilder {
	b = b.Where(sq.Eq{"p.status": models.PostStatusPublished})
	if f.CategorySlug != "" {
		b = b.Where(sq.Eq{"c.slug": f.CategorySlug})
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		pattern := "%" + escapeLike(q) + "%"
		b = b.Where(sq.Or{
			sq.ILike{"p.title": pattern},
			sq.ILike{"p.excerpt": pattern},
		})
	}
	return b
}

// ListPublished returns one page of published posts, newest first, plus the
// total number of matches.
func (s *PostStore) ListPublished(ctx context.Context, f PublishedFilter) ([]models.Post, int, error) {
	q := conn(ctx, s.db)

	total, err := count(ctx, q, f.apply(psql.Select("COUNT(*)").
		From("posts p").
		Join("categories c ON c.id = p.category_id")))
	if err != nil {
		return nil, 0, fmt.Errorf("count published posts: %w", err)
	}

	b := f.apply(selectWithCategory()).OrderBy("p.published_at DESC", "p.id")
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		b = b.Offset(uint64(f.Offset))
	}

	posts, err := s.list(ctx, q, b)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListRecent returns the most recently updated posts in any status.
func (s *PostStore) ListRecent(ctx context.Context, limit int) ([]models.Post, error) {
	b := selectWithCategory().OrderBy("p.updated_at DESC", "p.id")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	return s.list(ctx, conn(ctx, s.db), b)
}

// ListRelated returns other published posts in the same category, newest first.
func (s *PostStore) ListRelated(ctx context.Context, postID, categoryID uuid.UUID, limit int) ([]models.Post, error) {
	b := selectWithCategory().
		Where(sq.Eq{"p.status": models.PostStatusPublished, "p.category_id": categoryID}).
		Where(sq.NotEq{"p.id": postID}).
		OrderBy("p.published_at DESC", "p.id")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	return s.list(ctx, conn(ctx, s.db), b)
}

func (s *PostStore) list(ctx context.Context, q querier, b sq.SelectBuilder) ([]models.Post, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list posts: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPostWithCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// SitemapEntry is a published post's location and last modification.
type SitemapEntry struct {
	Slug      string
	UpdatedAt time.Time
}

// ListSitemap returns every published post, newest first.
func (s *PostStore) ListSitemap(ctx context.Context) ([]SitemapEntry, error) {
	rows, err := conn(ctx, s.db).QueryContext(ctx, `
		SELECT slug, updated_at FROM posts
		WHERE status = 'published'
		ORDER BY published_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sitemap: %w", err)
	}
	defer rows.Close()

	var entries []SitemapEntry
	for rows.Next() {
		var e SitemapEntry
		if err := rows.Scan(&e.Slug, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sitemap entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountByStatus returns the number of posts with the given status, or of
// all posts when status is empty.
func (s *PostStore) CountByStatus(ctx context.Context, status models.PostStatus) (int, error) {
	b := psql.Select("COUNT(*)").From("posts")
	if status != "" {
		b = b.Where(sq.Eq{"status": status})
	}
	return count(ctx, conn(ctx, s.db), b)
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
