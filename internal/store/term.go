// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"kubolor/internal/models"
)

// DeleteOutcome reports what a guarded delete did.
type DeleteOutcome int

const (
	Deleted DeleteOutcome = iota
	DeleteNotFound
	DeleteInUse
)

// TermStore persists one kind of slug-keyed term: categories or tags.
type TermStore struct {
	db   *sql.DB
	kind models.TermKind

	// usageTable.usageColumn references this term from posts.
	usageTable  string
	usageColumn string
}

// NewTermStore returns a TermStore for the given kind.
func NewTermStore(db *sql.DB, kind models.TermKind) *TermStore {
	s := &TermStore{db: db, kind: kind}
	if kind == models.TermTag {
		s.usageTable, s.usageColumn = "post_tags", "tag_id"
	} else {
		s.usageTable, s.usageColumn = "posts", "category_id"
	}
	return s
}

// NewCategoryStore returns the TermStore for categories.
func NewCategoryStore(db *sql.DB) *TermStore {
	return NewTermStore(db, models.TermCategory)
}

// NewTagStore returns the TermStore for tags.
func NewTagStore(db *sql.DB) *TermStore {
	return NewTermStore(db, models.TermTag)
}

// Kind returns the kind of term this store persists.
func (s *TermStore) Kind() models.TermKind {
	return s.kind
}

var termColumnNames = []string{"id", "name", "slug", "created_at", "updated_at"}

func scanTerm(scanner interface{ Scan(...any) error }) (*models.Term, error) {
	var t models.Term
	if err := scanner.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpsertBySlug creates the term or, when the slug exists, renames it. The
// unique slug constraint guarantees one row per slug under concurrency.
func (s *TermStore) UpsertBySlug(ctx context.Context, name, slug string) (*models.Term, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, slug)
		VALUES ($1, $2)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, updated_at = now()
		RETURNING %s`, s.kind.Table(), columns("", termColumnNames))

	t, err := scanTerm(conn(ctx, s.db).QueryRowContext(ctx, query, name, slug))
	if err != nil {
		return nil, fmt.Errorf("upsert %s: %w", s.kind, err)
	}
	return t, nil
}

// FindByID returns the term with the given id, or nil if none exists.
func (s *TermStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Term, error) {
	return s.findOne(ctx, sq.Eq{"id": id})
}

func (s *TermStore) findOne(ctx context.Context, where sq.Eq) (*models.Term, error) {
	query, args, err := psql.Select(termColumnNames...).From(s.kind.Table()).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find %s: %w", s.kind, err)
	}

	t, err := scanTerm(conn(ctx, s.db).QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", s.kind, err)
	}
	return t, nil
}

// Update renames the term and changes its slug. Returns nil if the id does
// not exist.
func (s *TermStore) Update(ctx context.Context, id uuid.UUID, name, slug string) (*models.Term, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET name = $2, slug = $3, updated_at = now()
		WHERE id = $1
		RETURNING %s`, s.kind.Table(), columns("", termColumnNames))

	t, err := scanTerm(conn(ctx, s.db).QueryRowContext(ctx, query, id, name, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", s.kind, err)
	}
	return t, nil
}

// DeleteUnused deletes the term only if no post references it. The check
// and the delete are one statement.
func (s *TermStore) DeleteUnused(ctx context.Context, id uuid.UUID) (DeleteOutcome, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s t
		WHERE t.id = $1
		  AND NOT EXISTS (SELECT 1 FROM %s u WHERE u.%s = t.id)`,
		s.kind.Table(), s.usageTable, s.usageColumn)

	res, err := conn(ctx, s.db).ExecContext(ctx, query, id)
	if err != nil {
		return DeleteInUse, fmt.Errorf("delete %s: %w", s.kind, err)
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return Deleted, nil
	}

	existing, err := s.FindByID(ctx, id)
	if err != nil {
		return DeleteInUse, err
	}
	if existing == nil {
		return DeleteNotFound, nil
	}
	return DeleteInUse, nil
}

// List returns every term ordered by name, with the number of posts using it.
func (s *TermStore) List(ctx context.Context) ([]models.Term, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(u.%s) AS post_count
		FROM %s t
		LEFT JOIN %s u ON u.%s = t.id
		GROUP BY t.id
		ORDER BY t.name`,
		columns("t", termColumnNames), s.usageColumn,
		s.kind.Table(), s.usageTable, s.usageColumn)

	rows, err := conn(ctx, s.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.kind.Plural(), err)
	}
	defer rows.Close()

	items := []models.Term{}
	for rows.Next() {
		var t models.Term
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.UpdatedAt, &t.PostCount); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.kind, err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// Count returns the number of terms.
func (s *TermStore) Count(ctx context.Context) (int, error) {
	return count(ctx, conn(ctx, s.db), psql.Select("COUNT(*)").From(s.kind.Table()))
}

// count runs a single-value COUNT query.
func count(ctx context.Context, q querier, b sq.SelectBuilder) (int, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}
	var n int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
