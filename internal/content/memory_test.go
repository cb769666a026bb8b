// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"kubolor/internal/models"
	"kubolor/internal/store"
)

var (
	errDuplicateSlug = errors.New("duplicate key value violates unique constraint")
	errForeignKey    = errors.New("violates foreign key constraint")
)

// memDB is an in-memory content store. memTx snapshots it before a
// transaction and restores the snapshot when the transaction fails.
type memDB struct {
	categories map[uuid.UUID]models.Term
	tags       map[uuid.UUID]models.Term
	posts      map[uuid.UUID]models.Post
	postTags   map[uuid.UUID][]uuid.UUID
	users      map[string]models.User
	now        time.Time
}

func newMemDB() *memDB {
	return &memDB{
		categories: map[uuid.UUID]models.Term{},
		tags:       map[uuid.UUID]models.Term{},
		posts:      map[uuid.UUID]models.Post{},
		postTags:   map[uuid.UUID][]uuid.UUID{},
		users:      map[string]models.User{},
		now:        time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memDB) clone() *memDB {
	c := *m
	c.categories = maps.Clone(m.categories)
	c.tags = maps.Clone(m.tags)
	c.posts = maps.Clone(m.posts)
	c.postTags = map[uuid.UUID][]uuid.UUID{}
	for k, v := range m.postTags {
		c.postTags[k] = slices.Clone(v)
	}
	c.users = maps.Clone(m.users)
	return &c
}

func (m *memDB) table(kind models.TermKind) map[uuid.UUID]models.Term {
	if kind == models.TermTag {
		return m.tags
	}
	return m.categories
}

func (m *memDB) findTermBySlug(kind models.TermKind, slug string) (models.Term, bool) {
	for _, t := range m.table(kind) {
		if t.Slug == slug {
			return t, true
		}
	}
	return models.Term{}, false
}

func (m *memDB) postsUsing(kind models.TermKind, id uuid.UUID) int {
	n := 0
	if kind == models.TermCategory {
		for _, p := range m.posts {
			if p.CategoryID == id {
				n++
			}
		}
		return n
	}
	for _, tagIDs := range m.postTags {
		if slices.Contains(tagIDs, id) {
			n++
		}
	}
	return n
}

type memTx struct{ db *memDB }

func (t memTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := t.db.clone()
	if err := fn(ctx); err != nil {
		*t.db = *snapshot
		return err
	}
	return nil
}

type memTerms struct {
	db   *memDB
	kind models.TermKind
}

func (r memTerms) Kind() models.TermKind { return r.kind }

func (r memTerms) UpsertBySlug(_ context.Context, name, slug string) (*models.Term, error) {
	if t, ok := r.db.findTermBySlug(r.kind, slug); ok {
		t.Name = name
		r.db.table(r.kind)[t.ID] = t
		return &t, nil
	}
	t := models.Term{ID: uuid.New(), Name: name, Slug: slug, CreatedAt: r.db.now, UpdatedAt: r.db.now}
	r.db.table(r.kind)[t.ID] = t
	return &t, nil
}

func (r memTerms) Update(_ context.Context, id uuid.UUID, name, slug string) (*models.Term, error) {
	t, ok := r.db.table(r.kind)[id]
	if !ok {
		return nil, nil
	}
	if other, taken := r.db.findTermBySlug(r.kind, slug); taken && other.ID != id {
		return nil, errDuplicateSlug
	}
	t.Name, t.Slug = name, slug
	r.db.table(r.kind)[id] = t
	return &t, nil
}

func (r memTerms) DeleteUnused(_ context.Context, id uuid.UUID) (store.DeleteOutcome, error) {
	if _, ok := r.db.table(r.kind)[id]; !ok {
		return store.DeleteNotFound, nil
	}
	if r.db.postsUsing(r.kind, id) > 0 {
		return store.DeleteInUse, nil
	}
	delete(r.db.table(r.kind), id)
	return store.Deleted, nil
}

func (r memTerms) List(_ context.Context) ([]models.Term, error) {
	var out []models.Term
	for _, t := range r.db.table(r.kind) {
		t.PostCount = r.db.postsUsing(r.kind, t.ID)
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memPosts struct{ db *memDB }

func (r memPosts) Create(_ context.Context, p *models.Post) (*models.Post, error) {
	for _, existing := range r.db.posts {
		if existing.Slug == p.Slug {
			return nil, errDuplicateSlug
		}
	}
	if _, ok := r.db.categories[p.CategoryID]; !ok {
		return nil, errForeignKey
	}
	stored := *p
	stored.ID = uuid.New()
	stored.CreatedAt, stored.UpdatedAt = r.db.now, r.db.now
	r.db.posts[stored.ID] = stored
	return &stored, nil
}

func (r memPosts) Update(_ context.Context, id uuid.UUID, u store.PostUpdate) (*models.Post, error) {
	p, ok := r.db.posts[id]
	if !ok {
		return nil, nil
	}
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Slug != nil {
		p.Slug = *u.Slug
	}
	if u.Content != nil {
		p.Content = *u.Content
	}
	if u.Excerpt != nil {
		p.Excerpt = u.Excerpt
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.CategoryID != nil {
		if _, ok := r.db.categories[*u.CategoryID]; !ok {
			return nil, errForeignKey
		}
		p.CategoryID = *u.CategoryID
	}
	switch {
	case u.PublishedAt != nil:
		p.PublishedAt = u.PublishedAt
	case u.PublishedAtIfUnset != nil && p.PublishedAt == nil:
		p.PublishedAt = u.PublishedAtIfUnset
	}
	r.db.posts[id] = p
	return &p, nil
}

func (r memPosts) Publish(_ context.Context, id uuid.UUID, at time.Time) (*models.Post, error) {
	p, ok := r.db.posts[id]
	if !ok {
		return nil, nil
	}
	p.Status = models.PostStatusPublished
	p.PublishedAt = &at
	r.db.posts[id] = p
	return &p, nil
}

func (r memPosts) ReplaceTags(_ context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error {
	for _, id := range tagIDs {
		if _, ok := r.db.tags[id]; !ok {
			return errForeignKey
		}
	}
	r.db.postTags[postID] = slices.Clone(tagIDs)
	return nil
}

func (r memPosts) FindByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	p, ok := r.db.posts[id]
	if !ok {
		return nil, nil
	}
	if c, ok := r.db.categories[p.CategoryID]; ok {
		p.Category = &c
	}
	p.Tags = nil
	for _, tagID := range r.db.postTags[id] {
		p.Tags = append(p.Tags, r.db.tags[tagID])
	}
	return &p, nil
}

func (r memPosts) ListRecent(_ context.Context, limit int) ([]models.Post, error) {
	var out []models.Post
	for _, p := range r.db.posts {
		out = append(out, p)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memAuthors struct{ db *memDB }

func (r memAuthors) FindOrCreateByEmail(_ context.Context, email string, role models.Role) (*models.User, error) {
	if u, ok := r.db.users[email]; ok {
		return &u, nil
	}
	u := models.User{ID: uuid.New(), Email: email, Role: role, CreatedAt: r.db.now}
	r.db.users[email] = u
	return &u, nil
}

// newMemService returns a Service over a fresh memDB with a fixed clock.
func newMemService() (*Service, *memDB) {
	db := newMemDB()
	svc := NewService(memTx{db}, memTerms{db, models.TermCategory}, memTerms{db, models.TermTag}, memPosts{db}, memAuthors{db})
	svc.now = func() time.Time { return db.now }
	return svc, db
}
