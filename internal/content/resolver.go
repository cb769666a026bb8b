// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"kubolor/internal/models"
	"kubolor/internal/slug"
	"kubolor/internal/store"
)

// TermRef points at a term either by id or by display name.
type TermRef struct {
	ID   *uuid.UUID
	Name string
}

// Present reports whether the reference carries an id or a name.
func (r TermRef) Present() bool {
	return r.ID != nil || strings.TrimSpace(r.Name) != ""
}

// TagSet is a tag selection: ids plus a comma-separated list of names.
type TagSet struct {
	IDs   []uuid.UUID
	Names string
}

// ResolveTerm returns the id the reference designates. An id is returned
// unchecked; a name is upserted by its slug.
func (s *Service) ResolveTerm(ctx context.Context, kind models.TermKind, ref TermRef) (uuid.UUID, error) {
	if ref.ID != nil {
		return *ref.ID, nil
	}

	name := strings.TrimSpace(ref.Name)
	if name == "" {
		return uuid.Nil, newError(KindMissingReference, kind.Label()+" is required.")
	}

	key := slug.Normalize(name)
	if key == "" {
		return uuid.Nil, newError(KindInvalidSlug, fmt.Sprintf("Invalid %s name %q.", strings.ToLower(kind.Label()), name))
	}

	t, err := s.terms(kind).UpsertBySlug(ctx, name, key)
	if err != nil {
		return uuid.Nil, writeFailed(err)
	}
	return t.ID, nil
}

// ResolveTags resolves every name in set.Names, unions the result with
// set.IDs and removes duplicates, keeping first-seen order.
func (s *Service) ResolveTags(ctx context.Context, set TagSet) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(set.IDs))
	seen := make(map[uuid.UUID]bool)
	add := func(id uuid.UUID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, id := range set.IDs {
		add(id)
	}
	for _, name := range SplitNames(set.Names) {
		id, err := s.ResolveTerm(ctx, models.TermTag, TermRef{Name: name})
		if err != nil {
			return nil, err
		}
		add(id)
	}
	return ids, nil
}

// SplitNames splits a comma-separated list, trimming entries and dropping
// empty ones.
func SplitNames(list string) []string {
	var names []string
	for _, part := range strings.Split(list, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// termSlug validates an admin-supplied name and slug. The slug falls back
// to the name.
func termSlug(name, explicit string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", newError(KindMissingFields, "Name is required.")
	}
	source := strings.TrimSpace(explicit)
	if source == "" {
		source = name
	}
	key := slug.Normalize(source)
	if key == "" {
		return "", "", newError(KindInvalidSlug, "Invalid slug.")
	}
	return name, key, nil
}

// CreateTerm creates a category or tag. Creating an existing slug renames
// that term instead of failing.
func (s *Service) CreateTerm(ctx context.Context, kind models.TermKind, name, explicitSlug string) (*models.Term, error) {
	name, key, err := termSlug(name, explicitSlug)
	if err != nil {
		return nil, err
	}
	t, err := s.terms(kind).UpsertBySlug(ctx, name, key)
	if err != nil {
		return nil, writeFailed(err)
	}
	return t, nil
}

// UpdateTerm renames a term and re-derives its slug.
func (s *Service) UpdateTerm(ctx context.Context, kind models.TermKind, id uuid.UUID, name, explicitSlug string) (*models.Term, error) {
	name, key, err := termSlug(name, explicitSlug)
	if err != nil {
		return nil, err
	}
	t, err := s.terms(kind).Update(ctx, id, name, key)
	if err != nil {
		return nil, writeFailed(err)
	}
	if t == nil {
		return nil, newError(KindNotFound, kind.Label()+" not found.")
	}
	return t, nil
}

// DeleteTerm removes a term no post uses.
func (s *Service) DeleteTerm(ctx context.Context, kind models.TermKind, id uuid.UUID) error {
	outcome, err := s.terms(kind).DeleteUnused(ctx, id)
	if err != nil {
		return writeFailed(err)
	}

	switch outcome {
	case store.DeleteNotFound:
		return newError(KindNotFound, kind.Label()+" not found.")
	case store.DeleteInUse:
		if kind == models.TermTag {
			return newError(KindInUse, "Tag is used by posts. Remove it from posts first.")
		}
		return newError(KindInUse, "Category has posts. Reassign or delete posts first.")
	}
	return nil
}

// ListTerms returns every term of kind with its post count.
func (s *Service) ListTerms(ctx context.Context, kind models.TermKind) ([]models.Term, error) {
	return s.terms(kind).List(ctx)
}
