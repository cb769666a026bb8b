// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// TermKind selects one of the two slug-keyed taxonomies.
type TermKind string

const (
	TermCategory TermKind = "category"
	TermTag      TermKind = "tag"
)

// Table returns the table holding terms of this kind.
func (k TermKind) Table() string {
	if k == TermTag {
		return "tags"
	}
	return "categories"
}

// Label returns the display name used in messages, e.g. "Category".
func (k TermKind) Label() string {
	if k == TermTag {
		return "Tag"
	}
	return "Category"
}

// Plural returns the lowercase plural used for routes and JSON keys.
func (k TermKind) Plural() string {
	if k == TermTag {
		return "tags"
	}
	return "categories"
}

// Term is a category or a tag: a display name plus a unique slug.
type Term struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Populated by listing queries only.
	PostCount int `json:"postCount"`
}

// Category groups posts; each post belongs to exactly one.
type Category = Term

// Tag labels posts; a post has any number of tags.
type Tag = Term
