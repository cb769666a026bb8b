// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	"fmt"
)

// SeedCategory is a category created on first start in development.
type SeedCategory struct {
	Name string
	Slug string
}

// DefaultCategories are the starter categories for a fresh blog.
var DefaultCategories = []SeedCategory{
	{Name: "SEO", Slug: "seo"},
	{Name: "AI Writing", Slug: "ai-writing"},
	{Name: "Content Strategy", Slug: "content-strategy"},
	{Name: "Monetization", Slug: "monetization"},
	{Name: "Marketing", Slug: "marketing"},
	{Name: "Technology", Slug: "technology"},
}

// Seed upserts the default categories. It returns how many categories were
// inserted or renamed, so a start with nothing to change reports zero.
func Seed(ctx context.Context, db *sql.DB) (int, error) {
	written := 0
	for _, c := range DefaultCategories {
		res, err := db.ExecContext(ctx, `
			INSERT INTO categories (name, slug)
			VALUES ($1, $2)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, updated_at = now()
			WHERE categories.name IS DISTINCT FROM EXCLUDED.name
		`, c.Name, c.Slug)
		if err != nil {
			return written, fmt.Errorf("seed category %s: %w", c.Slug, err)
		}
		n, _ := res.RowsAffected()
		written += int(n)
	}
	return written, nil
}
