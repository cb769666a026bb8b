// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"kubolor/internal/models"
)

// GenerationLogStore appends to the draft generation audit trail.
type GenerationLogStore struct {
	db *sql.DB
}

// NewGenerationLogStore creates a new GenerationLogStore.
func NewGenerationLogStore(db *sql.DB) *GenerationLogStore {
	return &GenerationLogStore{db: db}
}

// Append records one generation call. Rows are never updated.
func (s *GenerationLogStore) Append(ctx context.Context, entry *models.GenerationLog) error {
	err := conn(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO generation_logs (topic, keywords, tone, length, generated_content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, entry.Topic, entry.Keywords, entry.Tone, entry.Length, entry.GeneratedContent).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("append generation log: %w", err)
	}
	return nil
}

// Count returns the number of logged generation calls.
func (s *GenerationLogStore) Count(ctx context.Context) (int, error) {
	return count(ctx, conn(ctx, s.db), psql.Select("COUNT(*)").From("generation_logs"))
}
