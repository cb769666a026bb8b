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

// UserStore handles the local shadow records of external identities.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// FindOrCreateByEmail returns the user with the given email, creating it
// with role when absent. An existing user's role is left unchanged.
func (s *UserStore) FindOrCreateByEmail(ctx context.Context, email string, role models.Role) (*models.User, error) {
	u := &models.User{}
	err := conn(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO users (email, role)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id, email, role, created_at
	`, email, role).Scan(&u.ID, &u.Email, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("find or create user: %w", err)
	}
	return u, nil
}
