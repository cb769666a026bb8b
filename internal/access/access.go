// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package access decides who is calling: anonymous, a signed-in member or
// an admin. The decision is made once per request from the identity
// provider's session token and carried in the request context.
package access

import "context"

// Level is the caller's access level.
type Level int

const (
	Anonymous Level = iota
	Member
	Admin
)

func (l Level) String() string {
	switch l {
	case Member:
		return "member"
	case Admin:
		return "admin"
	default:
		return "anonymous"
	}
}

// Context is the resolved identity of one request.
type Context struct {
	Level  Level
	UserID string
	Email  string
}

// SignedIn reports whether the caller presented a valid session.
func (c Context) SignedIn() bool {
	return c.Level != Anonymous
}

// IsAdmin reports whether the caller holds the admin role.
func (c Context) IsAdmin() bool {
	return c.Level == Admin
}

type contextKey struct{}

// WithContext returns a copy of ctx carrying ac.
func WithContext(ctx context.Context, ac Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

// FromContext returns the access context stored in ctx, or Anonymous.
func FromContext(ctx context.Context) Context {
	ac, _ := ctx.Value(contextKey{}).(Context)
	return ac
}
