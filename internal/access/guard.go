// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package access

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// SessionCookie is the cookie the identity provider's frontend SDK sets.
const SessionCookie = "__session"

const adminRole = "admin"

// TokenVerifier validates a raw session token.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// ProfileFetcher loads a user's profile from the identity provider.
type ProfileFetcher interface {
	Fetch(ctx context.Context, userID string) (*Profile, error)
}

// Guard resolves the access context of incoming requests.
type Guard struct {
	verifier TokenVerifier
	profiles ProfileFetcher
	logger   *logrus.Logger
}

// NewGuard creates a Guard. profiles may be nil, in which case tokens
// without a role claim resolve to Member.
func NewGuard(verifier TokenVerifier, profiles ProfileFetcher, logger *logrus.Logger) *Guard {
	return &Guard{verifier: verifier, profiles: profiles, logger: logger}
}

// Resolve determines the caller's access level. It never fails: anything
// that prevents identification yields Anonymous, and anything that
// prevents role lookup for a verified caller yields Member.
func (g *Guard) Resolve(r *http.Request) Context {
	token := tokenFrom(r)
	if token == "" || g.verifier == nil {
		return Context{Level: Anonymous}
	}

	claims, err := g.verifier.Verify(token)
	if err != nil {
		g.logger.WithError(err).Debug("session token rejected")
		return Context{Level: Anonymous}
	}

	ac := Context{Level: Member, UserID: claims.Subject, Email: claims.Email}
	role := claims.Role

	if !claims.HasRole {
		if g.profiles == nil {
			return ac
		}
		profile, err := g.profiles.Fetch(r.Context(), claims.Subject)
		if err != nil {
			g.logger.WithError(err).WithField("user_id", claims.Subject).Warn("identity profile lookup failed")
			return ac
		}
		role = profile.Role
		if ac.Email == "" {
			ac.Email = profile.Email
		}
	}

	if role == adminRole {
		ac.Level = Admin
	}
	return ac
}

// AuthorEmail returns the email to record as a post's author. Callers
// without a known address get a stable synthetic one.
func (c Context) AuthorEmail() string {
	if c.Email != "" {
		return c.Email
	}
	return c.UserID + "@identity.local"
}

func tokenFrom(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
