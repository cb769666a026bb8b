// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"

	"github.com/getsentry/sentry-go"

	"kubolor/internal/access"
)

// Resolver determines the access context of a request.
type Resolver interface {
	Resolve(r *http.Request) access.Context
}

// ResolveAccess resolves the caller once and stores the result in the
// request context for the gates and handlers below it.
func ResolveAccess(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac := resolver.Resolve(r)

			if ac.SignedIn() {
				if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
					hub.Scope().SetUser(sentry.User{ID: ac.UserID})
				}
			}

			next.ServeHTTP(w, r.WithContext(access.WithContext(r.Context(), ac)))
		})
	}
}

// RequireAdminPage sends anonymous visitors to the sign-in page and
// signed-in non-admins to the homepage.
func RequireAdminPage(signInURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch access.FromContext(r.Context()).Level {
			case access.Admin:
				next.ServeHTTP(w, r)
			case access.Member:
				http.Redirect(w, r, "/", http.StatusSeeOther)
			default:
				http.Redirect(w, r, signInURL, http.StatusSeeOther)
			}
		})
	}
}

// RequireAdminAPI answers 401 for anonymous callers and 403 for
// signed-in non-admins.
func RequireAdminAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch access.FromContext(r.Context()).Level {
		case access.Admin:
			next.ServeHTTP(w, r)
		case access.Member:
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "Forbidden"})
		default:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}
	})
}
