// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package middleware provides the HTTP middleware chain for the Kubolor server.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
)

type contextKey string

const requestIDKey contextKey = "kubolor/request-id"

// RequestIDHeader carries the request identifier in responses.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns every request a fresh identifier, stores it in the
// context and echoes it in the response headers.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		w.Header().Set(RequestIDHeader, id)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the request identifier, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Sentry attaches a per-request clone of hub to the context, tagged with the
// request identifier when RequestID ran first. A nil hub disables the
// middleware. Events are flushed by Recoverer and at shutdown, never per
// request.
func Sentry(hub *sentry.Hub) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if hub == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqHub := hub.Clone()
			scope := reqHub.Scope()
			scope.SetTag("http.method", r.Method)
			if id := RequestIDFromContext(r.Context()); id != "" {
				scope.SetTag("request_id", id)
			}
			scope.SetRequest(r)

			ctx := sentry.SetHubOnContext(r.Context(), reqHub)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeJSON writes a small JSON body. Middleware only ever answers with
// error objects, so encoding failures are ignored.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
