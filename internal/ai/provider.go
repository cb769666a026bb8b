// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai drafts SEO articles with an OpenAI-compatible chat model.
// The Drafter validates the request, builds the prompt, retries transient
// upstream failures, parses the model's JSON answer (degrading gracefully
// when it is not JSON) and records every generation in the audit log.
package ai

import (
	"context"
	"fmt"
	"net/http"
)

// Provider sends one system/user prompt pair to a language model and
// returns the raw text of its answer.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// UpstreamError reports a failed call to the model provider. Status is the
// HTTP status the provider answered with, or 0 when no response arrived.
type UpstreamError struct {
	Status int
	Body   string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("ai upstream unreachable: %s", e.Body)
	}
	return fmt.Sprintf("ai upstream error (status %d): %s", e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Retryable reports whether another attempt could succeed: the provider
// was unreachable, throttled us, or failed on its side.
func (e *UpstreamError) Retryable() bool {
	return e.Status == 0 || e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}
