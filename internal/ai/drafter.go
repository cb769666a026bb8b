// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"

	"kubolor/internal/models"
)

// DraftRequest is the admin's generation input.
type DraftRequest struct {
	Topic    string   `json:"topic"`
	Keywords Keywords `json:"keywords"`
	Tone     Tone     `json:"tone"`
	Length   Length   `json:"length"`
}

// Draft is the generated article, returned to the admin unpersisted.
type Draft struct {
	Content         string `json:"content"`
	MetaTitle       string `json:"metaTitle"`
	MetaDescription string `json:"metaDescription"`
}

// RequestError is a rejected DraftRequest.
type RequestError struct {
	Kind    string
	Message string
}

func (e *RequestError) Error() string { return e.Message }

// Validate checks a request before any upstream call is made.
func (r *DraftRequest) Validate() error {
	r.Topic = strings.TrimSpace(r.Topic)
	if r.Topic == "" || len(r.Keywords) == 0 || r.Tone == "" || r.Length == "" {
		return &RequestError{Kind: "MissingFields", Message: "Missing required fields."}
	}
	if !r.Tone.Valid() {
		return &RequestError{Kind: "InvalidTone", Message: "Tone must be professional, casual, or persuasive."}
	}
	if !r.Length.Valid() {
		return &RequestError{Kind: "InvalidLength", Message: "Length must be short, medium, or long."}
	}
	return nil
}

// LogWriter records generation calls.
type LogWriter interface {
	Append(ctx context.Context, entry *models.GenerationLog) error
}

// DrafterOptions configures a Drafter.
type DrafterOptions struct {
	Provider   Provider
	Log        LogWriter
	Logger     *logrus.Logger
	MaxRetries uint64
	RetryBase  time.Duration
}

// Drafter generates SEO article drafts.
type Drafter struct {
	provider   Provider
	log        LogWriter
	logger     *logrus.Logger
	maxRetries uint64
	retryBase  time.Duration
}

// NewDrafter creates a Drafter.
func NewDrafter(opts DrafterOptions) *Drafter {
	base := opts.RetryBase
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	return &Drafter{
		provider:   opts.Provider,
		log:        opts.Log,
		logger:     opts.Logger,
		maxRetries: opts.MaxRetries,
		retryBase:  base,
	}
}

// Generate validates req, asks the model for a draft and records the call.
// Upstream failures are returned as *UpstreamError after retries are
// exhausted. A reply that is not valid JSON still yields a Draft.
func (d *Drafter) Generate(ctx context.Context, req DraftRequest) (*Draft, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	userPrompt := buildUserPrompt(req)
	fields := logrus.Fields{"topic": req.Topic, "tone": req.Tone, "length": req.Length}

	var raw string
	attempt := 0
	backoff := retry.WithMaxRetries(d.maxRetries, retry.NewExponential(d.retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		text, err := d.provider.Complete(ctx, systemPrompt, userPrompt)
		if err == nil {
			raw = text
			return nil
		}

		var upErr *UpstreamError
		if errors.As(err, &upErr) && upErr.Retryable() && ctx.Err() == nil {
			d.logger.WithFields(fields).WithField("attempt", attempt).WithError(err).Warn("draft generation attempt failed")
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		d.logger.WithFields(fields).WithField("attempts", attempt).WithError(err).Error("draft generation failed")
		var upErr *UpstreamError
		if !errors.As(err, &upErr) {
			upErr = &UpstreamError{Body: err.Error(), Err: err}
		}
		return nil, upErr
	}

	draft, degraded := parseDraft(raw, req.Topic)
	if degraded {
		d.logger.WithFields(fields).Warn("model reply was not JSON, returning raw text")
	}

	d.record(ctx, req, raw)
	return draft, nil
}

func (d *Drafter) record(ctx context.Context, req DraftRequest, raw string) {
	if d.log == nil {
		return
	}
	entry := &models.GenerationLog{
		Topic:            req.Topic,
		Keywords:         req.Keywords.String(),
		Tone:             string(req.Tone),
		Length:           string(req.Length),
		GeneratedContent: raw,
	}
	if err := d.log.Append(ctx, entry); err != nil {
		d.logger.WithError(err).WithField("topic", req.Topic).Error("recording generation log")
	}
}
