// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// GenerationLog is a write-once audit record of one draft generation call.
type GenerationLog struct {
	ID               uuid.UUID `json:"id"`
	Topic            string    `json:"topic"`
	Keywords         string    `json:"keywords"`
	Tone             string    `json:"tone"`
	Length           string    `json:"length"`
	GeneratedContent string    `json:"generatedContent"`
	CreatedAt        time.Time `json:"createdAt"`
}
