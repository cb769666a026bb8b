// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug maps free text to URL-safe identifiers.
package slug

import (
	"regexp"
	"strings"
)

var (
	disallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespace = regexp.MustCompile(`\s+`)
	hyphens    = regexp.MustCompile(`-{2,}`)
)

// Normalize lowercases s, drops everything outside [a-z0-9], whitespace and
// hyphens, turns whitespace runs into one hyphen and collapses repeated
// hyphens. The result is "" when nothing usable remains; callers must
// reject that.
//
//	Normalize("Hello, World!  2024") == "hello-world-2024"
func Normalize(s string) string {
	out := disallowed.ReplaceAllString(strings.ToLower(s), "")
	out = whitespace.ReplaceAllString(strings.TrimSpace(out), "-")
	out = hyphens.ReplaceAllString(out, "-")
	return strings.Trim(out, "-")
}
