// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Tone of the generated article.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	TonePersuasive   Tone = "persuasive"
)

// Valid reports whether t is a supported tone.
func (t Tone) Valid() bool {
	switch t {
	case ToneProfessional, ToneCasual, TonePersuasive:
		return true
	}
	return false
}

// Length of the generated article.
type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

var lengthWords = map[Length]string{
	LengthShort:  "600-800 words",
	LengthMedium: "1200-1500 words",
	LengthLong:   "1800-2200 words",
}

// Valid reports whether l is a supported length.
func (l Length) Valid() bool {
	_, ok := lengthWords[l]
	return ok
}

// Words returns the target word range for l.
func (l Length) Words() string {
	return lengthWords[l]
}

// Keywords accepts either a JSON array of strings or a single
// comma-separated string.
type Keywords []string

// UnmarshalJSON implements json.Unmarshaler.
func (k *Keywords) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*k = nil
		return nil
	}

	if len(data) > 0 && data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*k = cleanKeywords(list)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*k = ParseKeywords(s)
	return nil
}

// ParseKeywords splits a comma-separated keyword list.
func ParseKeywords(s string) Keywords {
	return cleanKeywords(strings.Split(s, ","))
}

func cleanKeywords(in []string) Keywords {
	out := make(Keywords, 0, len(in))
	for _, kw := range in {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// String joins the keywords the way they are shown to the model and logged.
func (k Keywords) String() string {
	return strings.Join(k, ", ")
}

const systemPrompt = "You are an expert SEO copywriter. Return JSON only with fields: metaTitle, metaDescription, markdown."

func buildUserPrompt(req DraftRequest) string {
	return strings.Join([]string{
		"Topic: " + req.Topic,
		"Primary keywords: " + req.Keywords.String(),
		"Tone: " + string(req.Tone),
		"Length: " + req.Length.Words(),
		"",
		"Write a full article in Markdown with:",
		"- One H1 title",
		"- Multiple H2/H3 sections",
		"- A dedicated FAQ section",
		"- Internal linking suggestions section",
		"- A meta title and meta description that are SEO optimized",
		"",
		"Return only JSON.",
	}, "\n")
}
