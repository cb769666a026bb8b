// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"encoding/json"
	"strings"
)

type draftPayload struct {
	MetaTitle       string `json:"metaTitle"`
	MetaDescription string `json:"metaDescription"`
	Markdown        string `json:"markdown"`
}

// parseDraft turns the model's answer into a Draft. Anything that is not
// a JSON object degrades to the raw text with topic-derived metadata, and
// blank fields fall back individually.
func parseDraft(raw, topic string) (*Draft, bool) {
	draft := &Draft{
		Content:         raw,
		MetaTitle:       topic,
		MetaDescription: fallbackDescription(topic),
	}

	var payload draftPayload
	if err := json.Unmarshal([]byte(stripCodeFence(strings.TrimSpace(raw))), &payload); err != nil {
		return draft, true
	}

	if s := strings.TrimSpace(payload.Markdown); s != "" {
		draft.Content = payload.Markdown
	}
	if s := strings.TrimSpace(payload.MetaTitle); s != "" {
		draft.MetaTitle = s
	}
	if s := strings.TrimSpace(payload.MetaDescription); s != "" {
		draft.MetaDescription = s
	}
	return draft, false
}

func fallbackDescription(topic string) string {
	return "Read our guide on " + topic + "."
}

// stripCodeFence removes a surrounding ``` or ```json fence.
func stripCodeFence(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}

	body := content[3:]
	newline := strings.IndexByte(body, '\n')
	if newline == -1 {
		return content
	}
	body = strings.TrimRight(body[newline+1:], " \t\r\n")
	if !strings.HasSuffix(body, "```") {
		return content
	}
	return strings.TrimSpace(body[:len(body)-3])
}
