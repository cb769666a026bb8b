// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"kubolor/internal/render"
)

// Policy is the copy of one static legal or support page.
type Policy struct {
	Path       string
	Title      string
	Eyebrow    string
	Heading    string
	Lead       string
	Paragraphs []string
}

// Policies are the static pages shown when SHOW_POLICY_PAGES is set.
var Policies = []Policy{
	{
		Path:    "/privacy-policy",
		Title:   "Privacy Policy",
		Eyebrow: "Legal",
		Heading: "Privacy Policy",
		Lead:    "How Kubolor collects, uses, shares, and protects personal information when you use the Services.",
		Paragraphs: []string{
			"We collect account details you provide, billing information handled by payment processors, usage data, content you submit or generate, and messages you send us.",
			"We use this information to provide and improve the Services, process payments, answer support requests, send important notices, and keep the platform secure.",
			"We do not sell personal information. We share it only with providers that help operate the Services or when the law requires it.",
			"We keep personal information only as long as needed to provide the Services and meet legal obligations. You may update or delete your account information at any time.",
		},
	},
	{
		Path:    "/terms-of-service",
		Title:   "Terms of Service",
		Eyebrow: "Legal",
		Heading: "Terms of Service",
		Lead:    "These Terms govern your access to and use of Kubolor. By using the Services you agree to them.",
		Paragraphs: []string{
			"You must be able to enter a binding contract to use the Services and you are responsible for activity under your account.",
			"You agree not to misuse the Services, access systems without authorization, distribute malware, or violate the rights of others.",
			"Paid plans renew automatically until canceled. Fees are non-refundable except as described in the Refund Policy.",
			"You keep ownership of the content you submit and grant Kubolor a limited license to process, store, and display it to provide the Services.",
			"The Services are provided as is, without warranties of any kind, and may be interrupted for maintenance.",
		},
	},
	{
		Path:    "/refund-policy",
		Title:   "Refund Policy",
		Eyebrow: "Legal",
		Heading: "Refund Policy",
		Lead:    "This policy applies to payments made for access to Kubolor.",
		Paragraphs: []string{
			"You may request a refund within 7 days of your first paid subscription purchase. After that, subscription fees are non-refundable.",
			"You can cancel at any time. Access remains active through the end of the current billing period.",
			"One-time fees, usage-based charges, and add-on services are non-refundable unless required by law.",
			"To request a refund, contact support with your account email and payment details.",
		},
	},
	{
		Path:    "/support",
		Title:   "Support",
		Eyebrow: "Support",
		Heading: "Live Chat Support",
		Lead:    "We typically respond within 1 business day.",
		Paragraphs: []string{
			"Need help with Kubolor? Start a chat and our team will respond as quickly as possible.",
			"For urgent billing or account issues, include your account email and the invoice or payment reference.",
		},
	},
}

// PolicyPage returns the handler for one static page. It answers 404 unless
// the site enables policy pages.
func (p *Public) PolicyPage(page Policy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !p.renderer.Site().ShowPolicyPages {
			p.NotFound(w, r)
			return
		}
		p.page(w, r, http.StatusOK, "public/policy", &render.PageData{
			Title: page.Title,
			Data:  map[string]any{"Policy": page},
		})
	}
}
