// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import "kubolor/internal/models"

// FallbackImage is used for social cards when a post has no featured image.
const FallbackImage = "/kubolor-logo.png"

// Meta is the SEO metadata of a page.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	Image       string
	Type        string // og:type
}

// PostMeta derives a post page's metadata, preferring the dedicated SEO
// fields over the title and excerpt.
func PostMeta(siteURL string, p *models.Post) *Meta {
	m := &Meta{
		Title:     p.Title,
		Canonical: siteURL + "/blog/" + p.Slug,
		Image:     FallbackImage,
		Type:      "article",
	}
	if v := nonEmpty(p.MetaTitle); v != "" {
		m.Title = v
	}
	if v := nonEmpty(p.MetaDescription); v != "" {
		m.Description = v
	} else {
		m.Description = nonEmpty(p.Excerpt)
	}
	if v := nonEmpty(p.FeaturedImage); v != "" {
		m.Image = v
	}
	return m
}

// BlogMeta is the metadata of the blog listing.
func BlogMeta(siteURL string) *Meta {
	return &Meta{
		Title:       "Kubolor Blog",
		Description: "Browse SEO articles, publishing tips, and category insights from Kubolor.",
		Canonical:   siteURL + "/blog",
		Image:       FallbackImage,
		Type:        "website",
	}
}

// HomeMeta is the metadata of the homepage.
func HomeMeta(siteURL string) *Meta {
	return &Meta{
		Title:       "Kubolor",
		Description: "AI-powered SEO blogging platform",
		Canonical:   siteURL + "/",
		Image:       FallbackImage,
		Type:        "website",
	}
}

func nonEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
