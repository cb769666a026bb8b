// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/xml"
	"net/http"
	"time"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Sitemap lists the homepage, the blog index and every published post.
func (p *Public) Sitemap(w http.ResponseWriter, r *http.Request) {
	entries, err := p.posts.ListSitemap(r.Context())
	if err != nil {
		p.logger.WithError(err).Error("sitemap: list posts failed")
		http.Error(w, "Sitemap unavailable.", http.StatusServiceUnavailable)
		return
	}

	base := p.renderer.Site().URL
	now := time.Now().UTC().Format(time.RFC3339)
	set := urlSet{XMLNS: sitemapNS, URLs: make([]sitemapURL, 0, len(entries)+2)}
	set.URLs = append(set.URLs,
		sitemapURL{Loc: base + "/", LastMod: now},
		sitemapURL{Loc: base + "/blog", LastMod: now},
	)
	for _, e := range entries {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     base + "/blog/" + e.Slug,
			LastMod: e.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		p.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(out)
}
