// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public blog and
// the admin interface. Every page template is paired with the layout of
// its area (public or admin) and executed into a buffer, so a template
// error never leaves a half-written response behind.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"kubolor/internal/access"
	"kubolor/internal/models"
)

//go:embed templates/public/*.html templates/admin/*.html
var templateFS embed.FS

const layoutFile = "layout.html"

// Site holds the settings every page can read.
type Site struct {
	Name            string
	URL             string
	ShowPolicyPages bool
	SignInURL       string
	HostedSignInURL string
	Year            int
}

// PageData holds everything passed to a template.
type PageData struct {
	Title   string
	Meta    *Meta
	Section string // active admin navigation entry
	Site    Site
	Access  access.Context
	Data    map[string]any
}

// Renderer executes the embedded templates.
type Renderer struct {
	templates map[string]*template.Template
	site      Site
}

var funcMap = template.FuncMap{
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"date": func(t any) string {
		switch v := t.(type) {
		case time.Time:
			return v.Format("Jan 2, 2006")
		case *time.Time:
			if v == nil {
				return ""
			}
			return v.Format("Jan 2, 2006")
		}
		return ""
	},
	"isoDate": func(t time.Time) string {
		return t.UTC().Format(time.RFC3339)
	},
	"categoryName": func(p models.Post) string {
		if p.Category == nil {
			return "Uncategorized"
		}
		return p.Category.Name
	},
	"tagNames": func(tags []models.Tag) string {
		names := make([]string, len(tags))
		for i, t := range tags {
			names[i] = t.Name
		}
		return strings.Join(names, ", ")
	},
	"uuidEq": func(a, b uuid.UUID) bool {
		return a == b
	},
	"hasTag": func(tags []models.Tag, id uuid.UUID) bool {
		for _, t := range tags {
			if t.ID == id {
				return true
			}
		}
		return false
	},
	"query": url.QueryEscape,
}

// New parses all embedded templates.
func New(site Site) (*Renderer, error) {
	if site.Name == "" {
		site.Name = "Kubolor"
	}
	if site.Year == 0 {
		site.Year = time.Now().Year()
	}

	r := &Renderer{templates: make(map[string]*template.Template), site: site}
	for _, area := range []string{"public", "admin"} {
		dir := "templates/" + area
		entries, err := fs.ReadDir(templateFS, dir)
		if err != nil {
			return nil, fmt.Errorf("read %s templates: %w", area, err)
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || name == layoutFile || !strings.HasSuffix(name, ".html") {
				continue
			}
			tmpl, err := template.New(layoutFile).Funcs(funcMap).ParseFS(templateFS, dir+"/"+layoutFile, dir+"/"+name)
			if err != nil {
				return nil, fmt.Errorf("parse template %s/%s: %w", area, name, err)
			}
			r.templates[area+"/"+strings.TrimSuffix(name, ".html")] = tmpl
		}
	}
	return r, nil
}

// Site returns the site settings the renderer was built with.
func (rn *Renderer) Site() Site {
	return rn.site
}

// Bytes executes the named template ("public/home", "admin/posts", ...).
func (rn *Renderer) Bytes(name string, data *PageData) ([]byte, error) {
	tmpl, ok := rn.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	if data == nil {
		data = &PageData{}
	}
	data.Site = rn.site

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutFile, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Page renders the named template for r with the given status. The
// caller's access context is injected from the request.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) error {
	if data == nil {
		data = &PageData{}
	}
	data.Access = access.FromContext(r.Context())

	body, err := rn.Bytes(name, data)
	if err != nil {
		http.Error(w, "Something went wrong. Please try again.", http.StatusInternalServerError)
		return err
	}
	Write(w, status, body)
	return nil
}

// Write sends an already rendered HTML page.
func Write(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
