// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import (
	"net/url"
	"strconv"
)

// Pagination describes one page of a listing and the links around it.
type Pagination struct {
	Page       int
	TotalPages int
	Total      int
	PrevURL    string
	NextURL    string
}

// ParsePage reads a 1-based page number. Anything unparsable or below 1 is page 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Offset returns the number of rows before page for the given page size.
func Offset(page, size int) int {
	return (page - 1) * size
}

// Paginate computes the page count and the previous/next links. params
// are carried into both links; empty values are dropped.
func Paginate(page, total, size int, base string, params url.Values) Pagination {
	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}

	p := Pagination{Page: page, TotalPages: pages, Total: total}
	if page > 1 {
		p.PrevURL = pageURL(base, page-1, params)
	}
	if page < pages {
		p.NextURL = pageURL(base, page+1, params)
	}
	return p
}

func pageURL(base string, page int, params url.Values) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	for k, vs := range params {
		for _, v := range vs {
			if v != "" {
				q.Add(k, v)
			}
		}
	}
	return base + "?" + q.Encode()
}
