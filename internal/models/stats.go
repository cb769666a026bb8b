// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// DashboardStats summarizes the content store for the admin dashboard.
type DashboardStats struct {
	TotalPosts     int
	DraftPosts     int
	PublishedPosts int
	Categories     int
	Tags           int
	AIDrafts       int
	RecentPosts    []Post
}
