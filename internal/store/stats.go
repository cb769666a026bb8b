// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"

	"golang.org/x/sync/errgroup"

	"kubolor/internal/models"
)

const dashboardRecentPosts = 5

// StatsStore aggregates counts for the admin dashboard.
type StatsStore struct {
	posts      *PostStore
	categories *TermStore
	tags       *TermStore
	logs       *GenerationLogStore
}

// NewStatsStore creates a StatsStore over db.
func NewStatsStore(db *sql.DB) *StatsStore {
	return &StatsStore{
		posts:      NewPostStore(db),
		categories: NewCategoryStore(db),
		tags:       NewTagStore(db),
		logs:       NewGenerationLogStore(db),
	}
}

// Dashboard runs the independent count queries concurrently.
func (s *StatsStore) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	var st models.DashboardStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		st.TotalPosts, err = s.posts.CountByStatus(ctx, "")
		return err
	})
	g.Go(func() (err error) {
		st.DraftPosts, err = s.posts.CountByStatus(ctx, models.PostStatusDraft)
		return err
	})
	g.Go(func() (err error) {
		st.PublishedPosts, err = s.posts.CountByStatus(ctx, models.PostStatusPublished)
		return err
	})
	g.Go(func() (err error) {
		st.Categories, err = s.categories.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		st.Tags, err = s.tags.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		st.AIDrafts, err = s.logs.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		st.RecentPosts, err = s.posts.ListRecent(ctx, dashboardRecentPosts)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &st, nil
}
