// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package dbtest starts a disposable PostgreSQL container for integration
// tests and applies the embedded migrations to it.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"kubolor/internal/database"
)

var (
	once      sync.Once
	sharedDSN string
	initErr   error
)

// DSN returns the connection string of the shared test database, starting
// the container on first use. KUBOLOR_TEST_DATABASE_URL short-circuits the
// container. Tests are skipped when no database can be provided.
func DSN(t *testing.T) string {
	t.Helper()

	dsn := os.Getenv("KUBOLOR_TEST_DATABASE_URL")
	if dsn == "" {
		testcontainers.SkipIfProviderIsNotHealthy(t)
	}

	once.Do(func() {
		if dsn != "" {
			sharedDSN, initErr = dsn, migrate(dsn)
			return
		}
		sharedDSN, initErr = recoverStart(startContainer)
	})
	if initErr != nil {
		t.Skipf("skipping: test database not available: %v", initErr)
	}
	return sharedDSN
}

// Open returns a connection pool to the shared test database with every
// table truncated. The pool is closed via t.Cleanup.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, DSN(t))
	if err != nil {
		t.Fatalf("dbtest: connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.ExecContext(ctx,
		`TRUNCATE post_tags, posts, tags, categories, users, generation_logs CASCADE`); err != nil {
		t.Fatalf("dbtest: truncate: %v", err)
	}
	return db
}

// recoverStart runs start once without a *testing.T, so a panic from the
// container provider becomes an error that skips every caller.
func recoverStart(start func() (string, error)) (dsn string, err error) {
	defer func() {
		if r := recover(); r != nil {
			dsn, err = "", fmt.Errorf("container provider: %v", r)
		}
	}()
	return start()
}

func startContainer() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "kubolor",
			"POSTGRES_PASSWORD": "kubolor",
			"POSTGRES_DB":       "kubolor_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", fmt.Errorf("get mapped port: %w", err)
	}

	dsn := fmt.Sprintf("postgres://kubolor:kubolor@%s:%s/kubolor_test?sslmode=disable", host, port.Port())
	if err := migrate(dsn); err != nil {
		return "", err
	}
	return dsn, nil
}

func migrate(dsn string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
