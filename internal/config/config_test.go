// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedEnv = []string{
	"APP_HOST", "APP_PORT", "APP_ENV", "CONFIG_PATH",
	"SITE_URL", "SHOW_POLICY_PAGES", "DATABASE_URL",
	"VALKEY_ADDR", "VALKEY_PASSWORD", "PAGE_CACHE_TTL",
	"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
	"AI_TIMEOUT", "AI_MAX_RETRIES", "AI_RETRY_BASE", "AI_RATE_LIMIT",
	"IDENTITY_JWT_PUBLIC_KEY", "IDENTITY_JWT_SECRET", "IDENTITY_SECRET_KEY",
	"IDENTITY_API_URL", "IDENTITY_SIGN_IN_URL",
	"LOG_LEVEL", "SENTRY_DSN", "SENTRY_RELEASE", "TRUSTED_PROXIES",
}

// unsetEnv removes every variable Load reads and restores them after the test.
func unsetEnv(t *testing.T) {
	t.Helper()
	for _, key := range managedEnv {
		if prev, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, prev) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "http://localhost:3000", cfg.Site.URL)
	assert.False(t, cfg.Site.ShowPolicyPages)
	assert.Equal(t, defaultDatabaseURL, cfg.Database.URL)
	assert.Empty(t, cfg.Valkey.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Valkey.PageTTL)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.Equal(t, 60*time.Second, cfg.AI.Timeout)
	assert.Equal(t, uint64(2), cfg.AI.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.AI.RetryBase)
	assert.Equal(t, "/sign-in", cfg.Identity.SignInURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.AIEnabled())
	assert.Empty(t, cfg.Server.TrustedProxies)
}

func TestLoad_Overrides(t *testing.T) {
	unsetEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("APP_PORT", "9090")
	t.Setenv("SITE_URL", "https://blog.example.com/")
	t.Setenv("SHOW_POLICY_PAGES", "true")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("AI_MAX_RETRIES", "0")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,192.168.1.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
	assert.Equal(t, "https://blog.example.com", cfg.Site.URL, "trailing slash is trimmed")
	assert.True(t, cfg.Site.ShowPolicyPages)
	assert.True(t, cfg.AIEnabled())
	assert.Zero(t, cfg.AI.MaxRetries)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.5"}, cfg.Server.TrustedProxies)
}

func TestValidate_Production(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "development skips checks",
			cfg:  Config{Server: ServerConfig{Env: "development"}, Database: DatabaseConfig{URL: defaultDatabaseURL}},
		},
		{
			name:    "production rejects default database url",
			cfg:     Config{Server: ServerConfig{Env: "production"}, Database: DatabaseConfig{URL: defaultDatabaseURL}, Identity: IdentityConfig{JWTSecret: "s"}},
			wantErr: true,
		},
		{
			name:    "production requires a jwt key",
			cfg:     Config{Server: ServerConfig{Env: "production"}, Database: DatabaseConfig{URL: "postgres://prod"}},
			wantErr: true,
		},
		{
			name: "production with credentials",
			cfg:  Config{Server: ServerConfig{Env: "production"}, Database: DatabaseConfig{URL: "postgres://prod"}, Identity: IdentityConfig{JWTPublicKey: "pem"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
