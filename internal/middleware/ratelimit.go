// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/netip"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// RateLimitMessage is shown to clients that exceed the limit.
const RateLimitMessage = "Too many requests. Please wait a moment and try again."

type limiterEntry struct {
	mu         sync.Mutex
	timestamps []time.Time
}

// RateLimiter limits requests per client IP with a sliding window.
type RateLimiter struct {
	mu      sync.RWMutex
	clients map[string]*limiterEntry
	limit   int
	window  time.Duration
	logger  *logrus.Logger
	proxies []netip.Prefix
	stopCh  chan struct{}
	stopped sync.Once
}

// NewRateLimiter allows limit requests per window and client. It starts a
// cleanup goroutine that runs until Stop is called.
func NewRateLimiter(limit int, window time.Duration, logger *logrus.Logger) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*limiterEntry),
		limit:   limit,
		window:  window,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.cleanup()
			case <-rl.stopCh:
				return
			}
		}
	}()

	return rl
}

// TrustProxies makes the limiter key requests arriving from the given
// proxies by their forwarded client address. Forwarding headers from any
// other peer are ignored. It must be called before the limiter serves.
func (rl *RateLimiter) TrustProxies(proxies []netip.Prefix) *RateLimiter {
	rl.proxies = proxies
	return rl
}

// Stop terminates the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopped.Do(func() { close(rl.stopCh) })
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.RLock()
	entry, exists := rl.clients[key]
	rl.mu.RUnlock()

	if !exists {
		rl.mu.Lock()
		entry, exists = rl.clients[key]
		if !exists {
			entry = &limiterEntry{}
			rl.clients[key] = entry
		}
		rl.mu.Unlock()
	}

	now := time.Now()
	cutoff := now.Add(-rl.window)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	valid := entry.timestamps[:0]
	for _, ts := range entry.timestamps {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}
	entry.timestamps = valid

	if len(entry.timestamps) >= rl.limit {
		return false
	}
	entry.timestamps = append(entry.timestamps, now)
	return true
}

// cleanup drops clients with no request inside the window.
func (rl *RateLimiter) cleanup() {
	cutoff := time.Now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, entry := range rl.clients {
		entry.mu.Lock()
		recent := false
		for _, ts := range entry.timestamps {
			if ts.After(cutoff) {
				recent = true
				break
			}
		}
		entry.mu.Unlock()

		if !recent {
			delete(rl.clients, key)
		}
	}
}

// Middleware rejects requests over the limit with 429 and a JSON body.
// A limit of zero or less disables limiting.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r, rl.proxies)
		if rl.allow(ip) {
			next.ServeHTTP(w, r)
			return
		}

		if rl.logger != nil {
			rl.logger.WithFields(logrus.Fields{
				"ip":         ip,
				"path":       r.URL.Path,
				"request_id": RequestIDFromContext(r.Context()),
			}).Warn("request rate limited")
		}

		w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
		writeJSON(w, http.StatusTooManyRequests, map[string]string{
			"error":   "RateLimited",
			"message": RateLimitMessage,
		})
	})
}
