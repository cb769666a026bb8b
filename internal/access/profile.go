// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package access

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Profile is the subset of the identity provider's user record the guard
// reads when the session token carries no role.
type Profile struct {
	Role  string
	Email string
}

type emailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

type userResponse struct {
	PrimaryEmailAddressID string         `json:"primary_email_address_id"`
	EmailAddresses        []emailAddress `json:"email_addresses"`
	PublicMetadata        roleMetadata   `json:"public_metadata"`
}

func (u *userResponse) primaryEmail() string {
	for _, e := range u.EmailAddresses {
		if e.ID == u.PrimaryEmailAddressID && e.EmailAddress != "" {
			return e.EmailAddress
		}
	}
	if len(u.EmailAddresses) > 0 {
		return u.EmailAddresses[0].EmailAddress
	}
	return ""
}

// ProfileClient fetches user records from the identity provider's backend API.
type ProfileClient struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

// NewProfileClient creates a client for the identity backend API. A nil
// httpClient gets a client with a 10 second timeout.
func NewProfileClient(baseURL, secretKey string, httpClient *http.Client) *ProfileClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &ProfileClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		client:    httpClient,
	}
}

// Configured reports whether the client has what it needs to call the API.
func (c *ProfileClient) Configured() bool {
	return c != nil && c.baseURL != "" && c.secretKey != ""
}

// Fetch loads the profile of the given user.
func (c *ProfileClient) Fetch(ctx context.Context, userID string) (*Profile, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("identity api not configured")
	}

	endpoint := c.baseURL + "/users/" + url.PathEscape(userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch profile: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var user userResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	return &Profile{Role: user.PublicMetadata.Role, Email: user.primaryEmail()}, nil
}
