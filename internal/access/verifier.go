// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package access

import (
	"crypto/rsa"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rotisserie/eris"
)

// Claims is what the guard needs from a verified session token.
type Claims struct {
	Subject string
	Email   string
	Role    string
	HasRole bool
}

type roleMetadata struct {
	Role string `json:"role,omitempty"`
}

// sessionClaims mirrors the identity provider's session token. The role
// may sit under any of the metadata keys depending on how the token
// template was configured.
type sessionClaims struct {
	jwt.RegisteredClaims
	Email               string        `json:"email,omitempty"`
	PublicMetadata      *roleMetadata `json:"public_metadata,omitempty"`
	PublicMetadataCamel *roleMetadata `json:"publicMetadata,omitempty"`
	Metadata            *roleMetadata `json:"metadata,omitempty"`
}

func (c *sessionClaims) role() (string, bool) {
	for _, m := range []*roleMetadata{c.PublicMetadata, c.PublicMetadataCamel, c.Metadata} {
		if m != nil && m.Role != "" {
			return m.Role, true
		}
	}
	return "", false
}

// Verifier validates session tokens with either an RSA public key (RS256)
// or a shared secret (HS256).
type Verifier struct {
	rsaKey *rsa.PublicKey
	secret []byte
}

// NewVerifier builds a Verifier. The PEM public key takes precedence over
// the secret. With neither configured every token is rejected.
func NewVerifier(publicKeyPEM, secret string) (*Verifier, error) {
	v := &Verifier{}
	if pem := strings.TrimSpace(publicKeyPEM); pem != "" {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
		if err != nil {
			return nil, eris.Wrap(err, "parsing identity public key")
		}
		v.rsaKey = key
		return v, nil
	}
	if secret != "" {
		v.secret = []byte(secret)
	}
	return v, nil
}

// Configured reports whether the verifier can accept any token.
func (v *Verifier) Configured() bool {
	return v != nil && (v.rsaKey != nil || len(v.secret) > 0)
}

// Verify parses and validates a session token.
func (v *Verifier) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, fmt.Errorf("token is empty")
	}
	if !v.Configured() {
		return nil, fmt.Errorf("no verification key configured")
	}

	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, v.keyFunc,
		jwt.WithLeeway(5*time.Second),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	sc, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if sc.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	role, hasRole := sc.role()
	return &Claims{Subject: sc.Subject, Email: sc.Email, Role: role, HasRole: hasRole}, nil
}

func (v *Verifier) keyFunc(token *jwt.Token) (any, error) {
	if v.rsaKey != nil {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.rsaKey, nil
	}
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return v.secret, nil
}
