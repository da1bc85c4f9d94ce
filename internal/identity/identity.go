// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package identity verifies tokens issued by the external identity
// provider and turns their claims into a models.Identity.
package identity

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"audiobook-admin/internal/models"
)

// ErrNoKey is returned by New when neither an HMAC secret nor a public key
// is configured.
var ErrNoKey = errors.New("identity: no verification key configured")

// Claims are the token claims the admin reads. The role is taken from
// public_metadata.role when present, otherwise from the top-level role.
type Claims struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	PublicMetadata struct {
		Role string `json:"role"`
	} `json:"public_metadata"`
	jwt.RegisteredClaims
}

// Verifier checks token signatures and standard claims.
type Verifier struct {
	hmacSecret []byte
	publicKey  *rsa.PublicKey
	issuer     string
}

// New creates a verifier. An HMAC secret takes precedence over the public
// key when both are given.
func New(hmacSecret, publicKeyPEM, issuer string) (*Verifier, error) {
	v := &Verifier{issuer: issuer}
	switch {
	case hmacSecret != "":
		v.hmacSecret = []byte(hmacSecret)
	case strings.TrimSpace(publicKeyPEM) != "":
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("identity: parse public key: %w", err)
		}
		v.publicKey = key
	default:
		return nil, ErrNoKey
	}
	return v, nil
}

// Verify validates the token and returns the identity it asserts along
// with the token expiry (zero if the token carries none).
func (v *Verifier) Verify(token string) (*models.Identity, time.Time, error) {
	if token == "" {
		return nil, time.Time{}, errors.New("identity: empty token")
	}

	opts := []jwt.ParserOption{}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.hmacSecret != nil {
		opts = append(opts, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	} else {
		opts = append(opts, jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, v.keyFunc, opts...)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("identity: parse token: %w", err)
	}
	if !parsed.Valid {
		return nil, time.Time{}, errors.New("identity: invalid or expired token")
	}
	if claims.Subject == "" {
		return nil, time.Time{}, errors.New("identity: token has no subject")
	}

	var expires time.Time
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	return claims.Identity(), expires, nil
}

func (v *Verifier) keyFunc(token *jwt.Token) (any, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if v.hmacSecret == nil {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.hmacSecret, nil
	case *jwt.SigningMethodRSA:
		if v.publicKey == nil {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.publicKey, nil
	default:
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
}

// Identity converts the claims into the identity used by the gate.
func (c *Claims) Identity() *models.Identity {
	role := c.PublicMetadata.Role
	if role == "" {
		role = c.Role
	}
	return &models.Identity{
		ID:    c.Subject,
		Name:  c.Name,
		Email: c.Email,
		Role:  models.Role(role),
	}
}
