// Package tokens issues and verifies HS256 service tokens for deployments without an
// OIDC provider.
package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gogotex/gogotex/backend/go-workflow/pkg/middleware"
)

var ErrNoSecret = errors.New("tokens: empty secret")

// Issue signs a token for subject. name becomes preferred_username, which the auth
// middleware records as the acting user.
func Issue(secret, subject, name string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if name != "" {
		claims["preferred_username"] = name
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

type mapToken jwt.MapClaims

func (t mapToken) Claims(v interface{}) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// Verifier checks HS256 tokens signed with a shared secret.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()),
	}, nil
}

func (v *Verifier) Verify(_ context.Context, raw string) (middleware.Token, error) {
	claims := jwt.MapClaims{}
	_, err := v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) { return v.secret, nil })
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	return mapToken(claims), nil
}
