package oidc

import (
	"context"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/gogotex/gogotex/backend/go-workflow/pkg/middleware"
)

// Verifier checks ID tokens against a Keycloak realm (or any OIDC issuer).
type Verifier struct {
	verifier *oidc.IDTokenVerifier
}

// Issuer builds the realm issuer URL. An empty realm means url already is the issuer.
func Issuer(url, realm string) string {
	url = strings.TrimRight(url, "/")
	if realm == "" {
		return url
	}
	return url + "/realms/" + realm
}

// NewVerifier discovers the provider at issuer and accepts tokens for clientID.
func NewVerifier(ctx context.Context, issuer, clientID string) (*Verifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}
	return &Verifier{verifier: provider.Verifier(&oidc.Config{ClientID: clientID})}, nil
}

func (v *Verifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	idToken, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	return idToken, nil
}
