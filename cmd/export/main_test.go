package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/config"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/tokens"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/workflow"
)

func TestParse(t *testing.T) {
	o, err := parse([]string{"--commit", "c1", "--locales", "fr,de"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "c1", o.commit)
	assert.Equal(t, []string{"fr", "de"}, o.locales)
	assert.Equal(t, "cli", o.actor)

	o, err = parse([]string{"--doc", "p", "--node", "w1", "--locales", "fr"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "w1", o.node)

	for _, args := range [][]string{
		{},
		{"--commit", "c1"},
		{"--commit", "c1", "--draft", "d", "--locales", "fr"},
		{"--doc", "p", "--locales", "fr"},
		{"--doc", "p", "--force", "--node", "w1", "--locales", "fr"},
	} {
		_, err := parse(args, io.Discard)
		assert.ErrorIs(t, err, errUsage, strings.Join(args, " "))
	}

	_, err = parse([]string{"--bogus"}, io.Discard)
	assert.Error(t, err)
}

func TestRunIssuesVerifiableToken(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "cli-secret-cli-secret-cli-secret"}}
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &options{issue: "bob", ttl: time.Minute}, cfg, &out))

	ver, err := tokens.NewVerifier(cfg.JWT.Secret)
	require.NoError(t, err)
	tok, err := ver.Verify(context.Background(), strings.TrimSpace(out.String()))
	require.NoError(t, err)
	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	assert.Equal(t, "bob", claims["sub"])

	err = run(context.Background(), &options{issue: "bob", ttl: time.Minute}, &config.Config{}, io.Discard)
	assert.ErrorIs(t, err, tokens.ErrNoSecret)
}

func TestRunAgainstMemoryStores(t *testing.T) {
	cfg := &config.Config{Workflow: config.WorkflowConfig{Locales: "en,fr", DefaultLocale: "en"}}
	ctx := context.Background()

	err := run(ctx, &options{commit: "missing", locales: []string{"fr"}}, cfg, io.Discard)
	assert.ErrorIs(t, err, workflow.ErrNotFound)

	err = run(ctx, &options{draft: "missing"}, cfg, io.Discard)
	assert.ErrorIs(t, err, workflow.ErrNotFound)

	err = run(ctx, &options{doc: "missing", force: true, locales: []string{"fr"}}, cfg, io.Discard)
	assert.ErrorIs(t, err, workflow.ErrNotFound)
}
