package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/config"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/document"
)

func TestBuildWithMemoryStores(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Workflow: config.WorkflowConfig{
		Locales:          "en,fr",
		DefaultLocale:    "en",
		AreaPreviewTypes: []string{"page"},
	}}
	a, err := Build(ctx, cfg)
	require.NoError(t, err)
	defer a.Close(ctx)
	require.Nil(t, a.Mongo)
	require.Nil(t, a.Redis)
	require.Nil(t, a.Archive)
	require.Equal(t, []string{"en", "fr"}, a.Service.Locales().Names())

	for _, s := range []string{
		`{"_id":"p-en","workflowGuid":"p","workflowLocale":"en","type":"page","title":"Old",
			"body":{"type":"area","items":[{"_id":"w1","type":"rich","content":"hi"}]}}`,
		`{"_id":"p-en-d","workflowGuid":"p","workflowLocale":"en-draft","type":"page","title":"New",
			"body":{"type":"area","items":[{"_id":"w1","type":"rich","content":"hello"}]}}`,
	} {
		d, err := document.Parse(s)
		require.NoError(t, err)
		_, err = a.Docs.Insert(ctx, d)
		require.NoError(t, err)
	}

	out, err := a.Service.PreviewDraft(ctx, "p-en-d")
	require.NoError(t, err)
	require.Equal(t, "Modified: body, title\nbody: edited w1", out)
}

func TestBuildRejectsBadLocales(t *testing.T) {
	_, err := Build(context.Background(), &config.Config{Workflow: config.WorkflowConfig{LocalesFile: "missing.yaml"}})
	require.Error(t, err)
}
