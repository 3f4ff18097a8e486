package relationship

import (
	"context"
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/document"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/document/repository"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/identity"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/tree"
	"github.com/gogotex/gogotex/backend/go-workflow/pkg/metrics"
)

func store(t *testing.T) *repository.MemoryRepo {
	t.Helper()
	r := repository.NewMemoryRepo()
	for _, s := range []string{
		`{"_id":"img-en-d","workflowGuid":"img","workflowLocale":"en-draft"}`,
		`{"_id":"img-fr-d","workflowGuid":"img","workflowLocale":"fr-draft"}`,
		`{"_id":"pg-en-d","workflowGuid":"pg","workflowLocale":"en-draft"}`,
		`{"_id":"pg-fr-d","workflowGuid":"pg","workflowLocale":"fr-draft"}`,
		`{"_id":"solo-en-d","workflowGuid":"solo","workflowLocale":"en-draft"}`,
	} {
		d, err := document.Parse(s)
		require.NoError(t, err)
		_, err = r.Insert(context.Background(), d)
		require.NoError(t, err)
	}
	return r
}

const page = `{
	"_id": "home-en-d",
	"title": "Home",
	"heroId": "img-en-d",
	"body": {"type": "area", "items": [
		{"_id": "w1", "type": "link", "pageIds": ["pg-en-d", "solo-en-d"],
		 "pageIdsRelationships": {"pg-en-d": {"label": "Docs"}}},
		{"_id": "w2", "type": "image", "imageId": "img-en-d"}
	]}
}`

func TestMatcher(t *testing.T) {
	m := DefaultMatcher()
	kind, ok := m.Match("imageId", tree.String("x"))
	require.True(t, ok)
	require.Equal(t, RefSingle, kind)

	_, ok = m.Match("_id", tree.String("x"))
	require.False(t, ok)
	_, ok = m.Match("imageId", tree.Scalar(int64(3)))
	require.False(t, ok)
	_, ok = m.Match("pageIds", tree.MustParse(`["a",1]`))
	require.False(t, ok)

	kind, ok = m.Match("pageIdsRelationships", tree.Object())
	require.True(t, ok)
	require.Equal(t, RefMap, kind)
}

func TestCollect(t *testing.T) {
	r := New(identity.NewStoreMap(store(t)), nil)
	ids := r.Collect(tree.MustParse(page))
	require.Equal(t, []string{"img-en-d", "pg-en-d", "solo-en-d"}, ids)
}

func TestResolveTowardTargetLocale(t *testing.T) {
	r := New(identity.NewStoreMap(store(t)), nil)
	in := tree.MustParse(page)
	before := in.Clone()
	unresolvedBefore := testutil.ToFloat64(metrics.UnresolvedReferences)

	res, err := r.Resolve(context.Background(), in, "fr-draft")
	require.NoError(t, err)
	require.True(t, in.Equal(before), "input must not be modified")

	want := tree.MustParse(`{
		"_id": "home-en-d",
		"title": "Home",
		"heroId": "img-fr-d",
		"body": {"type": "area", "items": [
			{"_id": "w1", "type": "link", "pageIds": ["pg-fr-d", "solo-en-d"],
			 "pageIdsRelationships": {"pg-fr-d": {"label": "Docs"}}},
			{"_id": "w2", "type": "image", "imageId": "img-fr-d"}
		]}
	}`)
	require.True(t, res.Tree.Equal(want), spew.Sdump(res.Tree.Value()))
	assert.Equal(t, []string{"solo-en-d"}, res.Unresolved)
	assert.Equal(t, unresolvedBefore+1, testutil.ToFloat64(metrics.UnresolvedReferences))
}

func TestResolveRoundTrip(t *testing.T) {
	r := New(identity.NewStoreMap(store(t)), nil)
	ctx := context.Background()
	in := tree.MustParse(page)

	fr, err := r.Resolve(ctx, in, "fr-draft")
	require.NoError(t, err)
	back, err := r.Resolve(ctx, fr.Tree, "en-draft")
	require.NoError(t, err)
	require.True(t, back.Tree.Equal(in), spew.Sdump(back.Tree.Value()))
}

type failingMap struct{ err error }

func (f failingMap) Translate(context.Context, []string, string) (map[string]string, error) {
	return nil, f.err
}

func TestResolveStoreFailure(t *testing.T) {
	boom := errors.New("mongo down")
	r := New(failingMap{err: boom}, nil)
	_, err := r.Resolve(context.Background(), tree.MustParse(page), "fr-draft")
	require.ErrorIs(t, err, boom)

	// nothing to translate, nothing to ask
	res, err := r.Resolve(context.Background(), tree.MustParse(`{"title":"x"}`), "fr-draft")
	require.NoError(t, err)
	require.Empty(t, res.Unresolved)
}

func TestCustomSuffixes(t *testing.T) {
	r := New(identity.NewStoreMap(store(t)), SuffixMatcher{Single: []string{"Ref"}})
	res, err := r.Resolve(context.Background(), tree.MustParse(`{"heroRef":"img-en-d","heroId":"img-en-d"}`), "fr-draft")
	require.NoError(t, err)
	require.True(t, res.Tree.Equal(tree.MustParse(`{"heroRef":"img-fr-d","heroId":"img-en-d"}`)))
}
