package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/document"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/tree"
)

func mustDoc(t *testing.T, s string) *document.Document {
	t.Helper()
	d, err := document.Parse(s)
	require.NoError(t, err)
	return d
}

func TestMemoryRepoCRUD(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	d := mustDoc(t, `{"workflowGuid":"g1","workflowLocale":"en-draft","title":"Home"}`)
	id, err := r.Insert(ctx, d)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := r.FindByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Home", got.Title())
	_, ok := got.Tree().Get(document.FieldCreatedAt)
	require.True(t, ok)

	// callers never share trees with the store
	got.Tree().Set("title", tree.String("changed"))
	again, _ := r.FindByID(ctx, id)
	require.Equal(t, "Home", again.Title())

	require.NoError(t, r.Update(ctx, got))
	again, _ = r.FindByID(ctx, id)
	require.Equal(t, "changed", again.Title())

	_, err = r.Insert(ctx, again)
	require.Error(t, err)

	_, err = r.FindByID(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, r.Update(ctx, mustDoc(t, `{"_id":"missing"}`)), ErrNotFound)
}

func TestMemoryRepoGuidQueries(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	for _, s := range []string{
		`{"_id":"a-en-d","workflowGuid":"a","workflowLocale":"en-draft"}`,
		`{"_id":"a-fr-d","workflowGuid":"a","workflowLocale":"fr-draft"}`,
		`{"_id":"b-en-d","workflowGuid":"b","workflowLocale":"en-draft"}`,
		`{"_id":"c-en-d","workflowGuid":"c","workflowLocale":"en-draft"}`,
	} {
		_, err := r.Insert(ctx, mustDoc(t, s))
		require.NoError(t, err)
	}

	d, err := r.FindByGuidAndLocale(ctx, "a", "fr-draft")
	require.NoError(t, err)
	require.Equal(t, "a-fr-d", d.ID())
	_, err = r.FindByGuidAndLocale(ctx, "b", "fr-draft")
	require.ErrorIs(t, err, ErrNotFound)

	docs, err := r.FindByGuids(ctx, []string{"a", "b"}, "en-draft")
	require.NoError(t, err)
	require.Len(t, docs, 2)

	docs, err = r.FindByGuids(ctx, []string{"a"}, "")
	require.NoError(t, err)
	require.Len(t, docs, 2)

	docs, err = r.FindByIDs(ctx, []string{"c-en-d", "nope", "a-en-d"})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, "c-en-d", docs[0].ID())
}

func TestMemoryRepoSetUnsetField(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	id, err := r.Insert(ctx, mustDoc(t, `{"title":"x"}`))
	require.NoError(t, err)

	sub := document.Submission{Type: document.SubmittedSubmit, By: "alice"}
	require.NoError(t, r.SetField(ctx, id, tree.P(document.FieldSubmitted), sub.Node()))
	d, _ := r.FindByID(ctx, id)
	got, ok := d.Submitted()
	require.True(t, ok)
	require.Equal(t, "alice", got.By)

	require.NoError(t, r.UnsetField(ctx, id, tree.P(document.FieldSubmitted)))
	d, _ = r.FindByID(ctx, id)
	_, ok = d.Submitted()
	require.False(t, ok)

	require.ErrorIs(t, r.SetField(ctx, "missing", tree.P("x"), tree.Null()), ErrNotFound)
}
