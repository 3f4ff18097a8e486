package preview

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/diff"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/tree"
)

func TestFallbackListsModifiedFields(t *testing.T) {
	r := NewRegistry(diff.DefaultExcluded())
	live := tree.MustParse(`{"_id":"a","title":"x","body":{"type":"area","items":[]}}`)
	draft := tree.MustParse(`{"_id":"b","title":"y","body":{"type":"area","items":[{"_id":"w1"}]}}`)

	out, err := r.Render("page", live, draft)
	require.NoError(t, err)
	require.Equal(t, "Modified: body, title", out)

	out, err = r.Render("page", live, live)
	require.NoError(t, err)
	require.Equal(t, "No changes.", out)
}

func TestRegisteredHandlerWins(t *testing.T) {
	r := NewRegistry(diff.Excluded{})
	r.Register("product", Func(func(live, draft *tree.Node) (string, error) {
		return "price " + live.GetString("price") + " -> " + draft.GetString("price"), nil
	}))
	r.Register("broken", Func(func(_, _ *tree.Node) (string, error) {
		return "", errors.New("boom")
	}))
	require.Equal(t, []string{"broken", "product"}, r.Types())

	out, err := r.Render("product", tree.MustParse(`{"price":"1"}`), tree.MustParse(`{"price":"2"}`))
	require.NoError(t, err)
	require.Equal(t, "price 1 -> 2", out)

	_, err = r.Render("broken", tree.Object(), tree.Object())
	require.Error(t, err)

	_, ok := r.Lookup("page")
	require.False(t, ok)
}

func TestWidgetsNamesChangedWidgets(t *testing.T) {
	r := NewRegistry(diff.DefaultExcluded())
	r.Register("page", Widgets{Excluded: diff.DefaultExcluded()})

	live := tree.MustParse(`{"_id":"a","title":"x","body":{"type":"area","items":[
		{"_id":"w1","type":"rich","content":"hi"},{"_id":"w3","type":"rich","content":"bye"}]}}`)
	draft := tree.MustParse(`{"_id":"b","title":"y","body":{"type":"area","items":[
		{"_id":"w1","type":"rich","content":"hello"},{"_id":"w2","type":"image"}]},
		"footer":{"type":"area","items":[{"_id":"f1","type":"rich"}]}}`)

	out, err := r.Render("page", live, draft)
	require.NoError(t, err)
	require.Equal(t, "Modified: body, footer, title\nbody: added w2; edited w1; removed w3\nfooter: added f1", out)

	out, err = r.Render("page", live, live)
	require.NoError(t, err)
	require.Equal(t, "No changes.", out)

	out, err = r.Render("page", tree.MustParse(`{"title":"x"}`), tree.MustParse(`{"title":"y"}`))
	require.NoError(t, err)
	require.Equal(t, "Modified: title", out)
}
