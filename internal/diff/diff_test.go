package diff

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/tree"
)

func TestDiffIdenticalIsEmpty(t *testing.T) {
	a := tree.MustParse(`{"title":"Home","body":{"type":"area","items":[{"_id":"w1","type":"rich-text"}]},"tags":["a"]}`)
	require.True(t, Diff(a, a.Clone(), Excluded{}).Empty())
}

func TestDiffObjectFields(t *testing.T) {
	a := tree.MustParse(`{"title":"Home","old":1,"meta":{"k":"v"}}`)
	b := tree.MustParse(`{"title":"Start","meta":{"k":"w"},"fresh":true}`)
	p := Diff(a, b, Excluded{})
	require.Len(t, p, 4)

	assert.Equal(t, OpRemove, p[0].Kind)
	assert.Equal(t, "old", p[0].Path.String())
	assert.Equal(t, OpSet, p[1].Kind)
	assert.Equal(t, "title", p[1].Path.String())
	assert.Equal(t, "meta.k", p[2].Path.String())
	assert.Equal(t, "fresh", p[3].Path.String())
	assert.Equal(t, []string{"fresh", "meta", "old", "title"}, p.ModifiedFields())
}

func TestDiffKindChangeIsSet(t *testing.T) {
	a := tree.MustParse(`{"v":"text"}`)
	b := tree.MustParse(`{"v":{"nested":1}}`)
	p := Diff(a, b, Excluded{})
	require.Len(t, p, 1)
	require.Equal(t, OpSet, p[0].Kind)
	require.True(t, p[0].Value.Equal(tree.MustParse(`{"nested":1}`)))
}

func TestDiffIdentifiedArray(t *testing.T) {
	a := tree.MustParse(`{"body":{"type":"area","items":[
		{"_id":"w1","content":"a"},{"_id":"w2"},{"_id":"w3"}]}}`)
	b := tree.MustParse(`{"body":{"type":"area","items":[
		{"_id":"w3"},{"_id":"w1","content":"b"},{"_id":"w4"}]}}`)
	p := Diff(a, b, Excluded{})
	require.Len(t, p, 4)

	assert.Equal(t, OpDelete, p[0].Kind)
	assert.Equal(t, "w2", p[0].ID())
	assert.Equal(t, OpSet, p[1].Kind)
	assert.Equal(t, "body.items.@w1.content", p[1].Path.String())
	assert.Equal(t, OpInsert, p[2].Kind)
	assert.Equal(t, "w4", p[2].ID())
	assert.Equal(t, "w1", p[2].After)
	assert.Equal(t, OpReorder, p[3].Kind)
	assert.Equal(t, "body.items", p[3].Path.String())
	assert.Equal(t, []string{"w3", "w1", "w4"}, p[3].Order)
}

func TestDiffPureReorderIsSingleOp(t *testing.T) {
	a := tree.MustParse(`{"body":{"type":"area","items":[{"_id":"w1"},{"_id":"w2"},{"_id":"w3"}]}}`)
	b := tree.MustParse(`{"body":{"type":"area","items":[{"_id":"w3"},{"_id":"w1"},{"_id":"w2"}]}}`)
	p := Diff(a, b, Excluded{})
	require.Len(t, p, 1)
	require.Equal(t, OpReorder, p[0].Kind)
	require.Equal(t, []string{"w3", "w1", "w2"}, p[0].Order)
}

func TestDiffPositionalArray(t *testing.T) {
	a := tree.MustParse(`{"tags":["a","b","c"]}`)
	b := tree.MustParse(`{"tags":["a","x"]}`)
	p := Diff(a, b, Excluded{})
	require.Len(t, p, 2)
	assert.Equal(t, "tags.1", p[0].Path.String())
	assert.Equal(t, OpDelete, p[1].Kind)
	assert.Equal(t, "tags.2", p[1].Path.String())

	p = Diff(b, a, Excluded{})
	require.Len(t, p, 2)
	assert.Equal(t, OpInsert, p[1].Kind)
	assert.Equal(t, "tags.2", p[1].Path.String())
}

func TestDiffSkipsExcludedRootFields(t *testing.T) {
	a := tree.MustParse(`{"_id":"a1","workflowLocale":"en-draft","title":"x","nested":{"_id":"n1"}}`)
	b := tree.MustParse(`{"_id":"b1","workflowLocale":"fr-draft","title":"x","nested":{"_id":"n2"}}`)
	p := Diff(a, b, DefaultExcluded())
	require.Len(t, p, 1, "only the nested _id differs")
	require.Equal(t, "nested._id", p[0].Path.String())
}

func TestExcludedStrip(t *testing.T) {
	e := NewExcluded(" trash ", "", "updatedAt")
	require.Equal(t, []string{"trash", "updatedAt"}, e.Names())
	in := tree.MustParse(`{"trash":false,"title":"t","updatedAt":"now"}`)
	out := e.Strip(in)
	require.Equal(t, []string{"title"}, out.Keys())
	require.Len(t, in.Keys(), 3)
}

func TestOpJSON(t *testing.T) {
	op := Op{Kind: OpInsert, Path: tree.Path{tree.Field("body"), tree.Field("items"), tree.ByID("w4")}, Value: tree.MustParse(`{"_id":"w4"}`)}
	out, err := json.Marshal(op)
	require.NoError(t, err)
	require.JSONEq(t, `{"op":"insert","path":"body.items.@w4","value":{"_id":"w4"},"after":""}`, string(out))
}
