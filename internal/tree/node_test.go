package tree

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseKeepsKeyOrder(t *testing.T) {
	n := MustParse(`{"z":1,"a":{"y":true,"b":null},"m":[1,2.5,"x"]}`)
	require.Equal(t, []string{"z", "a", "m"}, n.Keys())

	a, ok := n.Get("a")
	require.True(t, ok)
	require.Equal(t, []string{"y", "b"}, a.Keys())

	b, _ := a.Get("b")
	require.True(t, b.IsNull())

	out, err := json.Marshal(n)
	require.NoError(t, err)
	require.JSONEq(t, `{"z":1,"a":{"y":true,"b":null},"m":[1,2.5,"x"]}`, string(out))
	require.Equal(t, `{"z":1,"a":{"y":true,"b":null},"m":[1,2.5,"x"]}`, string(out))
}

func TestEqualIgnoresKeyOrderAndNumericType(t *testing.T) {
	a := MustParse(`{"a":1,"b":[{"_id":"w1","n":2}]}`)
	b := FromValue(map[string]any{
		"b": []any{map[string]any{"n": float64(2), "_id": "w1"}},
		"a": int32(1),
	})
	require.True(t, a.Equal(b), spew.Sdump(a.Value(), b.Value()))

	c := MustParse(`{"a":1,"b":[{"_id":"w1","n":3}]}`)
	require.False(t, a.Equal(c))
	require.False(t, MustParse(`[1,2]`).Equal(MustParse(`[2,1]`)))
}

func TestCloneIsDeep(t *testing.T) {
	a := MustParse(`{"body":{"type":"area","items":[{"_id":"w1","text":"hi"}]}}`)
	c := a.Clone()
	w, ok := Lookup(c, Path{Field("body"), Field("items"), ByID("w1")})
	require.True(t, ok)
	w.Set("text", String("changed"))

	orig, _ := Lookup(a, ParseDotPath("body.items.0.text"))
	s, _ := orig.Str()
	require.Equal(t, "hi", s)
}

func TestFromValueBSON(t *testing.T) {
	oid := primitive.NewObjectID()
	when := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	n := FromValue(primitive.D{
		{Key: "_id", Value: oid},
		{Key: "at", Value: primitive.NewDateTimeFromTime(when)},
		{Key: "tags", Value: primitive.A{"a", "b"}},
		{Key: "meta", Value: primitive.M{"k": "v"}},
	})
	require.Equal(t, []string{"_id", "at", "tags", "meta"}, n.Keys())
	require.Equal(t, oid.Hex(), n.ID())
	at, _ := n.Get("at")
	require.True(t, at.Equal(Scalar(when)))
	tags, _ := n.Get("tags")
	require.Equal(t, 2, tags.Len())

	d, ok := n.BSON().(primitive.D)
	require.True(t, ok)
	require.Equal(t, "_id", d[0].Key)
}

func TestArrayIDs(t *testing.T) {
	ids, ok := MustParse(`[{"_id":"a"},{"_id":"b"}]`).IDs()
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, ids)

	_, ok = MustParse(`[{"_id":"a"},{"x":1}]`).IDs()
	require.False(t, ok)
	_, ok = MustParse(`[{"_id":"a"},{"_id":"a"}]`).IDs()
	require.False(t, ok)
	_, ok = MustParse(`["a","b"]`).IDs()
	require.False(t, ok)
}

func TestInsertRemoveAt(t *testing.T) {
	arr := MustParse(`[1,2,3]`)
	arr.InsertAt(1, Scalar(int64(9)))
	arr.InsertAt(99, Scalar(int64(7)))
	require.True(t, arr.Equal(MustParse(`[1,9,2,3,7]`)))
	require.True(t, arr.RemoveAt(0))
	require.False(t, arr.RemoveAt(10))
	require.True(t, arr.Equal(MustParse(`[9,2,3,7]`)))
}

func TestDeleteKeepsRemainingOrder(t *testing.T) {
	n := MustParse(`{"a":1,"b":2,"c":3}`)
	require.True(t, n.Delete("b"))
	require.False(t, n.Delete("b"))
	n.Set("d", Scalar(4))
	require.Equal(t, []string{"a", "c", "d"}, n.Keys())
}

func TestAreaHelper(t *testing.T) {
	a := Area(MustParse(`{"_id":"w1","type":"rich-text"}`))
	require.True(t, a.IsArea())
	items, _ := a.Get(ItemsField)
	require.Equal(t, 0, items.IndexOfID("w1"))
}

func TestKindString(t *testing.T) {
	for n, want := range map[*Node]string{
		nil:         "null",
		Null():      "null",
		String("x"): "scalar",
		Object():    "object",
		Array():     "array",
	} {
		require.Equal(t, want, n.Kind().String())
	}
	require.Equal(t, "unknown", Kind(KindArray+1).String())
}
