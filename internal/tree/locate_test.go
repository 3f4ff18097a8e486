package tree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

const pageJSON = `{
	"_id": "p1",
	"title": "Home",
	"body": {
		"type": "area",
		"items": [
			{"_id": "w1", "type": "rich-text", "content": "<p>hi</p>"},
			{"_id": "w2", "type": "slideshow", "slides": {"type": "area", "items": [{"_id": "s1", "type": "image"}]}}
		]
	}
}`

func TestParentPath(t *testing.T) {
	p, ok := ParseDotPath("body.items.1").Parent()
	require.True(t, ok)
	require.Equal(t, "body.items", p.String())

	p, ok = P("title").Parent()
	require.True(t, ok)
	require.Empty(t, p)
	require.Equal(t, "", p.String())

	_, ok = Path{}.Parent()
	require.False(t, ok)
}

func TestParseDotPathRoundTrip(t *testing.T) {
	p := Path{Field("body"), Field("items"), Index(2), ByID("w9"), Field("content")}
	require.Equal(t, "body.items.2.@w9.content", p.String())
	require.True(t, ParseDotPath(p.String()).Equal(p))
}

func TestLookupMissingIsSafe(t *testing.T) {
	doc := MustParse(pageJSON)
	_, ok := Lookup(doc, ParseDotPath("body.items.7.content"))
	require.False(t, ok)
	_, ok = Lookup(doc, ParseDotPath("title.nested"))
	require.False(t, ok)
	_, ok = Lookup(nil, P("x"))
	require.False(t, ok)

	n, ok := Lookup(doc, Path{Field("body"), Field("items"), ByID("w2"), Field("type")})
	require.True(t, ok)
	s, _ := n.Str()
	require.Equal(t, "slideshow", s)
}

func TestSetCreatesOnlyWhenAsked(t *testing.T) {
	doc := MustParse(pageJSON)
	err := Set(doc, P("sidebar", "items"), Array(), SetOptions{})
	require.True(t, errors.Is(err, ErrPathNotFound))
	require.False(t, Exists(doc, P("sidebar")))

	err = Set(doc, Path{Field("sidebar"), Field("items"), Index(0)}, String("x"), SetOptions{CreateMissing: true})
	require.NoError(t, err)
	sidebar, ok := Lookup(doc, P("sidebar"))
	require.True(t, ok)
	require.True(t, sidebar.IsObject())
	items, _ := sidebar.Get("items")
	require.True(t, items.IsArray())
	require.Equal(t, 1, items.Len())
}

func TestSetByIDNeverCreates(t *testing.T) {
	doc := MustParse(pageJSON)
	err := Set(doc, Path{Field("body"), Field("items"), ByID("nope"), Field("content")}, String("x"), SetOptions{CreateMissing: true})
	require.True(t, errors.Is(err, ErrPathNotFound))

	err = Set(doc, Path{Field("body"), Field("items"), ByID("w1"), Field("content")}, String("new"), SetOptions{})
	require.NoError(t, err)
	n, _ := Lookup(doc, ParseDotPath("body.items.0.content"))
	s, _ := n.Str()
	require.Equal(t, "new", s)
}

func TestRemove(t *testing.T) {
	doc := MustParse(pageJSON)
	require.True(t, Remove(doc, Path{Field("body"), Field("items"), ByID("w1")}))
	require.False(t, Remove(doc, Path{Field("body"), Field("items"), ByID("w1")}))
	require.True(t, Remove(doc, P("title")))
	require.False(t, Remove(doc, Path{}))
	items, _ := Lookup(doc, P("body", "items"))
	require.Equal(t, 1, items.Len())
}

func TestFindByIDAndStablePath(t *testing.T) {
	doc := MustParse(pageJSON)
	p, n, ok := FindByID(doc, "s1")
	require.True(t, ok)
	require.Equal(t, "body.items.1.slides.items.0", p.String())
	require.Equal(t, "image", n.Type())

	stable := StablePath(doc, p)
	require.Equal(t, "body.items.@w2.slides.items.@s1", stable.String())

	// root id is not a nested object
	_, _, ok = FindByID(doc, "p1")
	require.False(t, ok)
	_, _, ok = FindByID(doc, "missing")
	require.False(t, ok)
}

func TestWalkSkipsChildren(t *testing.T) {
	doc := MustParse(pageJSON)
	var seen []string
	Walk(doc, func(p Path, n *Node) bool {
		if n.IsObject() && n.ID() != "" {
			seen = append(seen, n.ID())
		}
		return n.ID() != "w2"
	})
	require.Equal(t, []string{"p1", "w1", "w2"}, seen)
}
