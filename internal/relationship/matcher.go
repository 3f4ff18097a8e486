// Package relationship rewrites cross-document references embedded in a document so
// they point at the copies living in another locale.
package relationship

import (
	"strings"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/tree"
)

// RefKind says how a reference field stores its ids.
type RefKind int

const (
	RefSingle RefKind = iota + 1 // a string id
	RefMany                      // an array of string ids
	RefMap                       // an object keyed by id
)

// Matcher recognizes reference fields by key and value.
type Matcher interface {
	Match(key string, value *tree.Node) (RefKind, bool)
}

// SuffixMatcher recognizes references by key suffix: "imageId", "pageIds",
// "pageIdsRelationships" and so on. The document's own _id is never a reference.
type SuffixMatcher struct {
	Single []string
	Many   []string
	Map    []string
}

// DefaultMatcher matches the Id, Ids and Relationships suffixes.
func DefaultMatcher() SuffixMatcher {
	return SuffixMatcher{Single: []string{"Id"}, Many: []string{"Ids"}, Map: []string{"Relationships"}}
}

func (m SuffixMatcher) Match(key string, value *tree.Node) (RefKind, bool) {
	if key == tree.IDField {
		return 0, false
	}
	switch value.Kind() {
	case tree.KindScalar:
		if _, ok := value.Str(); ok && hasSuffix(key, m.Single) {
			return RefSingle, true
		}
	case tree.KindArray:
		if hasSuffix(key, m.Many) && allStrings(value) {
			return RefMany, true
		}
	case tree.KindObject:
		if hasSuffix(key, m.Map) {
			return RefMap, true
		}
	}
	return 0, false
}

func hasSuffix(key string, suffixes []string) bool {
	for _, s := range suffixes {
		if s != "" && strings.HasSuffix(key, s) && key != s {
			return true
		}
	}
	return false
}

func allStrings(arr *tree.Node) bool {
	for _, it := range arr.Items() {
		if _, ok := it.Str(); !ok {
			return false
		}
	}
	return true
}
