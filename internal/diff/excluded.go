package diff

import (
	"sort"
	"strings"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/tree"
)

// DefaultExcludedProperties are the root fields that never travel between locales.
var DefaultExcludedProperties = []string{
	"_id",
	"workflowGuid",
	"workflowLocale",
	"workflowSubmitted",
	"workflowImportedFrom",
	"workflowModified",
	"workflowLastCommitted",
	"workflowRevision",
	"trash",
	"createdAt",
	"updatedAt",
}

// Excluded is a set of root-level field names. The zero value excludes nothing.
type Excluded struct {
	set map[string]struct{}
}

func NewExcluded(names ...string) Excluded {
	e := Excluded{set: make(map[string]struct{}, len(names))}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			e.set[n] = struct{}{}
		}
	}
	return e
}

// DefaultExcluded returns the set built from DefaultExcludedProperties.
func DefaultExcluded() Excluded { return NewExcluded(DefaultExcludedProperties...) }

func (e Excluded) Has(name string) bool {
	_, ok := e.set[name]
	return ok
}

// Names returns the set sorted.
func (e Excluded) Names() []string {
	out := make([]string, 0, len(e.set))
	for n := range e.set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Strip returns a deep copy of n without the excluded root fields.
func (e Excluded) Strip(n *tree.Node) *tree.Node {
	out := n.Clone()
	for _, k := range out.Keys() {
		if e.Has(k) {
			out.Delete(k)
		}
	}
	return out
}
