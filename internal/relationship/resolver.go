package relationship

import (
	"context"
	"fmt"
	"sort"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/identity"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/tree"
	"github.com/gogotex/gogotex/backend/go-workflow/pkg/logger"
	"github.com/gogotex/gogotex/backend/go-workflow/pkg/metrics"
)

// Result is a rewritten copy of the input tree plus the ids that had no counterpart
// in the target locale. Unresolved ids are left untouched in Tree.
type Result struct {
	Tree       *tree.Node
	Unresolved []string
}

// Resolver rewrites references toward a target locale.
type Resolver struct {
	ids   identity.Map
	match Matcher
	log   *logger.Logger
}

// New returns a resolver. A nil matcher selects DefaultMatcher.
func New(ids identity.Map, match Matcher) *Resolver {
	if match == nil {
		match = DefaultMatcher()
	}
	return &Resolver{ids: ids, match: match, log: logger.With("relationship")}
}

// Collect lists the ids referenced anywhere in root, in document order, without
// duplicates.
func (r *Resolver) Collect(root *tree.Node) []string {
	var out []string
	seen := map[string]struct{}{}
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	r.visit(root, func(kind RefKind, obj *tree.Node, key string, value *tree.Node) {
		switch kind {
		case RefSingle:
			s, _ := value.Str()
			add(s)
		case RefMany:
			for _, it := range value.Items() {
				s, _ := it.Str()
				add(s)
			}
		case RefMap:
			for _, k := range value.Keys() {
				add(k)
			}
		}
	})
	return out
}

// Resolve returns a copy of root whose references point at the copies in locale. The
// input is not modified. A translation failure is returned as an error; ids with no
// counterpart are reported in Result.Unresolved.
func (r *Resolver) Resolve(ctx context.Context, root *tree.Node, locale string) (Result, error) {
	out := root.Clone()
	ids := r.Collect(out)
	if len(ids) == 0 {
		return Result{Tree: out}, nil
	}
	table, err := r.ids.Translate(ctx, ids, locale)
	if err != nil {
		return Result{}, fmt.Errorf("resolve relationships to %s: %w", locale, err)
	}

	missing := map[string]struct{}{}
	translate := func(id string) string {
		if to, ok := table[id]; ok {
			return to
		}
		missing[id] = struct{}{}
		return id
	}
	r.visit(out, func(kind RefKind, obj *tree.Node, key string, value *tree.Node) {
		switch kind {
		case RefSingle:
			s, _ := value.Str()
			obj.Set(key, tree.String(translate(s)))
		case RefMany:
			for i, it := range value.Items() {
				s, _ := it.Str()
				value.SetItem(i, tree.String(translate(s)))
			}
		case RefMap:
			rekeyed := tree.Object()
			for _, k := range value.Keys() {
				v, _ := value.Get(k)
				rekeyed.Set(translate(k), v)
			}
			obj.Set(key, rekeyed)
		}
	})

	res := Result{Tree: out}
	if len(missing) > 0 {
		for id := range missing {
			res.Unresolved = append(res.Unresolved, id)
		}
		sort.Strings(res.Unresolved)
		metrics.UnresolvedReferences.Add(float64(len(res.Unresolved)))
		r.log.Debug("unresolved references", "locale", locale, "ids", res.Unresolved)
	}
	return res, nil
}

// visit calls fn for every reference field under root, parents first.
func (r *Resolver) visit(root *tree.Node, fn func(kind RefKind, obj *tree.Node, key string, value *tree.Node)) {
	tree.Walk(root, func(_ tree.Path, n *tree.Node) bool {
		if !n.IsObject() {
			return true
		}
		for _, k := range n.Keys() {
			v, _ := n.Get(k)
			if kind, ok := r.match.Match(k, v); ok {
				fn(kind, n, k, v)
			}
		}
		return true
	})
}
