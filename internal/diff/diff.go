package diff

import (
	"github.com/gogotex/gogotex/backend/go-workflow/internal/tree"
)

// Diff returns the patch turning from into to. Excluded root fields are ignored on both
// sides. Arrays whose elements all carry distinct ids on both sides are diffed by id,
// every other array by position.
func Diff(from, to *tree.Node, excluded Excluded) Patch {
	d := differ{excluded: excluded}
	d.node(tree.Path{}, from, to)
	return d.patch
}

type differ struct {
	excluded Excluded
	patch    Patch
}

func (d *differ) emit(op Op) { d.patch = append(d.patch, op) }

func (d *differ) node(p tree.Path, a, b *tree.Node) {
	if a.Kind() != b.Kind() {
		d.emit(Op{Kind: OpSet, Path: p, Value: b.Clone(), Old: a.Clone()})
		return
	}
	switch a.Kind() {
	case tree.KindObject:
		d.object(p, a, b)
	case tree.KindArray:
		d.array(p, a, b)
	default:
		if !a.Equal(b) {
			d.emit(Op{Kind: OpSet, Path: p, Value: b.Clone(), Old: a.Clone()})
		}
	}
}

func (d *differ) skip(p tree.Path, key string) bool {
	return len(p) == 0 && d.excluded.Has(key)
}

func (d *differ) object(p tree.Path, a, b *tree.Node) {
	for _, k := range a.Keys() {
		if d.skip(p, k) {
			continue
		}
		if _, ok := b.Get(k); !ok {
			old, _ := a.Get(k)
			d.emit(Op{Kind: OpRemove, Path: p.Append(tree.Field(k)), Old: old.Clone()})
		}
	}
	for _, k := range b.Keys() {
		if d.skip(p, k) {
			continue
		}
		bv, _ := b.Get(k)
		av, ok := a.Get(k)
		if !ok {
			d.emit(Op{Kind: OpSet, Path: p.Append(tree.Field(k)), Value: bv.Clone()})
			continue
		}
		d.node(p.Append(tree.Field(k)), av, bv)
	}
}

func (d *differ) array(p tree.Path, a, b *tree.Node) {
	aIDs, okA := a.IDs()
	bIDs, okB := b.IDs()
	if okA && okB && (len(aIDs) > 0 || len(bIDs) > 0) {
		d.identified(p, a, b, aIDs, bIDs)
		return
	}
	n := a.Len()
	if b.Len() < n {
		n = b.Len()
	}
	for i := 0; i < n; i++ {
		av, _ := a.Item(i)
		bv, _ := b.Item(i)
		d.node(p.Append(tree.Index(i)), av, bv)
	}
	for i := n; i < b.Len(); i++ {
		bv, _ := b.Item(i)
		d.emit(Op{Kind: OpInsert, Path: p.Append(tree.Index(i)), Value: bv.Clone()})
	}
	for i := a.Len() - 1; i >= n; i-- {
		av, _ := a.Item(i)
		d.emit(Op{Kind: OpDelete, Path: p.Append(tree.Index(i)), Old: av.Clone()})
	}
}

func (d *differ) identified(p tree.Path, a, b *tree.Node, aIDs, bIDs []string) {
	inA := make(map[string]int, len(aIDs))
	for i, id := range aIDs {
		inA[id] = i
	}
	inB := make(map[string]int, len(bIDs))
	for i, id := range bIDs {
		inB[id] = i
	}

	for i, id := range aIDs {
		if _, ok := inB[id]; !ok {
			av, _ := a.Item(i)
			d.emit(Op{Kind: OpDelete, Path: p.Append(tree.ByID(id)), Old: av.Clone()})
		}
	}
	for i, id := range bIDs {
		bv, _ := b.Item(i)
		j, ok := inA[id]
		if !ok {
			after := ""
			if i > 0 {
				after = bIDs[i-1]
			}
			d.emit(Op{Kind: OpInsert, Path: p.Append(tree.ByID(id)), Value: bv.Clone(), After: after})
			continue
		}
		av, _ := a.Item(j)
		d.node(p.Append(tree.ByID(id)), av, bv)
	}

	// Only the relative order of ids present on both sides decides a reorder.
	var aCommon, bCommon []string
	for _, id := range aIDs {
		if _, ok := inB[id]; ok {
			aCommon = append(aCommon, id)
		}
	}
	for _, id := range bIDs {
		if _, ok := inA[id]; ok {
			bCommon = append(bCommon, id)
		}
	}
	for i := range aCommon {
		if aCommon[i] != bCommon[i] {
			order := make([]string, len(bIDs))
			copy(order, bIDs)
			d.emit(Op{Kind: OpReorder, Path: p, Order: order})
			return
		}
	}
}
