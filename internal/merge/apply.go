// Package merge applies a patch computed between two versions of a document onto a
// third, independently edited copy.
package merge

import (
	"errors"
	"fmt"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/diff"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/tree"
)

// ErrTooDifferent means the target no longer has the structure an operation needs.
var ErrTooDifferent = errors.New("content was too different")

// ConflictError reports the operation that could not be applied.
type ConflictError struct {
	Index  int
	Op     diff.Op
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("op %d (%s): %s: %v", e.Index, e.Op, e.Reason, ErrTooDifferent)
}

func (e *ConflictError) Unwrap() error { return ErrTooDifferent }

// Apply returns a copy of target with patch applied. The target itself is never
// modified, so a conflict leaves it exactly as it was. Operations on excluded root
// fields are skipped.
func Apply(patch diff.Patch, target *tree.Node, excluded diff.Excluded) (*tree.Node, error) {
	a := &applier{root: target.Clone()}
	for i, op := range patch {
		if first, ok := op.Path.Root(); ok && first.Kind == tree.SegField && excluded.Has(first.Field) {
			continue
		}
		if reason := a.apply(op); reason != "" {
			return nil, &ConflictError{Index: i, Op: op, Reason: reason}
		}
	}
	return a.root, nil
}

type applier struct {
	root *tree.Node
}

// apply returns a non-empty reason on conflict.
func (a *applier) apply(op diff.Op) string {
	switch op.Kind {
	case diff.OpSet:
		if len(op.Path) == 0 {
			a.root = op.Value.Clone()
			return ""
		}
		if reason := a.ensureContainer(op.Path); reason != "" {
			return reason
		}
		if err := tree.Set(a.root, op.Path, op.Value.Clone(), tree.SetOptions{}); err != nil {
			return err.Error()
		}
	case diff.OpRemove, diff.OpDelete:
		tree.Remove(a.root, op.Path)
	case diff.OpInsert:
		return a.insert(op)
	case diff.OpReorder:
		arr, ok := tree.Lookup(a.root, op.Path)
		if !ok || !arr.IsArray() {
			return fmt.Sprintf("no array at %s", op.Path)
		}
		reorder(arr, op.Order)
	default:
		return fmt.Sprintf("unknown operation %s", op.Kind)
	}
	return ""
}

func (a *applier) insert(op diff.Op) string {
	parentPath, ok := op.Path.Parent()
	if !ok {
		return "insert at the document root"
	}
	if reason := a.ensureContainer(op.Path); reason != "" {
		return reason
	}
	arr, ok := tree.Lookup(a.root, parentPath)
	if !ok || !arr.IsArray() {
		return fmt.Sprintf("no array at %s", parentPath)
	}
	last, _ := op.Path.Last()
	value := op.Value.Clone()
	switch last.Kind {
	case tree.SegID:
		if i := arr.IndexOfID(last.ID); i >= 0 {
			arr.SetItem(i, value)
			return ""
		}
		pos := 0
		if op.After != "" {
			pos = arr.Len()
			if j := arr.IndexOfID(op.After); j >= 0 {
				pos = j + 1
			}
		}
		arr.InsertAt(pos, value)
	case tree.SegIndex:
		arr.InsertAt(last.Index, value)
	default:
		return fmt.Sprintf("insert needs an element path, got %s", op.Path)
	}
	return ""
}

// ensureContainer makes sure the container of loc exists. The container of an element
// of an area's items array is the area; anything else is contained by its direct parent.
// A missing container is synthesized only when its own parent exists, and never when it
// is an element addressed by id.
func (a *applier) ensureContainer(loc tree.Path) string {
	parent, ok := loc.Parent()
	if !ok {
		return ""
	}
	container := parent
	inArea := false
	if last, _ := loc.Last(); last.IsElement() {
		if pl, ok := parent.Last(); ok && pl.Kind == tree.SegField && pl.Field == tree.ItemsField {
			container, _ = parent.Parent()
			inArea = true
		}
	}

	node, ok := tree.Lookup(a.root, container)
	if ok {
		if !inArea {
			if !node.IsObject() && !node.IsArray() {
				return fmt.Sprintf("%s is a %s", displayPath(container), node.Kind())
			}
			return ""
		}
		if !node.IsObject() {
			return fmt.Sprintf("area %s is a %s", displayPath(container), node.Kind())
		}
		if items, ok := node.Get(tree.ItemsField); !ok || !items.IsArray() {
			node.Set(tree.ItemsField, tree.Array())
		}
		return ""
	}

	cl, _ := container.Last()
	if cl.Kind == tree.SegID {
		return fmt.Sprintf("element %s is missing", container)
	}
	grand, _ := container.Parent()
	if g, ok := tree.Lookup(a.root, grand); !ok || (!g.IsObject() && !g.IsArray()) {
		return fmt.Sprintf("no suitable context for %s", container)
	}

	var synth *tree.Node
	switch {
	case inArea:
		synth = tree.Area()
	case loc[len(container)].IsElement():
		synth = tree.Array()
	default:
		synth = tree.Object()
	}
	if err := tree.Set(a.root, container, synth, tree.SetOptions{}); err != nil {
		return err.Error()
	}
	return ""
}

// reorder puts the listed elements in the given order, reusing the slots they occupy.
// Ids absent from the array are ignored and unlisted elements keep their slots.
func reorder(arr *tree.Node, order []string) {
	listed := make(map[string]struct{}, len(order))
	for _, id := range order {
		listed[id] = struct{}{}
	}
	items := arr.Items()
	var slots []int
	byID := map[string]*tree.Node{}
	for i, it := range items {
		if _, ok := listed[it.ID()]; ok && it.ID() != "" {
			slots = append(slots, i)
			byID[it.ID()] = it
		}
	}
	out := make([]*tree.Node, len(items))
	copy(out, items)
	k := 0
	for _, id := range order {
		it, ok := byID[id]
		if !ok {
			continue
		}
		out[slots[k]] = it
		delete(byID, id)
		k++
	}
	arr.SetItems(out)
}

func displayPath(p tree.Path) string {
	if len(p) == 0 {
		return "document"
	}
	return p.String()
}
