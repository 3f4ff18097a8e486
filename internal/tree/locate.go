package tree

import (
	"fmt"
	"strconv"
)

// SetOptions controls how Set treats missing intermediate containers.
type SetOptions struct {
	// CreateMissing creates absent intermediate objects/arrays instead of failing.
	CreateMissing bool
}

// Child returns the node selected by one segment.
func (n *Node) Child(seg Segment) (*Node, bool) {
	switch seg.Kind {
	case SegField:
		return n.Get(seg.Field)
	case SegIndex:
		if n.IsObject() {
			return n.Get(strconv.Itoa(seg.Index))
		}
		return n.Item(seg.Index)
	case SegID:
		i := n.IndexOfID(seg.ID)
		if i < 0 {
			return nil, false
		}
		return n.items[i], true
	}
	return nil, false
}

// Lookup reads the node at path. A missing step yields (nil, false), never a panic.
func Lookup(root *Node, path Path) (*Node, bool) {
	cur := root
	if cur == nil {
		return nil, false
	}
	for _, seg := range path {
		next, ok := cur.Child(seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Exists is Lookup without the node.
func Exists(root *Node, path Path) bool {
	_, ok := Lookup(root, path)
	return ok
}

// Set writes value at path. Intermediate containers are created only with
// opts.CreateMissing; the kind created follows the next segment (object for a field,
// array for an element). Elements addressed by id are never created.
func Set(root *Node, path Path, value *Node, opts SetOptions) error {
	if len(path) == 0 {
		return fmt.Errorf("set: empty path")
	}
	cur := root
	for i, seg := range path[:len(path)-1] {
		next, ok := cur.Child(seg)
		if ok && (next.IsObject() || next.IsArray()) {
			cur = next
			continue
		}
		if !opts.CreateMissing || seg.Kind == SegID {
			return fmt.Errorf("set %s: %w at %s", path, ErrPathNotFound, path[:i+1])
		}
		var created *Node
		if path[i+1].IsElement() {
			created = Array()
		} else {
			created = Object()
		}
		if err := assign(cur, seg, created); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
		cur = created
	}
	last := path[len(path)-1]
	if err := assign(cur, last, value); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

func assign(parent *Node, seg Segment, value *Node) error {
	switch seg.Kind {
	case SegField:
		if !parent.IsObject() {
			return fmt.Errorf("field %q on %s: %w", seg.Field, parent.Kind(), ErrPathNotFound)
		}
		parent.Set(seg.Field, value)
		return nil
	case SegIndex:
		if parent.IsObject() {
			parent.Set(strconv.Itoa(seg.Index), value)
			return nil
		}
		if !parent.IsArray() {
			return fmt.Errorf("index %d on %s: %w", seg.Index, parent.Kind(), ErrPathNotFound)
		}
		if seg.Index == parent.Len() {
			parent.items = append(parent.items, value)
			return nil
		}
		if !parent.SetItem(seg.Index, value) {
			return fmt.Errorf("index %d out of range: %w", seg.Index, ErrPathNotFound)
		}
		return nil
	case SegID:
		i := parent.IndexOfID(seg.ID)
		if i < 0 {
			return fmt.Errorf("id %q: %w", seg.ID, ErrPathNotFound)
		}
		parent.items[i] = value
		return nil
	}
	return fmt.Errorf("unknown segment kind %d", seg.Kind)
}

// Remove deletes the node at path and reports whether something was removed.
func Remove(root *Node, path Path) bool {
	parentPath, ok := path.Parent()
	if !ok {
		return false
	}
	parent, ok := Lookup(root, parentPath)
	if !ok {
		return false
	}
	last, _ := path.Last()
	switch last.Kind {
	case SegField:
		return parent.Delete(last.Field)
	case SegIndex:
		if parent.IsObject() {
			return parent.Delete(strconv.Itoa(last.Index))
		}
		return parent.RemoveAt(last.Index)
	case SegID:
		return parent.RemoveAt(parent.IndexOfID(last.ID))
	}
	return false
}

// FindByID searches the descendants of root, depth first in document order, for the
// object carrying id. The returned path is positional (field and index steps).
func FindByID(root *Node, id string) (Path, *Node, bool) {
	if id == "" {
		return nil, nil, false
	}
	var found Path
	var node *Node
	var walk func(n *Node, p Path) bool
	walk = func(n *Node, p Path) bool {
		switch n.Kind() {
		case KindObject:
			for _, k := range n.keys {
				child := n.fields[k]
				cp := p.Append(Field(k))
				if child.IsObject() && child.ID() == id {
					found, node = cp, child
					return true
				}
				if walk(child, cp) {
					return true
				}
			}
		case KindArray:
			for i, child := range n.items {
				cp := p.Append(Index(i))
				if child.IsObject() && child.ID() == id {
					found, node = cp, child
					return true
				}
				if walk(child, cp) {
					return true
				}
			}
		}
		return false
	}
	if walk(root, Path{}) {
		return found, node, true
	}
	return nil, nil, false
}

// StablePath rewrites the index steps of a path into id steps wherever the element
// at that position carries an id, so the path survives reordering.
func StablePath(root *Node, path Path) Path {
	out := make(Path, 0, len(path))
	cur := root
	for _, seg := range path {
		next, ok := cur.Child(seg)
		if seg.Kind == SegIndex && cur.IsArray() && ok && next.ID() != "" {
			out = append(out, ByID(next.ID()))
		} else {
			out = append(out, seg)
		}
		if !ok {
			cur = nil
			continue
		}
		cur = next
	}
	return out
}

// Walk visits every node under root with its path, parents before children.
// Returning false from fn skips the node's children.
func Walk(root *Node, fn func(p Path, n *Node) bool) {
	var walk func(n *Node, p Path)
	walk = func(n *Node, p Path) {
		if !fn(p, n) {
			return
		}
		switch n.Kind() {
		case KindObject:
			for _, k := range n.keys {
				walk(n.fields[k], p.Append(Field(k)))
			}
		case KindArray:
			for i, it := range n.items {
				walk(it, p.Append(Index(i)))
			}
		}
	}
	walk(root, Path{})
}
