// Package tree is a typed representation of nested documents: scalars, ordered
// objects and arrays, with helpers for areas and widgets carrying stable ids.
package tree

import (
	"math"
	"reflect"
	"time"
)

// Node is a tagged union over the four node kinds. The zero value is a null node.
type Node struct {
	kind   Kind
	scalar any
	keys   []string
	fields map[string]*Node
	items  []*Node
}

// Null returns a null node.
func Null() *Node { return &Node{kind: KindNull} }

// Scalar wraps a string, number, bool or time value.
func Scalar(v any) *Node {
	if v == nil {
		return Null()
	}
	return &Node{kind: KindScalar, scalar: v}
}

// String is a shorthand for Scalar(s).
func String(s string) *Node { return Scalar(s) }

// Object returns an empty object.
func Object() *Node {
	return &Node{kind: KindObject, fields: map[string]*Node{}}
}

// Array returns an array holding items.
func Array(items ...*Node) *Node {
	out := make([]*Node, 0, len(items))
	out = append(out, items...)
	return &Node{kind: KindArray, items: out}
}

// Area returns an area object holding widgets.
func Area(widgets ...*Node) *Node {
	a := Object()
	a.Set(TypeField, String(AreaType))
	a.Set(ItemsField, Array(widgets...))
	return a
}

func (n *Node) Kind() Kind {
	if n == nil {
		return KindNull
	}
	return n.kind
}

func (n *Node) IsNull() bool   { return n.Kind() == KindNull }
func (n *Node) IsScalar() bool { return n.Kind() == KindScalar }
func (n *Node) IsObject() bool { return n.Kind() == KindObject }
func (n *Node) IsArray() bool  { return n.Kind() == KindArray }

// Scalar returns the wrapped scalar, nil for non-scalars.
func (n *Node) Scalar() any {
	if !n.IsScalar() {
		return nil
	}
	return n.scalar
}

// Str returns the scalar as a string and whether it was one.
func (n *Node) Str() (string, bool) {
	s, ok := n.Scalar().(string)
	return s, ok
}

// Get returns the field of an object.
func (n *Node) Get(key string) (*Node, bool) {
	if !n.IsObject() {
		return nil, false
	}
	v, ok := n.fields[key]
	return v, ok
}

// GetString returns a string field or "".
func (n *Node) GetString(key string) string {
	v, ok := n.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.Str()
	return s
}

// Set stores a field on an object, appending the key when new. No-op on non-objects.
func (n *Node) Set(key string, v *Node) {
	if !n.IsObject() {
		return
	}
	if v == nil {
		v = Null()
	}
	if _, ok := n.fields[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.fields[key] = v
}

// Delete removes a field and reports whether it was present.
func (n *Node) Delete(key string) bool {
	if !n.IsObject() {
		return false
	}
	if _, ok := n.fields[key]; !ok {
		return false
	}
	delete(n.fields, key)
	for i, k := range n.keys {
		if k == key {
			n.keys = append(n.keys[:i:i], n.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns object keys in insertion order.
func (n *Node) Keys() []string {
	if !n.IsObject() {
		return nil
	}
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

// Len is the number of fields or items.
func (n *Node) Len() int {
	switch n.Kind() {
	case KindObject:
		return len(n.keys)
	case KindArray:
		return len(n.items)
	}
	return 0
}

// Items returns the array elements. The slice is shared; use SetItems to replace it.
func (n *Node) Items() []*Node {
	if !n.IsArray() {
		return nil
	}
	return n.items
}

// Item returns the element at i.
func (n *Node) Item(i int) (*Node, bool) {
	if !n.IsArray() || i < 0 || i >= len(n.items) {
		return nil, false
	}
	return n.items[i], true
}

// SetItems replaces the array elements.
func (n *Node) SetItems(items []*Node) {
	if !n.IsArray() {
		return
	}
	n.items = items
}

// SetItem overwrites the element at i.
func (n *Node) SetItem(i int, v *Node) bool {
	if !n.IsArray() || i < 0 || i >= len(n.items) {
		return false
	}
	n.items[i] = v
	return true
}

// InsertAt inserts v before position i (clamped to the array bounds).
func (n *Node) InsertAt(i int, v *Node) {
	if !n.IsArray() {
		return
	}
	if i < 0 {
		i = 0
	}
	if i > len(n.items) {
		i = len(n.items)
	}
	n.items = append(n.items, nil)
	copy(n.items[i+1:], n.items[i:])
	n.items[i] = v
}

// RemoveAt drops the element at i.
func (n *Node) RemoveAt(i int) bool {
	if !n.IsArray() || i < 0 || i >= len(n.items) {
		return false
	}
	n.items = append(n.items[:i], n.items[i+1:]...)
	return true
}

// ID returns the stable identifier carried by an object, or "".
func (n *Node) ID() string { return n.GetString(IDField) }

// Type returns the "type" field of an object, or "".
func (n *Node) Type() string { return n.GetString(TypeField) }

// IsArea reports whether n is an area object.
func (n *Node) IsArea() bool { return n.IsObject() && n.Type() == AreaType }

// IndexOfID returns the position of the element carrying id, or -1.
func (n *Node) IndexOfID(id string) int {
	if id == "" {
		return -1
	}
	for i, it := range n.Items() {
		if it.ID() == id {
			return i
		}
	}
	return -1
}

// IDs returns the ids of the array elements when every element is an object with a
// distinct, non-empty id. ok is false otherwise.
func (n *Node) IDs() (ids []string, ok bool) {
	if !n.IsArray() {
		return nil, false
	}
	seen := make(map[string]struct{}, len(n.items))
	ids = make([]string, 0, len(n.items))
	for _, it := range n.items {
		id := it.ID()
		if id == "" {
			return nil, false
		}
		if _, dup := seen[id]; dup {
			return nil, false
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, true
}

// Clone returns a deep copy.
func (n *Node) Clone() *Node {
	if n == nil {
		return Null()
	}
	switch n.kind {
	case KindScalar:
		return &Node{kind: KindScalar, scalar: n.scalar}
	case KindObject:
		c := &Node{kind: KindObject, keys: make([]string, len(n.keys)), fields: make(map[string]*Node, len(n.fields))}
		copy(c.keys, n.keys)
		for k, v := range n.fields {
			c.fields[k] = v.Clone()
		}
		return c
	case KindArray:
		c := &Node{kind: KindArray, items: make([]*Node, len(n.items))}
		for i, v := range n.items {
			c.items[i] = v.Clone()
		}
		return c
	}
	return Null()
}

// Equal compares by value. Object key order is not significant; numbers compare by
// numeric value regardless of their Go type.
func (n *Node) Equal(o *Node) bool {
	if n.Kind() != o.Kind() {
		return false
	}
	switch n.Kind() {
	case KindNull:
		return true
	case KindScalar:
		return scalarEqual(n.scalar, o.scalar)
	case KindObject:
		if len(n.fields) != len(o.fields) {
			return false
		}
		for k, v := range n.fields {
			ov, ok := o.fields[k]
			if !ok || !v.Equal(ov) {
				return false
			}
		}
		return true
	case KindArray:
		if len(n.items) != len(o.items) {
			return false
		}
		for i := range n.items {
			if !n.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func scalarEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb || (math.IsNaN(fa) && math.IsNaN(fb))
		}
		return false
	}
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
