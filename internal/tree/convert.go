package tree

import (
	"reflect"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FromValue builds a tree from decoded data: maps (keys sorted), bson documents
// (order kept), slices, and scalars. ObjectIDs become their hex string and bson
// datetimes become time.Time.
func FromValue(v any) *Node {
	switch x := v.(type) {
	case nil:
		return Null()
	case *Node:
		return x.Clone()
	case primitive.D:
		obj := Object()
		for _, e := range x {
			obj.Set(e.Key, FromValue(e.Value))
		}
		return obj
	case primitive.M:
		return fromMap(x)
	case map[string]any:
		return fromMap(x)
	case primitive.A:
		return fromSlice([]any(x))
	case []any:
		return fromSlice(x)
	case primitive.ObjectID:
		return String(x.Hex())
	case primitive.DateTime:
		return Scalar(x.Time().UTC())
	case string, bool, float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, time.Time:
		return Scalar(x)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Scalar(v)
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		obj := Object()
		for _, k := range keys {
			obj.Set(k, FromValue(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface()))
		}
		return obj
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Scalar(v)
		}
		items := make([]*Node, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items[i] = FromValue(rv.Index(i).Interface())
		}
		return Array(items...)
	case reflect.Ptr:
		if rv.IsNil() {
			return Null()
		}
		return FromValue(rv.Elem().Interface())
	}
	return Scalar(v)
}

func fromMap(m map[string]any) *Node {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	obj := Object()
	for _, k := range keys {
		obj.Set(k, FromValue(m[k]))
	}
	return obj
}

func fromSlice(s []any) *Node {
	items := make([]*Node, len(s))
	for i, v := range s {
		items[i] = FromValue(v)
	}
	return Array(items...)
}

// Value converts the tree back to plain Go values: map[string]any, []any and scalars.
func (n *Node) Value() any {
	switch n.Kind() {
	case KindScalar:
		return n.scalar
	case KindObject:
		m := make(map[string]any, len(n.keys))
		for _, k := range n.keys {
			m[k] = n.fields[k].Value()
		}
		return m
	case KindArray:
		out := make([]any, len(n.items))
		for i, it := range n.items {
			out[i] = it.Value()
		}
		return out
	}
	return nil
}

// BSON converts the tree to bson values, keeping object key order.
func (n *Node) BSON() any {
	switch n.Kind() {
	case KindScalar:
		return n.scalar
	case KindObject:
		d := make(primitive.D, 0, len(n.keys))
		for _, k := range n.keys {
			d = append(d, primitive.E{Key: k, Value: n.fields[k].BSON()})
		}
		return d
	case KindArray:
		out := make(primitive.A, len(n.items))
		for i, it := range n.items {
			out[i] = it.BSON()
		}
		return out
	}
	return nil
}
