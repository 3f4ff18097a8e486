package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// MarshalJSON writes objects with their keys in insertion order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) writeJSON(buf *bytes.Buffer) error {
	switch n.Kind() {
	case KindNull:
		buf.WriteString("null")
	case KindScalar:
		b, err := json.Marshal(n.scalar)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindObject:
		buf.WriteByte('{')
		for i, k := range n.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := n.fields[k].writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case KindArray:
		buf.WriteByte('[')
		for i, it := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := it.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	}
	return nil
}

// UnmarshalJSON decodes JSON keeping object key order. Integral numbers become int64,
// other numbers float64.
func (n *Node) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return err
	}
	*n = *v
	return nil
}

// Parse decodes a JSON document into a tree.
func Parse(s string) (*Node, error) {
	n := &Node{}
	if err := n.UnmarshalJSON([]byte(s)); err != nil {
		return nil, err
	}
	return n, nil
}

// MustParse is Parse for literals in tests and fixtures.
func MustParse(s string) *Node {
	n, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("tree: parse %q: %v", s, err))
	}
	return n
}

func decodeValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("unexpected end of JSON input")
		}
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := Object()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, not string", kt)
				}
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := Array()
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr.items = append(arr.items, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t)
	case json.Number:
		if !strings.ContainsAny(t.String(), ".eE") {
			if i, err := t.Int64(); err == nil {
				return Scalar(i), nil
			}
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return Scalar(f), nil
	case nil:
		return Null(), nil
	default:
		return Scalar(t), nil
	}
}
