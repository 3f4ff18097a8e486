package tree

import (
	"errors"
	"strconv"
	"strings"
)

// SegmentKind says how a path step selects its child.
type SegmentKind int

const (
	SegField SegmentKind = iota // object field by name
	SegIndex                    // array element by position
	SegID                       // array element by stable id
)

// Segment is one step of a Path.
type Segment struct {
	Kind  SegmentKind
	Field string
	Index int
	ID    string
}

func Field(name string) Segment { return Segment{Kind: SegField, Field: name} }
func Index(i int) Segment       { return Segment{Kind: SegIndex, Index: i} }
func ByID(id string) Segment    { return Segment{Kind: SegID, ID: id} }

// IsElement reports whether the segment selects an array element.
func (s Segment) IsElement() bool { return s.Kind == SegIndex || s.Kind == SegID }

func (s Segment) String() string {
	switch s.Kind {
	case SegIndex:
		return strconv.Itoa(s.Index)
	case SegID:
		return "@" + s.ID
	}
	return s.Field
}

// Path addresses a node from the root. The empty path is the root itself.
type Path []Segment

// P builds a path from field names.
func P(fields ...string) Path {
	out := make(Path, len(fields))
	for i, f := range fields {
		out[i] = Field(f)
	}
	return out
}

// ErrPathNotFound is returned when a write meets a missing intermediate container.
var ErrPathNotFound = errors.New("path not found")

// Append returns a new path with segs added; the receiver is not modified.
func (p Path) Append(segs ...Segment) Path {
	out := make(Path, 0, len(p)+len(segs))
	out = append(out, p...)
	return append(out, segs...)
}

// Parent returns the path one level up. A single-segment path has the root (empty
// path) as parent; the root has none.
func (p Path) Parent() (Path, bool) {
	if len(p) == 0 {
		return nil, false
	}
	return p[:len(p)-1 : len(p)-1], true
}

// Last returns the final segment.
func (p Path) Last() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

// Root returns the first segment, the document-level field for most paths.
func (p Path) Root() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[0], true
}

func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// String renders the dot-path form, e.g. "body.items.2.content" or "body.items.@w1".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

// ParseDotPath reads the form produced by String. All-digit segments are indexes,
// segments starting with "@" are ids.
func ParseDotPath(s string) Path {
	if s == "" {
		return Path{}
	}
	parts := strings.Split(s, ".")
	out := make(Path, 0, len(parts))
	for _, part := range parts {
		switch {
		case strings.HasPrefix(part, "@") && len(part) > 1:
			out = append(out, ByID(part[1:]))
		case isDigits(part):
			i, _ := strconv.Atoi(part)
			out = append(out, Index(i))
		default:
			out = append(out, Field(part))
		}
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
