// Package diff computes structural patches between two document trees.
package diff

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/tree"
)

// OpKind names a patch operation.
type OpKind int

const (
	OpSet     OpKind = iota // write a value at Path
	OpRemove                // drop an object field
	OpInsert                // add an array element
	OpDelete                // drop an array element
	OpReorder               // reorder the elements of an identified array
)

func (k OpKind) String() string {
	switch k {
	case OpSet:
		return "set"
	case OpRemove:
		return "remove"
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpReorder:
		return "reorder"
	}
	return fmt.Sprintf("op(%d)", int(k))
}

// Op is one step of a patch. For Insert and Delete, Path addresses the element itself
// (its last segment is ByID for identified arrays). For Reorder, Path addresses the array.
type Op struct {
	Kind  OpKind
	Path  tree.Path
	Value *tree.Node
	Old   *tree.Node
	// After is the id of the element preceding an inserted element, "" for the first slot.
	After string
	// Order is the full id order of the array after the change.
	Order []string
}

// ID returns the element id of an Insert or Delete on an identified array.
func (o Op) ID() string {
	last, ok := o.Path.Last()
	if !ok || last.Kind != tree.SegID {
		return ""
	}
	return last.ID
}

func (o Op) String() string {
	switch o.Kind {
	case OpInsert:
		if o.ID() != "" {
			return fmt.Sprintf("insert %s after %q", o.Path, o.After)
		}
	case OpReorder:
		return fmt.Sprintf("reorder %s [%s]", o.Path, strings.Join(o.Order, ","))
	}
	return fmt.Sprintf("%s %s", o.Kind, o.Path)
}

type opJSON struct {
	Op    string     `json:"op"`
	Path  string     `json:"path"`
	Value *tree.Node `json:"value,omitempty"`
	Old   *tree.Node `json:"old,omitempty"`
	After *string    `json:"after,omitempty"`
	Order []string   `json:"order,omitempty"`
}

func (o Op) MarshalJSON() ([]byte, error) {
	v := opJSON{Op: o.Kind.String(), Path: o.Path.String(), Value: o.Value, Old: o.Old, Order: o.Order}
	if o.Kind == OpInsert && o.ID() != "" {
		after := o.After
		v.After = &after
	}
	return json.Marshal(v)
}

// Patch is an ordered list of operations. Patches are transient and never persisted.
type Patch []Op

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool { return len(p) == 0 }

// ModifiedFields lists the root-level fields the patch touches, sorted.
func (p Patch) ModifiedFields() []string {
	seen := map[string]struct{}{}
	for _, op := range p {
		root, ok := op.Path.Root()
		if !ok || root.Kind != tree.SegField {
			continue
		}
		seen[root.Field] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Counts tallies operations by kind, for metrics and logs.
func (p Patch) Counts() map[OpKind]int {
	out := map[OpKind]int{}
	for _, op := range p {
		out[op.Kind]++
	}
	return out
}
