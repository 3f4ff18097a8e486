// Package preview renders a short, human-readable summary of how a draft differs from
// its live version. Handlers are registered per document type.
package preview

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/diff"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/tree"
)

// Previewable renders a preview of draft against live.
type Previewable interface {
	Preview(live, draft *tree.Node) (string, error)
}

// Func adapts a function to Previewable.
type Func func(live, draft *tree.Node) (string, error)

func (f Func) Preview(live, draft *tree.Node) (string, error) { return f(live, draft) }

// Registry maps document types to preview handlers. Safe for concurrent use; it is
// populated at startup and read afterwards.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Previewable
	fallback Previewable
}

// NewRegistry returns a registry whose fallback is a ModifiedFields preview using
// excluded.
func NewRegistry(excluded diff.Excluded) *Registry {
	return &Registry{handlers: map[string]Previewable{}, fallback: ModifiedFields{Excluded: excluded}}
}

func (r *Registry) Register(docType string, p Previewable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[docType] = p
}

// Lookup returns the handler for docType and whether one was registered.
func (r *Registry) Lookup(docType string) (Previewable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.handlers[docType]
	return p, ok
}

// Types lists the registered document types.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Render previews with the handler registered for docType, or the fallback.
func (r *Registry) Render(docType string, live, draft *tree.Node) (string, error) {
	p, ok := r.Lookup(docType)
	if !ok {
		p = r.fallback
	}
	out, err := p.Preview(live, draft)
	if err != nil {
		return "", fmt.Errorf("preview %s: %w", docType, err)
	}
	return out, nil
}

const noChanges = "No changes."

// ModifiedFields lists the root fields that differ, one per line.
type ModifiedFields struct {
	Excluded diff.Excluded
}

func (m ModifiedFields) Preview(live, draft *tree.Node) (string, error) {
	fields := diff.Diff(live, draft, m.Excluded).ModifiedFields()
	if len(fields) == 0 {
		return noChanges, nil
	}
	return "Modified: " + strings.Join(fields, ", "), nil
}

// Widgets adds a line per changed area to the ModifiedFields summary, naming the widgets
// added, edited and removed by id.
type Widgets struct {
	Excluded diff.Excluded
}

func (w Widgets) Preview(live, draft *tree.Node) (string, error) {
	head, err := ModifiedFields(w).Preview(live, draft)
	if err != nil || head == noChanges {
		return head, err
	}
	lines := []string{head}
	keys := draft.Keys()
	for _, k := range live.Keys() {
		if _, ok := draft.Get(k); !ok {
			keys = append(keys, k)
		}
	}
	for _, k := range keys {
		if w.Excluded.Has(k) {
			continue
		}
		l, _ := live.Get(k)
		d, _ := draft.Get(k)
		if !l.IsArea() && !d.IsArea() {
			continue
		}
		if line := areaChanges(widgets(l), widgets(d)); line != "" {
			lines = append(lines, k+": "+line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func widgets(area *tree.Node) []*tree.Node {
	if !area.IsArea() {
		return nil
	}
	items, _ := area.Get(tree.ItemsField)
	return items.Items()
}

func areaChanges(live, draft []*tree.Node) string {
	before := make(map[string]*tree.Node, len(live))
	for _, w := range live {
		if id := w.ID(); id != "" {
			before[id] = w
		}
	}
	var added, edited, removed []string
	seen := make(map[string]bool, len(draft))
	for _, w := range draft {
		id := w.ID()
		if id == "" {
			continue
		}
		seen[id] = true
		switch old, ok := before[id]; {
		case !ok:
			added = append(added, id)
		case !old.Equal(w):
			edited = append(edited, id)
		}
	}
	for _, w := range live {
		if id := w.ID(); id != "" && !seen[id] {
			removed = append(removed, id)
		}
	}
	var parts []string
	for _, p := range []struct {
		verb string
		ids  []string
	}{{"added", added}, {"edited", edited}, {"removed", removed}} {
		if len(p.ids) > 0 {
			parts = append(parts, p.verb+" "+strings.Join(p.ids, ", "))
		}
	}
	return strings.Join(parts, "; ")
}
