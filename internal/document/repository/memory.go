package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/document"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/tree"
)

// MemoryRepo is an in-memory repository used by tests and the single-binary setup.
// Documents are copied on the way in and out so callers never share trees with the store.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*tree.Node
	order []string
	now   func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*tree.Node), now: time.Now}
}

func (m *MemoryRepo) Insert(_ context.Context, doc *document.Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc.ID() == "" {
		doc.SetID(uuid.NewString())
	}
	id := doc.ID()
	if _, dup := m.store[id]; dup {
		return "", fmt.Errorf("insert %s: duplicate id", id)
	}
	now := tree.Scalar(m.now().UTC())
	doc.Tree().Set(document.FieldCreatedAt, now)
	doc.Tree().Set(document.FieldUpdatedAt, now)
	m.store[id] = doc.Tree().Clone()
	m.order = append(m.order, id)
	return id, nil
}

func (m *MemoryRepo) FindByID(_ context.Context, id string) (*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if n, ok := m.store[id]; ok {
		return document.New(n.Clone()), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) FindByIDs(_ context.Context, ids []string) ([]*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*document.Document, 0, len(ids))
	for _, id := range ids {
		if n, ok := m.store[id]; ok {
			out = append(out, document.New(n.Clone()))
		}
	}
	return out, nil
}

func (m *MemoryRepo) FindByGuidAndLocale(_ context.Context, guid, locale string) (*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, id := range m.order {
		n := m.store[id]
		if n.GetString(document.FieldGuid) == guid && n.GetString(document.FieldLocale) == locale {
			return document.New(n.Clone()), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) FindByGuids(_ context.Context, guids []string, locale string) ([]*document.Document, error) {
	want := make(map[string]struct{}, len(guids))
	for _, g := range guids {
		want[g] = struct{}{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*document.Document{}
	for _, id := range m.order {
		n := m.store[id]
		if _, ok := want[n.GetString(document.FieldGuid)]; !ok {
			continue
		}
		if locale != "" && n.GetString(document.FieldLocale) != locale {
			continue
		}
		out = append(out, document.New(n.Clone()))
	}
	return out, nil
}

func (m *MemoryRepo) Update(_ context.Context, doc *document.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := doc.ID()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	doc.Tree().Set(document.FieldUpdatedAt, tree.Scalar(m.now().UTC()))
	m.store[id] = doc.Tree().Clone()
	return nil
}

func (m *MemoryRepo) SetField(_ context.Context, id string, path tree.Path, value *tree.Node) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	return tree.Set(n, path, value.Clone(), tree.SetOptions{CreateMissing: true})
}

func (m *MemoryRepo) UnsetField(_ context.Context, id string, path tree.Path) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	tree.Remove(n, path)
	return nil
}
