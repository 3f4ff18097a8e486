package commit

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps commits in memory, for tests and local runs.
type MemoryStore struct {
	mu      sync.RWMutex
	commits []*Commit
	byID    map[string]*Commit
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: map[string]*Commit{}}
}

func clone(c *Commit) *Commit {
	out := *c
	out.From = c.From.Clone()
	out.To = c.To.Clone()
	return &out
}

func (m *MemoryStore) Insert(_ context.Context, c *Commit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, dup := m.byID[c.ID]; dup {
		return fmt.Errorf("insert commit %s: duplicate id", c.ID)
	}
	stored := clone(c)
	m.commits = append(m.commits, stored)
	m.byID[c.ID] = stored
	return nil
}

func (m *MemoryStore) FindByID(_ context.Context, id string) (*Commit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.byID[id]; ok {
		return clone(c), nil
	}
	return nil, ErrNotFound
}

// newest returns matching commits newest first; ties keep insertion order reversed.
func (m *MemoryStore) newest(match func(*Commit) bool) []*Commit {
	var out []*Commit
	for i := len(m.commits) - 1; i >= 0; i-- {
		if match(m.commits[i]) {
			out = append(out, m.commits[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *MemoryStore) FindLatestByDocID(_ context.Context, docID string) (*Commit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	found := m.newest(func(c *Commit) bool { return c.DocID == docID })
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return clone(found[0]), nil
}

func (m *MemoryStore) FindLatestByGuid(_ context.Context, guid, locale string) (*Commit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	found := m.newest(func(c *Commit) bool { return c.WorkflowGuid == guid && (locale == "" || c.Locale == locale) })
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return clone(found[0]), nil
}

func (m *MemoryStore) ListByDocID(_ context.Context, docID string, limit int) ([]*Commit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	found := m.newest(func(c *Commit) bool { return c.DocID == docID })
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	out := make([]*Commit, len(found))
	for i, c := range found {
		out[i] = clone(c)
	}
	return out, nil
}

var _ Store = (*MemoryStore)(nil)
