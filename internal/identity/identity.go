// Package identity translates document ids between locale id spaces. Copies of the same
// logical document share a workflowGuid, so an id in one locale maps to the id of the
// copy with the same guid in another.
package identity

import (
	"context"
	"fmt"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/document/repository"
)

// Map translates ids toward a target locale. Ids without a counterpart in that locale
// are absent from the result.
type Map interface {
	Translate(ctx context.Context, ids []string, locale string) (map[string]string, error)
}

// StoreMap answers translations from the document repository.
type StoreMap struct {
	docs repository.Repository
}

func NewStoreMap(docs repository.Repository) *StoreMap {
	return &StoreMap{docs: docs}
}

func (s *StoreMap) Translate(ctx context.Context, ids []string, locale string) (map[string]string, error) {
	out := map[string]string{}
	if len(ids) == 0 {
		return out, nil
	}
	sources, err := s.docs.FindByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, fmt.Errorf("translate ids: %w", err)
	}
	guidOf := map[string]string{}
	var guids []string
	for _, d := range sources {
		g := d.WorkflowGuid()
		if g == "" {
			continue
		}
		guidOf[d.ID()] = g
		guids = append(guids, g)
	}
	guids = dedupe(guids)
	if len(guids) == 0 {
		return out, nil
	}
	targets, err := s.docs.FindByGuids(ctx, guids, locale)
	if err != nil {
		return nil, fmt.Errorf("translate ids to %s: %w", locale, err)
	}
	idOf := make(map[string]string, len(targets))
	for _, d := range targets {
		idOf[d.WorkflowGuid()] = d.ID()
	}
	for id, g := range guidOf {
		if target, ok := idOf[g]; ok {
			out[id] = target
		}
	}
	return out, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

var _ Map = (*StoreMap)(nil)

