package workflow

import (
	"context"
	"fmt"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/commit"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/document"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/locale"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/tree"
	"github.com/gogotex/gogotex/backend/go-workflow/pkg/metrics"
)

// Commit makes a draft live: the live copy receives the draft's content with references
// pointing at live documents, and the change is recorded for later propagation.
func (s *Service) Commit(ctx context.Context, draftID string) (*commit.Commit, error) {
	draft, err := s.docs.FindByID(ctx, draftID)
	if err != nil {
		return nil, storeErr("load draft "+draftID, err)
	}
	if !locale.IsDraft(draft.WorkflowLocale()) {
		return nil, fmt.Errorf("commit %s: %w", draftID, ErrNotDraft)
	}
	unlock := s.locks.lock(draft.WorkflowGuid())
	defer unlock()

	liveLocale := locale.Liveify(draft.WorkflowLocale())
	live, err := s.docs.FindByGuidAndLocale(ctx, draft.WorkflowGuid(), liveLocale)
	if err != nil {
		return nil, storeErr("load live "+liveLocale, err)
	}

	c := s.ComputeCommit(live, draft)
	c.CreatedBy = ActorFrom(ctx)

	res, err := s.resolver.Resolve(ctx, draft.Tree(), liveLocale)
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w: %w", draftID, ErrStoreFailure, err)
	}
	next := live.Tree().Clone()
	content := s.excluded.Strip(res.Tree)
	for _, k := range next.Keys() {
		if !s.excluded.Has(k) {
			next.Delete(k)
		}
	}
	for _, k := range content.Keys() {
		v, _ := content.Get(k)
		next.Set(k, v)
	}
	if err := s.docs.Update(ctx, document.New(next)); err != nil {
		return nil, storeErr("update live "+liveLocale, err)
	}
	if err := s.commits.Insert(ctx, c); err != nil {
		return nil, storeErr("insert commit", err)
	}
	if err := s.docs.UnsetField(ctx, draftID, tree.P(document.FieldSubmitted)); err != nil {
		s.log.Warn("could not clear submission", "doc", draftID, "err", err)
	}
	if s.archive != nil {
		if key, err := s.archive.Archive(ctx, c); err != nil {
			s.log.Warn("commit not archived", "commit", c.ID, "err", err)
		} else {
			s.log.Debug("commit archived", "commit", c.ID, "key", key)
		}
	}
	metrics.Commits.Inc()
	s.log.Info("committed", "commit", c.ID, "doc", draftID, "locale", liveLocale, "by", c.CreatedBy, "unresolved", len(res.Unresolved))
	return c, nil
}
