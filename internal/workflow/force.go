package workflow

import (
	"context"
	"fmt"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/diff"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/document"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/merge"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/tree"
)

func (s *Service) loadSource(ctx context.Context, docID string) (*document.Document, error) {
	src, err := s.docs.FindByID(ctx, docID)
	if err != nil {
		return nil, storeErr("load document "+docID, err)
	}
	return src, nil
}

// resolveSource copies the source into the target's locale space.
func (s *Service) resolveSource(src *document.Document, b *batch) step {
	return func(ctx context.Context, t *target) *Failure {
		res, err := s.resolver.Resolve(ctx, src.Tree(), t.draft.WorkflowLocale())
		if err != nil {
			return &Failure{Kind: KindStoreFailure, Reason: "could not resolve relationships", Err: err}
		}
		b.warn(t.locale, res.Unresolved)
		t.work = res.Tree
		return nil
	}
}

// ForcePropagate overwrites every non-excluded root field of the target drafts with the
// source document's, ignoring whatever the targets changed.
func (s *Service) ForcePropagate(ctx context.Context, sourceDocID string, locales []string) (Result, error) {
	src, err := s.loadSource(ctx, sourceDocID)
	if err != nil {
		return Result{}, err
	}
	b := s.newBatch(ModeForce, src.WorkflowLocale())
	targets := b.targets(locales)
	if len(targets) == 0 {
		return b.finish(), nil
	}
	unlock := s.locks.lock(src.WorkflowGuid())
	defer unlock()

	for _, loc := range targets {
		b.run(ctx, loc,
			s.loadDraft(src.WorkflowGuid()),
			s.resolveSource(src, b),
			s.overwrite,
			s.persist,
		)
	}
	return b.finish(), nil
}

// overwrite assigns the resolved source's fields onto the target draft. t.work holds
// the resolved source on entry and the updated draft on exit.
func (s *Service) overwrite(_ context.Context, t *target) *Failure {
	resolved := s.excluded.Strip(t.work)
	out := t.draft.Tree().Clone()
	for _, k := range resolved.Keys() {
		v, _ := resolved.Get(k)
		out.Set(k, v)
	}
	t.work = out
	return nil
}

// ForcePropagateNode copies one widget (any nested object carrying nodeID) from the
// source document into the target drafts. The node replaces a node with the same id
// wherever it sits in the target; otherwise it is inserted at the same place as in the
// source, rebuilding at most one missing level of context.
func (s *Service) ForcePropagateNode(ctx context.Context, sourceDocID, nodeID string, locales []string) (Result, error) {
	src, err := s.loadSource(ctx, sourceDocID)
	if err != nil {
		return Result{}, err
	}
	b := s.newBatch(ModeForceNode, src.WorkflowLocale())
	targets := b.targets(locales)
	if len(targets) == 0 {
		return b.finish(), nil
	}
	unlock := s.locks.lock(src.WorkflowGuid())
	defer unlock()

	for _, loc := range targets {
		b.run(ctx, loc,
			s.loadDraft(src.WorkflowGuid()),
			s.resolveSource(src, b),
			s.placeNode(nodeID),
			s.persist,
		)
	}
	return b.finish(), nil
}

func (s *Service) placeNode(nodeID string) step {
	return func(_ context.Context, t *target) *Failure {
		source := t.work
		path, node, ok := tree.FindByID(source, nodeID)
		if !ok {
			return &Failure{Kind: KindNotFound, Reason: "widget no longer exists in original, nothing to patch", Err: ErrNotFound}
		}
		if root, _ := path.Root(); root.Kind == tree.SegField && s.excluded.Has(root.Field) {
			return &Failure{Kind: KindNotFound, Reason: fmt.Sprintf("widget sits in excluded field %s", root.Field), Err: ErrNotFound}
		}

		out := t.draft.Tree().Clone()
		if existing, _, ok := tree.FindByID(out, nodeID); ok {
			if err := tree.Set(out, existing, node.Clone(), tree.SetOptions{}); err != nil {
				return &Failure{Kind: KindTooDifferent, Reason: tooDifferent, Err: err}
			}
			t.work = out
			return nil
		}

		op := diff.Op{Kind: diff.OpSet, Path: tree.StablePath(source, path), Value: node.Clone()}
		if last, _ := path.Last(); last.IsElement() {
			op.Kind = diff.OpInsert
			parentPath, _ := path.Parent()
			parent, _ := tree.Lookup(source, parentPath)
			if i := parent.IndexOfID(nodeID); i > 0 {
				prev, _ := parent.Item(i - 1)
				op.After = prev.ID()
			}
		}
		applied, err := merge.Apply(diff.Patch{op}, out, s.excluded)
		if err != nil {
			return &Failure{Kind: KindTooDifferent, Reason: "No suitable context, document is too different", Err: err}
		}
		t.work = applied
		return nil
	}
}
