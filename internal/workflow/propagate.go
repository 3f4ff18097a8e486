package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/commit"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/diff"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/document"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/document/repository"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/locale"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/merge"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/tree"
	"github.com/gogotex/gogotex/backend/go-workflow/pkg/metrics"
)

// Propagation modes, used as the metrics "mode" label.
const (
	ModePatch     = "patch"
	ModeForce     = "force"
	ModeForceNode = "force-node"
)

const tooDifferent = "Some or all content was too different"

// target carries one locale through a chain of steps.
type target struct {
	locale string // live form
	draft  *document.Document
	work   *tree.Node
}

// step is one stage of a per-locale pipeline; a non-nil Failure stops the chain.
type step func(ctx context.Context, t *target) *Failure

type batch struct {
	s        *Service
	mode     string
	source   string
	result   Result
	warnings map[string]struct{}
}

func (s *Service) newBatch(mode, source string) *batch {
	return &batch{s: s, mode: mode, source: locale.Liveify(source), warnings: map[string]struct{}{}}
}

// targets validates and normalizes requested locales: duplicates collapse, the source
// is skipped, unknown names are failed up front.
func (b *batch) targets(locales []string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, l := range locales {
		live := locale.Liveify(l)
		if _, dup := seen[live]; dup || live == "" {
			continue
		}
		seen[live] = struct{}{}
		if live == b.source {
			continue
		}
		if !b.s.locales.Has(live) {
			b.fail(&Failure{Locale: live, Kind: KindUnknownLocale, Reason: "unknown locale", Err: ErrUnknownLocale})
			continue
		}
		out = append(out, live)
	}
	return out
}

func (b *batch) fail(f *Failure) {
	b.result.Failed = append(b.result.Failed, *f)
	metrics.Propagations.WithLabelValues(b.mode, string(f.Kind)).Inc()
	b.s.log.Warn("locale not updated", "mode", b.mode, "locale", f.Locale, "kind", string(f.Kind), "reason", f.Reason, "err", f.Err)
}

func (b *batch) warn(loc string, unresolved []string) {
	for _, id := range unresolved {
		key := loc + "\x00" + id
		if _, ok := b.warnings[key]; ok {
			continue
		}
		b.warnings[key] = struct{}{}
		b.result.Warnings = append(b.result.Warnings, Failure{
			Locale: loc,
			Kind:   KindUnresolvedReference,
			Reason: fmt.Sprintf("no counterpart for %s", id),
		})
	}
}

// run pushes one locale through steps and records the outcome.
func (b *batch) run(ctx context.Context, loc string, steps ...step) {
	t := &target{locale: loc}
	for _, st := range steps {
		if f := st(ctx, t); f != nil {
			f.Locale = loc
			b.fail(f)
			return
		}
	}
	b.result.Succeeded = append(b.result.Succeeded, loc)
	metrics.Propagations.WithLabelValues(b.mode, "success").Inc()
	b.s.log.Info("locale updated", "mode", b.mode, "locale", loc, "from", b.source)
}

// ComputeCommit records the draft to being committed over the live version from.
func (s *Service) ComputeCommit(from, to *document.Document) *commit.Commit {
	return &commit.Commit{
		ID:           uuid.NewString(),
		WorkflowGuid: to.WorkflowGuid(),
		DocID:        to.ID(),
		Locale:       locale.Liveify(to.WorkflowLocale()),
		From:         from.Tree().Clone(),
		To:           to.Tree().Clone(),
		CreatedAt:    s.now().UTC(),
	}
}

// Diff computes the patch from one version to another, ignoring excluded properties.
func (s *Service) Diff(from, to *tree.Node) diff.Patch {
	return diff.Diff(from, to, s.excluded)
}

// ResolveRelationships returns a copy of doc with references pointing into locale.
func (s *Service) ResolveRelationships(ctx context.Context, doc *document.Document, loc string) (*document.Document, []string, error) {
	res, err := s.resolver.Resolve(ctx, doc.Tree(), loc)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
	return document.New(res.Tree), res.Unresolved, nil
}

// PropagateCommit loads a commit and propagates it. A missing commit fails the call.
func (s *Service) PropagateCommit(ctx context.Context, commitID string, locales []string) (Result, error) {
	c, err := s.commits.FindByID(ctx, commitID)
	if err != nil {
		return Result{}, storeErr("load commit "+commitID, err)
	}
	return s.Propagate(ctx, c, locales), nil
}

// Propagate applies the changes recorded in c to the drafts of every requested locale,
// one locale at a time. A failing locale never stops the others.
func (s *Service) Propagate(ctx context.Context, c *commit.Commit, locales []string) Result {
	b := s.newBatch(ModePatch, c.Locale)
	targets := b.targets(locales)
	if len(targets) == 0 {
		return b.finish()
	}

	unlock := s.locks.lock(c.WorkflowGuid)
	defer unlock()

	// Both sides of the patch and every target are compared with references pointing
	// into the source draft locale.
	space := locale.Draftify(b.source)
	from, err := s.resolver.Resolve(ctx, c.From, space)
	if err != nil {
		for _, loc := range targets {
			b.fail(&Failure{Locale: loc, Kind: KindStoreFailure, Reason: "could not resolve relationships", Err: err})
		}
		return b.finish()
	}
	patch := s.Diff(from.Tree, c.To)
	for kind, n := range patch.Counts() {
		metrics.PatchOps.WithLabelValues(kind.String()).Add(float64(n))
	}
	s.log.Debug("patch computed", "commit", c.ID, "ops", len(patch), "fields", patch.ModifiedFields())

	for _, loc := range targets {
		b.run(ctx, loc,
			s.loadDraft(c.WorkflowGuid),
			s.resolveInto(space),
			s.applyPatch(patch),
			s.resolveBack(b),
			s.markExported(b.source),
			s.persist,
		)
	}
	return b.finish()
}

func (b *batch) finish() Result {
	return b.result
}

func (s *Service) loadDraft(guid string) step {
	return func(ctx context.Context, t *target) *Failure {
		d, err := s.docs.FindByGuidAndLocale(ctx, guid, locale.Draftify(t.locale))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &Failure{Kind: KindNotFound, Reason: "draft not found", Err: err}
			}
			return &Failure{Kind: KindStoreFailure, Reason: "could not load draft", Err: err}
		}
		t.draft = d
		t.work = d.Tree()
		return nil
	}
}

func (s *Service) resolveInto(loc string) step {
	return func(ctx context.Context, t *target) *Failure {
		res, err := s.resolver.Resolve(ctx, t.work, loc)
		if err != nil {
			return &Failure{Kind: KindStoreFailure, Reason: "could not resolve relationships", Err: err}
		}
		t.work = res.Tree
		return nil
	}
}

func (s *Service) applyPatch(patch diff.Patch) step {
	return func(_ context.Context, t *target) *Failure {
		out, err := merge.Apply(patch, t.work, s.excluded)
		if err != nil {
			return &Failure{Kind: KindTooDifferent, Reason: tooDifferent, Err: err}
		}
		t.work = out
		return nil
	}
}

// resolveBack points references at the target's own locale again.
func (s *Service) resolveBack(b *batch) step {
	return func(ctx context.Context, t *target) *Failure {
		res, err := s.resolver.Resolve(ctx, t.work, t.draft.WorkflowLocale())
		if err != nil {
			return &Failure{Kind: KindStoreFailure, Reason: "could not resolve relationships", Err: err}
		}
		b.warn(t.locale, res.Unresolved)
		t.work = res.Tree
		return nil
	}
}

func (s *Service) markExported(source string) step {
	return func(ctx context.Context, t *target) *Failure {
		now := s.now()
		d := document.New(t.work)
		d.MarkImportedFrom(source, now)
		d.SetSubmitted(document.Submission{Type: document.SubmittedExported, By: ActorFrom(ctx), At: now})
		return nil
	}
}

func (s *Service) persist(ctx context.Context, t *target) *Failure {
	if err := s.docs.Update(ctx, document.New(t.work)); err != nil {
		return &Failure{Kind: KindStoreFailure, Reason: "could not save draft", Err: err}
	}
	return nil
}
