package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/commit"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/diff"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/document"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/locale"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/tree"
)

// GetLive returns the live copy of guid in locale. With resolveToDraft the references
// are rewritten to point at drafts of the same locale.
func (s *Service) GetLive(ctx context.Context, guid, loc string, resolveToDraft bool) (*document.Document, error) {
	live := locale.Liveify(loc)
	if !s.locales.Has(live) {
		return nil, fmt.Errorf("get live %s: %w", loc, ErrUnknownLocale)
	}
	doc, err := s.docs.FindByGuidAndLocale(ctx, guid, live)
	if err != nil {
		return nil, storeErr("load live "+live, err)
	}
	if !resolveToDraft {
		return doc, nil
	}
	resolved, _, err := s.ResolveRelationships(ctx, doc, locale.Draftify(live))
	return resolved, err
}

// Submit flags drafts as ready for review. Ids are processed in order and the first
// error stops the run.
func (s *Service) Submit(ctx context.Context, ids []string) error {
	sub := document.Submission{Type: document.SubmittedSubmit, By: ActorFrom(ctx), At: s.now()}
	for _, id := range ids {
		if err := s.docs.SetField(ctx, id, tree.P(document.FieldSubmitted), sub.Node()); err != nil {
			return storeErr("submit "+id, err)
		}
	}
	return nil
}

// Dismiss clears the submission flag of a draft.
func (s *Service) Dismiss(ctx context.Context, id string) error {
	if err := s.docs.UnsetField(ctx, id, tree.P(document.FieldSubmitted)); err != nil {
		return storeErr("dismiss "+id, err)
	}
	return nil
}

// History lists the commits of a draft, newest first.
func (s *Service) History(ctx context.Context, docID string) ([]commit.Summary, error) {
	cs, err := s.commits.ListByDocID(ctx, docID, s.history)
	if err != nil {
		return nil, storeErr("history "+docID, err)
	}
	out := make([]commit.Summary, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Summary())
	}
	return out, nil
}

// GetCommit looks up a single commit.
func (s *Service) GetCommit(ctx context.Context, id string) (*commit.Commit, error) {
	c, err := s.commits.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("load commit "+id, err)
	}
	return c, nil
}

// RelatedUnexported finds documents referenced by a commit that have not reached every
// export locale yet, and returns the ids of their latest commits so they can be
// exported alongside.
func (s *Service) RelatedUnexported(ctx context.Context, commitID string, exportLocales []string) ([]string, error) {
	c, err := s.commits.FindByID(ctx, commitID)
	if err != nil {
		return nil, storeErr("load commit "+commitID, err)
	}
	refs := s.resolver.Collect(c.To)
	if len(refs) == 0 {
		return []string{}, nil
	}
	related, err := s.docs.FindByIDs(ctx, refs)
	if err != nil {
		return nil, storeErr("load related", err)
	}

	wanted := map[string]struct{}{}
	for _, l := range exportLocales {
		wanted[locale.Liveify(l)] = struct{}{}
	}
	source := locale.Liveify(c.Locale)

	var guids []string
	idOf := map[string]string{}
	for _, d := range related {
		g := d.WorkflowGuid()
		if g == "" {
			continue
		}
		if _, ok := idOf[g]; !ok {
			guids = append(guids, g)
			idOf[g] = d.ID()
		}
	}
	if len(guids) == 0 {
		return []string{}, nil
	}
	copies, err := s.docs.FindByGuids(ctx, guids, "")
	if err != nil {
		return nil, storeErr("load localizations", err)
	}
	present := map[string]int{}
	for _, d := range copies {
		if !locale.IsDraft(d.WorkflowLocale()) {
			continue
		}
		if _, ok := wanted[locale.Liveify(d.WorkflowLocale())]; !ok {
			continue
		}
		if _, imported := d.ImportedFrom(source); imported || !d.Trash() {
			present[d.WorkflowGuid()]++
		}
	}

	out := []string{}
	for _, g := range guids {
		if present[g] == len(wanted) {
			continue
		}
		latest, err := s.commits.FindLatestByDocID(ctx, idOf[g])
		if err != nil {
			if errors.Is(err, commit.ErrNotFound) {
				continue
			}
			return nil, storeErr("latest commit of "+idOf[g], err)
		}
		out = append(out, latest.ID)
	}
	return out, nil
}

// PreviewDiff is the patch a draft or commit would carry, for display.
type PreviewDiff struct {
	DocID          string     `json:"docId"`
	CommitID       string     `json:"commitId,omitempty"`
	Patch          diff.Patch `json:"patch"`
	ModifiedFields []string   `json:"modifiedFields"`
}

// DiffForPreview computes the pending changes of a draft against its live copy, or,
// when commitID is set, the changes recorded by that commit. References on the live
// side are compared in draft form.
func (s *Service) DiffForPreview(ctx context.Context, docID, commitID string) (*PreviewDiff, error) {
	from, to, err := s.previewSides(ctx, docID, commitID)
	if err != nil {
		return nil, err
	}
	if docID == "" {
		docID = to.GetString(document.FieldID)
	}
	patch := s.Diff(from, to)
	return &PreviewDiff{DocID: docID, CommitID: commitID, Patch: patch, ModifiedFields: patch.ModifiedFields()}, nil
}

// ModifiedFields lists the root fields a draft changes relative to live.
func (s *Service) ModifiedFields(ctx context.Context, docID string) ([]string, error) {
	d, err := s.DiffForPreview(ctx, docID, "")
	if err != nil {
		return nil, err
	}
	return d.ModifiedFields, nil
}

// Preview renders a commit with the previewer registered for its document type.
func (s *Service) Preview(ctx context.Context, commitID string) (string, error) {
	c, err := s.commits.FindByID(ctx, commitID)
	if err != nil {
		return "", storeErr("load commit "+commitID, err)
	}
	return s.previews.Render(c.To.Type(), c.From, c.To)
}

// PreviewDraft renders the pending changes of a draft.
func (s *Service) PreviewDraft(ctx context.Context, draftID string) (string, error) {
	from, to, err := s.previewSides(ctx, draftID, "")
	if err != nil {
		return "", err
	}
	return s.previews.Render(to.Type(), from, to)
}

func (s *Service) previewSides(ctx context.Context, docID, commitID string) (from, to *tree.Node, err error) {
	if commitID != "" {
		c, err := s.commits.FindByID(ctx, commitID)
		if err != nil {
			return nil, nil, storeErr("load commit "+commitID, err)
		}
		res, err := s.resolver.Resolve(ctx, c.From, locale.Draftify(c.Locale))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
		}
		return res.Tree, c.To, nil
	}

	draft, err := s.docs.FindByID(ctx, docID)
	if err != nil {
		return nil, nil, storeErr("load draft "+docID, err)
	}
	if !locale.IsDraft(draft.WorkflowLocale()) {
		return nil, nil, fmt.Errorf("preview %s: %w", docID, ErrNotDraft)
	}
	live, err := s.docs.FindByGuidAndLocale(ctx, draft.WorkflowGuid(), locale.Liveify(draft.WorkflowLocale()))
	if err != nil {
		return nil, nil, storeErr("load live", err)
	}
	resolved, _, err := s.ResolveRelationships(ctx, live, draft.WorkflowLocale())
	if err != nil {
		return nil, nil, err
	}
	return resolved.Tree(), draft.Tree(), nil
}
