// Package workflow propagates committed changes of a draft document to the drafts of
// the same logical document in other locales.
package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/commit"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/diff"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/document/repository"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/locale"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/preview"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/relationship"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/tree"
	"github.com/gogotex/gogotex/backend/go-workflow/pkg/logger"
)

// Resolver rewrites relationship ids toward a locale.
type Resolver interface {
	Resolve(ctx context.Context, root *tree.Node, locale string) (relationship.Result, error)
	Collect(root *tree.Node) []string
}

// Archiver keeps a durable snapshot of each commit.
type Archiver interface {
	Archive(ctx context.Context, c *commit.Commit) (string, error)
}

// Deps are the collaborators of a Service. Archive, Previews and Clock are optional.
type Deps struct {
	Docs         repository.Repository
	Commits      commit.Store
	Resolver     Resolver
	Locales      *locale.Registry
	Excluded     diff.Excluded
	Previews     *preview.Registry
	Archive      Archiver
	Clock        func() time.Time
	HistoryLimit int
}

type Service struct {
	docs     repository.Repository
	commits  commit.Store
	resolver Resolver
	locales  *locale.Registry
	excluded diff.Excluded
	previews *preview.Registry
	archive  Archiver
	now      func() time.Time
	history  int
	locks    guidLocks
	log      *logger.Logger
}

func New(d Deps) *Service {
	s := &Service{
		docs:     d.Docs,
		commits:  d.Commits,
		resolver: d.Resolver,
		locales:  d.Locales,
		excluded: d.Excluded,
		previews: d.Previews,
		archive:  d.Archive,
		now:      d.Clock,
		history:  d.HistoryLimit,
		locks:    guidLocks{m: map[string]*guidLock{}},
		log:      logger.With("workflow"),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.previews == nil {
		s.previews = preview.NewRegistry(d.Excluded)
	}
	if s.history <= 0 {
		s.history = 50
	}
	return s
}

// Locales exposes the registry the service validates against.
func (s *Service) Locales() *locale.Registry { return s.locales }

type actorKey struct{}

// WithActor attaches the acting user's name to ctx; it is recorded on commits and
// submissions.
func WithActor(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, actorKey{}, name)
}

// ActorFrom returns the name set by WithActor, or "".
func ActorFrom(ctx context.Context) string {
	name, _ := ctx.Value(actorKey{}).(string)
	return name
}

// guidLocks serializes work on the same logical document within this process.
type guidLocks struct {
	mu sync.Mutex
	m  map[string]*guidLock
}

type guidLock struct {
	mu   sync.Mutex
	refs int
}

func (g *guidLocks) lock(guid string) func() {
	g.mu.Lock()
	l, ok := g.m[guid]
	if !ok {
		l = &guidLock{}
		g.m[guid] = l
	}
	l.refs++
	g.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		g.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(g.m, guid)
		}
		g.mu.Unlock()
	}
}
