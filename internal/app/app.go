// Package app assembles the workflow service from configuration. It is shared by the
// HTTP server and the export CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/commit"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/config"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/database"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/diff"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/document/repository"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/identity"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/locale"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/preview"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/relationship"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/storage"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/workflow"
	"github.com/gogotex/gogotex/backend/go-workflow/pkg/logger"
)

// App holds the service and the clients it was built from. Nil clients mean the
// corresponding backend is not configured.
type App struct {
	Service *workflow.Service
	Docs    repository.Repository
	Commits commit.Store
	Mongo   *mongo.Client
	Redis   *redis.Client
	Archive *storage.CommitArchive
}

// Locales loads the locale registry from the YAML file when set, else from the list.
func Locales(cfg config.WorkflowConfig) (*locale.Registry, error) {
	if cfg.LocalesFile != "" {
		return locale.Load(cfg.LocalesFile)
	}
	return locale.FromList(cfg.DefaultLocale, cfg.Locales)
}

// Build connects to the configured backends. Mongo is required when MONGODB_URI is set;
// Redis and MinIO are optional and only logged when unreachable.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.With("app")
	reg, err := Locales(cfg.Workflow)
	if err != nil {
		return nil, fmt.Errorf("locales: %w", err)
	}
	a := &App{}

	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectMongoRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, time.Second)
		if err != nil {
			return nil, err
		}
		a.Mongo = client
		db := client.Database(cfg.MongoDB.Database)
		docs := repository.NewMongoRepo(db.Collection(cfg.Workflow.DocsCollection))
		commits := commit.NewMongoStore(db.Collection(cfg.Workflow.CommitsCollection))
		if err := docs.EnsureIndexes(ctx); err != nil {
			log.Warn("document indexes not created", "err", err)
		}
		if err := commits.EnsureIndexes(ctx); err != nil {
			log.Warn("commit indexes not created", "err", err)
		}
		a.Docs, a.Commits = docs, commits
	} else {
		a.Docs, a.Commits = repository.NewMemoryRepo(), commit.NewMemoryStore()
	}

	var ids identity.Map = identity.NewStoreMap(a.Docs)
	if addr := cfg.Redis.Addr(); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable; identity cache disabled", "addr", addr, "err", err)
			_ = client.Close()
		} else {
			a.Redis = client
			ids = identity.NewRedisCache(ids, client, "", cfg.Workflow.IdentityCacheTTL)
		}
	}

	exc := excluded(cfg.Workflow)
	deps := workflow.Deps{
		Docs:         a.Docs,
		Commits:      a.Commits,
		Resolver:     relationship.New(ids, matcher(cfg.Workflow)),
		Locales:      reg,
		Excluded:     exc,
		Previews:     previews(cfg.Workflow, exc),
		HistoryLimit: cfg.Workflow.HistoryLimit,
	}
	if cfg.Workflow.ArchiveCommits {
		mc := storage.MinIOConfig(cfg.MinIO)
		if mc.Enabled() {
			objects, err := storage.NewMinIOStorage(ctx, &mc)
			if err != nil {
				log.Warn("minio unavailable; commits are not archived", "err", err)
			} else {
				a.Archive = storage.NewCommitArchive(objects, "")
				deps.Archive = a.Archive
			}
		}
	}
	a.Service = workflow.New(deps)
	log.Info("workflow ready", "locales", reg.Names(), "mongo", a.Mongo != nil, "redis", a.Redis != nil, "archive", a.Archive != nil)
	return a, nil
}

// matcher builds the reference matcher, falling back to the defaults when no suffix is
// configured.
func matcher(cfg config.WorkflowConfig) relationship.Matcher {
	if len(cfg.RefSingleSuffixes)+len(cfg.RefManySuffixes)+len(cfg.RefMapSuffixes) == 0 {
		return nil
	}
	return relationship.SuffixMatcher{Single: cfg.RefSingleSuffixes, Many: cfg.RefManySuffixes, Map: cfg.RefMapSuffixes}
}

// previews renders the configured document types widget by widget; other types fall
// back to the modified-fields summary.
func previews(cfg config.WorkflowConfig, exc diff.Excluded) *preview.Registry {
	reg := preview.NewRegistry(exc)
	for _, t := range cfg.AreaPreviewTypes {
		reg.Register(t, preview.Widgets{Excluded: exc})
	}
	return reg
}

func excluded(cfg config.WorkflowConfig) diff.Excluded {
	if len(cfg.ExcludedProperties) == 0 {
		return diff.DefaultExcluded()
	}
	return diff.NewExcluded(cfg.ExcludedProperties...)
}

// Close releases the backend clients.
func (a *App) Close(ctx context.Context) {
	if a.Mongo != nil {
		_ = a.Mongo.Disconnect(ctx)
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
}
