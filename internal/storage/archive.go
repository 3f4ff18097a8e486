package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/commit"
)

var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is the subset of MinIOStorage the archive needs.
type ObjectStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// CommitArchive writes a JSON snapshot of every commit to object storage, keyed
// "<prefix>/<workflowGuid>/<commitID>.json".
type CommitArchive struct {
	store  ObjectStore
	prefix string
}

func NewCommitArchive(store ObjectStore, prefix string) *CommitArchive {
	if prefix == "" {
		prefix = "commits"
	}
	return &CommitArchive{store: store, prefix: prefix}
}

func (a *CommitArchive) Key(guid, commitID string) string {
	return path.Join(a.prefix, guid, commitID+".json")
}

// Archive uploads the snapshot and returns its key.
func (a *CommitArchive) Archive(ctx context.Context, c *commit.Commit) (string, error) {
	body, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode commit %s: %w", c.ID, err)
	}
	key := a.Key(c.WorkflowGuid, c.ID)
	if err := a.store.Put(ctx, key, bytes.NewReader(body), int64(len(body)), "application/json"); err != nil {
		return "", fmt.Errorf("archive commit %s: %w", c.ID, err)
	}
	return key, nil
}

// Load reads an archived snapshot back.
func (a *CommitArchive) Load(ctx context.Context, guid, commitID string) (*commit.Commit, error) {
	rc, err := a.store.Get(ctx, a.Key(guid, commitID))
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	var c commit.Commit
	if err := json.NewDecoder(rc).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode commit %s: %w", commitID, err)
	}
	return &c, nil
}
