// Package commit stores the immutable record of a draft being committed to live.
package commit

import (
	"context"
	"errors"
	"time"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/tree"
)

var ErrNotFound = errors.New("commit not found")

// Commit records one commit of a draft. From is the live document before the commit,
// To the committed draft content. DocID is the committed draft's id and Locale the
// live locale the commit was made in.
type Commit struct {
	ID           string     `json:"_id"`
	WorkflowGuid string     `json:"workflowGuid"`
	DocID        string     `json:"docId"`
	Locale       string     `json:"locale"`
	From         *tree.Node `json:"from"`
	To           *tree.Node `json:"to"`
	CreatedAt    time.Time  `json:"createdAt"`
	CreatedBy    string     `json:"createdBy,omitempty"`
}

// Summary is the history listing form of a commit, without the document bodies.
type Summary struct {
	ID        string    `json:"_id"`
	DocID     string    `json:"docId"`
	Locale    string    `json:"locale"`
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy,omitempty"`
}

func (c *Commit) Summary() Summary {
	return Summary{ID: c.ID, DocID: c.DocID, Locale: c.Locale, CreatedAt: c.CreatedAt, CreatedBy: c.CreatedBy}
}

// Store persists commits. Commits are never updated once inserted.
type Store interface {
	Insert(ctx context.Context, c *Commit) error
	FindByID(ctx context.Context, id string) (*Commit, error)
	// FindLatestByDocID returns the newest commit of the draft with the given id.
	FindLatestByDocID(ctx context.Context, docID string) (*Commit, error)
	FindLatestByGuid(ctx context.Context, guid, locale string) (*Commit, error)
	// ListByDocID returns the commits of a draft, newest first.
	ListByDocID(ctx context.Context, docID string, limit int) ([]*Commit, error)
}
