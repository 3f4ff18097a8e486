package repository

import (
	"context"
	"errors"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/document"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/tree"
)

var (
	ErrNotFound = errors.New("document not found")
)

// Repository stores draft and live locale copies of documents.
type Repository interface {
	FindByID(ctx context.Context, id string) (*document.Document, error)
	// FindByIDs returns the documents that exist; missing ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]*document.Document, error)
	FindByGuidAndLocale(ctx context.Context, guid, locale string) (*document.Document, error)
	// FindByGuids returns the copies of the given logical documents in locale, or in
	// every locale when locale is empty.
	FindByGuids(ctx context.Context, guids []string, locale string) ([]*document.Document, error)
	Insert(ctx context.Context, doc *document.Document) (string, error)
	// Update replaces the stored document with the same _id.
	Update(ctx context.Context, doc *document.Document) error
	SetField(ctx context.Context, id string, path tree.Path, value *tree.Node) error
	UnsetField(ctx context.Context, id string, path tree.Path) error
}
