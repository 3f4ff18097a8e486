package document

import (
	"time"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/tree"
)

// Field names shared by every document under workflow.
const (
	FieldID           = "_id"
	FieldGuid         = "workflowGuid"
	FieldLocale       = "workflowLocale"
	FieldSubmitted    = "workflowSubmitted"
	FieldImportedFrom = "workflowImportedFrom"
	FieldModified     = "workflowModified"
	FieldType         = "type"
	FieldTitle        = "title"
	FieldSlug         = "slug"
	FieldTrash        = "trash"
	FieldCreatedAt    = "createdAt"
	FieldUpdatedAt    = "updatedAt"
)

// Document is one locale copy (draft or live) of a logical document. All copies of the
// same logical document share WorkflowGuid and differ by ID.
type Document struct {
	root *tree.Node
}

// New wraps root, which must be an object. A nil root yields an empty document.
func New(root *tree.Node) *Document {
	if !root.IsObject() {
		root = tree.Object()
	}
	return &Document{root: root}
}

// Parse builds a document from JSON, mostly for tests and fixtures.
func Parse(s string) (*Document, error) {
	n, err := tree.Parse(s)
	if err != nil {
		return nil, err
	}
	return New(n), nil
}

// Tree exposes the underlying node. Mutations are visible to the document.
func (d *Document) Tree() *tree.Node { return d.root }

func (d *Document) Clone() *Document { return &Document{root: d.root.Clone()} }

func (d *Document) ID() string             { return d.root.GetString(FieldID) }
func (d *Document) WorkflowGuid() string   { return d.root.GetString(FieldGuid) }
func (d *Document) WorkflowLocale() string { return d.root.GetString(FieldLocale) }
func (d *Document) Type() string           { return d.root.GetString(FieldType) }
func (d *Document) Title() string          { return d.root.GetString(FieldTitle) }
func (d *Document) Slug() string           { return d.root.GetString(FieldSlug) }

func (d *Document) SetID(id string) { d.root.Set(FieldID, tree.String(id)) }

// Trash reports whether the document sits in the trash.
func (d *Document) Trash() bool {
	v, ok := d.root.Get(FieldTrash)
	if !ok {
		return false
	}
	b, _ := v.Scalar().(bool)
	return b
}

// ImportedFrom returns when content was last propagated into this copy from locale.
func (d *Document) ImportedFrom(locale string) (time.Time, bool) {
	m, ok := d.root.Get(FieldImportedFrom)
	if !ok {
		return time.Time{}, false
	}
	v, ok := m.Get(locale)
	if !ok {
		return time.Time{}, false
	}
	switch t := v.Scalar().(type) {
	case time.Time:
		return t, true
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		return parsed, err == nil
	}
	return time.Time{}, false
}

// MarkImportedFrom records a successful propagation from locale.
func (d *Document) MarkImportedFrom(locale string, at time.Time) {
	m, ok := d.root.Get(FieldImportedFrom)
	if !ok || !m.IsObject() {
		m = tree.Object()
		d.root.Set(FieldImportedFrom, m)
	}
	m.Set(locale, tree.Scalar(at.UTC()))
}

// Submission is the workflowSubmitted marker.
type Submission struct {
	Type string
	By   string
	At   time.Time
}

// Submission types.
const (
	SubmittedSubmit   = "submit"
	SubmittedExported = "exported"
)

func (s Submission) Node() *tree.Node {
	n := tree.Object()
	n.Set("type", tree.String(s.Type))
	if s.By != "" {
		n.Set("by", tree.String(s.By))
	}
	if !s.At.IsZero() {
		n.Set("at", tree.Scalar(s.At.UTC()))
	}
	return n
}

// Submitted returns the submission marker when present.
func (d *Document) Submitted() (Submission, bool) {
	n, ok := d.root.Get(FieldSubmitted)
	if !ok || !n.IsObject() {
		return Submission{}, false
	}
	s := Submission{Type: n.GetString("type"), By: n.GetString("by")}
	if at, ok := n.Get("at"); ok {
		s.At, _ = at.Scalar().(time.Time)
	}
	return s, true
}

func (d *Document) SetSubmitted(s Submission) { d.root.Set(FieldSubmitted, s.Node()) }
