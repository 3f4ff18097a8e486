package document

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/tree"
)

func TestAccessors(t *testing.T) {
	d, err := Parse(`{"_id":"d1","workflowGuid":"g","workflowLocale":"fr-draft","type":"page","title":"Accueil","trash":true}`)
	require.NoError(t, err)
	require.Equal(t, "d1", d.ID())
	require.Equal(t, "g", d.WorkflowGuid())
	require.Equal(t, "fr-draft", d.WorkflowLocale())
	require.Equal(t, "page", d.Type())
	require.Equal(t, "Accueil", d.Title())
	require.True(t, d.Trash())

	require.False(t, New(nil).Trash())
	require.True(t, New(tree.Array()).Tree().IsObject())
}

func TestImportedFrom(t *testing.T) {
	d := New(tree.Object())
	_, ok := d.ImportedFrom("en")
	require.False(t, ok)

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	d.MarkImportedFrom("en", at)
	got, ok := d.ImportedFrom("en")
	require.True(t, ok)
	require.True(t, got.Equal(at))

	// values read back from JSON are strings
	d2, err := Parse(`{"workflowImportedFrom":{"de":"2024-05-01T12:00:00Z"}}`)
	require.NoError(t, err)
	got, ok = d2.ImportedFrom("de")
	require.True(t, ok)
	require.True(t, got.Equal(at))
}

func TestSubmitted(t *testing.T) {
	d := New(nil)
	_, ok := d.Submitted()
	require.False(t, ok)
	d.SetSubmitted(Submission{Type: SubmittedExported})
	s, ok := d.Submitted()
	require.True(t, ok)
	require.Equal(t, SubmittedExported, s.Type)
	require.Empty(t, s.By)
}
