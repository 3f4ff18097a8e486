package locale

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const localesYAML = `
defaultLocale: en
locales:
  - name: en
    label: English
    children:
      - name: en-gb
        label: English (UK)
  - name: fr
    label: Français
  - name: de
`

func TestParseNestedLocales(t *testing.T) {
	r, err := Parse([]byte(localesYAML))
	require.NoError(t, err)
	require.Equal(t, []string{"en", "en-gb", "fr", "de"}, r.Names())
	require.Equal(t, []string{"de", "en", "en-gb", "fr"}, r.Sorted())
	require.Equal(t, "en", r.Default())
	require.Equal(t, "English (UK)", r.Label("en-gb-draft"))
	require.Equal(t, "de", r.Label("de"))
	require.Len(t, r.Nested(), 3)
	require.True(t, r.Has("fr-draft"))
	require.True(t, r.Has("fr"))
	require.False(t, r.Has("es"))
}

func TestLoadFromFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "locales.yaml")
	require.NoError(t, os.WriteFile(p, []byte(localesYAML), 0o644))
	r, err := Load(p)
	require.NoError(t, err)
	require.True(t, r.Has("en-gb"))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestRegistryValidation(t *testing.T) {
	_, err := New("", nil)
	require.ErrorIs(t, err, ErrEmpty)

	_, err = New("", []Locale{{Name: "en"}, {Name: "en"}})
	require.Error(t, err)

	_, err = New("", []Locale{{Name: "en-draft"}})
	require.Error(t, err)

	_, err = New("xx", []Locale{{Name: "en"}})
	require.Error(t, err)
}

func TestFromList(t *testing.T) {
	r, err := FromList("", " en, fr ,,de")
	require.NoError(t, err)
	require.Equal(t, []string{"en", "fr", "de"}, r.Names())
	require.Equal(t, "en", r.Default())

	r, err = FromList("fr-draft", "en,fr")
	require.NoError(t, err)
	require.Equal(t, "fr", r.Default())
}

func TestDraftifyLiveify(t *testing.T) {
	require.Equal(t, "fr-draft", Draftify("fr"))
	require.Equal(t, "fr-draft", Draftify("fr-draft"))
	require.Equal(t, "", Draftify(""))
	require.Equal(t, "fr", Liveify("fr-draft"))
	require.Equal(t, "fr", Liveify("fr"))
	require.True(t, IsDraft("en-gb-draft"))
	require.False(t, IsDraft("en-gb"))
}
