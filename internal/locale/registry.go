// Package locale holds the immutable table of locales a deployment publishes in.
// Every locale exists in two modes: live ("fr") and draft ("fr-draft").
package locale

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DraftSuffix marks the draft mode of a locale.
const DraftSuffix = "-draft"

// Locale is one entry of the locale tree.
type Locale struct {
	Name     string   `yaml:"name" json:"name"`
	Label    string   `yaml:"label,omitempty" json:"label,omitempty"`
	Private  bool     `yaml:"private,omitempty" json:"private,omitempty"`
	Children []Locale `yaml:"children,omitempty" json:"children,omitempty"`
}

// File is the on-disk YAML layout.
type File struct {
	Default string   `yaml:"defaultLocale"`
	Locales []Locale `yaml:"locales"`
}

// Registry is built once at startup and never mutated afterwards.
type Registry struct {
	byName map[string]Locale
	names  []string
	nested []Locale
	def    string
}

var ErrEmpty = errors.New("locale registry: no locales configured")

// New builds a registry from a nested locale tree. The default locale falls back to the
// first locale when empty.
func New(def string, locales []Locale) (*Registry, error) {
	r := &Registry{byName: map[string]Locale{}}
	var add func(ls []Locale) error
	add = func(ls []Locale) error {
		for _, l := range ls {
			name := strings.TrimSpace(l.Name)
			if name == "" {
				return fmt.Errorf("locale registry: empty locale name")
			}
			if strings.HasSuffix(name, DraftSuffix) {
				return fmt.Errorf("locale registry: %q must be a live locale name", name)
			}
			if _, dup := r.byName[name]; dup {
				return fmt.Errorf("locale registry: duplicate locale %q", name)
			}
			if l.Label == "" {
				l.Label = name
			}
			r.byName[name] = l
			r.names = append(r.names, name)
			if err := add(l.Children); err != nil {
				return err
			}
		}
		return nil
	}
	if err := add(locales); err != nil {
		return nil, err
	}
	if len(r.names) == 0 {
		return nil, ErrEmpty
	}
	r.nested = locales
	r.def = Liveify(def)
	if r.def == "" {
		r.def = r.names[0]
	}
	if _, ok := r.byName[r.def]; !ok {
		return nil, fmt.Errorf("locale registry: default locale %q is not configured", def)
	}
	return r, nil
}

// FromList builds a flat registry from names such as "en,fr,de".
func FromList(def string, list string) (*Registry, error) {
	var ls []Locale
	for _, n := range strings.Split(list, ",") {
		n = strings.TrimSpace(n)
		if n != "" {
			ls = append(ls, Locale{Name: n})
		}
	}
	return New(def, ls)
}

// Load reads a YAML locale file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read locale file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML locale data.
func Parse(data []byte) (*Registry, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode locale file: %w", err)
	}
	return New(f.Default, f.Locales)
}

// Has accepts live and draft names.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[Liveify(name)]
	return ok
}

// Names lists live locale names in declaration order (parents before children).
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Sorted lists live locale names alphabetically.
func (r *Registry) Sorted() []string {
	out := r.Names()
	sort.Strings(out)
	return out
}

// Label returns the display label of a locale in either mode.
func (r *Registry) Label(name string) string {
	if l, ok := r.byName[Liveify(name)]; ok {
		return l.Label
	}
	return name
}

// Nested returns the locale tree as configured.
func (r *Registry) Nested() []Locale { return r.nested }

// Default returns the default live locale.
func (r *Registry) Default() string { return r.def }

// IsDraft reports whether name is in draft mode.
func IsDraft(name string) bool { return strings.HasSuffix(name, DraftSuffix) }

// Draftify returns the draft mode of a locale; draft names pass through.
func Draftify(name string) string {
	if name == "" || IsDraft(name) {
		return name
	}
	return name + DraftSuffix
}

// Liveify returns the live mode of a locale; live names pass through.
func Liveify(name string) string {
	return strings.TrimSuffix(name, DraftSuffix)
}
