package workflow

import (
	"errors"
	"fmt"

	"github.com/gogotex/gogotex/backend/go-workflow/internal/commit"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/document/repository"
	"github.com/gogotex/gogotex/backend/go-workflow/internal/merge"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrTooDifferent  = merge.ErrTooDifferent
	ErrStoreFailure  = errors.New("store failure")
	ErrUnknownLocale = errors.New("unknown locale")
	ErrNotDraft      = errors.New("document is not a draft")
)

// FailureKind classifies why a locale was not updated.
type FailureKind string

const (
	KindNotFound            FailureKind = "not_found"
	KindTooDifferent        FailureKind = "too_different"
	KindUnresolvedReference FailureKind = "unresolved_reference"
	KindStoreFailure        FailureKind = "store_failure"
	KindUnknownLocale       FailureKind = "unknown_locale"
)

func (k FailureKind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindTooDifferent:
		return ErrTooDifferent
	case KindStoreFailure:
		return ErrStoreFailure
	case KindUnknownLocale:
		return ErrUnknownLocale
	}
	return nil
}

// Failure is the outcome of one locale that was not updated, or a soft warning.
type Failure struct {
	Locale string      `json:"locale"`
	Kind   FailureKind `json:"kind"`
	Reason string      `json:"message"`
	Err    error       `json:"-"`
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Locale, f.Reason, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Locale, f.Reason)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (f *Failure) Unwrap() []error {
	var out []error
	if s := f.Kind.sentinel(); s != nil {
		out = append(out, s)
	}
	if f.Err != nil {
		out = append(out, f.Err)
	}
	return out
}

// Result reports a batch: every requested locale ends up in Succeeded or Failed, except
// the source locale, which is skipped. Warnings never fail a locale.
type Result struct {
	Succeeded []string  `json:"success"`
	Failed    []Failure `json:"errors"`
	Warnings  []Failure `json:"warnings,omitempty"`
}

// FailedLocale returns the failure recorded for locale.
func (r Result) FailedLocale(locale string) (Failure, bool) {
	for _, f := range r.Failed {
		if f.Locale == locale {
			return f, true
		}
	}
	return Failure{}, false
}

// storeErr maps repository errors onto the package sentinels.
func storeErr(what string, err error) error {
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, commit.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %w", what, ErrStoreFailure, err)
}
