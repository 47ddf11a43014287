// Package grading checks submitted answers against the catalog, records
// them in the review ledger and classifies the mistakes.
package grading

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/abhisek/lexicon/internal/catalog"
)

var (
	// ErrItemNotFound is returned when the item does not exist or has no
	// text to compare against.
	ErrItemNotFound = errors.New("item not found")
	// ErrNotGradable is returned for groups, which have no single answer.
	ErrNotGradable = errors.New("item kind has no gradable answer")
)

// ItemRef names the item being answered.
type ItemRef struct {
	Kind catalog.Kind
	ID   int64
}

func (r ItemRef) String() string {
	return fmt.Sprintf("%s %d", r.Kind, r.ID)
}

// Normalize puts s in the form answers are compared in: NFC, trimmed,
// lower-cased.
func Normalize(s string) string {
	s = strings.TrimSpace(norm.NFC.String(s))
	return cases.Lower(language.Und).String(s)
}

// Matches reports whether submitted is the expected answer.
func Matches(expected, submitted string) bool {
	return Normalize(expected) == Normalize(submitted)
}

// CanonicalText returns the expected answer for an item. A compound's
// answer is its words' texts joined by spaces; missing words are skipped.
func CanonicalText(ctx context.Context, cat catalog.Catalog, ref ItemRef) (string, error) {
	var text string
	switch ref.Kind {
	case catalog.KindStandalone:
		s, err := cat.Standalone(ctx, ref.ID)
		if err != nil {
			return "", lookupErr(ref, err)
		}
		text = s.Text
	case catalog.KindCompound:
		c, err := cat.Compound(ctx, ref.ID)
		if err != nil {
			return "", lookupErr(ref, err)
		}
		words := make([]string, 0, len(c.WordIDs))
		for _, id := range c.WordIDs {
			w, err := cat.Standalone(ctx, id)
			if errors.Is(err, catalog.ErrNotFound) {
				continue
			}
			if err != nil {
				return "", fmt.Errorf("%s: word %d: %w", ref, id, err)
			}
			if t := strings.TrimSpace(w.Text); t != "" {
				words = append(words, t)
			}
		}
		text = strings.Join(words, " ")
	case catalog.KindGroup:
		return "", fmt.Errorf("%s: %w", ref, ErrNotGradable)
	default:
		return "", fmt.Errorf("%s: unknown item kind: %w", ref, ErrItemNotFound)
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s has no text: %w", ref, ErrItemNotFound)
	}
	return text, nil
}

func lookupErr(ref ItemRef, err error) error {
	if errors.Is(err, catalog.ErrNotFound) {
		return fmt.Errorf("%s: %w", ref, ErrItemNotFound)
	}
	return fmt.Errorf("%s: %w", ref, err)
}
