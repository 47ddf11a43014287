// Package diagnosis classifies wrong answers into linguistic error
// categories using a language model, with a deterministic fallback when the
// model is unavailable.
package diagnosis

import "strings"

// Category is the kind of mistake a learner made.
type Category string

const (
	CategoryGrammar       Category = "grammar"
	CategorySemantic      Category = "semantic"
	CategoryLexicalChoice Category = "lexical-choice"
	CategorySpelling      Category = "spelling"
	CategorySyntax        Category = "syntax"
	CategoryIdiom         Category = "idiom"
	CategoryStylistic     Category = "stylistic"
	CategoryRegister      Category = "register"
	CategoryPartialAnswer Category = "partial-answer"
	CategoryNone          Category = "none"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryGrammar,
	CategorySemantic,
	CategoryLexicalChoice,
	CategorySpelling,
	CategorySyntax,
	CategoryIdiom,
	CategoryStylistic,
	CategoryRegister,
	CategoryPartialAnswer,
	CategoryNone,
}

var labels = map[Category]string{
	CategoryGrammar:       "Grammar Error",
	CategorySemantic:      "Semantic Error",
	CategoryLexicalChoice: "Lexical Choice Error",
	CategorySpelling:      "Spelling Error",
	CategorySyntax:        "Syntax Error",
	CategoryIdiom:         "Idiom Error",
	CategoryStylistic:     "Stylistic Error",
	CategoryRegister:      "Register Error",
	CategoryPartialAnswer: "Partial Answer",
	CategoryNone:          "No errors.",
}

// Label is the human-readable name, e.g. "Spelling Error".
func (c Category) Label() string {
	if l, ok := labels[c]; ok {
		return l
	}
	return string(c)
}

func (c Category) Valid() bool {
	_, ok := labels[c]
	return ok
}

// ParseCategory accepts a slug ("lexical-choice") or a display label
// ("Lexical Choice Error"), ignoring case and surrounding space.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	if c := Category(strings.ToLower(s)); c.Valid() {
		return c, true
	}
	for c, l := range labels {
		if strings.EqualFold(s, l) || strings.EqualFold(s, strings.TrimSuffix(l, ".")) {
			return c, true
		}
	}
	return "", false
}

func categoryEnum() []any {
	out := make([]any, len(Categories))
	for i, c := range Categories {
		out[i] = string(c)
	}
	return out
}
