package hierarchy

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator orders labels using the collation rules of a locale.
// The zero value uses the root (undetermined) locale.
type Collator struct {
	tag language.Tag
}

// NewCollator returns a collator for a BCP 47 locale such as "en" or "sv".
// An empty or malformed locale falls back to the root locale.
func NewCollator(locale string) Collator {
	if locale == "" {
		return Collator{tag: language.Und}
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return Collator{tag: language.Und}
	}
	return Collator{tag: tag}
}

// Locale returns the locale tag the collator sorts by.
func (c Collator) Locale() string {
	return c.tag.String()
}

// comparer builds a fresh collate.Collator. Those keep internal buffers and
// must not be shared between goroutines, so each build gets its own.
// Digit runs compare by value so "FCI 2" sorts before "FCI 10".
func (c Collator) comparer() func(a, b string) int {
	col := collate.New(c.tag, collate.Numeric)
	return col.CompareString
}
