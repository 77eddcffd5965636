package noun

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Check reports whether input matches the canonical (singular, article-less)
// form of the raw lexicon word. Both sides are trimmed and lower-cased; there is
// no partial credit or fuzzy matching. An empty canonical form never matches.
func Check(input, raw string) bool {
	want := normalizeAnswer(Parse(raw).ForPronunciation)
	if want == "" {
		return false
	}
	return normalizeAnswer(input) == want
}

func normalizeAnswer(s string) string {
	return cases.Lower(language.German).String(strings.TrimSpace(norm.NFC.String(s)))
}
