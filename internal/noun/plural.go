package noun

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// PluralRule turns a singular form and its plural annotation into the plural
// form. Apply reports false when the rule does not recognize the annotation.
type PluralRule struct {
	Name  string
	Apply func(singular, annotation string) (string, bool)
}

// DefaultRules is the rule table for the lexicon's annotation convention:
//
//	der Lehrer, -     -> Lehrer
//	das Haus, ¨er     -> Häuser   (also "er, -¨er, ¨-er)
//	das Museum, -en   -> Museen
//	der Tisch, -e     -> Tische
//	der Tisch, Tische -> Tische   (also "die Tische")
func DefaultRules() []PluralRule {
	return []PluralRule{
		{Name: "unchanged", Apply: unchangedPlural},
		{Name: "umlaut", Apply: umlautPlural},
		{Name: "latin", Apply: latinPlural},
		{Name: "suffix", Apply: suffixPlural},
		{Name: "full-word", Apply: fullWordPlural},
	}
}

func unchangedPlural(singular, annotation string) (string, bool) {
	switch annotation {
	case "-", "–", "=":
		return singular, true
	}
	return "", false
}

const umlautMarks = "¨\"'"

func umlautPlural(singular, annotation string) (string, bool) {
	rest := strings.TrimPrefix(annotation, "-")
	r, size := utf8.DecodeRuneInString(rest)
	if r == utf8.RuneError || !strings.ContainsRune(umlautMarks, r) {
		return "", false
	}
	suffix := strings.TrimPrefix(rest[size:], "-")
	if !isSuffix(suffix) {
		return "", false
	}
	return applyUmlaut(singular) + suffix, true
}

var latinEndings = []string{"um", "us", "a"}

func latinPlural(singular, annotation string) (string, bool) {
	if annotation != "-en" {
		return "", false
	}
	for _, ending := range latinEndings {
		if strings.HasSuffix(singular, ending) && len(singular) > len(ending)+1 {
			return strings.TrimSuffix(singular, ending) + "en", true
		}
	}
	return "", false
}

func suffixPlural(singular, annotation string) (string, bool) {
	suffix, ok := strings.CutPrefix(annotation, "-")
	if !ok || suffix == "" || !isSuffix(suffix) {
		return "", false
	}
	return singular + suffix, true
}

func fullWordPlural(_, annotation string) (string, bool) {
	word := annotation
	if rest, ok := cutPrefixFold(word, "die "); ok {
		word = strings.TrimSpace(rest)
	}
	r, _ := utf8.DecodeRuneInString(word)
	if !unicode.IsUpper(r) {
		return "", false
	}
	for _, c := range word {
		if !unicode.IsLetter(c) && c != '-' && c != ' ' {
			return "", false
		}
	}
	return word, true
}

func isSuffix(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) || unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

var umlauts = map[rune]rune{'a': 'ä', 'o': 'ö', 'u': 'ü', 'A': 'Ä', 'O': 'Ö', 'U': 'Ü'}

// applyUmlaut umlauts the last umlautable vowel of word; "au" becomes "äu".
// Words that already carry an umlaut in that position are returned unchanged.
func applyUmlaut(word string) string {
	runes := []rune(word)
	for i := len(runes) - 1; i >= 0; i-- {
		r := runes[i]
		if r == 'u' && i > 0 && (runes[i-1] == 'a' || runes[i-1] == 'A') {
			runes[i-1] = umlauts[runes[i-1]]
			return string(runes)
		}
		if u, ok := umlauts[r]; ok {
			runes[i] = u
			return string(runes)
		}
		if strings.ContainsRune("äöüÄÖÜ", r) {
			return word
		}
	}
	return word
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}
