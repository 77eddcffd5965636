// Package noun normalizes annotated German lexicon entries such as
// "der Tisch, -e" into the forms used for display, speech and answer checking.
package noun

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/vytor/wortdrill/internal/models"
)

var (
	articleRe = regexp.MustCompile(`(?i)^((?:der|die|das)(?:\s*/\s*(?:der|die|das))*)\s+`)
	asideRe   = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]`)
	spaceRe   = regexp.MustCompile(`\s+`)
)

// Parser resolves plural annotations through an ordered rule table.
type Parser struct {
	rules []PluralRule
}

// NewParser returns a Parser using rules in order. With no rules it uses DefaultRules.
func NewParser(rules ...PluralRule) *Parser {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Parser{rules: rules}
}

var defaultParser = NewParser()

// Parse normalizes raw with the default rule table.
func Parse(raw string) models.ParsedWord {
	return defaultParser.Parse(raw)
}

// Parse splits raw into article, stem and plural annotation and derives the
// pronunciation forms. Blank input yields a zero-valued ParsedWord.
func (p *Parser) Parse(raw string) models.ParsedWord {
	text := strings.TrimSpace(norm.NFC.String(raw))
	if text == "" {
		return models.ParsedWord{Word: raw}
	}

	parsed := models.ParsedWord{Word: raw}

	head, annotation, hasComma := cutAnnotation(text)
	head = strings.TrimSpace(head)
	if hasComma {
		parsed.PluralAnnotation = strings.TrimSpace(annotation)
	}

	if m := articleRe.FindStringSubmatchIndex(head); m != nil && m[1] < len(head) {
		parsed.Article = strings.ToLower(spaceRe.ReplaceAllString(head[m[2]:m[3]], ""))
		head = strings.TrimSpace(head[m[1]:])
	}

	parsed.Stem = head
	parsed.SingularForPronunciation = stripAsides(head)
	parsed.ForPronunciation = parsed.SingularForPronunciation

	if plural, ok := p.plural(parsed.SingularForPronunciation, parsed.PluralAnnotation); ok {
		parsed.PluralForPronunciation = &plural
	}
	return parsed
}

func (p *Parser) plural(singular, annotation string) (string, bool) {
	annotation = stripAsides(annotation)
	if annotation == "" || singular == "" {
		return "", false
	}
	for _, rule := range p.rules {
		if plural, ok := rule.Apply(singular, annotation); ok {
			plural = stripAsides(plural)
			if plural == "" {
				return "", false
			}
			return plural, true
		}
	}
	return "", false
}

// CleanWord returns the article-less singular form of raw, the key used for
// dictionary lookups.
func CleanWord(raw string) string {
	return Parse(raw).SingularForPronunciation
}

// cutAnnotation splits text at the first comma outside a (...) or [...]
// aside, so commas inside asides never start the plural annotation.
func cutAnnotation(text string) (head, annotation string, found bool) {
	depth := 0
	for i, r := range text {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				return text[:i], text[i+1:], true
			}
		}
	}
	return text, "", false
}

func stripAsides(s string) string {
	s = asideRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
