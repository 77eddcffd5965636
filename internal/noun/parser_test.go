package noun_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wortdrill/internal/models"
	"github.com/vytor/wortdrill/internal/noun"
)

func TestParse_Forms(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		article  string
		stem     string
		singular string
		plural   string // empty means no plural
	}{
		{name: "no plural", raw: "der Tisch", article: "der", stem: "Tisch", singular: "Tisch"},
		{name: "full plural word", raw: "der Tisch, Tische", article: "der", stem: "Tisch", singular: "Tisch", plural: "Tische"},
		{name: "full plural with article", raw: "das Kind, die Kinder", article: "das", stem: "Kind", singular: "Kind", plural: "Kinder"},
		{name: "suffix", raw: "der Tisch, -e", article: "der", stem: "Tisch", singular: "Tisch", plural: "Tische"},
		{name: "longer suffix", raw: "die Lehrerin, -nen", article: "die", stem: "Lehrerin", singular: "Lehrerin", plural: "Lehrerinnen"},
		{name: "unchanged plural", raw: "der Lehrer, -", article: "der", stem: "Lehrer", singular: "Lehrer", plural: "Lehrer"},
		{name: "umlaut with suffix", raw: "das Haus, ¨er", article: "das", stem: "Haus", singular: "Haus", plural: "Häuser"},
		{name: "umlaut only", raw: "der Vater, ¨", article: "der", stem: "Vater", singular: "Vater", plural: "Väter"},
		{name: "quote umlaut", raw: `die Wand, "e`, article: "die", stem: "Wand", singular: "Wand", plural: "Wände"},
		{name: "dash umlaut", raw: "der Arzt, -¨e", article: "der", stem: "Arzt", singular: "Arzt", plural: "Ärzte"},
		{name: "latin ending um", raw: "das Museum, -en", article: "das", stem: "Museum", singular: "Museum", plural: "Museen"},
		{name: "latin ending a", raw: "die Firma, -en", article: "die", stem: "Firma", singular: "Firma", plural: "Firmen"},
		{name: "plain en suffix", raw: "die Frau, -en", article: "die", stem: "Frau", singular: "Frau", plural: "Frauen"},
		{name: "aside in stem", raw: "das Haus (Gebäude), ¨er", article: "das", stem: "Haus (Gebäude)", singular: "Haus", plural: "Häuser"},
		{name: "comma inside parenthetical aside", raw: "der Tisch (Möbel, Holz), -e", article: "der", stem: "Tisch (Möbel, Holz)", singular: "Tisch", plural: "Tische"},
		{name: "comma inside bracketed aside", raw: "die Bank [Sitz, Park], ¨e", article: "die", stem: "Bank [Sitz, Park]", singular: "Bank", plural: "Bänke"},
		{name: "comma inside aside without plural", raw: "der Ort (Stadt, Dorf)", article: "der", stem: "Ort (Stadt, Dorf)", singular: "Ort"},
		{name: "on ending takes plain suffix", raw: "die Station, -en", article: "die", stem: "Station", singular: "Station", plural: "Stationen"},
		{name: "aside as annotation", raw: "der Durst, (nur Sg.)", article: "der", stem: "Durst", singular: "Durst"},
		{name: "aside without comma", raw: "die Eltern (Pl.)", article: "die", stem: "Eltern (Pl.)", singular: "Eltern"},
		{name: "unparseable annotation", raw: "der Tisch, Pl.", article: "der", stem: "Tisch", singular: "Tisch"},
		{name: "empty annotation", raw: "der Tisch,", article: "der", stem: "Tisch", singular: "Tisch"},
		{name: "combined article", raw: "der/die Angestellte, -n", article: "der/die", stem: "Angestellte", singular: "Angestellte", plural: "Angestellten"},
		{name: "capitalized article", raw: "Das Buch, ¨er", article: "das", stem: "Buch", singular: "Buch", plural: "Bücher"},
		{name: "no article", raw: "gehen", stem: "gehen", singular: "gehen"},
		{name: "lone article is the stem", raw: "die", stem: "die", singular: "die"},
		{name: "extra whitespace", raw: "  der   Tisch ,  -e ", article: "der", stem: "Tisch", singular: "Tisch", plural: "Tische"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := noun.Parse(tt.raw)

			assert.Equal(t, tt.raw, parsed.Word)
			assert.Equal(t, tt.article, parsed.Article)
			assert.Equal(t, tt.stem, parsed.Stem)
			assert.Equal(t, tt.singular, parsed.SingularForPronunciation)
			assert.Equal(t, tt.singular, parsed.ForPronunciation, "singular governs correctness")
			if tt.plural == "" {
				assert.Nil(t, parsed.PluralForPronunciation)
				assert.False(t, parsed.HasPlural())
			} else {
				require.NotNil(t, parsed.PluralForPronunciation)
				assert.Equal(t, tt.plural, *parsed.PluralForPronunciation)
			}
		})
	}
}

func TestParse_ArticleNeverInPronunciation(t *testing.T) {
	for _, raw := range []string{"der Tisch", "die Frau, -en", "das Kind, die Kinder"} {
		parsed := noun.Parse(raw)
		assert.NotContains(t, parsed.SingularForPronunciation, parsed.Article+" ")
		if parsed.PluralForPronunciation != nil {
			assert.NotContains(t, *parsed.PluralForPronunciation, "die ")
		}
	}
}

func TestParse_EmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "\t\n"} {
		parsed := noun.Parse(raw)
		assert.Equal(t, models.ParsedWord{Word: raw}, parsed)
	}
}

func TestParse_Deterministic(t *testing.T) {
	raws := []string{"der Tisch, -e", "das Haus (Gebäude), ¨er", "", "die Firma, -en"}
	for _, raw := range raws {
		first := noun.Parse(raw)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, noun.Parse(raw))
		}
	}
}

func TestParse_NormalizesCombiningUmlauts(t *testing.T) {
	decomposed := "das Ma\u0308dchen, -"
	parsed := noun.Parse(decomposed)

	assert.Equal(t, "Mädchen", parsed.SingularForPronunciation)
	require.NotNil(t, parsed.PluralForPronunciation)
	assert.Equal(t, "Mädchen", *parsed.PluralForPronunciation)
}

func TestNewParser_CustomRules(t *testing.T) {
	replaceLast := noun.PluralRule{
		Name: "replace-last",
		Apply: func(singular, annotation string) (string, bool) {
			if annotation != "~en" {
				return "", false
			}
			return singular[:len(singular)-1] + "en", true
		},
	}
	p := noun.NewParser(append([]noun.PluralRule{replaceLast}, noun.DefaultRules()...)...)

	parsed := p.Parse("das Drama, ~en")
	require.NotNil(t, parsed.PluralForPronunciation)
	assert.Equal(t, "Dramen", *parsed.PluralForPronunciation)

	parsed = p.Parse("der Tisch, -e")
	require.NotNil(t, parsed.PluralForPronunciation)
	assert.Equal(t, "Tische", *parsed.PluralForPronunciation)
}

func TestCleanWord(t *testing.T) {
	assert.Equal(t, "Tisch", noun.CleanWord("der Tisch, -e"))
	assert.Equal(t, "Haus", noun.CleanWord("das Haus (Gebäude), ¨er"))
	assert.Equal(t, "", noun.CleanWord(""))
}
