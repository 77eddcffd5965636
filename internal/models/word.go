package models

// Word is one lexicon entry. Word is the raw annotated form, e.g. "der Tisch, -e".
type Word struct {
	Word     string `json:"word"`
	ZhCN     string `json:"zh_cn"`
	Phonetic string `json:"phonetic,omitempty"`
}

// ParsedWord is derived from a raw lexicon string and never persisted.
type ParsedWord struct {
	Word                     string  `json:"word"`
	Article                  string  `json:"article,omitempty"`
	Stem                     string  `json:"stem"`
	PluralAnnotation         string  `json:"plural_annotation,omitempty"`
	ForPronunciation         string  `json:"for_pronunciation"`
	SingularForPronunciation string  `json:"singular_for_pronunciation"`
	PluralForPronunciation   *string `json:"plural_for_pronunciation,omitempty"`
}

// HasPlural reports whether the word has a distinguishable plural form to drill.
func (p ParsedWord) HasPlural() bool {
	return p.PluralForPronunciation != nil
}

type AnswerResult struct {
	Word     string `json:"word"`
	Input    string `json:"input"`
	Correct  bool   `json:"correct"`
	Expected string `json:"expected"`
	FullForm string `json:"full_form"`
	ZhCN     string `json:"zh_cn"`
}
