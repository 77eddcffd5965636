package models

type Unit struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
	TotalWords int    `json:"total_words"`
}

type UnitProgress struct {
	Learned    int `json:"learned"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

type UnitWithProgress struct {
	Unit
	Progress UnitProgress `json:"progress"`
}

// UnitSummary is the compact form used by unit selectors.
type UnitSummary struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	WordCount int    `json:"word_count"`
}

// LearnedSet holds the words a user has marked as learned.
type LearnedSet map[string]struct{}

func NewLearnedSet(words ...string) LearnedSet {
	s := make(LearnedSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func (s LearnedSet) Has(word string) bool {
	_, ok := s[word]
	return ok
}
