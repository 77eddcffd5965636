// Package unit partitions the lexicon into fixed-size study units.
package unit

import (
	"fmt"
	"math"

	"github.com/vytor/wortdrill/internal/models"
)

// WordsPerUnit is the size of every unit except possibly the last.
const WordsPerUnit = 100

// CreateUnits partitions a lexicon of total words into contiguous units.
func CreateUnits(total int) []models.Unit {
	if total <= 0 {
		return []models.Unit{}
	}
	count := Count(total)
	units := make([]models.Unit, 0, count)
	for i := 0; i < count; i++ {
		start := i * WordsPerUnit
		end := min((i+1)*WordsPerUnit, total)
		units = append(units, models.Unit{
			ID:         i + 1,
			Name:       fmt.Sprintf("Unit %d", i+1),
			StartIndex: start,
			EndIndex:   end,
			TotalWords: end - start,
		})
	}
	return units
}

// Count returns the number of units for a lexicon of total words.
func Count(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + WordsPerUnit - 1) / WordsPerUnit
}

// Bounds returns the lexicon range of unitID. ok is false when the id is out of range.
func Bounds(total, unitID int) (start, end int, ok bool) {
	if unitID < 1 || unitID > Count(total) {
		return 0, 0, false
	}
	start = (unitID - 1) * WordsPerUnit
	end = min(start+WordsPerUnit, total)
	return start, end, true
}

// UnitWords returns the words of unitID, or an empty slice for an invalid id.
func UnitWords(words []models.Word, unitID int) []models.Word {
	start, end, ok := Bounds(len(words), unitID)
	if !ok {
		return []models.Word{}
	}
	return words[start:end:end]
}

// WordUnit returns the 1-based unit of the word at index.
func WordUnit(index int) int {
	return index/WordsPerUnit + 1
}

// Progress counts learned words in unitID. Percentage is 0 for an empty unit.
func Progress(unitID int, learned models.LearnedSet, words []models.Word) models.UnitProgress {
	unitWords := UnitWords(words, unitID)
	n := 0
	for _, w := range unitWords {
		if learned.Has(w.Word) {
			n++
		}
	}
	return models.UnitProgress{
		Learned:    n,
		Total:      len(unitWords),
		Percentage: Percentage(n, len(unitWords)),
	}
}

// Percentage returns round(100*part/total), or 0 when total is 0.
func Percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}

func AllProgress(learned models.LearnedSet, words []models.Word) []models.UnitWithProgress {
	units := CreateUnits(len(words))
	out := make([]models.UnitWithProgress, 0, len(units))
	for _, u := range units {
		out = append(out, models.UnitWithProgress{
			Unit:     u,
			Progress: Progress(u.ID, learned, words),
		})
	}
	return out
}

// FilterByUnits returns the words of the selected units in lexicon order.
func FilterByUnits(words []models.Word, sel models.Selection) []models.Word {
	if sel.IsAll() {
		return words
	}
	out := make([]models.Word, 0)
	for _, id := range sel.IDs() {
		if start, end, ok := Bounds(len(words), id); ok {
			out = append(out, words[start:end]...)
		}
	}
	return out
}

func UnitList(words []models.Word) []models.UnitSummary {
	units := CreateUnits(len(words))
	out := make([]models.UnitSummary, 0, len(units))
	for _, u := range units {
		out = append(out, models.UnitSummary{ID: u.ID, Name: u.Name, WordCount: u.TotalWords})
	}
	return out
}
