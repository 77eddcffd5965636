package progress

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vytor/wortdrill/internal/models"
)

// Every decoder accepts the current shape of its key plus the shapes older
// versions wrote. A value matching none of them is reported as corrupt.

var dayKeyRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func isNull(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func decodeLearned(raw []byte) ([]string, error) {
	if isNull(raw) {
		return nil, nil
	}

	var words []string
	if err := json.Unmarshal(raw, &words); err == nil {
		return dedupe(words), nil
	}

	// {"der Hund": true, ...}
	var legacy map[string]bool
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, fmt.Errorf("learnedWords: %w", err)
	}
	words = make([]string, 0, len(legacy))
	for w, ok := range legacy {
		if ok {
			words = append(words, w)
		}
	}
	sort.Strings(words)
	return words, nil
}

func dedupe(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := words[:0]
	for _, w := range words {
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

func decodeSelection(raw []byte) (models.Selection, error) {
	if isNull(raw) {
		return models.AllUnits(), nil
	}

	var ids []int
	if err := json.Unmarshal(raw, &ids); err == nil {
		return models.SpecificUnits(ids...), nil
	}

	// ["1", "2"]
	var legacy []string
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return models.AllUnits(), fmt.Errorf("selectedUnits: %w", err)
	}
	ids = make([]int, 0, len(legacy))
	for _, s := range legacy {
		id, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return models.AllUnits(), fmt.Errorf("selectedUnits: %q is not a unit id", s)
		}
		ids = append(ids, id)
	}
	return models.SpecificUnits(ids...), nil
}

// flexTime reads RFC 3339 strings, plain dates and millisecond epochs.
type flexTime struct {
	time.Time
}

func (f *flexTime) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				f.Time = t
				return nil
			}
		}
		return fmt.Errorf("unrecognised time %q", s)
	}
	var ms float64
	if err := json.Unmarshal(data, &ms); err != nil {
		return err
	}
	f.Time = time.UnixMilli(int64(ms)).UTC()
	return nil
}

type mistakeDoc struct {
	Word          string   `json:"word"`
	ZhCN          string   `json:"zh_cn"`
	Translation   string   `json:"translation"`
	WrongCount    *int     `json:"wrongCount"`
	Count         *int     `json:"count"`
	WrongAnswers  []string `json:"wrongAnswers"`
	Answers       []string `json:"answers"`
	LastWrongDate flexTime `json:"lastWrongDate"`
	LastWrong     flexTime `json:"lastWrong"`
	Date          flexTime `json:"date"`
}

func (d mistakeDoc) record(key string) models.MistakeRecord {
	r := models.MistakeRecord{
		Word:         d.Word,
		ZhCN:         d.ZhCN,
		WrongAnswers: d.WrongAnswers,
	}
	if r.Word == "" {
		r.Word = key
	}
	if r.ZhCN == "" {
		r.ZhCN = d.Translation
	}
	if r.WrongAnswers == nil {
		r.WrongAnswers = d.Answers
	}
	if r.WrongAnswers == nil {
		r.WrongAnswers = []string{}
	}

	switch {
	case d.WrongCount != nil:
		r.WrongCount = *d.WrongCount
	case d.Count != nil:
		r.WrongCount = *d.Count
	}
	if r.WrongCount < 1 {
		r.WrongCount = max(1, len(r.WrongAnswers))
	}

	for _, t := range []flexTime{d.LastWrongDate, d.LastWrong, d.Date} {
		if !t.IsZero() {
			r.LastWrongDate = t.Time
			break
		}
	}
	return r
}

// decodeMistakes returns the ledger keyed by word. Older versions stored a
// plain array of records.
func decodeMistakes(raw []byte) (map[string]models.MistakeRecord, error) {
	ledger := make(map[string]models.MistakeRecord)
	if isNull(raw) {
		return ledger, nil
	}

	var byWord map[string]mistakeDoc
	if err := json.Unmarshal(raw, &byWord); err == nil {
		for key, doc := range byWord {
			r := doc.record(key)
			if r.Word == "" {
				continue
			}
			ledger[r.Word] = r
		}
		return ledger, nil
	}

	var list []mistakeDoc
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("mistakes: %w", err)
	}
	for _, doc := range list {
		r := doc.record("")
		if r.Word == "" {
			continue
		}
		if prev, ok := ledger[r.Word]; ok {
			r.WrongCount += prev.WrongCount
			r.WrongAnswers = append(prev.WrongAnswers, r.WrongAnswers...)
			if prev.LastWrongDate.After(r.LastWrongDate) {
				r.LastWrongDate = prev.LastWrongDate
			}
		}
		ledger[r.Word] = r
	}
	return ledger, nil
}

func decodeStudyStats(raw []byte) (models.StudyStats, error) {
	stats := models.StudyStats{Days: make(map[string]models.DayStats)}
	if isNull(raw) {
		return stats, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return stats, fmt.Errorf("studyStats: %w", err)
	}

	if isStudyStatsObject(fields) {
		if err := json.Unmarshal(raw, &stats); err != nil {
			return models.StudyStats{Days: make(map[string]models.DayStats)}, fmt.Errorf("studyStats: %w", err)
		}
		if stats.Days == nil {
			stats.Days = make(map[string]models.DayStats)
		}
		return stats, nil
	}

	// {"2024-01-02": 12, ...}
	for key, value := range fields {
		if !dayKeyRe.MatchString(key) {
			continue
		}
		var n int
		if err := json.Unmarshal(value, &n); err != nil {
			return models.StudyStats{Days: make(map[string]models.DayStats)}, fmt.Errorf("studyStats: day %s: %w", key, err)
		}
		stats.Days[key] = models.DayStats{Count: n}
	}
	rebuildStreaks(&stats)
	return stats, nil
}

// isStudyStatsObject reports whether fields hold the structured shape, even
// one written before a field existed, rather than the flat per-day map.
func isStudyStatsObject(fields map[string]json.RawMessage) bool {
	for _, key := range []string{"days", "streak", "longestStreak", "lastActiveDate"} {
		if _, ok := fields[key]; ok {
			return true
		}
	}
	return false
}

// rebuildStreaks derives the streak fields from the day counters alone.
func rebuildStreaks(stats *models.StudyStats) {
	days := make([]string, 0, len(stats.Days))
	for d, c := range stats.Days {
		if c.Count > 0 {
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		return
	}
	sort.Strings(days)

	run := 1
	longest := 1
	for i := 1; i < len(days); i++ {
		if nextDay(days[i-1]) == days[i] {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	stats.Streak = run
	stats.LongestStreak = longest
	stats.LastActiveDate = days[len(days)-1]
}

func nextDay(day string) string {
	t, err := time.Parse(dayLayout, day)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, 1).Format(dayLayout)
}

type testResultDoc struct {
	ID        string   `json:"id"`
	Mode      string   `json:"mode"`
	Date      flexTime `json:"date"`
	Correct   int      `json:"correct"`
	Total     int      `json:"total"`
	Accuracy  *float64 `json:"accuracy"`
	TimeSpent int      `json:"timeSpent"`
}

func decodeTestResults(raw []byte) ([]models.TestResult, error) {
	if isNull(raw) {
		return nil, nil
	}
	var docs []testResultDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("testResults: %w", err)
	}

	results := make([]models.TestResult, 0, len(docs))
	for _, d := range docs {
		r := models.TestResult{
			ID:        d.ID,
			Mode:      d.Mode,
			Date:      d.Date.Time,
			Correct:   d.Correct,
			Total:     d.Total,
			TimeSpent: d.TimeSpent,
		}
		if d.Accuracy != nil {
			r.Accuracy = *d.Accuracy
		} else {
			r.Accuracy = accuracy(d.Correct, d.Total)
		}
		results = append(results, r)
	}
	return results, nil
}

func accuracy(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(correct)*1000/float64(total)) / 10
}
