package progress

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/vytor/wortdrill/internal/models"
)

// SaveTestResult appends result to the log and returns it with its id and
// date filled in. Only the newest results are kept once the log is full.
func (s *Store) SaveTestResult(ctx context.Context, result models.TestResult) models.TestResult {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.Date.IsZero() {
		result.Date = s.now()
	}
	if result.Accuracy == 0 && result.Correct > 0 {
		result.Accuracy = accuracy(result.Correct, result.Total)
	}

	s.mutate(ctx, KeyTestResults, func(cur []byte, _ bool) ([]byte, error) {
		results, err := decodeTestResults(cur)
		if err != nil {
			recoverCorrupt(ctx, KeyTestResults, err)
			results = nil
		}
		results = append(results, result)
		if over := len(results) - s.maxTestResults; over > 0 {
			results = results[over:]
		}
		return json.Marshal(results)
	})
	return result
}

// TestResults returns the log oldest first.
func (s *Store) TestResults(ctx context.Context) []models.TestResult {
	raw, ok := s.read(ctx, KeyTestResults)
	if !ok {
		return []models.TestResult{}
	}
	results, err := decodeTestResults(raw)
	if err != nil {
		s.discard(ctx, KeyTestResults, err)
		return []models.TestResult{}
	}
	if results == nil {
		results = []models.TestResult{}
	}
	return results
}
