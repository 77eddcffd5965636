package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/wortdrill/internal/api"
	"github.com/vytor/wortdrill/internal/models"
	"github.com/vytor/wortdrill/internal/progress"
	"github.com/vytor/wortdrill/internal/repository/memory"
	"github.com/vytor/wortdrill/internal/services"
	"github.com/vytor/wortdrill/internal/testutil"
)

type APISuite struct {
	suite.Suite
	store   *progress.Store
	handler http.Handler
}

func (s *APISuite) SetupTest() {
	s.store = progress.New(memory.New())
	words := append([]models.Word{
		{Word: "der Tisch, -e", ZhCN: "桌子"},
		{Word: "die Lampe, -n", ZhCN: "灯"},
	}, testutil.Lexicon(150)...)

	lex := services.NewLexiconService(words, nil)
	stats := services.NewStatsService(lex, s.store, 5)
	s.T().Cleanup(stats.Close)

	srv := &api.Server{
		Lexicon:  lex,
		Quiz:     services.NewQuizService(lex, s.store),
		Stats:    stats,
		Progress: s.store,
	}
	s.handler = srv.Routes()
}

func (s *APISuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.T(), json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) decode(rec *httptest.ResponseRecorder, v any) {
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func (s *APISuite) errorCode(rec *httptest.ResponseRecorder) string {
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	s.decode(rec, &body)
	return body.Error.Code
}

func (s *APISuite) TestHealth() {
	rec := s.do(http.MethodGet, "/healthz", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("OK", rec.Body.String())
	s.Equal("nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func (s *APISuite) TestReady() {
	rec := s.do(http.MethodGet, "/readyz", nil)
	s.Equal(http.StatusOK, rec.Code)

	var body struct {
		Words      int  `json:"words"`
		Persistent bool `json:"persistent"`
	}
	s.decode(rec, &body)
	s.Equal(152, body.Words)
	s.True(body.Persistent)
}

func (s *APISuite) TestWordLookupAndParse() {
	path := "/api/words/" + url.PathEscape("der Tisch, -e")

	rec := s.do(http.MethodGet, path, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var w models.Word
	s.decode(rec, &w)
	s.Equal("桌子", w.ZhCN)

	rec = s.do(http.MethodGet, path+"/parsed", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var parsed models.ParsedWord
	s.decode(rec, &parsed)
	s.Equal("der", parsed.Article)
	s.Equal("Tisch", parsed.ForPronunciation)
	s.Require().NotNil(parsed.PluralForPronunciation)
	s.Equal("Tische", *parsed.PluralForPronunciation)
}

func (s *APISuite) TestUnknownWord() {
	rec := s.do(http.MethodGet, "/api/words/"+url.PathEscape("das Nichts"), nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("NOT_FOUND", s.errorCode(rec))
}

func (s *APISuite) TestSearch() {
	rec := s.do(http.MethodGet, "/api/words?q=lampe", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var words []models.Word
	s.decode(rec, &words)
	s.Require().Len(words, 1)
	s.Equal("die Lampe, -n", words[0].Word)

	rec = s.do(http.MethodGet, "/api/words?q=x&limit=abc", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestUnits() {
	rec := s.do(http.MethodGet, "/api/units", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var units []models.UnitWithProgress
	s.decode(rec, &units)
	s.Require().Len(units, 2)
	s.Equal(100, units[0].TotalWords)
	s.Equal(52, units[1].TotalWords)

	rec = s.do(http.MethodGet, "/api/units/2/words", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var words []models.Word
	s.decode(rec, &words)
	s.Len(words, 52)

	rec = s.do(http.MethodGet, "/api/units/9/words", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[]`, rec.Body.String())
}

func (s *APISuite) TestSelectionFlow() {
	rec := s.do(http.MethodGet, "/api/selection", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"all":true,"units":[]}`, rec.Body.String())

	rec = s.do(http.MethodPut, "/api/selection", map[string]any{"units": []int{2}})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"all":false,"units":[2]}`, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/selection/toggle/1", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"all":false,"units":[1,2]}`, rec.Body.String())

	rec = s.do(http.MethodPut, "/api/selection", map[string]any{"units": []int{7}})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_ERROR", s.errorCode(rec))

	rec = s.do(http.MethodPut, "/api/selection", map[string]any{"units": nil})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.True(s.store.SelectedUnits(s.T().Context()).IsAll())
}

func (s *APISuite) TestAnswerRecordsMistake() {
	rec := s.do(http.MethodPost, "/api/answers", map[string]string{"word": "der Tisch, -e", "input": " tisch "})
	s.Require().Equal(http.StatusOK, rec.Code)
	var result models.AnswerResult
	s.decode(rec, &result)
	s.True(result.Correct)

	rec = s.do(http.MethodPost, "/api/answers", map[string]string{"word": "der Tisch, -e", "input": "Tische"})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &result)
	s.False(result.Correct)
	s.Equal("Tisch", result.Expected)

	rec = s.do(http.MethodGet, "/api/mistakes", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var mistakes []models.MistakeRecord
	s.decode(rec, &mistakes)
	s.Require().Len(mistakes, 1)
	s.Equal([]string{"Tische"}, mistakes[0].WrongAnswers)

	rec = s.do(http.MethodDelete, "/api/mistakes/"+url.PathEscape("der Tisch, -e"), nil)
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodDelete, "/api/mistakes/"+url.PathEscape("der Tisch, -e"), nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestGiveUp() {
	rec := s.do(http.MethodPost, "/api/answers/give-up", map[string]string{"word": "die Lampe, -n"})
	s.Require().Equal(http.StatusOK, rec.Code)

	m, ok := s.store.Mistake(s.T().Context(), "die Lampe, -n")
	s.Require().True(ok)
	s.Equal([]string{services.GaveUpAnswer}, m.WrongAnswers)
}

func (s *APISuite) TestMarkLearned() {
	rec := s.do(http.MethodPost, "/api/learned", map[string]string{"word": "die Lampe, -n"})
	s.Require().Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/api/learned", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`["die Lampe, -n"]`, rec.Body.String())
}

func (s *APISuite) TestBadBody() {
	req := httptest.NewRequest(http.MethodPost, "/api/answers", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("BAD_REQUEST", s.errorCode(rec))

	req = httptest.NewRequest(http.MethodPost, "/api/answers", nil)
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestErrorCarriesRequestID() {
	req := httptest.NewRequest(http.MethodGet, "/api/words/"+url.PathEscape("das Nichts"), nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	s.Equal("req-42", rec.Header().Get("X-Request-ID"))
	s.JSONEq(`{"error":{"code":"NOT_FOUND","message":"word not found: das Nichts","request_id":"req-42"}}`, rec.Body.String())
}

func (s *APISuite) TestBodyTooLarge() {
	big := bytes.Repeat([]byte("a"), 2<<20)
	body := append(append([]byte(`{"word":"`), big...), []byte(`"}`)...)
	req := httptest.NewRequest(http.MethodPost, "/api/learned", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "too large")
}

func (s *APISuite) TestTestResults() {
	rec := s.do(http.MethodPost, "/api/test-results", map[string]any{"mode": "unit", "correct": 2, "total": 3, "timeSpent": 40})
	s.Require().Equal(http.StatusCreated, rec.Code)
	var saved models.TestResult
	s.decode(rec, &saved)
	s.NotEmpty(saved.ID)
	s.InDelta(66.7, saved.Accuracy, 0.001)

	rec = s.do(http.MethodPost, "/api/test-results", map[string]any{"correct": 4, "total": 3})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/test-results", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var results []models.TestResult
	s.decode(rec, &results)
	s.Len(results, 1)
}

func (s *APISuite) TestTestWords() {
	rec := s.do(http.MethodGet, "/api/test-words?count=5", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var words []models.Word
	s.decode(rec, &words)
	s.Len(words, 5)

	rec = s.do(http.MethodGet, "/api/test-words?unit=2&count=100", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &words)
	s.Len(words, 52)

	rec = s.do(http.MethodGet, "/api/test-words?count=nope", nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestStatsAndExport() {
	s.do(http.MethodPost, "/api/answers", map[string]string{"word": "der Tisch, -e", "input": "Tisch"})

	rec := s.do(http.MethodGet, "/api/stats", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var dash models.Dashboard
	s.decode(rec, &dash)
	s.Equal(1, dash.TodayCount)
	s.Equal(5, dash.DailyGoal)
	s.Equal(20, dash.GoalProgress)
	s.Equal(1, dash.Streak)

	rec = s.do(http.MethodGet, "/api/export", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Header().Get("Content-Disposition"), "attachment")
	var export map[string]json.RawMessage
	s.decode(rec, &export)
	s.Contains(export, progress.KeyStudyStats)
	s.NotContains(export, "__probe__")
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func TestServer_UnavailableStorageStillServes(t *testing.T) {
	store := progress.New(nil)
	lex := services.NewLexiconService([]models.Word{{Word: "der Tisch, -e", ZhCN: "桌子"}}, nil)
	stats := services.NewStatsService(lex, store, 0)
	defer stats.Close()

	srv := &api.Server{Lexicon: lex, Quiz: services.NewQuizService(lex, store), Stats: stats, Progress: store}
	h := srv.Routes()

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"persistent":false`)

	body := bytes.NewBufferString(`{"word":"der Tisch, -e","input":"Tisch"}`)
	req = httptest.NewRequest(http.MethodPost, "/api/answers", body)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"correct":true`)

	req = httptest.NewRequest(http.MethodGet, "/api/export", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "STORAGE_UNAVAILABLE")
}
