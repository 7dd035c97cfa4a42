package frontend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/mikey/llm-scam-shield/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type HTTPFrontendTestSuite struct {
	suite.Suite
	repo     core.HistoryRepository
	frontend *HTTPFrontend
}

func (s *HTTPFrontendTestSuite) SetupTest() {
	repo := newMemoryHistory()
	s.T().Cleanup(repo.Stop)
	s.repo = repo
	s.frontend = NewHTTPFrontend(newRulesChecker(repo), validator.New(), "127.0.0.1:0", zap.NewNop())
}

func (s *HTTPFrontendTestSuite) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.frontend.Handler().ServeHTTP(rec, req)
	return rec
}

func (s *HTTPFrontendTestSuite) analyze(text string) core.AnalysisResult {
	payload, err := json.Marshal(map[string]string{"text": text})
	s.Require().NoError(err)

	rec := s.do(http.MethodPost, "/api/v1/analyze", string(payload))
	s.Require().Equal(http.StatusOK, rec.Code)

	var result core.AnalysisResult
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

func (s *HTTPFrontendTestSuite) TestHealth() {
	rec := s.do(http.MethodGet, "/health", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"status":"ok"`)
}

func (s *HTTPFrontendTestSuite) TestAnalyze() {
	result := s.analyze(grandparentText)
	s.Equal(core.RiskRed, result.RiskTier)
	s.Equal("Grandparent Scam", result.Category)
	s.Equal(core.ModelRules, result.ModelUsed)
	s.Equal(grandparentText, result.MessageFull)
	s.NotEmpty(result.ID)

	saved, err := s.repo.Get(context.Background(), result.ID)
	s.Require().NoError(err)
	s.Equal(result.Category, saved.Category)
}

func (s *HTTPFrontendTestSuite) TestAnalyzeEmptyText() {
	result := s.analyze("")
	s.Equal(core.RiskGreen, result.RiskTier)
	s.Equal(core.CategoryGeneral, result.Category)
}

func (s *HTTPFrontendTestSuite) TestAnalyzeRejectsBadInput() {
	tests := []struct {
		name string
		body string
	}{
		{name: "Missing text", body: `{}`},
		{name: "Malformed JSON", body: `{"text":`},
		{name: "Too long", body: `{"text":"` + strings.Repeat("a", 100001) + `"}`},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := s.do(http.MethodPost, "/api/v1/analyze", tt.body)
			s.Equal(http.StatusBadRequest, rec.Code)
		})
	}
}

func (s *HTTPFrontendTestSuite) TestHistoryRoutes() {
	first := s.analyze(amazonText)
	second := s.analyze(grandparentText)

	rec := s.do(http.MethodGet, "/api/v1/history?limit=1", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var listed []core.AnalysisResult
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &listed))
	s.Require().Len(listed, 1)
	s.Equal(second.ID, listed[0].ID)

	rec = s.do(http.MethodGet, "/api/v1/history/"+first.ID, "")
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/history/"+first.ID, "")
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/history/"+first.ID, "")
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/history/"+first.ID, "")
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/history?limit=zero", "")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func TestHTTPFrontendTestSuite(t *testing.T) {
	suite.Run(t, new(HTTPFrontendTestSuite))
}

func TestHTTPFrontend_HistoryDisabled(t *testing.T) {
	frontend := NewHTTPFrontend(newRulesChecker(nil), validator.New(), "127.0.0.1:0", zap.NewNop())

	for _, target := range []string{"/api/v1/history", "/api/v1/history/some-id"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		frontend.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, target)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(`{"text":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	frontend.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
