package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"phishguard/internal/analyzer"
	"phishguard/internal/handlers"

	"github.com/gin-gonic/gin"
)

type stubEngine struct {
	verdict analyzer.Verdict
	err     error
	lastURL string
	lastNav analyzer.NavigationContext
}

func (s *stubEngine) Evaluate(ctx context.Context, rawURL string, nav analyzer.NavigationContext) (analyzer.Verdict, error) {
	s.lastURL = rawURL
	s.lastNav = nav
	return s.verdict, s.err
}

type stubSink struct {
	id     int64
	err    error
	called bool
}

func (s *stubSink) LogVerdict(ctx context.Context, userID *string, url string, totalScore int, status string, reasons []string) (int64, error) {
	s.called = true
	return s.id, s.err
}

func newRiskRouter(engine *stubEngine, sink *stubSink) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/risk/evaluate", handlers.NewRiskHandler(engine, sink).Evaluate)
	return r
}

func postEvaluate(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/risk/evaluate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestEvaluateHappyPath(t *testing.T) {
	engine := &stubEngine{verdict: analyzer.Verdict{
		TotalScore:    11,
		RiskPercent:   28,
		SafetyPercent: 72,
		Status:        analyzer.StatusSuspicious,
		Reasons:       []string{"No HTTPS detected", "Suspicious keywords in URL"},
	}}
	sink := &stubSink{id: 77}
	r := newRiskRouter(engine, sink)

	w := postEvaluate(t, r, `{"url":"http://example.com/confirm","context":{"redirected":true}}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if engine.lastURL != "http://example.com/confirm" || !engine.lastNav.Redirected {
		t.Errorf("engine saw url=%q nav=%+v", engine.lastURL, engine.lastNav)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["urlId"] != float64(77) || resp["totalScore"] != float64(11) || resp["status"] != "suspicious" {
		t.Errorf("unexpected response: %v", resp)
	}
	if resp["riskPercent"] != float64(28) || resp["safetyPercent"] != float64(72) {
		t.Errorf("unexpected percentages: %v", resp)
	}
}

func TestEvaluateMissingURL(t *testing.T) {
	engine := &stubEngine{}
	sink := &stubSink{}
	r := newRiskRouter(engine, sink)

	w := postEvaluate(t, r, `{"context":{"redirected":true}}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if engine.lastURL != "" {
		t.Error("engine must not run without a url")
	}
	if sink.called {
		t.Error("sink must not be called on validation failure")
	}
}

func TestEvaluateMalformedBody(t *testing.T) {
	r := newRiskRouter(&stubEngine{}, &stubSink{})

	w := postEvaluate(t, r, `{"url": 12`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestEvaluateInvalidURLFromEngine(t *testing.T) {
	engine := &stubEngine{err: analyzer.ErrInvalidURL}
	sink := &stubSink{}
	r := newRiskRouter(engine, sink)

	w := postEvaluate(t, r, `{"url":"://bad"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if sink.called {
		t.Error("sink must not be called for an invalid url")
	}
}

func TestEvaluateOverload(t *testing.T) {
	r := newRiskRouter(&stubEngine{err: analyzer.ErrOverloaded}, &stubSink{})

	w := postEvaluate(t, r, `{"url":"https://example.com"}`)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "capacity") {
		t.Errorf("expected capacity message, got %s", w.Body.String())
	}
}

func TestEvaluateSinkFailure(t *testing.T) {
	engine := &stubEngine{verdict: analyzer.Verdict{Status: analyzer.StatusSafe, Reasons: []string{}}}
	sink := &stubSink{err: errors.New("connection reset")}
	r := newRiskRouter(engine, sink)

	w := postEvaluate(t, r, `{"url":"https://example.com"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "could not be recorded") {
		t.Errorf("expected distinct persistence error, got %s", w.Body.String())
	}
}
