package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/domainguard/domainguard/internal/model"
	"github.com/domainguard/domainguard/internal/obs"
	"github.com/domainguard/domainguard/internal/scanner"
)

func init() {
	obs.TestInitLogger()
}

type fakeRunner struct {
	mxOnlyCalled bool
	results      []model.ScanResult
}

func (f *fakeRunner) AnalyzeDomain(context.Context, string, scanner.Options) []model.ScanResult {
	return f.results
}
func (f *fakeRunner) GetLiveMXDomains(context.Context, string, scanner.Options) []model.ScanResult {
	f.mxOnlyCalled = true
	return f.results
}

func TestScanMissingTarget(t *testing.T) {
	e := echo.New()
	h := NewHandler(&fakeRunner{}, nil)
	h.Register(e)

	req := httptest.NewRequest(http.MethodPost, "/scan", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rec.Code)
	}
}

func TestScanReturnsResults(t *testing.T) {
	e := echo.New()
	runner := &fakeRunner{results: []model.ScanResult{{Candidate: model.Candidate{FQDN: "evil.example.com"}}}}
	h := NewHandler(runner, nil)
	h.Register(e)

	req := httptest.NewRequest(http.MethodPost, "/scan", strings.NewReader(`{"target":"example.com"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "evil.example.com") {
		t.Fatalf("body missing expected result: %s", rec.Body.String())
	}
	if runner.mxOnlyCalled {
		t.Fatalf("expected AnalyzeDomain, not GetLiveMXDomains")
	}
}

func TestScanMxOnlyUsesLiveMxRoute(t *testing.T) {
	e := echo.New()
	runner := &fakeRunner{}
	h := NewHandler(runner, nil)
	h.Register(e)

	req := httptest.NewRequest(http.MethodPost, "/scan", strings.NewReader(`{"target":"example.com","mx_only":true}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	if !runner.mxOnlyCalled {
		t.Fatalf("expected GetLiveMXDomains to be called")
	}
}

func TestHistoryWithoutStoreReturns503(t *testing.T) {
	e := echo.New()
	h := NewHandler(&fakeRunner{}, nil)
	h.Register(e)

	req := httptest.NewRequest(http.MethodGet, "/history/example.com", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("got status %d, want 503", rec.Code)
	}
}
