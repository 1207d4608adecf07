package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MIT-FutureTech/quantum-framework/internal/advantage"
	"github.com/MIT-FutureTech/quantum-framework/internal/catalog"
	"github.com/MIT-FutureTech/quantum-framework/internal/config"
	"github.com/MIT-FutureTech/quantum-framework/internal/service"
)

// stubService is a canned Service implementation for handler tests.
type stubService struct {
	Report *service.Report
	Err    error
	// LastModel stores the model passed to Crossover for verification.
	LastModel *advantage.Model
}

// Crossover implements the service.Service interface returning predefined results.
func (s *stubService) Crossover(ctx context.Context, m *advantage.Model) (*service.Report, error) {
	s.LastModel = m
	return s.Report, s.Err
}

func stubReport() *service.Report {
	return &service.Report{
		Size:        advantage.FiniteResult(10),
		Cost:        advantage.NeverResult(),
		Feasibility: advantage.UndefinedResult(),
	}
}

// createTestServer initializes a server instance for testing with default configuration.
func createTestServer(t *testing.T, svc service.Service, opts ...Option) *Server {
	t.Helper()

	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("loading default catalog: %v", err)
	}
	cfg := config.AppConfig{
		Port:       "8080",
		Slowdown:   1e6,
		CostFactor: 1e6,
		Processors: 1,
		Ratio:      1000,
		BaseYear:   2026,
	}
	opts = append([]Option{WithService(svc)}, opts...)
	return NewServer(cat, cfg, opts...)
}

// postCrossover sends a crossover request body through the handler directly,
// bypassing the middleware chain.
func postCrossover(s *Server, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/crossover", strings.NewReader(body))
	rr := httptest.NewRecorder()
	s.handleCrossover(rr, req)
	return rr
}

// TestHandleCrossover verifies the behavior of the crossover endpoint.
// It tests successful calculations, request validation, and method checks.
func TestHandleCrossover(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "ExplicitFormulas",
			body: `{"classicalRuntime":"n^3","quantumRuntime":"n^2",
				"classicalWork":"n^3","quantumWork":"(n^2) * q","qubitMapping":"2^q"}`,
			expectedStatus: http.StatusOK,
			expectedBody:   `"size"`,
		},
		{
			name:           "CatalogProblem",
			body:           `{"problem":"integer-factoring"}`,
			expectedStatus: http.StatusOK,
			expectedBody:   `"integer-factoring"`,
		},
		{
			name:           "UnknownProblem",
			body:           `{"problem":"traveling-salesman"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Unknown problem",
		},
		{
			name:           "MissingFormulas",
			body:           `{"slowdown":1000}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "explicit runtime formulas",
		},
		{
			name:           "MalformedJSON",
			body:           `{"problem":`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid request body",
		},
		{
			name:           "UnknownField",
			body:           `{"problem":"integer-factoring","qubits":50}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid request body",
		},
		{
			name:           "BadGrowthLaw",
			body:           `{"problem":"integer-factoring","roadmap":[{"year":2026,"qubits":1000}],"growthLaw":"cubic"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid growth law",
		},
		{
			name:           "BadRoadmap",
			body:           `{"problem":"integer-factoring","roadmap":[{"year":2026,"qubits":-5}]}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid roadmap",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubService{Report: stubReport()}
			s := createTestServer(t, svc)

			rr := postCrossover(s, tc.body)

			if rr.Code != tc.expectedStatus {
				t.Errorf("expected status %d, got %d (body %s)", tc.expectedStatus, rr.Code, rr.Body.String())
			}
			if !strings.Contains(rr.Body.String(), tc.expectedBody) {
				t.Errorf("expected body to contain %q, got %s", tc.expectedBody, rr.Body.String())
			}
		})
	}
}

// TestHandleCrossoverMethodNotAllowed verifies that GET requests are rejected.
func TestHandleCrossoverMethodNotAllowed(t *testing.T) {
	s := createTestServer(t, &stubService{Report: stubReport()})

	req := httptest.NewRequest(http.MethodGet, "/crossover", nil)
	rr := httptest.NewRecorder()
	s.handleCrossover(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rr.Code)
	}
}

// TestBuildModelCatalogDefaults verifies that a problem key fills the
// formula fields and that unset hardware parameters fall back to the server
// configuration.
func TestBuildModelCatalogDefaults(t *testing.T) {
	svc := &stubService{Report: stubReport()}
	s := createTestServer(t, svc)

	rr := postCrossover(s, `{"problem":"integer-factoring","slowdown":42}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (body %s)", rr.Code, rr.Body.String())
	}

	m := svc.LastModel
	if m == nil {
		t.Fatal("service was not invoked")
	}
	if m.ClassicalRuntime == "" || m.QuantumRuntime == "" {
		t.Errorf("catalog formulas not applied: %+v", m)
	}
	if m.QubitMapping == "" {
		t.Error("qubit mapping not applied from catalog")
	}
	if m.Slowdown != 42 {
		t.Errorf("explicit slowdown not kept: got %g", m.Slowdown)
	}
	if m.CostFactor != 1e6 {
		t.Errorf("cost factor default not applied: got %g", m.CostFactor)
	}
	if m.Processors != 1 || m.PhysicalLogicalRatio != 1000 {
		t.Errorf("hardware defaults not applied: %+v", m)
	}
	if m.BaseYear != 2026 {
		t.Errorf("base year default not applied: got %d", m.BaseYear)
	}
	if m.Roadmap != nil {
		t.Error("roadmap should be nil when no anchors are sent")
	}
}

// TestBuildModelRoadmap verifies that roadmap anchors produce a projection.
func TestBuildModelRoadmap(t *testing.T) {
	svc := &stubService{Report: stubReport()}
	s := createTestServer(t, svc)

	body := `{"problem":"integer-factoring",
		"roadmap":[{"year":2024,"qubits":1000},{"year":2026,"qubits":4000}],
		"growthLaw":"exponential"}`
	rr := postCrossover(s, body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (body %s)", rr.Code, rr.Body.String())
	}

	if svc.LastModel == nil || svc.LastModel.Roadmap == nil {
		t.Fatal("roadmap projection missing from model")
	}
	first, last := svc.LastModel.Roadmap.Span()
	if first != 2024 || last != 2026 {
		t.Errorf("unexpected roadmap span %d-%d", first, last)
	}
}

// TestCurvesServiceSelection verifies that curve requests route to the
// curves service.
func TestCurvesServiceSelection(t *testing.T) {
	plain := &stubService{Report: stubReport()}
	curves := &stubService{Report: stubReport()}
	s := createTestServer(t, plain, WithCurvesService(curves))

	rr := postCrossover(s, `{"problem":"integer-factoring","curves":true}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	if curves.LastModel == nil {
		t.Error("curves service was not invoked")
	}
	if plain.LastModel != nil {
		t.Error("plain service should not handle curve requests")
	}
}

// TestBodySizeLimit verifies that oversized request bodies are rejected.
func TestBodySizeLimit(t *testing.T) {
	s := createTestServer(t, &stubService{Report: stubReport()}, WithMaxBodyBytes(64))

	body := `{"classicalRuntime":"` + strings.Repeat("n+", 200) + `n"}`
	rr := postCrossover(s, body)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

// TestHandleHealth verifies the health check endpoint.
func TestHandleHealth(t *testing.T) {
	s := createTestServer(t, &stubService{Report: stubReport()})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	s.handleHealth(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decoding health payload: %v", err)
	}
	if payload["status"] != "healthy" {
		t.Errorf("unexpected status field: %v", payload["status"])
	}
}

// TestHandleProblems verifies the catalog listing endpoint.
func TestHandleProblems(t *testing.T) {
	s := createTestServer(t, &stubService{Report: stubReport()})

	req := httptest.NewRequest(http.MethodGet, "/problems", nil)
	rr := httptest.NewRecorder()
	s.handleProblems(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var payload struct {
		Keys     []string          `json:"keys"`
		Problems []catalog.Problem `json:"problems"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decoding problems payload: %v", err)
	}
	if len(payload.Keys) == 0 || len(payload.Problems) == 0 {
		t.Error("expected a non-empty catalog")
	}
	found := false
	for _, k := range payload.Keys {
		if k == "integer-factoring" {
			found = true
		}
	}
	if !found {
		t.Errorf("integer-factoring missing from keys %v", payload.Keys)
	}
}
