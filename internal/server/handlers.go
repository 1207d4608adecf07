package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/MIT-FutureTech/quantum-framework/internal/advantage"
	"github.com/MIT-FutureTech/quantum-framework/internal/expr"
	"github.com/MIT-FutureTech/quantum-framework/internal/roadmap"
)

// handleHealth responds to health check requests.
// It returns a 200 OK status with a JSON payload indicating the service is healthy.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: The HTTP request.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	response := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	}

	s.writeJSONResponse(w, http.StatusOK, response)
}

// handleProblems returns the catalog of problems and their algorithm
// variants as JSON.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: The HTTP request.
func (s *Server) handleProblems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	response := map[string]any{
		"keys":     s.catalog.Keys(),
		"problems": s.catalog.Problems(),
	}

	s.writeJSONResponse(w, http.StatusOK, response)
}

// handleCrossover processes crossover estimation requests. It decodes the
// JSON request body, resolves it against the catalog and the server
// defaults into a complete model, runs the calculation, and returns the
// report in JSON format.
//
// Parameters:
//   - w: The HTTP response writer.
//   - r: The HTTP request.
func (s *Server) handleCrossover(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	req, err := s.decodeCrossoverRequest(r)
	if err != nil {
		if reqErr, ok := err.(requestError); ok {
			s.writeErrorResponse(w, reqErr.statusCode, reqErr.message)
		} else {
			s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	model, err := s.buildModel(req)
	if err != nil {
		if reqErr, ok := err.(requestError); ok {
			s.writeErrorResponse(w, reqErr.statusCode, reqErr.message)
		} else {
			s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	// Create a context with timeout for the calculation
	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	svc := s.service
	if req.Curves {
		svc = s.curvesService
	}

	start := time.Now()
	report, err := svc.Crossover(ctx, model)
	duration := time.Since(start)

	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := CrossoverResponse{
		Problem:  req.Problem,
		Model:    model,
		Report:   report,
		Duration: duration.String(),
	}
	s.writeJSONResponse(w, http.StatusOK, resp)
}

// decodeCrossoverRequest reads and decodes the request body, enforcing the
// configured body size limit.
func (s *Server) decodeCrossoverRequest(r *http.Request) (*CrossoverRequest, error) {
	body := http.MaxBytesReader(nil, r.Body, s.securityConfig.MaxBodyBytes)
	defer body.Close()

	var req CrossoverRequest
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, badRequest(fmt.Sprintf("Invalid request body: %v", err))
	}
	return &req, nil
}

// buildModel resolves a request into a complete calculation model. Catalog
// defaults fill unset formula fields when a problem key is named; unset
// hardware parameters fall back to the server configuration.
//
// Parameters:
//   - req: The decoded request.
//
// Returns:
//   - *advantage.Model: The resolved model.
//   - error: A requestError when the request names an unknown problem or
//     leaves required formulas unset.
func (s *Server) buildModel(req *CrossoverRequest) (*advantage.Model, error) {
	m := &advantage.Model{
		ClassicalRuntime:     req.ClassicalRuntime,
		QuantumRuntime:       req.QuantumRuntime,
		ClassicalWork:        req.ClassicalWork,
		QuantumWork:          req.QuantumWork,
		Penalty:              req.Penalty,
		QubitMapping:         req.QubitMapping,
		Slowdown:             req.Slowdown,
		CostFactor:           req.CostFactor,
		Processors:           req.Processors,
		ImprovementRate:      req.ImprovementRate,
		CostImprovementRate:  req.CostImprovementRate,
		QubitImprovementRate: req.QubitImprovementRate,
		PhysicalLogicalRatio: req.PhysicalLogicalRatio,
		BaseYear:             req.BaseYear,
	}

	if req.Problem != "" {
		problem, ok := s.catalog.Problem(req.Problem)
		if !ok {
			return nil, badRequest(fmt.Sprintf("Unknown problem %q; see GET /problems", req.Problem))
		}
		classical, okC := problem.DefaultClassical()
		quantum, okQ := problem.DefaultQuantum()
		if !okC || !okQ {
			return nil, badRequest(fmt.Sprintf("Problem %q has no available algorithm pair", req.Problem))
		}
		if m.ClassicalRuntime == "" {
			m.ClassicalRuntime = classical.RuntimeFormula
		}
		if m.QuantumRuntime == "" {
			m.QuantumRuntime = quantum.RuntimeFormula
		}
		if m.ClassicalWork == "" {
			m.ClassicalWork = classical.WorkFormula
		}
		if m.QuantumWork == "" {
			m.QuantumWork = quantum.WorkFormula
		}
		if m.QubitMapping == "" {
			m.QubitMapping = problem.QubitMapping
		}
	}

	if m.ClassicalRuntime == "" || m.QuantumRuntime == "" {
		return nil, badRequest("Request must name a catalog problem or carry explicit runtime formulas")
	}
	if m.QubitMapping == "" {
		m.QubitMapping = "q"
	}
	if m.ClassicalWork == "" {
		m.ClassicalWork = expr.DeriveClassicalWork(m.ClassicalRuntime, true)
	}
	if m.QuantumWork == "" {
		m.QuantumWork = expr.DeriveQuantumWork(m.QuantumRuntime)
	}

	// Hardware defaults from the server configuration.
	if m.Slowdown == 0 {
		m.Slowdown = s.cfg.Slowdown
	}
	if m.CostFactor == 0 {
		m.CostFactor = s.cfg.CostFactor
	}
	if m.Processors == 0 {
		m.Processors = s.cfg.Processors
	}
	if m.PhysicalLogicalRatio == 0 {
		m.PhysicalLogicalRatio = s.cfg.Ratio
	}
	if m.BaseYear == 0 {
		m.BaseYear = s.cfg.BaseYear
	}

	if len(req.Roadmap) > 0 {
		law := roadmap.LawExponential
		if req.GrowthLaw != "" {
			parsed, err := roadmap.ParseGrowthLaw(req.GrowthLaw)
			if err != nil {
				return nil, badRequest(fmt.Sprintf("Invalid growth law %q", req.GrowthLaw))
			}
			law = parsed
		}
		projection, err := roadmap.New(req.Roadmap, law)
		if err != nil {
			return nil, badRequest(fmt.Sprintf("Invalid roadmap: %v", err))
		}
		m.Roadmap = projection
	}

	return m, nil
}

// writeJSONResponse helper function to write a JSON response with the correct content type.
//
// Parameters:
//   - w: The HTTP response writer.
//   - statusCode: The HTTP status code to write.
//   - data: The data to be encoded as JSON.
func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Printf("Error encoding JSON response: %v", err)
	}
}

// writeErrorResponse helper function to write a standardized error response.
//
// Parameters:
//   - w: The HTTP response writer.
//   - statusCode: The HTTP status code to write.
//   - message: The error message to be included in the response body.
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	errResp := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	s.writeJSONResponse(w, statusCode, errResp)
}
