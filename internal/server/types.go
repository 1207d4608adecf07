package server

import (
	"net/http"

	"github.com/MIT-FutureTech/quantum-framework/internal/advantage"
	"github.com/MIT-FutureTech/quantum-framework/internal/roadmap"
	"github.com/MIT-FutureTech/quantum-framework/internal/service"
)

// CrossoverRequest is the JSON body accepted by the crossover endpoint.
// A request either names a catalog problem, whose default variants supply
// the formulas, or carries the formulas explicitly; explicit fields always
// override the catalog defaults.
type CrossoverRequest struct {
	// Problem is an optional catalog problem key.
	Problem string `json:"problem,omitempty"`

	// Formula overrides, in engine notation over the variable n (and q for
	// the qubit mapping).
	ClassicalRuntime string `json:"classicalRuntime,omitempty"`
	QuantumRuntime   string `json:"quantumRuntime,omitempty"`
	ClassicalWork    string `json:"classicalWork,omitempty"`
	QuantumWork      string `json:"quantumWork,omitempty"`
	Penalty          string `json:"penalty,omitempty"`
	QubitMapping     string `json:"qubitMapping,omitempty"`

	// Hardware parameters. Zero values fall back to the server defaults.
	Slowdown             float64 `json:"slowdown,omitempty"`
	CostFactor           float64 `json:"costFactor,omitempty"`
	Processors           float64 `json:"processors,omitempty"`
	ImprovementRate      float64 `json:"improvementRate,omitempty"`
	CostImprovementRate  float64 `json:"costImprovementRate,omitempty"`
	QubitImprovementRate float64 `json:"qubitImprovementRate,omitempty"`
	PhysicalLogicalRatio float64 `json:"physicalLogicalRatio,omitempty"`
	BaseYear             int     `json:"baseYear,omitempty"`

	// Roadmap anchors enabling the feasibility projection. Optional.
	Roadmap   []roadmap.Anchor `json:"roadmap,omitempty"`
	GrowthLaw string           `json:"growthLaw,omitempty"`

	// Curves requests the sampled plot datasets alongside the crossovers.
	Curves bool `json:"curves,omitempty"`
}

// CrossoverResponse is the JSON response for a successful calculation.
type CrossoverResponse struct {
	// Problem echoes the catalog key the formulas came from, when one was
	// used.
	Problem string `json:"problem,omitempty"`
	// Model is the fully resolved model the calculation ran against.
	Model *advantage.Model `json:"model"`
	// Report carries the three crossover results and optional curves.
	Report *service.Report `json:"report"`
	// Duration is the formatted calculation time.
	Duration string `json:"duration"`
}

// ErrorResponse represents the standardized JSON response for an API error.
type ErrorResponse struct {
	// Error is the short error code or status text.
	Error string `json:"error"`
	// Message is a descriptive error message.
	Message string `json:"message,omitempty"`
}

// requestError represents a request assembly error with an HTTP status.
type requestError struct {
	message    string
	statusCode int
}

// Error implements the error interface.
func (e requestError) Error() string {
	return e.message
}

func badRequest(message string) requestError {
	return requestError{message: message, statusCode: http.StatusBadRequest}
}
