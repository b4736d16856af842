package server

import (
	"errors"
	"net/http"
	"time"

	errs "github.com/matzehuels/gcad/pkg/errors"
	"github.com/matzehuels/gcad/pkg/figure"
	gio "github.com/matzehuels/gcad/pkg/io"
	"github.com/matzehuels/gcad/pkg/order"
	"github.com/matzehuels/gcad/pkg/pipeline"
	"github.com/matzehuels/gcad/pkg/solve"
)

// SolveRequest is the body of POST /v1/solve.
type SolveRequest struct {
	Figure    *figure.Document `json:"figure"`
	Root      string           `json:"root,omitempty"`
	MaxSteps  int              `json:"max_steps,omitempty"`
	TimeoutMS int              `json:"timeout_ms,omitempty"`
	Refresh   bool             `json:"refresh,omitempty"`
	Formats   []string         `json:"formats,omitempty"`
	View      string           `json:"view,omitempty"`
	Detailed  bool             `json:"detailed,omitempty"`
	NoLabels  bool             `json:"no_labels,omitempty"`
	Size      float64          `json:"size,omitempty"`
}

// Options converts the request into pipeline options.
func (r SolveRequest) Options() pipeline.Options {
	return pipeline.Options{
		Figure:   r.Figure,
		Root:     r.Root,
		MaxSteps: r.MaxSteps,
		Timeout:  time.Duration(r.TimeoutMS) * time.Millisecond,
		Refresh:  r.Refresh,
		Formats:  r.Formats,
		View:     r.View,
		Detailed: r.Detailed,
		NoLabels: r.NoLabels,
		Size:     r.Size,
	}
}

// SolveResponse is the body of a successful solve.
// Artifacts excludes the json format, which is the Solution field itself.
type SolveResponse struct {
	RunID     string            `json:"run_id"`
	Status    string            `json:"status"`
	Solution  gio.Solution      `json:"solution"`
	Artifacts map[string][]byte `json:"artifacts,omitempty"`
	Cached    bool              `json:"cached"`
}

// OrderRequest is the body of POST /v1/order and POST /v1/roots.
type OrderRequest struct {
	Figure *figure.Document `json:"figure"`
	Root   string           `json:"root,omitempty"`
}

// OrderResponse describes a plan.
type OrderResponse struct {
	Root    string              `json:"root"`
	Path    []string            `json:"path"`
	Gauges  []string            `json:"gauges"` // root first
	Checks  []int               `json:"checks,omitempty"`
	Support map[string][]string `json:"support"`
	Edges   []Edge              `json:"edges"`
}

// Edge is a dependency edge of a plan.
type Edge struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Constraints []int  `json:"constraints"`
	Check       bool   `json:"check,omitempty"`
}

// NewOrderResponse converts a plan.
func NewOrderResponse(p *order.Plan) OrderResponse {
	out := OrderResponse{
		Root:    p.Root,
		Path:    p.Path,
		Gauges:  p.Gauges(),
		Support: make(map[string][]string, len(p.Path)),
		Edges:   []Edge{},
	}
	for _, id := range p.Checks {
		out.Checks = append(out.Checks, int(id))
	}
	for _, pt := range p.Path {
		var items []string
		for _, s := range p.Support[pt].Items() {
			items = append(items, s.String())
		}
		out.Support[pt] = items
	}
	for _, e := range p.Graph() {
		ids := make([]int, len(e.Constraints))
		for i, id := range e.Constraints {
			ids[i] = int(id)
		}
		out.Edges = append(out.Edges, Edge{From: e.From, To: e.To, Constraints: ids, Check: e.Check})
	}
	return out
}

// RootsResponse is the body of a successful roots request.
type RootsResponse struct {
	Roots []string `json:"roots"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Status  string    `json:"status"`
	Code    errs.Code `json:"code,omitempty"`
	Error   string    `json:"error"`
	Stalled *Stalled  `json:"stalled,omitempty"`
}

// Stalled reports where ordering stopped for an underconstrained figure.
type Stalled struct {
	Root    string   `json:"root"`
	Path    []string `json:"path"`
	Last    string   `json:"last"`
	Unfixed []string `json:"unfixed"`
}

func errorResponse(err error) (int, ErrorResponse) {
	resp := ErrorResponse{
		Status: solve.StatusOf(err).String(),
		Code:   errs.GetCode(err),
		Error:  errs.UserMessage(err),
	}
	var se *errs.StalledError
	if errors.As(err, &se) {
		resp.Stalled = &Stalled{Root: se.Root, Path: se.Path, Last: se.Last, Unfixed: se.Unfixed}
	}
	return httpStatus(resp.Code), resp
}

// httpStatus maps an error code to a response status.
func httpStatus(code errs.Code) int {
	switch code {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidFigure, errs.ErrCodeInvalidFormat,
		errs.ErrCodeUnknownPoint, errs.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errs.ErrCodeUnderconstrained, errs.ErrCodeOverconstrained, errs.ErrCodeUnsupportedLocus:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errs.ErrCodeNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
