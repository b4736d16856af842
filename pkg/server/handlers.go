package server

import (
	"encoding/json"
	"net/http"

	errs "github.com/matzehuels/gcad/pkg/errors"
	"github.com/matzehuels/gcad/pkg/figure"
	"github.com/matzehuels/gcad/pkg/pipeline"
	"github.com/matzehuels/gcad/pkg/solve"
)

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.TimeoutMS < 0 {
		s.fail(w, errs.New(errs.ErrCodeInvalidInput, "timeout_ms must not be negative"))
		return
	}
	if err := s.validateFigure(req.Figure); err != nil {
		s.fail(w, err)
		return
	}

	opts := req.Options()
	opts.Logger = s.logger
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.fail(w, err)
		return
	}

	resp := SolveResponse{
		RunID:    res.RunID,
		Status:   solve.StatusSolved.String(),
		Solution: res.Solution,
		Cached:   res.CacheInfo.SolveHit,
	}
	for format, data := range res.Artifacts {
		if format == pipeline.FormatJSON {
			continue
		}
		if resp.Artifacts == nil {
			resp.Artifacts = make(map[string][]byte)
		}
		resp.Artifacts[format] = data
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.validateFigure(req.Figure); err != nil {
		s.fail(w, err)
		return
	}
	plan, err := s.runner.Plan(r.Context(), pipeline.Options{Figure: req.Figure, Root: req.Root})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NewOrderResponse(plan))
}

func (s *Server) handleRoots(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.validateFigure(req.Figure); err != nil {
		s.fail(w, err)
		return
	}
	roots, err := s.runner.Roots(r.Context(), pipeline.Options{Figure: req.Figure})
	if err != nil {
		s.fail(w, err)
		return
	}
	if roots == nil {
		roots = []string{}
	}
	writeJSON(w, http.StatusOK, RootsResponse{Roots: roots})
}

// decode reads a JSON body into v, rejecting unknown fields. It writes the
// error response and returns false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.fail(w, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request"))
		return false
	}
	return true
}

func (s *Server) validateFigure(doc *figure.Document) error {
	if doc == nil {
		return errs.New(errs.ErrCodeInvalidInput, "figure is required")
	}
	return doc.Validate()
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status, resp := errorResponse(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	} else {
		s.logger.Debug("request rejected", "code", resp.Code, "err", err)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
