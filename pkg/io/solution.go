package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/gcad/pkg/constraint"
	errs "github.com/matzehuels/gcad/pkg/errors"
	"github.com/matzehuels/gcad/pkg/geo"
	"github.com/matzehuels/gcad/pkg/solve"
)

// Solution is the serialized form of a solved figure.
type Solution struct {
	Figure     string      `json:"figure,omitempty"`
	RunID      string      `json:"run_id,omitempty"`
	Root       string      `json:"root"`
	Path       []string    `json:"path"`
	Points     []Point     `json:"points"`
	Steps      int         `json:"steps"`
	Backtracks int         `json:"backtracks,omitempty"`
	Violations []Violation `json:"violations,omitempty"`
}

// Point is one solved coordinate.
type Point struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Violation is a constraint the positions do not satisfy.
type Violation struct {
	ID         int     `json:"id"`
	Constraint string  `json:"constraint"`
	Residual   float64 `json:"residual"`
}

// FromSolution converts a search result. Points are listed in fix order.
func FromSolution(sol *solve.Solution, violations []solve.Violation) Solution {
	out := Solution{
		Root:       sol.Root,
		Path:       append([]string(nil), sol.Path...),
		Points:     make([]Point, 0, len(sol.Path)),
		Steps:      sol.Steps,
		Backtracks: sol.Backtracks,
	}
	for _, id := range sol.Path {
		v := sol.Positions[id]
		out.Points = append(out.Points, Point{ID: id, X: v.X, Y: v.Y})
	}
	out.Violations = FromViolations(violations)
	return out
}

// FromViolations converts validation results.
func FromViolations(violations []solve.Violation) []Violation {
	var out []Violation
	for _, v := range violations {
		out = append(out, Violation{
			ID:         int(v.ID),
			Constraint: v.Constraint.String(),
			Residual:   v.Residual,
		})
	}
	return out
}

// Positions returns the coordinates keyed by point id.
func (s Solution) Positions() constraint.Positions {
	pos := make(constraint.Positions, len(s.Points))
	for _, p := range s.Points {
		pos[p.ID] = geo.V(p.X, p.Y)
	}
	return pos
}

// WriteJSON encodes s as indented JSON and writes it to w.
// This format can be re-imported with [ReadJSON].
func WriteJSON(s Solution, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a solution from r.
//
// ReadJSON returns an error if:
//   - The JSON is malformed
//   - A point id is invalid or listed twice
//   - The path and the points disagree
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (Solution, error) {
	var s Solution
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Solution{}, fmt.Errorf("decode: %w", err)
	}

	seen := make(map[string]bool, len(s.Points))
	for _, p := range s.Points {
		if err := errs.ValidatePointID(p.ID); err != nil {
			return Solution{}, fmt.Errorf("point %s: %w", p.ID, err)
		}
		if seen[p.ID] {
			return Solution{}, errs.New(errs.ErrCodeInvalidFormat, "point %s listed twice", p.ID)
		}
		seen[p.ID] = true
	}
	if len(s.Path) != len(s.Points) {
		return Solution{}, errs.New(errs.ErrCodeInvalidFormat, "path has %d points, positions have %d", len(s.Path), len(s.Points))
	}
	for _, id := range s.Path {
		if !seen[id] {
			return Solution{}, errs.New(errs.ErrCodeInvalidFormat, "path point %s has no position", id)
		}
	}
	return s, nil
}

// ImportJSON reads a solution from the JSON file at path.
func ImportJSON(path string) (Solution, error) {
	f, err := os.Open(path)
	if err != nil {
		return Solution{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// ExportJSON writes s to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(s Solution, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(s, f)
}
