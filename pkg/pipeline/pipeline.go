// Package pipeline provides the solve pipeline shared by the CLI and the
// HTTP server.
//
// This package implements the complete index → order → solve → validate →
// render pipeline. By centralizing this logic, both entry points cache,
// log and report failures the same way.
//
// # Architecture
//
// The pipeline consists of five stages:
//
//  1. Index: resolve the figure's measures and build a constraint index
//  2. Order: compute the fix order and support sets from the root
//  3. Solve: search for coordinates (cached by figure hash and root)
//  4. Validate: re-evaluate every constraint against the coordinates
//  5. Render: encode the solution, the figure plot or the plan graph
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Figure:  doc,
//	    Formats: []string{"json", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gcad/pkg/cache"
	"github.com/matzehuels/gcad/pkg/constraint"
	errs "github.com/matzehuels/gcad/pkg/errors"
	"github.com/matzehuels/gcad/pkg/figure"
	gio "github.com/matzehuels/gcad/pkg/io"
	"github.com/matzehuels/gcad/pkg/order"
	"github.com/matzehuels/gcad/pkg/solve"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxSteps bounds the candidate placements of one search.
	DefaultMaxSteps = 1_000_000

	// DefaultTimeout bounds one search.
	DefaultTimeout = 30 * time.Second

	// DefaultSize is the default figure plot edge length in inches.
	DefaultSize = 6.0
)

// Views select what the image formats draw.
const (
	ViewFigure = "figure"
	ViewPlan   = "plan"
)

// DefaultView is the default image view.
const DefaultView = ViewFigure

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
}

// ValidViews is the set of supported views.
var ValidViews = map[string]bool{
	ViewFigure: true,
	ViewPlan:   true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the solve pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Figure is the document to solve.
	Figure *figure.Document `json:"figure"`

	// Solve options
	Root     string        `json:"root,omitempty"` // overrides Figure.Root
	MaxSteps int           `json:"max_steps,omitempty"`
	Timeout  time.Duration `json:"-"`
	Refresh  bool          `json:"refresh,omitempty"` // bypass the solution cache

	// Render options
	Formats  []string `json:"formats,omitempty"`
	View     string   `json:"view,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`  // plan view: support sets in labels
	NoLabels bool     `json:"no_labels,omitempty"` // figure view: hide point ids
	Size     float64  `json:"size,omitempty"`      // figure view: edge length in inches

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and API responses.
	RunID string

	// FigureHash is the content hash of the figure's canonical form.
	FigureHash string

	Index *constraint.Index
	Plan  *order.Plan

	// Solution is the solved figure in its serialized form.
	Solution gio.Solution

	// Violations lists constraints the solution misses by more than the
	// check tolerance. It is empty for a correct solve.
	Violations []solve.Violation

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PointCount      int
	ConstraintCount int
	CheckCount      int
	Steps           int
	Backtracks      int
	IndexTime       time.Duration
	OrderTime       time.Duration
	SolveTime       time.Duration
	ValidateTime    time.Duration
	RenderTime      time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SolveHit  bool // Whether the solution came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidInput, "invalid format: %q (must be one of: json, svg, png, pdf, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateView checks that a view is valid.
func ValidateView(view string) error {
	if !ValidViews[view] {
		return errs.New(errs.ErrCodeInvalidInput, "invalid view: %q (must be one of: figure, plan)", view)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForSolve(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForSolve checks required fields for solving and applies defaults.
func (o *Options) ValidateForSolve() error {
	if o.Figure == nil {
		return errs.New(errs.ErrCodeInvalidInput, "figure is required")
	}
	if o.Root == "" {
		o.Root = o.Figure.Root
	}
	if o.MaxSteps < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "max_steps must not be negative")
	}
	if o.MaxSteps == 0 {
		o.MaxSteps = DefaultMaxSteps
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.View == "" {
		o.View = DefaultView
	}
	if o.Size <= 0 {
		o.Size = DefaultSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateView(o.View); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	for _, f := range o.Formats {
		if f == FormatDOT && o.View != ViewPlan {
			return errs.New(errs.ErrCodeInvalidInput, "format dot requires view plan")
		}
	}
	return nil
}

// SolutionKeyOpts returns cache key options for solving.
func (o *Options) SolutionKeyOpts() cache.SolutionKeyOpts {
	return cache.SolutionKeyOpts{MaxSteps: o.MaxSteps}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Kind: o.View, Format: format}
	switch o.View {
	case ViewPlan:
		k.Labels = o.Detailed
	case ViewFigure:
		k.Width, k.Height = o.Size, o.Size
		k.Labels = !o.NoLabels
	}
	return k
}
