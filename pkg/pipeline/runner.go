package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/gcad/pkg/cache"
	"github.com/matzehuels/gcad/pkg/constraint"
	gio "github.com/matzehuels/gcad/pkg/io"
	"github.com/matzehuels/gcad/pkg/observability"
	"github.com/matzehuels/gcad/pkg/order"
	"github.com/matzehuels/gcad/pkg/solve"
)

// Stage names reported to observability.PipelineHooks.
const (
	StageIndex    = "index"
	StageOrder    = "order"
	StageSolve    = "solve"
	StageValidate = "validate"
	StageRender   = "render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching and logging behave the same.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL for cached solutions and artifacts. Zero uses cache.DefaultTTL.
	TTL time.Duration

	// Progress, when set, receives stage events in addition to the global
	// pipeline hooks.
	Progress observability.PipelineHooks
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete index → order → solve → validate → render
// pipeline with caching. Solver failures keep their error codes.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result := &Result{RunID: uuid.NewString()}
	logger := r.Logger.With("run", result.RunID[:8])
	opts.Logger = opts.Logger.With("run", result.RunID[:8])

	// Stage 1: Index
	var err error
	result.Stats.IndexTime, err = r.stage(ctx, StageIndex, func() error {
		result.Index, result.FigureHash, err = IndexFigure(opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	result.Stats.PointCount = len(result.Index.Points())
	result.Stats.ConstraintCount = result.Index.Len()
	logger.Info("indexed figure",
		"points", result.Stats.PointCount,
		"constraints", result.Stats.ConstraintCount,
		"duration", result.Stats.IndexTime)

	// Stage 2: Order
	result.Stats.OrderTime, err = r.stage(ctx, StageOrder, func() error {
		result.Plan, err = Order(ctx, result.Index, opts.Root)
		return err
	})
	if err != nil {
		return nil, err
	}
	result.Stats.CheckCount = len(result.Plan.Checks)
	logger.Info("ordered points",
		"root", result.Plan.Root,
		"path", result.Plan.Path,
		"gauges", result.Plan.Gauges(),
		"checks", result.Stats.CheckCount,
		"duration", result.Stats.OrderTime)

	// Stage 3: Solve
	var hit bool
	result.Stats.SolveTime, err = r.stage(ctx, StageSolve, func() error {
		result.Solution, hit, err = r.SolveWithCacheInfo(ctx, result.Plan, result.FigureHash, opts)
		return err
	})
	if err != nil {
		logger.Warn("solve failed", "root", result.Plan.Root, "status", solve.StatusOf(err))
		return nil, err
	}
	result.Solution.Figure = opts.Figure.Name
	result.Solution.RunID = result.RunID
	result.CacheInfo.SolveHit = hit
	result.Stats.Steps = result.Solution.Steps
	result.Stats.Backtracks = result.Solution.Backtracks
	logger.Info("solved figure",
		"steps", result.Stats.Steps,
		"backtracks", result.Stats.Backtracks,
		"cached", hit,
		"duration", result.Stats.SolveTime)

	// Stage 4: Validate
	result.Stats.ValidateTime, err = r.stage(ctx, StageValidate, func() error {
		result.Violations, err = solve.Validate(result.Index, result.Solution.Positions())
		return err
	})
	if err != nil {
		return nil, err
	}
	result.Solution.Violations = gio.FromViolations(result.Violations)
	for _, v := range result.Violations {
		logger.Warn("constraint violated", "constraint", v.Constraint, "residual", v.Residual)
	}

	// Stage 5: Render
	result.Stats.RenderTime, err = r.stage(ctx, StageRender, func() error {
		result.Artifacts, result.CacheInfo.RenderHit, err = r.RenderWithCacheInfo(ctx, result, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"view", opts.View,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// IndexFigure resolves the figure's measures and returns its index and
// content hash.
func IndexFigure(opts Options) (*constraint.Index, string, error) {
	if opts.Figure == nil {
		return nil, "", fmt.Errorf("figure is required")
	}
	idx, err := opts.Figure.Index()
	if err != nil {
		return nil, "", err
	}
	data, err := opts.Figure.Canonical()
	if err != nil {
		return nil, "", fmt.Errorf("serialize figure for cache key: %w", err)
	}
	return idx, cache.Hash(data), nil
}

// Plan indexes and orders the figure without solving it.
func (r *Runner) Plan(ctx context.Context, opts Options) (*order.Plan, error) {
	if err := opts.ValidateForSolve(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	var idx *constraint.Index
	var err error
	if _, err = r.stage(ctx, StageIndex, func() error {
		idx, _, err = IndexFigure(opts)
		return err
	}); err != nil {
		return nil, err
	}

	var plan *order.Plan
	_, err = r.stage(ctx, StageOrder, func() error {
		plan, err = Order(ctx, idx, opts.Root)
		return err
	})
	return plan, err
}

// Roots lists the points from which the figure can be ordered.
func (r *Runner) Roots(ctx context.Context, opts Options) ([]string, error) {
	if err := opts.ValidateForSolve(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	idx, _, err := IndexFigure(opts)
	if err != nil {
		return nil, err
	}
	return order.CandidateRoots(idx)
}

// SolveWithCacheInfo solves plan with caching and returns cache hit info.
// A cached solution is used only if its fix order matches plan.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, plan *order.Plan, figureHash string, opts Options) (gio.Solution, bool, error) {
	if err := opts.ValidateForSolve(); err != nil {
		return gio.Solution{}, false, err
	}
	cacheKey := r.Keyer.SolutionKey(figureHash, plan.Root, opts.SolutionKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := gio.ReadJSON(bytes.NewReader(data))
			if err == nil && slices.Equal(cached.Path, plan.Path) {
				observability.Cache().OnCacheHit(ctx, "solution")
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "solution")
	}

	sol, err := Solve(ctx, plan, opts)
	if err != nil {
		return gio.Solution{}, false, err
	}
	out := gio.FromSolution(sol, nil)

	var buf bytes.Buffer
	if err := gio.WriteJSON(out, &buf); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, buf.Bytes(), r.ttl()); err != nil {
			r.Logger.Debug("cache set failed", "key", cacheKey, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "solution", buf.Len())
		}
	}
	return out, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. The JSON artifact embeds the run id and is never cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *Result, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if format == FormatJSON {
			missing = append(missing, format)
			continue
		}
		key := r.Keyer.ArtifactKey(res.FigureHash, res.Plan.Root, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	sub := opts
	sub.Formats = missing
	rendered, err := Render(res, sub)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		if format == FormatJSON {
			continue
		}
		key := r.Keyer.ArtifactKey(res.FigureHash, res.Plan.Root, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.ttl()); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.DefaultTTL
}

// stage times fn and reports it to the pipeline hooks.
func (r *Runner) stage(ctx context.Context, name string, fn func() error) (time.Duration, error) {
	hooks := []observability.PipelineHooks{observability.Pipeline()}
	if r.Progress != nil {
		hooks = append(hooks, r.Progress)
	}
	for _, h := range hooks {
		h.OnStageStart(ctx, name)
	}
	start := time.Now()
	err := fn()
	d := time.Since(start)
	for _, h := range hooks {
		h.OnStageComplete(ctx, name, d, err)
	}
	return d, err
}
