// Package pkg provides the libraries behind gcad, a solver for 2D figures
// described by geometric constraints.
//
// # Overview
//
// A figure names points and the relations between them: distances, angles,
// collinear groups, parallel and perpendicular segments. gcad orders the
// points so each one can be placed from the ones before it, then intersects
// the loci each constraint allows to find concrete coordinates. The pkg
// directory is organized into these areas:
//
//  1. [geo] - Vectors, loci (lines, circles, continua) and their intersections
//  2. [constraint] - Constraint kinds, the constraint index, positions
//  3. [order] - Support sets and the fix order (the plan)
//  4. [solve] - Backtracking placement and residual validation
//  5. [figure] - TOML/YAML/JSON figure documents and equal-measure resolution
//  6. [pipeline] - Orchestration (index → order → solve → validate → render)
//
// # Architecture
//
// The data flow through gcad:
//
//	Figure document (TOML, YAML, JSON)
//	         ↓
//	    [figure] package (decode, resolve measures)
//	         ↓
//	    [constraint] package (index of points and constraints)
//	         ↓
//	    [order] package (plan: fix order + support sets)
//	         ↓
//	    [solve] package (positions)
//	         ↓
//	    [render] / [io] (SVG, PNG, PDF, DOT, JSON)
//
// # Quick Start
//
// Solve a figure file and draw it:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/gcad/pkg/figure"
//	    "github.com/matzehuels/gcad/pkg/render"
//	    "github.com/matzehuels/gcad/pkg/solve"
//	)
//
//	doc, _ := figure.Load("triangle.toml")
//	idx, _ := doc.Index()
//	sol, _, _ := solve.SolveIndex(context.Background(), idx, doc.Root, solve.Options{})
//	svg, _ := render.RenderFigure(idx, sol.Positions, "svg", render.FigureOptions{})
//
// # Main Packages
//
// ## Core Domain Logic
//
// [geo] - Plane geometry on float64 vectors. A locus is where a point may lie
// given the points already fixed; [geo.Meet] intersects loci, and a
// continuum stands for a whole line or circle when a constraint leaves a
// point free.
//
// [constraint] - The constraint kinds and the [constraint.Index] that maps
// points to the constraints touching them. Each kind reports the locus it
// allows for one of its points once the others are placed.
//
// [order] - Builds a [order.Plan] from a root point: which point is fixed
// next, which constraints support it, and which constraints only check the
// result. Failure to reach every point is reported as underconstrained.
//
// [solve] - Walks the plan, choosing among locus intersections and
// backtracking on dead ends. [solve.Validate] measures the residual of every
// constraint against a finished solution.
//
// ## Input and Output
//
// [figure] - Figure documents and their codecs.
//
// [io] - The JSON solution document shared by the CLI and HTTP API.
//
// [render] - Plan graphs through Graphviz and figure plots through gonum/plot.
//
// ## Infrastructure
//
// [pipeline] - The staged run used by the CLI and the HTTP server, with
// content-addressed caching of solutions and artifacts.
//
// [cache] - File, Redis, MongoDB and null cache backends plus key derivation.
//
// [observability] - Hook interfaces for solver, pipeline, cache and HTTP
// events; [observability/prom] exports them as Prometheus metrics.
//
// [server] - The HTTP API and its retrying client.
//
// [errors] - Coded errors and input validation.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...             # All tests
//	go test ./pkg/solve/...       # Specific package
//	go test -run Example ./pkg/...  # Examples only
//
// [geo]: https://pkg.go.dev/github.com/matzehuels/gcad/pkg/geo
// [constraint]: https://pkg.go.dev/github.com/matzehuels/gcad/pkg/constraint
// [order]: https://pkg.go.dev/github.com/matzehuels/gcad/pkg/order
// [solve]: https://pkg.go.dev/github.com/matzehuels/gcad/pkg/solve
// [figure]: https://pkg.go.dev/github.com/matzehuels/gcad/pkg/figure
// [io]: https://pkg.go.dev/github.com/matzehuels/gcad/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/gcad/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/gcad/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/gcad/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/gcad/pkg/observability
// [observability/prom]: https://pkg.go.dev/github.com/matzehuels/gcad/pkg/observability/prom
// [server]: https://pkg.go.dev/github.com/matzehuels/gcad/pkg/server
// [errors]: https://pkg.go.dev/github.com/matzehuels/gcad/pkg/errors
package pkg
