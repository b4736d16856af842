// Package render draws ordering plans and solved figures.
//
// # Plan Graphs
//
// [PlanDOT] turns an [order.Plan] into a Graphviz digraph: one node per
// point in fix order and one edge from every earlier point that shares a
// supporting constraint with a later one. Edges carry the constraint ids;
// edges made only of check constraints are dashed, and points fixed with a
// gauge choice have dashed outlines. [RenderSVG] lays the graph out with
// Graphviz.
//
//	dot := render.PlanDOT(plan, render.PlanOptions{Detailed: true})
//	svg, err := render.RenderSVG(dot)
//
// # Figures
//
// [FigurePlot] builds a gonum plot of solved positions: distances as solid
// segments, angle arms dashed, collinear groups as one line and
// parallel/perpendicular segments in their own colors, with labelled points.
// [WriteFigure] encodes the plot as SVG, PNG or PDF.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Plan graphs use them for
// non-SVG output; figure plots encode every format natively.
package render
