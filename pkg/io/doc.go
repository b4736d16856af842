// Package io provides JSON import and export for solved figures.
//
// # JSON Format
//
// A solution records the root, the fix order and one coordinate per point,
// listed in fix order:
//
//	{
//	  "figure": "right triangle",
//	  "root": "A",
//	  "path": ["A", "B", "C"],
//	  "points": [
//	    {"id": "A", "x": 0, "y": 0},
//	    {"id": "B", "x": 3, "y": 0},
//	    {"id": "C", "x": 0, "y": 4}
//	  ],
//	  "steps": 3
//	}
//
// Optional fields:
//   - run_id: identifier of the pipeline run that produced the solution
//   - backtracks: dead ends the search reached
//   - violations: constraints off by more than the check tolerance, with
//     their residuals
//
// # Import and Export
//
// [WriteJSON] and [ReadJSON] work on any io.Writer or io.Reader;
// [ExportJSON] and [ImportJSON] are file-based wrappers. [FromSolution]
// converts a search result and [Solution.Positions] converts back, so a
// solution can be exported, re-imported and validated against the same
// figure.
package io
