// Package figure reads figure documents and turns them into constraint
// indexes.
//
// A figure document lists point ids and measured relations between them.
// The same schema decodes from TOML, YAML or JSON; [Load] picks the codec
// from the file extension:
//
//	name = "right triangle"
//	root = "A"
//	angle_unit = "deg"
//
//	[[distance]]
//	points = ["A", "B"]
//	length = 3
//
//	[[distance]]
//	points = ["A", "C"]
//
//	[[angle]]
//	points = ["B", "A", "C"]
//	measure = 90
//
//	[[equal]]
//	distances = [["A", "C"], ["C", "D"]]
//	value = 4
//
// # Measures
//
// A distance or angle may omit its measure when an equal group supplies one.
// [Document.Resolve] runs the assignment step: every element of a group with
// a value receives that value, and groups without a value adopt the measure
// of any member that already has one. Resolution repeats until nothing
// changes, so chains of groups sharing an element propagate. Two different
// measures reaching the same element, or an element left without a measure,
// fail with ErrCodeInvalidFigure.
//
// Distances are keyed by their unordered endpoints and angles by their
// vertex plus unordered arms, so "AB" and "BA" name the same element.
//
// # Index
//
// [Document.Index] resolves measures and builds a fresh [constraint.Index].
// Points are registered in document order: the explicit points list first,
// then points as they appear in distances and angles, then collinear,
// parallel and perpendicular groups. A distance or angle named only in an
// equal group follows the declared ones of its kind. This order decides the
// default root and continuum choice during ordering.
package figure
