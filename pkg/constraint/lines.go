package constraint

import (
	"math"
	"strings"

	errs "github.com/matzehuels/gcad/pkg/errors"
	"github.com/matzehuels/gcad/pkg/geo"
)

// Collinear requires every point of Group to lie on one line.
type Collinear struct {
	Group []string
}

func (c Collinear) Kind() Kind { return KindCollinear }

func (c Collinear) Points() []string { return c.Group }

// Targets returns every unknown point of the group once two are known.
func (c Collinear) Targets(known Known) []string {
	var n int
	var unknown []string
	for _, p := range c.Group {
		if known[p] {
			n++
		} else {
			unknown = append(unknown, p)
		}
	}
	if n < 2 {
		return nil
	}
	return unknown
}

// Locus is the line through the first two placed points of the group.
func (c Collinear) Locus(pos Positions, target string) (geo.Locus, error) {
	if !Involves(c, target) {
		return nil, notTarget(c, target)
	}
	var placed []geo.Vec
	for _, p := range c.Group {
		if v, ok := pos[p]; ok && p != target {
			placed = append(placed, v)
			if len(placed) == 2 {
				return geo.LineThrough(placed[0], placed[1]), nil
			}
		}
	}
	return nil, errs.New(errs.ErrCodeUnknownPoint, "%s: fewer than two placed points", c)
}

// Residual is the largest distance of a group point from the line through
// the first two.
func (c Collinear) Residual(pos Positions) (float64, error) {
	p, err := lookup(pos, c.Group...)
	if err != nil {
		return 0, err
	}
	line := geo.LineThrough(p[0], p[1])
	var worst float64
	for _, v := range p[2:] {
		worst = math.Max(worst, geo.Distance(geo.Point{At: v}, line))
	}
	return worst, nil
}

func (c Collinear) Validate() error {
	if len(c.Group) < 3 {
		return errs.New(errs.ErrCodeInvalidFigure, "collinear %s: needs at least 3 points", c)
	}
	seen := make(map[string]bool, len(c.Group))
	for _, p := range c.Group {
		if seen[p] {
			return errs.New(errs.ErrCodeInvalidFigure, "collinear %s: point %s repeated", c, p)
		}
		seen[p] = true
	}
	return validateIDs(KindCollinear, c.Group)
}

func (c Collinear) String() string { return strings.Join(c.Group, "-") }

// Segment is an ordered pair of point ids.
type Segment [2]string

// Parallel requires every segment to share one direction.
type Parallel struct {
	Segments []Segment
}

func (c Parallel) Kind() Kind { return KindParallel }

func (c Parallel) Points() []string { return flatten(c.Segments) }

// Targets returns the unknown end of every half-known segment once some
// segment is fully known.
func (c Parallel) Targets(known Known) []string { return segmentTargets(c.Segments, known) }

// Locus is the line through target's partner along the first known segment.
func (c Parallel) Locus(pos Positions, target string) (geo.Locus, error) {
	return segmentLocus(c, c.Segments, pos, target, false)
}

// Residual is the largest |sin| between a segment and the first one.
func (c Parallel) Residual(pos Positions) (float64, error) {
	return segmentResidual(c.Segments, pos, false)
}

func (c Parallel) Validate() error { return validateSegments(KindParallel, c, c.Segments) }

func (c Parallel) String() string { return joinSegments(c.Segments, " ∥ ") }

// Perpendicular requires each segment to be perpendicular to the next, so
// segments an even number of steps apart are parallel.
type Perpendicular struct {
	Segments []Segment
}

func (c Perpendicular) Kind() Kind { return KindPerpendicular }

func (c Perpendicular) Points() []string { return flatten(c.Segments) }

// Targets follows the same rule as [Parallel.Targets].
func (c Perpendicular) Targets(known Known) []string { return segmentTargets(c.Segments, known) }

// Locus is the line through target's partner along the first known segment,
// turned a quarter when the two segments are an odd number of steps apart.
func (c Perpendicular) Locus(pos Positions, target string) (geo.Locus, error) {
	return segmentLocus(c, c.Segments, pos, target, true)
}

// Residual is the largest deviation from the alternating pattern, as |sin|
// for parallel pairs and |cos| for perpendicular ones.
func (c Perpendicular) Residual(pos Positions) (float64, error) {
	return segmentResidual(c.Segments, pos, true)
}

func (c Perpendicular) Validate() error { return validateSegments(KindPerpendicular, c, c.Segments) }

func (c Perpendicular) String() string { return joinSegments(c.Segments, " ⟂ ") }

func flatten(segs []Segment) []string {
	out := make([]string, 0, 2*len(segs))
	for _, s := range segs {
		out = append(out, s[0], s[1])
	}
	return out
}

func firstKnown(segs []Segment, known func(string) bool) int {
	for i, s := range segs {
		if known(s[0]) && known(s[1]) {
			return i
		}
	}
	return -1
}

func segmentTargets(segs []Segment, known Known) []string {
	isKnown := func(p string) bool { return known[p] }
	if firstKnown(segs, isKnown) < 0 {
		return nil
	}
	var out []string
	for _, s := range segs {
		if t := onlyUnknown(s[:], known); t != nil {
			out = append(out, t[0])
		}
	}
	return out
}

func segmentLocus(c Constraint, segs []Segment, pos Positions, target string, alternate bool) (geo.Locus, error) {
	ref := firstKnown(segs, func(p string) bool {
		_, ok := pos[p]
		return ok && p != target
	})
	if ref < 0 {
		return sharedLocus(c, segs, pos, target, alternate)
	}
	for i, s := range segs {
		var partner string
		switch target {
		case s[0]:
			partner = s[1]
		case s[1]:
			partner = s[0]
		default:
			continue
		}
		o, ok := pos[partner]
		if !ok || partner == target {
			continue
		}
		dir := pos[segs[ref][1]].Sub(pos[segs[ref][0]])
		if alternate && (i-ref)%2 != 0 {
			dir = dir.Ortho()
		}
		return geo.NewLine(o, dir), nil
	}
	return nil, notTarget(c, target)
}

// sharedLocus resolves a target that belongs to every segment with a placed
// partner, as in AB ∥ BC with A and C placed. Two segments through the target
// put it on the line through their partners when they are parallel, and on
// the circle over their partners when they are perpendicular.
func sharedLocus(c Constraint, segs []Segment, pos Positions, target string, alternate bool) (geo.Locus, error) {
	type end struct {
		step int
		at   geo.Vec
	}
	var ends []end
	for i, s := range segs {
		var partner string
		switch target {
		case s[0]:
			partner = s[1]
		case s[1]:
			partner = s[0]
		default:
			continue
		}
		if o, ok := pos[partner]; ok {
			ends = append(ends, end{step: i, at: o})
		}
	}
	if len(ends) < 2 {
		return nil, errs.New(errs.ErrCodeUnknownPoint, "%s: no placed segment", c)
	}

	loci := make([]geo.Locus, 0, len(ends)-1)
	first := ends[0]
	for _, e := range ends[1:] {
		square := alternate && (e.step-first.step)%2 != 0
		switch {
		case geo.Near(first.at, e.at) && square:
			loci = append(loci, geo.Point{At: first.at})
		case geo.Near(first.at, e.at):
			loci = append(loci, geo.Universal{})
		case square:
			loci = append(loci, geo.Circle{
				Center: first.at.Add(e.at).Mul(0.5),
				Radius: e.at.Sub(first.at).Norm() / 2,
			})
		default:
			loci = append(loci, geo.LineThrough(first.at, e.at))
		}
	}
	return geo.Meet(loci...), nil
}

func segmentResidual(segs []Segment, pos Positions, alternate bool) (float64, error) {
	dirs := make([]geo.Vec, len(segs))
	for i, s := range segs {
		p, err := lookup(pos, s[0], s[1])
		if err != nil {
			return 0, err
		}
		dirs[i], _ = geo.Unit(p[1].Sub(p[0]))
	}
	var worst float64
	for i := 1; i < len(dirs); i++ {
		dev := math.Abs(dirs[0].Cross(dirs[i]))
		if alternate && i%2 == 1 {
			dev = math.Abs(dirs[0].Dot(dirs[i]))
		}
		worst = math.Max(worst, dev)
	}
	return worst, nil
}

func validateSegments(kind Kind, c Constraint, segs []Segment) error {
	if len(segs) < 2 {
		return errs.New(errs.ErrCodeInvalidFigure, "%s %s: needs at least 2 segments", kind, c)
	}
	for _, s := range segs {
		if s[0] == s[1] {
			return errs.New(errs.ErrCodeInvalidFigure, "%s %s: segment %s%s is degenerate", kind, c, s[0], s[1])
		}
	}
	return validateIDs(kind, flatten(segs))
}

func joinSegments(segs []Segment, sep string) string {
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = s[0] + s[1]
	}
	return strings.Join(parts, sep)
}
