package figure

import (
	"math"

	errs "github.com/matzehuels/gcad/pkg/errors"
	"github.com/matzehuels/gcad/pkg/geo"
)

// Resolution holds the measure of every distance and angle element after
// the equality step. Elements are listed in registration order.
type Resolution struct {
	distances []element
	angles    []element
	measures  map[string]float64
}

type element struct {
	key string
	pts []string
}

func (e element) String() string {
	if len(e.pts) == 2 {
		return e.pts[0] + e.pts[1]
	}
	return "∠" + e.pts[0] + e.pts[1] + e.pts[2]
}

func distanceKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return "d|" + a + "|" + b
}

func angleKey(s, v, e string) string {
	if e < s {
		s, e = e, s
	}
	return "a|" + v + "|" + s + "|" + e
}

// Distance returns the resolved length between a and b.
func (r *Resolution) Distance(a, b string) (float64, bool) {
	v, ok := r.measures[distanceKey(a, b)]
	return v, ok
}

// Angle returns the resolved measure at vertex, in the document's unit.
func (r *Resolution) Angle(start, vertex, end string) (float64, bool) {
	v, ok := r.measures[angleKey(start, vertex, end)]
	return v, ok
}

// Len returns the number of distance and angle elements.
func (r *Resolution) Len() int { return len(r.distances) + len(r.angles) }

// Resolve runs the equality step and returns the measure of every element.
func (d *Document) Resolve() (*Resolution, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	r := &Resolution{measures: make(map[string]float64)}
	seen := make(map[string]bool)
	register := func(list *[]element, key string, pts []string) {
		if !seen[key] {
			seen[key] = true
			*list = append(*list, element{key: key, pts: pts})
		}
	}

	for _, s := range d.Distances {
		key := distanceKey(s.Points[0], s.Points[1])
		register(&r.distances, key, s.Points)
		if s.Length != nil {
			if _, err := r.set(key, *s.Length, s.Points); err != nil {
				return nil, err
			}
		}
	}
	for _, s := range d.Angles {
		key := angleKey(s.Points[0], s.Points[1], s.Points[2])
		register(&r.angles, key, s.Points)
		if s.Measure != nil {
			if _, err := r.set(key, *s.Measure, s.Points); err != nil {
				return nil, err
			}
		}
	}

	groups := make([][]element, len(d.Equal))
	for i, e := range d.Equal {
		for _, p := range e.Distances {
			key := distanceKey(p[0], p[1])
			register(&r.distances, key, p)
			groups[i] = append(groups[i], element{key: key, pts: p})
		}
		for _, p := range e.Angles {
			key := angleKey(p[0], p[1], p[2])
			register(&r.angles, key, p)
			groups[i] = append(groups[i], element{key: key, pts: p})
		}
		if e.Value != nil {
			for _, el := range groups[i] {
				if _, err := r.set(el.key, *e.Value, el.pts); err != nil {
					return nil, errs.Wrap(errs.ErrCodeInvalidFigure, err, "equal %d", i+1)
				}
			}
		}
	}

	for changed := true; changed; {
		changed = false
		for i, g := range groups {
			v, ok := r.first(g)
			if !ok {
				continue
			}
			for _, el := range g {
				added, err := r.set(el.key, v, el.pts)
				if err != nil {
					return nil, errs.Wrap(errs.ErrCodeInvalidFigure, err, "equal %d", i+1)
				}
				changed = changed || added
			}
		}
	}

	for _, el := range r.distances {
		v, ok := r.measures[el.key]
		if !ok {
			return nil, errs.New(errs.ErrCodeInvalidFigure, "distance %s has no length", el)
		}
		if err := errs.ValidateMeasure("distance "+el.String(), v, 0); err != nil {
			return nil, err
		}
	}
	for _, el := range r.angles {
		v, ok := r.measures[el.key]
		if !ok {
			return nil, errs.New(errs.ErrCodeInvalidFigure, "angle %s has no measure", el)
		}
		if err := errs.ValidateMeasure("angle "+el.String(), v, d.maxAngle()); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// set assigns v to key. It reports whether the key was new and fails when a
// different measure is already present.
func (r *Resolution) set(key string, v float64, pts []string) (bool, error) {
	old, ok := r.measures[key]
	if !ok {
		r.measures[key] = v
		return true, nil
	}
	if math.Abs(old-v) > geo.RelTol*math.Max(1, math.Abs(old)) {
		return false, errs.New(errs.ErrCodeInvalidFigure, "%s: conflicting measures %g and %g", element{key, pts}, old, v)
	}
	return false, nil
}

func (r *Resolution) first(g []element) (float64, bool) {
	for _, el := range g {
		if v, ok := r.measures[el.key]; ok {
			return v, true
		}
	}
	return 0, false
}
