package order

import (
	"fmt"
	"strings"

	"github.com/matzehuels/gcad/pkg/constraint"
)

// Support is one entry of a support set: a [ConstraintRef] or the [Gauge].
type Support interface {
	isSupport()
	String() string
}

// ConstraintRef points at a registered constraint.
type ConstraintRef struct {
	ID constraint.ID
}

// Gauge marks a degree of freedom resolved by canonical choice.
type Gauge struct{}

func (ConstraintRef) isSupport() {}
func (Gauge) isSupport()         {}

func (r ConstraintRef) String() string { return fmt.Sprintf("#%d", r.ID) }
func (Gauge) String() string           { return "gauge" }

// State classifies a point by the size of its support set.
type State int

const (
	Free      State = iota // no support
	Continuum              // one residual degree of freedom
	Fixed                  // finitely many candidates
)

func (s State) String() string {
	switch s {
	case Free:
		return "free"
	case Continuum:
		return "continuum"
	case Fixed:
		return "fixed"
	}
	return "unknown"
}

// SupportSet is an insertion-ordered set of supports for one point.
type SupportSet struct {
	items []Support
	root  bool
}

// Add appends s unless already present and reports whether it was added.
func (s *SupportSet) Add(sup Support) bool {
	for _, it := range s.items {
		if it == sup {
			return false
		}
	}
	s.items = append(s.items, sup)
	return true
}

// Items returns the supports in insertion order.
func (s *SupportSet) Items() []Support {
	if s == nil {
		return nil
	}
	return append([]Support(nil), s.items...)
}

// Len returns the number of supports.
func (s *SupportSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// HasGauge reports whether the gauge marker is present.
func (s *SupportSet) HasGauge() bool { return s.gauges() > 0 }

func (s *SupportSet) gauges() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, it := range s.items {
		if _, ok := it.(Gauge); ok {
			n++
		}
	}
	return n
}

// Constraints returns the referenced constraint IDs in insertion order.
func (s *SupportSet) Constraints() []constraint.ID {
	if s == nil {
		return nil
	}
	var out []constraint.ID
	for _, it := range s.items {
		if r, ok := it.(ConstraintRef); ok {
			out = append(out, r.ID)
		}
	}
	return out
}

// IsRoot reports whether this set anchors the root.
func (s *SupportSet) IsRoot() bool { return s != nil && s.root }

// State returns Fixed for the root and for two or more supports.
func (s *SupportSet) State() State {
	switch {
	case s.IsRoot() || s.Len() >= 2:
		return Fixed
	case s.Len() == 1:
		return Continuum
	}
	return Free
}

func (s *SupportSet) String() string {
	parts := make([]string, s.Len())
	for i, it := range s.Items() {
		parts[i] = it.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
