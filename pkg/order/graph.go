package order

import "github.com/matzehuels/gcad/pkg/constraint"

// Edge connects a point placed earlier to a point it helps pin.
type Edge struct {
	From, To    string
	Constraints []constraint.ID
	Check       bool // every constraint on the edge is a check
}

// Graph returns the dependency edges of the plan in fix order. For each
// point, an edge is emitted from every earlier point that shares one of its
// supporting constraints. Gauge supports produce no edge; use [Plan.Gauges].
func (p *Plan) Graph() []Edge {
	var edges []Edge
	for i, to := range p.Path {
		byFrom := make(map[string]int)
		for _, id := range p.Support[to].Constraints() {
			check := p.IsCheck(id)
			for _, from := range p.Index.Constraint(id).Points() {
				if from == to || p.Position(from) >= i || p.Position(from) < 0 {
					continue
				}
				k, ok := byFrom[from]
				if !ok {
					byFrom[from] = len(edges)
					edges = append(edges, Edge{From: from, To: to, Check: check})
					k = len(edges) - 1
				}
				e := &edges[k]
				if n := len(e.Constraints); n == 0 || e.Constraints[n-1] != id {
					e.Constraints = append(e.Constraints, id)
				}
				e.Check = e.Check && check
			}
		}
	}
	return edges
}
