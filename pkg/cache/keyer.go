package cache

import "fmt"

// SolutionKeyOpts are the options that change a solve result.
type SolutionKeyOpts struct {
	MaxSteps int `json:"max_steps,omitempty"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Kind   string  `json:"kind"`   // "plan" or "figure"
	Format string  `json:"format"` // "svg", "png", "dot"
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Labels bool    `json:"labels,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// PlanKey identifies the ordering of a figure from a root.
	PlanKey(figureHash, root string) string

	// SolutionKey identifies the solution of a figure from a root.
	SolutionKey(figureHash, root string, opts SolutionKeyOpts) string

	// ArtifactKey identifies a rendering of a figure from a root.
	ArtifactKey(figureHash, root string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes every component into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PlanKey returns "plan:<figure hash>:<root>". Roots are point ids and never
// contain a colon.
func (DefaultKeyer) PlanKey(figureHash, root string) string {
	return fmt.Sprintf("plan:%s:%s", figureHash, root)
}

// SolutionKey returns "solution:" followed by a hash of its inputs.
func (DefaultKeyer) SolutionKey(figureHash, root string, opts SolutionKeyOpts) string {
	return hashKey("solution", figureHash, root, opts)
}

// ArtifactKey returns "artifact:" followed by a hash of its inputs.
func (DefaultKeyer) ArtifactKey(figureHash, root string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", figureHash, root, opts)
}
