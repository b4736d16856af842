package cache

// ScopedKeyer wraps a Keyer with a prefix so that several users or
// deployments can share one backend without seeing each other's entries.
//
// Example usage:
//
//	// Per-deployment keys on a shared Redis
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "gcad:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// PlanKey generates a prefixed key for plan caching.
func (k *ScopedKeyer) PlanKey(figureHash, root string) string {
	return k.prefix + k.inner.PlanKey(figureHash, root)
}

// SolutionKey generates a prefixed key for solution caching.
func (k *ScopedKeyer) SolutionKey(figureHash, root string, opts SolutionKeyOpts) string {
	return k.prefix + k.inner.SolutionKey(figureHash, root, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(figureHash, root string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(figureHash, root, opts)
}
