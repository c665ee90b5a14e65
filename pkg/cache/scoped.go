package cache

// ScopedKeyer wraps a Keyer with a prefix so that several definition files,
// or several preview servers sharing one Redis, keep separate namespaces.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "dashboards/sales:")
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

// ChartKey generates a prefixed chart key.
func (k *ScopedKeyer) ChartKey(treeHash string, opts ChartKeyOpts) string {
	return k.prefix + k.inner.ChartKey(treeHash, opts)
}

// PageKey generates a prefixed page key.
func (k *ScopedKeyer) PageKey(title string, chartHashes []string) string {
	return k.prefix + k.inner.PageKey(title, chartHashes)
}
