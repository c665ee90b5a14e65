// Package cache provides the storage layer for rendered chart output.
//
// # Overview
//
// Rendering a chart is cheap, but the preview server re-renders every chart
// on each reload and the CLI re-renders whole definition files. Both go
// through a [Cache] keyed by the hash of the chart's canonical encoding, so
// unchanged charts are served from storage.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (preview servers behind a proxy)
//   - [NullCache]: stores nothing (--no-cache)
//
// # Keys
//
// Keys are built by a [Keyer]. [DefaultKeyer] hashes its inputs so keys have
// a fixed length; [ScopedKeyer] prefixes another keyer for namespacing.
//
// # Errors
//
// Backends wrap transient failures with [Retryable] so that
// [RetryWithBackoff] retries them. A miss is not an error.
package cache

import (
	"context"
	"time"
)

// Default TTLs for cached entries.
const (
	// TTLRender is how long a rendered chart (options, script or page) stays valid.
	TTLRender = 7 * 24 * time.Hour

	// TTLPage is how long a rendered preview page stays valid.
	TTLPage = 24 * time.Hour
)

// Cache stores opaque byte values by key.
//
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. ok is false on a miss or expired entry.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// ChartKey returns the key of one rendered chart, given the hash of its
	// canonical encoding.
	ChartKey(treeHash string, opts ChartKeyOpts) string

	// PageKey returns the key of a preview page built from the hashes of
	// its rendered chart fragments, in page order.
	PageKey(title string, chartHashes []string) string
}

// ChartKeyOpts holds the render options that change a chart's output.
type ChartKeyOpts struct {
	Format   string `json:"format"`
	ChartID  string `json:"chart_id,omitempty"`
	Selector string `json:"selector,omitempty"`
	SortKeys bool   `json:"sort_keys,omitempty"`
	Pretty   bool   `json:"pretty,omitempty"`

	// Order fingerprints the key order of an unsorted encoding. Trees with
	// equal hashes can still differ in insertion order.
	Order string `json:"order,omitempty"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ChartKey returns "chart:<sha256>" over the tree hash and options.
func (DefaultKeyer) ChartKey(treeHash string, opts ChartKeyOpts) string {
	return hashKey("chart", treeHash, opts)
}

// PageKey returns "page:<sha256>" over the title and chart hashes.
func (DefaultKeyer) PageKey(title string, chartHashes []string) string {
	return hashKey("page", title, chartHashes)
}

var _ Keyer = DefaultKeyer{}
