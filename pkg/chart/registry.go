package chart

import (
	"slices"

	errs "github.com/matzehuels/chartkit/pkg/errors"
)

// Registry holds the charts of one rendering pass, keyed by id and kept in
// insertion order. It is created per pass and passed explicitly; it is not
// safe for concurrent use.
type Registry struct {
	charts map[string]*Chart
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{charts: make(map[string]*Chart)}
}

// Add registers c. It fails if c recorded an error or its id is taken.
func (r *Registry) Add(c *Chart) error {
	if err := c.Err(); err != nil {
		return err
	}
	if _, ok := r.charts[c.id]; ok {
		return errs.New(errs.ErrCodeDuplicateChart, "chart %q already registered", c.id)
	}
	r.charts[c.id] = c
	r.order = append(r.order, c.id)
	return nil
}

// Get returns the chart with the given id.
func (r *Registry) Get(id string) (*Chart, bool) {
	c, ok := r.charts[id]
	return c, ok
}

// Lookup is like Get but reports a missing chart as CHART_NOT_FOUND.
func (r *Registry) Lookup(id string) (*Chart, error) {
	c, ok := r.charts[id]
	if !ok {
		return nil, errs.New(errs.ErrCodeChartNotFound, "chart %q not found", id)
	}
	return c, nil
}

// IDs returns the chart ids in insertion order.
func (r *Registry) IDs() []string { return slices.Clone(r.order) }

// Len returns the number of charts.
func (r *Registry) Len() int { return len(r.order) }

// Each calls fn for every chart in insertion order, stopping at the first
// error.
func (r *Registry) Each(fn func(*Chart) error) error {
	for _, id := range r.order {
		if err := fn(r.charts[id]); err != nil {
			return err
		}
	}
	return nil
}
