package chart

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	errs "github.com/matzehuels/chartkit/pkg/errors"
	"github.com/matzehuels/chartkit/pkg/optree"
)

// Chart builds the option object of one chart. All setters write into a
// single tree owned by the chart and return the receiver for chaining.
//
// The first failing call is recorded and later calls become no-ops; check
// [Chart.Err] or rely on [Chart.Options] and [Chart.Script], which refuse to
// render a chart that failed.
type Chart struct {
	id   string
	tree *optree.Tree
	err  error
}

// Option configures a chart at construction.
type Option func(*Chart)

// WithID sets the chart id instead of a generated one. Ids must be valid
// per [errs.ValidateChartID].
func WithID(id string) Option {
	return func(c *Chart) {
		if err := errs.ValidateChartID(id); err != nil {
			c.fail(err)
			return
		}
		c.id = id
	}
}

// WithHeight sets chart.height. Numbers are pixels; strings such as "100%"
// are passed through.
func WithHeight(h any) Option {
	return func(c *Chart) { c.Set("chart.height", h) }
}

// WithWidth sets chart.width.
func WithWidth(w any) Option {
	return func(c *Chart) { c.Set("chart.width", w) }
}

// New creates a chart of the given type ("line", "bar", "pie", ...).
func New(kind string, opts ...Option) *Chart {
	c := &Chart{
		id:   strings.ReplaceAll(uuid.NewString(), "-", ""),
		tree: optree.New(),
	}
	if kind != "" {
		c.Set("chart.type", kind)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the chart id.
func (c *Chart) ID() string { return c.id }

// Tree returns the underlying option tree. Mutating it bypasses the sticky
// error.
func (c *Chart) Tree() *optree.Tree { return c.tree }

// Err returns the first error recorded by a setter.
func (c *Chart) Err() error { return c.err }

func (c *Chart) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// Set assigns value at path with overwrite semantics.
func (c *Chart) Set(path string, value any) *Chart {
	if c.err != nil {
		return c
	}
	if err := c.tree.Set(path, value); err != nil {
		c.fail(fmt.Errorf("chart %s: set %s: %w", c.id, path, err))
	}
	return c
}

// Append pushes value onto the list at path.
func (c *Chart) Append(path string, value any) *Chart {
	if c.err != nil {
		return c
	}
	if err := c.tree.Append(path, value); err != nil {
		c.fail(fmt.Errorf("chart %s: append %s: %w", c.id, path, err))
	}
	return c
}

// SetRaw assigns JavaScript source at path. It is emitted verbatim.
func (c *Chart) SetRaw(path, src string) *Chart {
	v, err := optree.WrapRaw(src)
	if err != nil {
		c.fail(fmt.Errorf("chart %s: set %s: %w", c.id, path, err))
		return c
	}
	return c.Set(path, v)
}

// Merge deep-merges overrides into the chart's options. Keys in overrides
// win; lists are replaced outright.
func (c *Chart) Merge(overrides *optree.Tree) *Chart {
	if c.err == nil {
		c.tree.Merge(overrides)
	}
	return c
}

// Options encodes the chart's option object.
func (c *Chart) Options(opts ...optree.EncodeOption) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	return optree.Encode(c.tree, opts...)
}

// VarName returns the JavaScript variable the chart is bound to in Script.
func (c *Chart) VarName() string {
	return "chart_" + strings.ReplaceAll(c.id, "-", "_")
}

// Script returns the JavaScript that creates and renders the chart inside
// the element matched by selector.
func (c *Chart) Script(selector string, opts ...optree.EncodeOption) ([]byte, error) {
	if err := errs.ValidateSelector(selector); err != nil {
		return nil, err
	}
	options, err := c.Options(opts...)
	if err != nil {
		return nil, err
	}
	v := c.VarName()
	var b strings.Builder
	b.Grow(len(options) + len(selector) + 2*len(v) + 64)
	fmt.Fprintf(&b, "var %s = new ApexCharts(document.querySelector(%q), ", v, selector)
	b.Write(options)
	fmt.Fprintf(&b, ");%s.render();", v)
	return []byte(b.String()), nil
}

// Clone returns an independent copy of the chart with the same id.
func (c *Chart) Clone() *Chart {
	return &Chart{id: c.id, tree: c.tree.Clone(), err: c.err}
}

// AddSeries appends a {name, data} entry to series.
func (c *Chart) AddSeries(name string, data ...any) *Chart {
	items := make([]any, len(data))
	for i, d := range data {
		items[i] = text(d)
	}
	return c.Append("series", map[string]any{"name": optree.String(name), "data": items})
}

// AddColor appends to colors.
func (c *Chart) AddColor(colors ...string) *Chart {
	for _, col := range colors {
		c.Append("colors", optree.String(col))
	}
	return c
}

// AddLabel appends to labels (pie and donut charts).
func (c *Chart) AddLabel(labels ...string) *Chart {
	for _, l := range labels {
		c.Append("labels", optree.String(l))
	}
	return c
}
