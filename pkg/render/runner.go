package render

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartkit/pkg/cache"
	"github.com/matzehuels/chartkit/pkg/chart"
	"github.com/matzehuels/chartkit/pkg/observability"
	"github.com/matzehuels/chartkit/pkg/optree"
)

// Result is one rendered chart.
type Result struct {
	ChartID string
	Format  string

	// Hash is the sha256 of the chart's canonical encoding (sorted keys,
	// compact). Charts with equal trees have equal hashes.
	Hash string

	Output   []byte
	Cached   bool
	Duration time.Duration
}

// Runner renders charts through a cache.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options, as long
// as they do not share charts.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Render encodes one chart in opts.Format, serving it from the cache when
// the chart's canonical encoding was rendered before with the same options.
func (r *Runner) Render(ctx context.Context, c *chart.Chart, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	hooks := observability.Render()
	hooks.OnRenderStart(ctx, c.ID(), opts.Format)
	start := time.Now()

	res, err := r.render(ctx, c, opts)
	if res != nil {
		res.Duration = time.Since(start)
		hooks.OnRenderComplete(ctx, c.ID(), opts.Format, len(res.Output), res.Cached, res.Duration, nil)
		return res, nil
	}
	hooks.OnRenderComplete(ctx, c.ID(), opts.Format, 0, false, time.Since(start), err)
	return nil, fmt.Errorf("render chart %q: %w", c.ID(), err)
}

func (r *Runner) render(ctx context.Context, c *chart.Chart, opts Options) (*Result, error) {
	canonical, err := c.Options(optree.WithSortKeys())
	if err != nil {
		return nil, err
	}
	res := &Result{ChartID: c.ID(), Format: opts.Format, Hash: cache.Hash(canonical)}

	var order string
	if !opts.SortKeys {
		ordered, err := c.Options()
		if err != nil {
			return nil, err
		}
		order = cache.Hash(ordered)
	}
	key := r.Keyer.ChartKey(res.Hash, opts.ChartKeyOpts(c, order))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "chart")
			res.Output, res.Cached = data, true
			return res, nil
		} else if err != nil {
			r.Logger.Warn("cache read failed", "chart", c.ID(), "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "chart")
	}

	if opts.Format == FormatOptions && opts.SortKeys && !opts.Pretty {
		res.Output = canonical
	} else if res.Output, err = encode(c, opts); err != nil {
		return nil, err
	}

	if err := r.Cache.Set(ctx, key, res.Output, cache.TTLRender); err != nil {
		r.Logger.Warn("cache write failed", "chart", c.ID(), "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "chart", len(res.Output))
	}
	return res, nil
}

func encode(c *chart.Chart, opts Options) ([]byte, error) {
	enc := opts.EncodeOptions()
	switch opts.Format {
	case FormatOptions:
		return c.Options(enc...)
	case FormatScript:
		return c.Script(opts.SelectorFor(c), enc...)
	default:
		script, err := c.Script(opts.SelectorFor(c), enc...)
		if err != nil {
			return nil, err
		}
		return fragment(ElementID(c), script), nil
	}
}

// RenderAll renders every chart of reg in registry order. It stops at the
// first error or when ctx is done.
func (r *Runner) RenderAll(ctx context.Context, reg *chart.Registry, opts Options) ([]*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	results := make([]*Result, 0, reg.Len())
	err := reg.Each(func(c *chart.Chart) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := r.Render(ctx, c, opts)
		if err != nil {
			return err
		}
		results = append(results, res)
		return nil
	})
	if err != nil {
		return nil, err
	}

	cached := 0
	for _, res := range results {
		if res.Cached {
			cached++
		}
	}
	r.Logger.Debug("rendered charts", "count", len(results), "cached", cached, "format", opts.Format)
	return results, nil
}

// PageResult is a rendered preview page.
type PageResult struct {
	Charts []*Result
	Output []byte
	Cached bool
}

// RenderPage renders every chart of reg as an HTML fragment and assembles
// them into a standalone preview page. opts.Format is ignored.
func (r *Runner) RenderPage(ctx context.Context, reg *chart.Registry, opts Options) (*PageResult, error) {
	opts.Format = FormatHTML
	results, err := r.RenderAll(ctx, reg, opts)
	if err != nil {
		return nil, err
	}

	keyer := r.Keyer
	if opts.LiveReload {
		keyer = cache.NewScopedKeyer(keyer, "live:")
	}
	hashes := make([]string, len(results))
	for i, res := range results {
		hashes[i] = cache.Hash(res.Output)
	}
	key := keyer.PageKey(opts.Title, hashes)

	page := &PageResult{Charts: results}
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "page")
			page.Output, page.Cached = data, true
			return page, nil
		}
		observability.Cache().OnCacheMiss(ctx, "page")
	}

	if page.Output, err = Page(opts.Title, results, opts.LiveReload); err != nil {
		return nil, err
	}
	if err := r.Cache.Set(ctx, key, page.Output, cache.TTLPage); err == nil {
		observability.Cache().OnCacheSet(ctx, "page", len(page.Output))
	}
	return page, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
