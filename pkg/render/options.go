package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartkit/pkg/cache"
	"github.com/matzehuels/chartkit/pkg/chart"
	errs "github.com/matzehuels/chartkit/pkg/errors"
	"github.com/matzehuels/chartkit/pkg/optree"
)

// =============================================================================
// Default Values
// =============================================================================

// Format constants for render outputs.
const (
	// FormatOptions is the bare option object.
	FormatOptions = "options"
	// FormatScript is the JavaScript that creates and renders the chart.
	FormatScript = "script"
	// FormatHTML is a <div> plus <script> fragment, ready to embed in a page.
	FormatHTML = "html"
)

const (
	// DefaultFormat is used when Options.Format is empty.
	DefaultFormat = FormatScript

	// DefaultTitle is the preview page heading when none is given.
	DefaultTitle = "Charts"

	// DefaultIndent is the indent used by Pretty.
	DefaultIndent = "  "
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatOptions: true,
	FormatScript:  true,
	FormatHTML:    true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: options, script, html)", format)
	}
	return nil
}

// =============================================================================
// Options
// =============================================================================

// Options configures a render run.
type Options struct {
	Format   string `json:"format,omitempty"`
	SortKeys bool   `json:"sort_keys,omitempty"`
	Pretty   bool   `json:"pretty,omitempty"`

	// Selector is the CSS selector of the element a script renders into.
	// Empty means "#" + ElementID(chart). HTML fragments always use their
	// own element.
	Selector string `json:"selector,omitempty"`

	// Refresh skips cache reads. Results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Title is the heading of a preview page.
	Title string `json:"title,omitempty"`

	// LiveReload adds the websocket reload client to preview pages.
	LiveReload bool `json:"live_reload,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Selector != "" {
		if err := errs.ValidateSelector(o.Selector); err != nil {
			return err
		}
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// EncodeOptions returns the encoder options for the output.
func (o *Options) EncodeOptions() []optree.EncodeOption {
	var opts []optree.EncodeOption
	if o.SortKeys {
		opts = append(opts, optree.WithSortKeys())
	}
	if o.Pretty {
		opts = append(opts, optree.WithPretty(DefaultIndent))
	}
	return opts
}

// SelectorFor returns the selector a script for c renders into.
func (o *Options) SelectorFor(c *chart.Chart) string {
	if o.Selector != "" && o.Format != FormatHTML {
		return o.Selector
	}
	return "#" + ElementID(c)
}

// ChartKeyOpts returns cache key options for one chart. order is the hash
// of the chart's insertion-order encoding and only counts when keys are
// not sorted.
func (o *Options) ChartKeyOpts(c *chart.Chart, order string) cache.ChartKeyOpts {
	k := cache.ChartKeyOpts{
		Format:   o.Format,
		SortKeys: o.SortKeys,
		Pretty:   o.Pretty,
	}
	if o.Format != FormatOptions {
		// Scripts and fragments name their variable after the chart.
		k.ChartID = c.ID()
		k.Selector = o.SelectorFor(c)
	}
	if !o.SortKeys {
		k.Order = order
	}
	return k
}

// ElementID returns the id of the element a chart is rendered into on a
// preview page. Chart ids may start with a digit, which is not a valid
// CSS id selector, hence the prefix.
func ElementID(c *chart.Chart) string {
	return fmt.Sprintf("chart-%s", c.ID())
}
