package chart

import "github.com/matzehuels/chartkit/pkg/optree"

// group is a view of the chart rooted at a path prefix. The option groups
// below embed it; they hold no state of their own.
type group struct {
	c      *Chart
	prefix string
}

func (g group) set(key string, v any)    { g.c.Set(g.prefix+"."+key, text(v)) }
func (g group) raw(key, src string)      { g.c.SetRaw(g.prefix+"."+key, src) }
func (g group) append(key string, v any) { g.c.Append(g.prefix+"."+key, text(v)) }

// text keeps a typed string argument a string. Code only enters through
// the raw setters.
func text(v any) any {
	if s, ok := v.(string); ok {
		return optree.String(s)
	}
	return v
}

// Chart returns the chart the group writes into.
func (g group) Chart() *Chart { return g.c }

// Toolbar configures chart.toolbar.
type Toolbar struct{ group }

// Toolbar returns the chart.toolbar group.
func (c *Chart) Toolbar() *Toolbar { return &Toolbar{group{c, "chart.toolbar"}} }

// Show toggles the toolbar. Download, Zoom, Pan and Reset toggle its tools;
// the filename setters name exported files.
func (t *Toolbar) Show(b bool) *Toolbar          { t.set("show", b); return t }
func (t *Toolbar) Download(b bool) *Toolbar      { t.set("tools.download", b); return t }
func (t *Toolbar) Zoom(b bool) *Toolbar          { t.set("tools.zoom", b); return t }
func (t *Toolbar) Pan(b bool) *Toolbar           { t.set("tools.pan", b); return t }
func (t *Toolbar) Reset(b bool) *Toolbar         { t.set("tools.reset", b); return t }
func (t *Toolbar) CSVFilename(s string) *Toolbar { t.set("export.csv.filename", s); return t }
func (t *Toolbar) SVGFilename(s string) *Toolbar { t.set("export.svg.filename", s); return t }
func (t *Toolbar) PNGFilename(s string) *Toolbar { t.set("export.png.filename", s); return t }

// Title configures title or subtitle.
type Title struct{ group }

// Title returns the title group.
func (c *Chart) Title() *Title { return &Title{group{c, "title"}} }

// Subtitle returns the subtitle group.
func (c *Chart) Subtitle() *Title { return &Title{group{c, "subtitle"}} }

// Text sets the heading text. It is always emitted as a string.
func (t *Title) Text(s string) *Title { t.set("text", s); return t }

// Align, FontSize and Color style the heading.
func (t *Title) Align(s string) *Title    { t.set("align", s); return t }
func (t *Title) FontSize(s string) *Title { t.set("style.fontSize", s); return t }
func (t *Title) Color(s string) *Title    { t.set("style.color", s); return t }

// Axis configures xaxis or yaxis.
type Axis struct{ group }

// XAxis returns the xaxis group.
func (c *Chart) XAxis() *Axis { return &Axis{group{c, "xaxis"}} }

// YAxis returns the yaxis group.
func (c *Chart) YAxis() *Axis { return &Axis{group{c, "yaxis"}} }

// Type sets the axis type: category, datetime or numeric.
func (a *Axis) Type(s string) *Axis { a.set("type", s); return a }

// Min, Max and TickAmount bound and divide the axis scale.
func (a *Axis) Min(v float64) *Axis    { a.set("min", v); return a }
func (a *Axis) Max(v float64) *Axis    { a.set("max", v); return a }
func (a *Axis) TickAmount(n int) *Axis { a.set("tickAmount", n); return a }

// TitleText sets the axis title.
func (a *Axis) TitleText(s string) *Axis { a.set("title.text", s); return a }

// Categories appends to the axis categories, keeping call order.
func (a *Axis) Categories(cats ...string) *Axis {
	for _, cat := range cats {
		a.append("categories", cat)
	}
	return a
}

// Formatter sets labels.formatter to JavaScript source.
func (a *Axis) Formatter(src string) *Axis { a.raw("labels.formatter", src); return a }

// Legend configures legend.
type Legend struct{ group }

// Legend returns the legend group.
func (c *Chart) Legend() *Legend { return &Legend{group{c, "legend"}} }

// Show toggles the legend; Position and HorizontalAlign place it.
func (l *Legend) Show(b bool) *Legend              { l.set("show", b); return l }
func (l *Legend) Position(s string) *Legend        { l.set("position", s); return l }
func (l *Legend) HorizontalAlign(s string) *Legend { l.set("horizontalAlign", s); return l }

// Tooltip configures tooltip.
type Tooltip struct{ group }

// Tooltip returns the tooltip group.
func (c *Chart) Tooltip() *Tooltip { return &Tooltip{group{c, "tooltip"}} }

// Enabled and Shared switch the tooltip and its shared mode. The
// formatters take JavaScript source.
func (t *Tooltip) Enabled(b bool) *Tooltip        { t.set("enabled", b); return t }
func (t *Tooltip) Shared(b bool) *Tooltip         { t.set("shared", b); return t }
func (t *Tooltip) XFormatter(src string) *Tooltip { t.raw("x.formatter", src); return t }
func (t *Tooltip) YFormatter(src string) *Tooltip { t.raw("y.formatter", src); return t }

// DataLabels configures dataLabels.
type DataLabels struct{ group }

// DataLabels returns the dataLabels group.
func (c *Chart) DataLabels() *DataLabels { return &DataLabels{group{c, "dataLabels"}} }

// Enabled toggles the labels; Formatter takes JavaScript source.
func (d *DataLabels) Enabled(b bool) *DataLabels       { d.set("enabled", b); return d }
func (d *DataLabels) Formatter(src string) *DataLabels { d.raw("formatter", src); return d }

// Stroke configures stroke.
type Stroke struct{ group }

// Stroke returns the stroke group.
func (c *Chart) Stroke() *Stroke { return &Stroke{group{c, "stroke"}} }

// Curve sets the line interpolation (smooth, straight, stepline); Width the
// line width in pixels.
func (s *Stroke) Curve(v string) *Stroke  { s.set("curve", v); return s }
func (s *Stroke) Width(w float64) *Stroke { s.set("width", w); return s }

// Grid configures grid.
type Grid struct{ group }

// Grid returns the grid group.
func (c *Chart) Grid() *Grid { return &Grid{group{c, "grid"}} }

// Show toggles the grid; BorderColor colors its lines.
func (g *Grid) Show(b bool) *Grid          { g.set("show", b); return g }
func (g *Grid) BorderColor(s string) *Grid { g.set("borderColor", s); return g }
