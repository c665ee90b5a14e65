package chart

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/chartkit/pkg/errors"
	"github.com/matzehuels/chartkit/pkg/optree"
)

func options(t *testing.T, c *Chart, opts ...optree.EncodeOption) string {
	t.Helper()
	out, err := c.Options(opts...)
	require.NoError(t, err)
	return string(out)
}

func TestNew(t *testing.T) {
	c := New("bar", WithID("sales"), WithHeight(350), WithWidth("100%"))
	require.NoError(t, c.Err())
	assert.Equal(t, "sales", c.ID())
	assert.Equal(t, `{"chart":{"type":"bar","height":350,"width":"100%"}}`, options(t, c))
}

func TestNewGeneratesIDs(t *testing.T) {
	a, b := New("line"), New("line")
	assert.NotEqual(t, a.ID(), b.ID())
	assert.NoError(t, errs.ValidateChartID(a.ID()))
	assert.Len(t, a.ID(), 32)
}

func TestWithInvalidID(t *testing.T) {
	c := New("line", WithID("bad id"))
	assert.True(t, errs.Is(c.Err(), errs.ErrCodeInvalidChartID))

	_, err := c.Options()
	assert.Error(t, err)
}

func TestGroups(t *testing.T) {
	c := New("line", WithID("g"))
	c.Toolbar().Show(true).Download(false).CSVFilename("sales")
	c.Title().Text("Sales").Align("center")
	c.Subtitle().Text("2024").Color("#666")
	c.XAxis().Type("category").Categories("Jan", "Feb").TitleText("Month")
	c.YAxis().Min(0).Max(100).TickAmount(5).Formatter("function(v){return v+'%'}")
	c.Legend().Show(false).Position("top")
	c.Tooltip().Shared(true).YFormatter("function(v){return v}")
	c.DataLabels().Enabled(false)
	c.Stroke().Curve("smooth").Width(2)
	c.Grid().BorderColor("#eee")
	require.NoError(t, c.Err())

	tr := c.Tree()
	assert.True(t, tr.Get("chart.toolbar.show", optree.Null()).ToBool())
	assert.Equal(t, "sales", tr.Get("chart.toolbar.export.csv.filename", optree.Null()).ToString())
	assert.Equal(t, "#666", tr.Get("subtitle.style.color", optree.Null()).ToString())
	assert.Equal(t, `["Jan","Feb"]`, tr.Get("xaxis.categories", optree.Null()).String())
	assert.Equal(t, int64(5), tr.Get("yaxis.tickAmount", optree.Null()).ToInt())
	assert.Equal(t, "line", tr.Get("chart.type", optree.Null()).ToString())

	out := options(t, c)
	assert.Contains(t, out, `"yaxis":{"min":0,"max":100,"tickAmount":5,"labels":{"formatter":function(v){return v+'%'}}}`)
	assert.Contains(t, out, `"tooltip":{"shared":true,"y":{"formatter":function(v){return v}}}`)
	assert.Contains(t, out, `"stroke":{"curve":"smooth","width":2}`)
}

func TestGroupReturnsChart(t *testing.T) {
	c := New("line")
	assert.Same(t, c, c.Legend().Show(true).Chart())
}

func TestSeriesColorsLabels(t *testing.T) {
	c := New("pie", WithID("p"))
	c.AddSeries("a", 1, 2).AddSeries("b").AddColor("#fff", "#000").AddLabel("x", "y")

	assert.Equal(t,
		`{"chart":{"type":"pie"},"series":[{"data":[1,2],"name":"a"},{"data":[],"name":"b"}],"colors":["#fff","#000"],"labels":["x","y"]}`,
		options(t, c))
}

func TestTypedSettersKeepMarkedText(t *testing.T) {
	marked := optree.Sentinel + "alert(document.cookie)" + optree.Sentinel
	c := New("line", WithID("m"))
	c.Title().Text(marked)
	c.XAxis().Categories(marked)
	c.AddLabel(marked).AddColor(marked).AddSeries(marked, marked)

	out := options(t, c)
	assert.NotContains(t, out, ":alert(")
	assert.NotContains(t, out, "[alert(")

	got := c.Tree().Get("title.text", optree.Null())
	assert.Equal(t, optree.KindString, got.Kind())
	assert.Equal(t, marked, got.ToString())
	assert.Equal(t, optree.KindString, c.Tree().Get("labels", optree.Null()).ToList().At(0).Kind())

	// Code still enters through the raw setters.
	c.XAxis().Formatter("v => v")
	assert.True(t, optree.IsRaw(c.Tree().Get("xaxis.labels.formatter", optree.Null())))
}

func TestStickyError(t *testing.T) {
	c := New("line", WithID("s"))
	c.Set("chart.type.name", "x")
	first := c.Err()
	require.Error(t, first)
	assert.True(t, errs.Is(first, errs.ErrCodePathConflict))

	c.SetRaw("a", optree.Sentinel).Set("b", 1)
	assert.Same(t, first, c.Err())
	assert.False(t, c.Tree().Has("b"))

	_, err := c.Script("#s")
	assert.ErrorIs(t, err, first)
}

func TestRawCollision(t *testing.T) {
	c := New("line").SetRaw("yaxis.labels.formatter", "x"+optree.Sentinel)
	var rc *optree.RawCodeCollisionError
	assert.ErrorAs(t, c.Err(), &rc)
}

func TestScript(t *testing.T) {
	c := New("line", WithID("sales-2024"))
	c.YAxis().Formatter("function(v){return v*2}")

	out, err := c.Script("#chart")
	require.NoError(t, err)
	assert.Equal(t,
		`var chart_sales_2024 = new ApexCharts(document.querySelector("#chart"), {"chart":{"type":"line"},"yaxis":{"labels":{"formatter":function(v){return v*2}}}});chart_sales_2024.render();`,
		string(out))

	_, err = c.Script(`#a"); alert(1); ("`)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidSelector))
}

func TestFunctionAndDate(t *testing.T) {
	fn, err := Function("val, opts", "return val + '%'")
	require.NoError(t, err)
	assert.Equal(t, "function(val, opts){return val + '%'}", optree.UnwrapRaw(fn))

	_, err = Function("", optree.Sentinel)
	assert.Error(t, err)

	d := Date(2024, time.March, 5)
	assert.Equal(t, "new Date(2024, 2, 5).getTime()", optree.UnwrapRaw(d))

	c := New("line", WithID("f")).SetFunction("tooltip.x.formatter", "v", "return v")
	require.NoError(t, c.Err())
	c.AddSeries("s", []any{Date(2024, time.January, 1), 3})
	out := options(t, c)
	assert.Contains(t, out, `"formatter":function(v){return v}`)
	assert.Contains(t, out, `"data":[[new Date(2024, 0, 1).getTime(),3]]`)
}

func TestClone(t *testing.T) {
	c := New("line", WithID("c"))
	cp := c.Clone()
	cp.Set("chart.height", 200)

	assert.Equal(t, c.ID(), cp.ID())
	assert.False(t, c.Tree().Has("chart.height"))
	assert.False(t, strings.Contains(options(t, c), "height"))
}
