package render

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/chartkit/pkg/cache"
	"github.com/matzehuels/chartkit/pkg/chart"
	errs "github.com/matzehuels/chartkit/pkg/errors"
	"github.com/matzehuels/chartkit/pkg/observability"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil, nil)
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"options", false},
		{"script", false},
		{"html", false},
		{"svg", true},
		{"Script", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if o.Format != DefaultFormat {
		t.Errorf("Format = %q, want %q", o.Format, DefaultFormat)
	}
	if o.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", o.Title, DefaultTitle)
	}
	if o.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	bad := Options{Selector: `#a"b`}
	if err := bad.ValidateAndSetDefaults(); !errs.Is(err, errs.ErrCodeInvalidSelector) {
		t.Errorf("bad selector error = %v", err)
	}
	bad = Options{Format: "pdf"}
	if err := bad.ValidateAndSetDefaults(); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("bad format error = %v", err)
	}
}

func TestSelectorFor(t *testing.T) {
	c := chart.New("line", chart.WithID("sales"))

	tests := []struct {
		opts Options
		want string
	}{
		{Options{Format: FormatScript}, "#chart-sales"},
		{Options{Format: FormatScript, Selector: "#main"}, "#main"},
		{Options{Format: FormatHTML, Selector: "#main"}, "#chart-sales"},
	}
	for _, tt := range tests {
		if got := tt.opts.SelectorFor(c); got != tt.want {
			t.Errorf("SelectorFor(%+v) = %q, want %q", tt.opts, got, tt.want)
		}
	}
}

func TestRenderFormats(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	c := chart.New("line", chart.WithID("a")).AddSeries("s", 1, 2)

	tests := []struct {
		opts Options
		want string
	}{
		{
			Options{Format: FormatOptions},
			`{"chart":{"type":"line"},"series":[{"name":"s","data":[1,2]}]}`,
		},
		{
			Options{Format: FormatOptions, SortKeys: true},
			`{"chart":{"type":"line"},"series":[{"data":[1,2],"name":"s"}]}`,
		},
		{
			Options{Format: FormatScript, Selector: "#x"},
			`var chart_a = new ApexCharts(document.querySelector("#x"), {"chart":{"type":"line"},"series":[{"name":"s","data":[1,2]}]});chart_a.render();`,
		},
		{
			Options{Format: FormatHTML},
			`<div id="chart-a"></div>` + "\n" + `<script>var chart_a = new ApexCharts(document.querySelector("#chart-a"), {"chart":{"type":"line"},"series":[{"name":"s","data":[1,2]}]});chart_a.render();</script>`,
		},
	}
	for _, tt := range tests {
		res, err := r.Render(ctx, c, tt.opts)
		if err != nil {
			t.Fatalf("Render(%s): %v", tt.opts.Format, err)
		}
		if string(res.Output) != tt.want {
			t.Errorf("Render(%s) =\n%s\nwant\n%s", tt.opts.Format, res.Output, tt.want)
		}
		if res.ChartID != "a" || res.Format != tt.opts.Format {
			t.Errorf("Result = %+v", res)
		}
	}
}

func TestRenderPretty(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	c := chart.New("bar", chart.WithID("p"))
	res, err := r.Render(context.Background(), c, Options{Format: FormatOptions, Pretty: true})
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"chart\": {\n    \"type\": \"bar\"\n  }\n}"
	if string(res.Output) != want {
		t.Errorf("pretty output =\n%s\nwant\n%s", res.Output, want)
	}
}

func TestRenderCache(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	opts := Options{Format: FormatScript, Selector: "#c", SortKeys: true}

	// Same tree, different call order.
	first := chart.New("line", chart.WithID("a"))
	first.Title().Text("T")
	first.Legend().Show(false)
	second := chart.New("line", chart.WithID("a"))
	second.Legend().Show(false)
	second.Title().Text("T")

	res1, err := r.Render(ctx, first, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res1.Cached {
		t.Error("first render should miss")
	}
	res2, err := r.Render(ctx, second, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res1.Hash != res2.Hash {
		t.Errorf("hashes differ: %s vs %s", res1.Hash, res2.Hash)
	}
	if !res2.Cached {
		t.Error("equal tree should hit the cache")
	}
	if !bytes.Equal(res1.Output, res2.Output) {
		t.Errorf("cached output = %s, want %s", res2.Output, res1.Output)
	}

	// Different options, different entry.
	res3, err := r.Render(ctx, second, Options{Format: FormatScript, Selector: "#d", SortKeys: true})
	if err != nil {
		t.Fatal(err)
	}
	if res3.Cached {
		t.Error("other selector should miss")
	}

	// Refresh skips the read.
	res4, err := r.Render(ctx, second, Options{Format: FormatScript, Selector: "#c", SortKeys: true, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if res4.Cached {
		t.Error("refresh should not report a hit")
	}
}

func TestRenderCacheChartIdentity(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)

	// Equal trees under different ids bind different variables.
	for _, format := range []string{FormatScript, FormatHTML} {
		opts := Options{Format: format, Selector: "#x"}
		if _, err := r.Render(ctx, chart.New("line", chart.WithID("alpha")), opts); err != nil {
			t.Fatal(err)
		}
		res, err := r.Render(ctx, chart.New("line", chart.WithID("beta")), opts)
		if err != nil {
			t.Fatal(err)
		}
		if res.Cached {
			t.Errorf("%s: other chart id should miss", format)
		}
		if out := string(res.Output); !strings.Contains(out, "chart_beta") || strings.Contains(out, "chart_alpha") {
			t.Errorf("%s: output = %s", format, out)
		}
	}
}

func TestRenderCacheKeyOrder(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)

	first := chart.New("line", chart.WithID("a"))
	first.Title().Text("T")
	first.Legend().Show(false)
	second := chart.New("line", chart.WithID("a"))
	second.Legend().Show(false)
	second.Title().Text("T")

	opts := Options{Format: FormatOptions}
	if _, err := r.Render(ctx, first, opts); err != nil {
		t.Fatal(err)
	}
	res, err := r.Render(ctx, second, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Cached {
		t.Error("unsorted output with another key order should miss")
	}
	want := `{"chart":{"type":"line"},"legend":{"show":false},"title":{"text":"T"}}`
	if string(res.Output) != want {
		t.Errorf("output = %s, want %s", res.Output, want)
	}
}

func TestRenderStickyError(t *testing.T) {
	r := newTestRunner(t)
	c := chart.New("line", chart.WithID("a"))
	c.Set("chart.type.name", "x") // chart.type is a string

	_, err := r.Render(context.Background(), c, Options{})
	if !errs.Is(err, errs.ErrCodePathConflict) {
		t.Fatalf("Render error = %v, want PATH_CONFLICT", err)
	}
	if !strings.Contains(err.Error(), `"a"`) {
		t.Errorf("error should name the chart: %v", err)
	}
}

func TestRenderAll(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	reg := chart.NewRegistry()
	for _, id := range []string{"z", "a", "m"} {
		if err := reg.Add(chart.New("bar", chart.WithID(id))); err != nil {
			t.Fatal(err)
		}
	}

	results, err := r.RenderAll(ctx, reg, Options{Format: FormatOptions})
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, res := range results {
		ids = append(ids, res.ChartID)
	}
	if strings.Join(ids, ",") != "z,a,m" {
		t.Errorf("RenderAll order = %v", ids)
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := r.RenderAll(cctx, reg, Options{}); err != context.Canceled {
		t.Errorf("RenderAll on canceled ctx = %v", err)
	}
}

func TestRenderPage(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	reg := chart.NewRegistry()
	_ = reg.Add(chart.New("line", chart.WithID("sales")))
	_ = reg.Add(chart.New("pie", chart.WithID("share")))

	page, err := r.RenderPage(ctx, reg, Options{Title: "Report <Q1>"})
	if err != nil {
		t.Fatal(err)
	}
	out := string(page.Output)
	for _, want := range []string{
		"<!DOCTYPE html>",
		ApexChartsURL,
		"<title>Report &lt;Q1&gt;</title>",
		`<div id="chart-sales"></div>`,
		`<div id="chart-share"></div>`,
		`document.querySelector("#chart-share")`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(out, "WebSocket") {
		t.Error("page without live reload should not open a websocket")
	}
	if strings.Index(out, "chart-sales") > strings.Index(out, "chart-share") {
		t.Error("charts should appear in registry order")
	}

	again, err := r.RenderPage(ctx, reg, Options{Title: "Report <Q1>"})
	if err != nil {
		t.Fatal(err)
	}
	if !again.Cached || !bytes.Equal(again.Output, page.Output) {
		t.Error("second page render should be served from cache")
	}

	live, err := r.RenderPage(ctx, reg, Options{Title: "Report <Q1>", LiveReload: true})
	if err != nil {
		t.Fatal(err)
	}
	if live.Cached {
		t.Error("live page must not share the static page entry")
	}
	if !strings.Contains(string(live.Output), `new WebSocket(proto + location.host + "/ws")`) {
		t.Error("live page should include the reload client")
	}
}

func TestPageRejectsNonHTML(t *testing.T) {
	_, err := Page("t", []*Result{{ChartID: "a", Format: FormatScript}}, false)
	if err == nil {
		t.Error("Page should reject script results")
	}
}

type countingHooks struct {
	observability.NoopRenderHooks
	observability.NoopCacheHooks
	starts, completes, hits, misses int
}

func (h *countingHooks) OnRenderStart(context.Context, string, string) { h.starts++ }
func (h *countingHooks) OnRenderComplete(context.Context, string, string, int, bool, time.Duration, error) {
	h.completes++
}
func (h *countingHooks) OnCacheHit(context.Context, string)  { h.hits++ }
func (h *countingHooks) OnCacheMiss(context.Context, string) { h.misses++ }

func TestRenderHooks(t *testing.T) {
	defer observability.Reset()
	h := &countingHooks{}
	observability.SetRenderHooks(h)
	observability.SetCacheHooks(h)

	r := newTestRunner(t)
	c := chart.New("line", chart.WithID("a"))
	for range 2 {
		if _, err := r.Render(context.Background(), c, Options{}); err != nil {
			t.Fatal(err)
		}
	}
	if h.starts != 2 || h.completes != 2 {
		t.Errorf("render hooks = %d starts, %d completes, want 2 each", h.starts, h.completes)
	}
	if h.misses != 1 || h.hits != 1 {
		t.Errorf("cache hooks = %d misses, %d hits, want 1 each", h.misses, h.hits)
	}
}

func TestConvertWithoutRsvg(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	if _, err := ToPNG([]byte("<svg/>"), 2); errs.GetCode(err) != errs.ErrCodeUnsupported {
		t.Errorf("ToPNG without rsvg-convert = %v, want UNSUPPORTED", err)
	}
	if _, err := ToPDF([]byte("<svg/>")); !strings.Contains(errs.UserMessage(err), "librsvg") {
		t.Errorf("ToPDF error %q should name the package to install", errs.UserMessage(err))
	}
}
