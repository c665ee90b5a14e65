// Package render turns built charts into output: option objects, scripts,
// HTML fragments and preview pages.
//
// # Overview
//
// A [Runner] renders charts through a [cache.Cache]. Every chart is first
// encoded canonically (sorted keys, compact) and hashed; the hash plus the
// render [Options] form the cache key. Two charts that describe the same
// option tree therefore share one entry, no matter in which order their
// options were set.
//
//	runner := render.NewRunner(c, nil, logger)
//	res, err := runner.Render(ctx, ch, render.Options{Format: render.FormatScript})
//	fmt.Println(string(res.Output))
//
// [Runner.RenderAll] renders a whole [chart.Registry] in registry order and
// [Runner.RenderPage] assembles the results into a standalone HTML page
// that loads ApexCharts from a CDN.
//
// # Formats
//
//   - options: the option object, {"chart":{"type":"line"},...}
//   - script: var chart_<id> = new ApexCharts(document.querySelector(sel), {...});chart_<id>.render();
//   - html: <div id="chart-<id>"></div> followed by the script
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). The [treeviz] subpackage
// uses them to export option tree diagrams.
//
// [treeviz]: github.com/matzehuels/chartkit/pkg/render/treeviz
package render
