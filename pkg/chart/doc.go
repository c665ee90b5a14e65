// Package chart provides fluent builders for ApexCharts option objects.
//
// A [Chart] owns one [optree.Tree]. Option groups such as [Chart.Toolbar] or
// [Chart.XAxis] are thin views rooted at a path prefix that write into that
// tree, so any number of groups can be combined on one chart:
//
//	c := chart.New("line", chart.WithID("sales"), chart.WithHeight(350))
//	c.Title().Text("Monthly sales").Align("center")
//	c.XAxis().Categories("Jan", "Feb", "Mar")
//	c.YAxis().Formatter("function(v){return '$' + v}")
//	c.AddSeries("2024", 10, 41, 35)
//	script, err := c.Script("#sales")
//
// Options not covered by a group are reachable through [Chart.Set],
// [Chart.Append] and [Chart.SetRaw] with a dot path.
//
// # Errors
//
// Builder methods return the chart for chaining and record the first error
// instead of returning it. [Chart.Err] reports it, and [Chart.Options],
// [Chart.Script] and [Registry.Add] refuse a chart that failed.
//
// # Annotations
//
// Annotation entities start from built-in defaults (dashed grey line, purple
// label) that are deep-merged with the caller's options via
// [optree.MergeDefaults] before being appended to the chart.
//
// [optree.Tree]: github.com/matzehuels/chartkit/pkg/optree.Tree
// [optree.MergeDefaults]: github.com/matzehuels/chartkit/pkg/optree.MergeDefaults
package chart
