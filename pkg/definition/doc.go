// Package definition loads chart definitions from TOML, YAML or JSON files.
//
// A definition file holds a set of default options and a list of charts:
//
//	title = "Quarterly report"
//
//	[defaults]
//	"chart.toolbar.show" = false
//
//	[[charts]]
//	id = "sales"
//	type = "line"
//	height = 350
//
//	[charts.options]
//	"title.text" = "Sales"
//	"yaxis.labels.formatter" = "###FUNCTION###function(v){return '$' + v}###FUNCTION###"
//
//	[[charts.series]]
//	name = "2024"
//	data = [10, 41, 35]
//
// The format is chosen from the file extension (.toml, .yaml, .yml, .json).
// All three formats share the same field names.
//
// Option tables accept dot paths at their top level. Since files can only
// carry strings, raw JavaScript is written in the marked form shown above
// and becomes raw code when the options are read.
//
// [Document.Build] merges the defaults under each chart's options with
// [optree.MergeDefaults] and returns the charts in a [chart.Registry].
//
// [optree.MergeDefaults]: github.com/matzehuels/chartkit/pkg/optree.MergeDefaults
// [chart.Registry]: github.com/matzehuels/chartkit/pkg/chart.Registry
package definition
