// Package treeviz draws option trees as node-link diagrams.
//
// # Overview
//
// Every map key becomes a box and every edge runs from a map to one of its
// keys. Lists become a single box labelled with their length, with one child
// per map item. Scalars are leaves. Raw code leaves are drawn dashed so that
// the spans emitted verbatim stand out.
//
// # Usage
//
//	dot := treeviz.ToDOT(tree, treeviz.Options{Detailed: true})
//	svg, err := treeviz.RenderSVG(dot)
//
// The DOT source can also be saved and processed with external Graphviz
// tools. PDF and PNG output go through [render.ToPDF] and [render.ToPNG].
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is needed.
//
// [render.ToPDF]: github.com/matzehuels/chartkit/pkg/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/chartkit/pkg/render.ToPNG
package treeviz
