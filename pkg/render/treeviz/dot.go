package treeviz

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/chartkit/pkg/optree"
	"github.com/matzehuels/chartkit/pkg/render"
)

// rootID is the DOT identifier of the root node. Paths never start with a
// dot, so it cannot clash with a key.
const rootID = "."

// Options configures diagram generation.
type Options struct {
	// Detailed appends the encoded value to every leaf label.
	// When false, leaves show only their key.
	Detailed bool

	// MaxValueLen truncates values in detailed labels. Zero means 32.
	MaxValueLen int
}

// ToDOT converts an option tree to Graphviz DOT source, walking maps in
// insertion order.
func ToDOT(t *optree.Tree, opts Options) string {
	if opts.MaxValueLen <= 0 {
		opts.MaxValueLen = 32
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.15;\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [label=\"options\", fillcolor=lightgrey];\n", rootID)
	w := &writer{buf: &buf, opts: opts}
	w.walkMap(t.Root(), rootID, "")

	buf.WriteString("}\n")
	return buf.String()
}

type writer struct {
	buf  *bytes.Buffer
	opts Options
}

func (w *writer) walkMap(m *optree.Map, parentID, prefix string) {
	m.Range(func(key string, v optree.Value) bool {
		id := key
		if prefix != "" {
			id = prefix + "." + key
		}
		w.node(id, key, v)
		fmt.Fprintf(w.buf, "  %q -> %q;\n", parentID, id)
		w.children(id, v)
		return true
	})
}

func (w *writer) children(id string, v optree.Value) {
	switch v.Kind() {
	case optree.KindMap:
		w.walkMap(v.ToMap(), id, id)
	case optree.KindList:
		v.ToList().Range(func(i int, item optree.Value) bool {
			if item.Kind() != optree.KindMap && item.Kind() != optree.KindList {
				return true
			}
			itemID := id + "[" + strconv.Itoa(i) + "]"
			w.node(itemID, "["+strconv.Itoa(i)+"]", item)
			fmt.Fprintf(w.buf, "  %q -> %q;\n", id, itemID)
			w.children(itemID, item)
			return true
		})
	}
}

func (w *writer) node(id, key string, v optree.Value) {
	label := fmtLabel(key, v, w.opts)
	attrs := fmtAttrs(v, label)
	fmt.Fprintf(w.buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
}

func fmtLabel(key string, v optree.Value, opts Options) string {
	switch v.Kind() {
	case optree.KindMap:
		return key
	case optree.KindList:
		return fmt.Sprintf("%s [%d]", key, v.ToList().Len())
	}
	if !opts.Detailed {
		return key
	}
	text := v.String()
	if optree.IsRaw(v) {
		text = optree.UnwrapRaw(v)
	}
	if r := []rune(text); len(r) > opts.MaxValueLen {
		text = string(r[:opts.MaxValueLen]) + "..."
	}
	return key + "\n" + text
}

func fmtAttrs(v optree.Value, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch v.Kind() {
	case optree.KindRaw:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightyellow", "fontname=Courier")
	case optree.KindList:
		attrs = append(attrs, "shape=box3d")
	case optree.KindMap:
		attrs = append(attrs, "fillcolor=aliceblue")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz svg header with one whose viewBox
// starts at the origin and whose size matches it, so browsers scale the
// diagram instead of clipping it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}
