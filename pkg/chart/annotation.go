package chart

import (
	"fmt"
	"sort"

	errs "github.com/matzehuels/chartkit/pkg/errors"
	"github.com/matzehuels/chartkit/pkg/optree"
)

// AnnotationKind selects the annotations list an entity is stored in.
type AnnotationKind string

const (
	AnnotationPoint AnnotationKind = "point"
	AnnotationXAxis AnnotationKind = "xaxis"
	AnnotationYAxis AnnotationKind = "yaxis"
)

var annotationPaths = map[AnnotationKind]string{
	AnnotationPoint: "annotations.points",
	AnnotationXAxis: "annotations.xaxis",
	AnnotationYAxis: "annotations.yaxis",
}

// ParseAnnotationKind validates an annotation kind read from user input.
func ParseAnnotationKind(s string) (AnnotationKind, error) {
	k := AnnotationKind(s)
	if _, ok := annotationPaths[k]; !ok {
		return "", errs.New(errs.ErrCodeInvalidInput, "unknown annotation kind %q (want point, xaxis or yaxis)", s)
	}
	return k, nil
}

// annotationDefaults returns a fresh defaults tree for kind. Each call builds
// a new tree, and MergeDefaults copies it again, so entities never share
// containers.
func annotationDefaults(kind AnnotationKind) *optree.Tree {
	d := optree.New()
	must := func(err error) {
		if err != nil {
			panic(fmt.Sprintf("annotation defaults: %v", err))
		}
	}
	must(d.Set("strokeDashArray", 1))
	must(d.Set("borderColor", "#c2c2c2"))
	must(d.Set("label.borderColor", "#775DD0"))
	must(d.Set("label.style.background", "#775DD0"))
	must(d.Set("label.style.color", "#fff"))
	switch kind {
	case AnnotationPoint:
		must(d.Set("marker.size", 4))
		must(d.Set("marker.fillColor", "#fff"))
		must(d.Set("marker.strokeColor", "#FF4560"))
	case AnnotationXAxis, AnnotationYAxis:
		must(d.Set("opacity", 0.3))
		must(d.Set("label.orientation", orientation(kind)))
	}
	return d
}

func orientation(kind AnnotationKind) string {
	if kind == AnnotationXAxis {
		return "vertical"
	}
	return "horizontal"
}

// overridesTree turns caller options into a tree. Keys may be dot paths
// ("label.text") or plain keys holding nested maps; they are applied in
// sorted order so a nested map is written before dot keys beneath it.
func overridesTree(opts map[string]any) (*optree.Tree, error) {
	t := optree.New()
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := t.Set(k, opts[k]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// AddAnnotation builds an annotation entity from the built-in defaults of
// kind merged with opts, and appends it to the matching annotations list.
func (c *Chart) AddAnnotation(kind AnnotationKind, opts map[string]any) *Chart {
	if c.err != nil {
		return c
	}
	path, ok := annotationPaths[kind]
	if !ok {
		c.fail(errs.New(errs.ErrCodeInvalidInput, "unknown annotation kind %q", kind))
		return c
	}
	over, err := overridesTree(opts)
	if err != nil {
		c.fail(fmt.Errorf("chart %s: %s annotation: %w", c.id, kind, err))
		return c
	}
	entity := optree.MergeDefaults(annotationDefaults(kind), over)
	return c.Append(path, entity)
}

// AddPointAnnotation marks the point (x, y) with a labelled marker.
func (c *Chart) AddPointAnnotation(x, y any, label string, opts map[string]any) *Chart {
	return c.AddAnnotation(AnnotationPoint, withAnnotationKeys(opts, map[string]any{"x": x, "y": y, "label.text": label}))
}

// AddXAxisAnnotation draws a vertical line at x.
func (c *Chart) AddXAxisAnnotation(x any, label string, opts map[string]any) *Chart {
	return c.AddAnnotation(AnnotationXAxis, withAnnotationKeys(opts, map[string]any{"x": x, "label.text": label}))
}

// AddYAxisAnnotation draws a horizontal line at y.
func (c *Chart) AddYAxisAnnotation(y any, label string, opts map[string]any) *Chart {
	return c.AddAnnotation(AnnotationYAxis, withAnnotationKeys(opts, map[string]any{"y": y, "label.text": label}))
}

// withAnnotationKeys layers the positional arguments over opts without
// modifying the caller's map. An empty label leaves the label text unset.
func withAnnotationKeys(opts, keys map[string]any) map[string]any {
	out := make(map[string]any, len(opts)+len(keys))
	for k, v := range opts {
		out[k] = v
	}
	for k, v := range keys {
		if k == "label.text" && v == "" {
			continue
		}
		out[k] = v
	}
	return out
}
