package definition

import (
	"fmt"

	"github.com/matzehuels/chartkit/pkg/chart"
	"github.com/matzehuels/chartkit/pkg/optree"
)

// Build creates the charts of the document in file order. Document defaults
// are merged under each chart's options, so chart options win and lists are
// replaced rather than concatenated.
func (d *Document) Build() (*chart.Registry, error) {
	reg := chart.NewRegistry()
	for i := range d.Charts {
		c, err := d.BuildChart(i)
		if err != nil {
			return nil, err
		}
		if err := reg.Add(c); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// BuildChart creates the i-th chart of the document.
func (d *Document) BuildChart(i int) (*chart.Chart, error) {
	def := d.Charts[i]

	// Explicit type and size win over both option tables.
	c := chart.New("", chart.WithID(def.ID))
	c.Merge(optree.MergeDefaults(d.Defaults.Tree(), def.Options.Tree()))
	c.Set("chart.type", def.Type)
	if def.Height != nil {
		c.Set("chart.height", normalize(def.Height))
	}
	if def.Width != nil {
		c.Set("chart.width", normalize(def.Width))
	}

	for _, s := range def.Series {
		entry := map[string]any{"name": s.Name, "data": normalize(dataOrEmpty(s.Data))}
		if s.Type != "" {
			entry["type"] = s.Type
		}
		c.Append("series", entry)
	}
	c.AddColor(def.Colors...)
	c.AddLabel(def.Labels...)

	for _, a := range def.Annotations {
		kind, err := chart.ParseAnnotationKind(a.Kind)
		if err != nil {
			return nil, fmt.Errorf("chart %q: %w", def.ID, err)
		}
		c.AddAnnotation(kind, normalize(a.Options).(map[string]any))
	}

	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("chart %q: %w", def.ID, err)
	}
	return c, nil
}

func dataOrEmpty(data []any) []any {
	if data == nil {
		return []any{}
	}
	return data
}
