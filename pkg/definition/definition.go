package definition

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/chartkit/pkg/errors"
)

// Format identifies the syntax of a definition file.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "unsupported definition file %q (want .toml, .yaml, .yml or .json)", path)
}

// Document is a parsed definition file.
type Document struct {
	// Title is used as the heading of the preview page.
	Title string `toml:"title" yaml:"title" json:"title"`

	// Defaults are merged under every chart's options.
	Defaults Options `toml:"defaults" yaml:"defaults" json:"defaults"`

	Charts []ChartDef `toml:"charts" yaml:"charts" json:"charts"`
}

// ChartDef declares one chart.
type ChartDef struct {
	// ID names the chart. Charts without one are numbered chart1, chart2, ...
	ID          string          `toml:"id" yaml:"id" json:"id"`
	Type        string          `toml:"type" yaml:"type" json:"type"`
	Height      any             `toml:"height" yaml:"height" json:"height"`
	Width       any             `toml:"width" yaml:"width" json:"width"`
	Options     Options         `toml:"options" yaml:"options" json:"options"`
	Series      []SeriesDef     `toml:"series" yaml:"series" json:"series"`
	Colors      []string        `toml:"colors" yaml:"colors" json:"colors"`
	Labels      []string        `toml:"labels" yaml:"labels" json:"labels"`
	Annotations []AnnotationDef `toml:"annotations" yaml:"annotations" json:"annotations"`
}

// SeriesDef declares one entry of the series list.
type SeriesDef struct {
	Name string `toml:"name" yaml:"name" json:"name"`
	// Type overrides the chart type for this series in combo charts.
	Type string `toml:"type" yaml:"type" json:"type"`
	Data []any  `toml:"data" yaml:"data" json:"data"`
}

// AnnotationDef declares a point, xaxis or yaxis annotation.
type AnnotationDef struct {
	Kind    string         `toml:"kind" yaml:"kind" json:"kind"`
	Options map[string]any `toml:"options" yaml:"options" json:"options"`
}

// Load reads and parses a definition file, picking the format from its
// extension.
func Load(path string) (*Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "definition file %s not found", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read %s", path)
	}
	doc, err := Parse(data, format)
	if err != nil {
		return nil, errs.Wrap(errs.GetCode(err), err, "load %s", path)
	}
	return doc, nil
}

// Parse decodes a definition document. Unknown fields outside option
// tables are rejected in every format.
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document
	var err error
	switch format {
	case FormatTOML:
		err = parseTOML(data, &doc)
	case FormatYAML:
		err = parseYAML(data, &doc)
	case FormatJSON:
		err = parseJSON(data, &doc)
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	if err != nil {
		if errs.GetCode(err) != "" {
			return nil, err
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse %s", format)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func parseTOML(data []byte, doc *Document) error {
	md, err := toml.Decode(string(data), doc)
	if err != nil {
		return err
	}
	var unknown []string
	for _, key := range md.Undecoded() {
		if !insideOptions(key) {
			unknown = append(unknown, key.String())
		}
	}
	if len(unknown) > 0 {
		return errs.New(errs.ErrCodeInvalidDefinition, "unknown keys: %s", strings.Join(unknown, ", "))
	}
	return nil
}

// insideOptions reports whether a TOML key lies in a free-form option
// table, whose keys are not fields.
func insideOptions(key toml.Key) bool {
	return (len(key) > 0 && key[0] == "defaults") || slices.Contains(key, "options") || slices.Contains(key, "data")
}

func parseYAML(data []byte, doc *Document) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(doc); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func parseJSON(data []byte, doc *Document) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	return dec.Decode(doc)
}

func (d *Document) validate() error {
	for i := range d.Charts {
		c := &d.Charts[i]
		if c.ID == "" {
			c.ID = "chart" + strconv.Itoa(i+1)
		}
		if err := errs.ValidateChartID(c.ID); err != nil {
			return err
		}
		if c.Type == "" {
			return errs.New(errs.ErrCodeInvalidDefinition, "chart %q has no type", c.ID)
		}
		for j, a := range c.Annotations {
			if a.Kind == "" {
				return errs.New(errs.ErrCodeInvalidDefinition, "chart %q: annotation %d has no kind", c.ID, j+1)
			}
		}
	}
	return nil
}
