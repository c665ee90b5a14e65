package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartkit/pkg/chart"
	"github.com/matzehuels/chartkit/pkg/render"
)

// renderFlags holds the flags of the render command.
type renderFlags struct {
	output   string
	format   string
	chartID  string
	selector string
	sortKeys bool
	pretty   bool
	refresh  bool
	cache    cacheOpts
}

// renderCommand creates the render command for turning definition files
// into options, scripts or a preview page.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a chart definition file",
		Long: `Render a TOML, YAML or JSON chart definition file.

Formats:
  options  the option object of each chart as JSON
  script   a script creating and rendering each chart (default)
  html     a standalone page showing every chart`,
		Example: `  chartkit render charts.toml
  chartkit render charts.yaml --format html -o report.html
  chartkit render charts.json --format options --chart sales --pretty`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", render.DefaultFormat, "output format: options, script, html")
	cmd.Flags().StringVar(&flags.chartID, "chart", "", "render only the chart with this id")
	cmd.Flags().StringVar(&flags.selector, "selector", "", "CSS selector of the target element for scripts (default #chart-<id>)")
	cmd.Flags().BoolVar(&flags.sortKeys, "sort-keys", false, "sort object keys in the output")
	cmd.Flags().BoolVar(&flags.pretty, "pretty", false, "indent the JSON output")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached output")
	flags.cache.register(cmd)

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, flags renderFlags) error {
	ctx := withLogger(cmd.Context(), c.Logger)
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	doc, reg, err := loadCharts(path)
	if err != nil {
		return err
	}
	if flags.chartID != "" {
		reg, err = selectChart(reg, flags.chartID)
		if err != nil {
			return err
		}
	}

	runner, err := c.newRunner(ctx, flags.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := render.Options{
		Format:   flags.format,
		SortKeys: flags.sortKeys,
		Pretty:   flags.pretty,
		Selector: flags.selector,
		Refresh:  flags.refresh,
		Title:    doc.Title,
		Logger:   logger,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	var (
		out    []byte
		cached int
	)
	if opts.Format == render.FormatHTML {
		page, err := runner.RenderPage(ctx, reg, opts)
		if err != nil {
			return err
		}
		out = page.Output
		for _, r := range page.Charts {
			if r.Cached {
				cached++
			}
		}
	} else {
		results, err := runner.RenderAll(ctx, reg, opts)
		if err != nil {
			return err
		}
		out = joinOutputs(results)
		for _, r := range results {
			if r.Cached {
				cached++
			}
		}
	}

	prog.done("rendered", "charts", reg.Len(), "cached", cached, "format", opts.Format)

	if flags.output == "" {
		_, err := cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(flags.output, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", flags.output, err)
	}
	printSuccess("Rendered %s", path)
	printFile(flags.output)
	printStats(reg.Len(), cached)
	if opts.Format == render.FormatHTML {
		printNextStep("Preview with live reload", "chartkit serve "+path+" --watch")
	}
	return nil
}

// selectChart returns a registry holding only the chart with the given id.
func selectChart(reg *chart.Registry, id string) (*chart.Registry, error) {
	ch, err := reg.Lookup(id)
	if err != nil {
		return nil, err
	}
	one := chart.NewRegistry()
	if err := one.Add(ch); err != nil {
		return nil, err
	}
	return one, nil
}

// joinOutputs concatenates per-chart outputs, one per line.
func joinOutputs(results []*render.Result) []byte {
	var buf bytes.Buffer
	for _, r := range results {
		buf.Write(r.Output)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
