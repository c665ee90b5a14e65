package cli

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartkit/pkg/chart"
	errs "github.com/matzehuels/chartkit/pkg/errors"
	"github.com/matzehuels/chartkit/pkg/render/treeviz"
)

// Diagram formats accepted by --diagram.
const (
	diagramDOT = "dot"
	diagramSVG = "svg"
	diagramPNG = "png"
	diagramPDF = "pdf"
)

// inspectFlags holds the flags of the inspect command.
type inspectFlags struct {
	chartID     string
	diagram     string
	output      string
	detailed    bool
	dump        bool
	interactive bool
}

// dumpConfig prints option trees without pointer noise so dumps diff cleanly.
var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// inspectCommand creates the inspect command for looking at the option
// trees a definition file produces.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags inspectFlags

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Show the option paths of the charts in a definition file",
		Long: `Show the option paths of the charts in a definition file.

By default every leaf of every chart is listed in a table. --diagram draws
the option tree with Graphviz instead, --dump prints the internal tree
structure, and -i opens an interactive browser.`,
		Example: `  chartkit inspect charts.toml
  chartkit inspect charts.toml --chart sales -i
  chartkit inspect charts.toml --chart sales --diagram svg -o sales.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.chartID, "chart", "", "inspect only the chart with this id")
	cmd.Flags().StringVar(&flags.diagram, "diagram", "", "draw the option tree: dot, svg, png, pdf")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "diagram output file (default stdout)")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "show leaf values in diagrams")
	cmd.Flags().BoolVar(&flags.dump, "dump", false, "dump the internal tree structure")
	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "browse the options interactively")

	return cmd
}

func (c *CLI) runInspect(cmd *cobra.Command, path string, flags inspectFlags) error {
	_, reg, err := loadCharts(path)
	if err != nil {
		return err
	}
	if flags.chartID != "" {
		if reg, err = selectChart(reg, flags.chartID); err != nil {
			return err
		}
	}
	out := cmd.OutOrStdout()

	switch {
	case flags.interactive:
		ch, err := singleChart(reg, "-i")
		if err != nil {
			return err
		}
		_, err = tea.NewProgram(NewTreeBrowserModel("Chart "+ch.ID(), ch.Tree())).Run()
		return err

	case flags.diagram != "":
		ch, err := singleChart(reg, "--diagram")
		if err != nil {
			return err
		}
		data, err := renderDiagram(ch, flags.diagram, flags.detailed)
		if err != nil {
			return err
		}
		if flags.output == "" {
			_, err = out.Write(data)
			return err
		}
		if err := os.WriteFile(flags.output, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", flags.output, err)
		}
		printSuccess("Drew chart %s", ch.ID())
		printFile(flags.output)
		return nil

	case flags.dump:
		return reg.Each(func(ch *chart.Chart) error {
			fmt.Fprintf(out, "# %s\n", ch.ID())
			dumpConfig.Fdump(out, ch.Tree())
			return nil
		})
	}

	return reg.Each(func(ch *chart.Chart) error {
		return printLeafTable(out, ch)
	})
}

// singleChart returns the only chart of reg, or an error naming flag.
func singleChart(reg *chart.Registry, flag string) (*chart.Chart, error) {
	ids := reg.IDs()
	if len(ids) != 1 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "%s needs a single chart, use --chart to pick one of %v", flag, ids)
	}
	return reg.Lookup(ids[0])
}

// renderDiagram draws the option tree of ch in the given format.
func renderDiagram(ch *chart.Chart, format string, detailed bool) ([]byte, error) {
	dot := treeviz.ToDOT(ch.Tree(), treeviz.Options{Detailed: detailed})
	switch format {
	case diagramDOT:
		return []byte(dot), nil
	case diagramSVG:
		return treeviz.RenderSVG(dot)
	case diagramPNG:
		return treeviz.RenderPNG(dot, 2)
	case diagramPDF:
		return treeviz.RenderPDF(dot)
	}
	return nil, errs.New(errs.ErrCodeInvalidFormat, "invalid diagram format %q (want dot, svg, png or pdf)", format)
}

func printLeafTable(w io.Writer, ch *chart.Chart) error {
	rows := leafRows(ch.Tree())
	fmt.Fprintln(w, StyleTitle.Render(ch.ID())+" "+StyleDim.Render(fmt.Sprintf("(%d options)", len(rows))))
	_, err := fmt.Fprintln(w, leafTable(rows, -1).Render())
	return err
}
