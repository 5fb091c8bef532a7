package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/docgraph/pkg/errors"
	"github.com/matzehuels/docgraph/pkg/graph"
	"github.com/matzehuels/docgraph/pkg/pipeline"
	"github.com/matzehuels/docgraph/pkg/render/nodelink"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	format       string // output format: "json", "dot" or "svg"
	output       string // output file, stdout when empty
	detailed     bool   // add depths to node labels
	hideExternal bool   // drop edges to non-node targets
}

// graphCommand creates the graph command for exporting the document graph.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: formatJSON}

	cmd := &cobra.Command{
		Use:   "graph [entrypoint...]",
		Short: "Export the document graph as JSON, DOT or SVG",
		Args:  usageArgs(cobra.ArbitraryArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format, formatJSON, formatDOT, formatSVG); err != nil {
				return err
			}
			popts, _, err := c.pipelineOptions(cmd, args)
			if err != nil {
				return err
			}
			return c.runGraph(cmd.Context(), popts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: json, dot, svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show link depth in node labels (dot, svg)")
	cmd.Flags().BoolVar(&opts.hideExternal, "hide-external", false, "omit links to files outside the graph (dot, svg)")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, popts pipeline.Options, opts graphOpts) error {
	built, err := c.newRunner().Build(ctx, popts)
	if err != nil {
		return err
	}
	g := built.Graph

	data, err := c.encodeGraph(ctx, g, built.BaseDir, opts)
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := c.out.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", opts.output)
	}
	c.printSuccess("Wrote graph")
	c.printFile(opts.output)
	c.printStats(g.NodeCount(), g.EdgeCount(), len(built.External))
	return nil
}

func (c *CLI) encodeGraph(ctx context.Context, g *graph.Graph, base string, opts graphOpts) ([]byte, error) {
	if opts.format == formatJSON {
		return graph.Marshal(g, base)
	}

	dot := nodelink.ToDOT(g, nodelink.Options{
		Base:         base,
		Detailed:     opts.detailed,
		HideExternal: opts.hideExternal,
	})
	if opts.format == formatDOT {
		return []byte(dot), nil
	}

	spinner := newSpinnerWithContext(ctx, c.spinnerWriter(), "Rendering SVG...")
	spinner.Start()
	svg, err := nodelink.RenderSVG(ctx, dot)
	spinner.Stop()
	if err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}
	return svg, nil
}

// spinnerWriter returns where progress animations go: the log stream when
// it is a terminal, nowhere otherwise.
func (c *CLI) spinnerWriter() io.Writer {
	if f, ok := c.errw.(*os.File); ok {
		if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			return f
		}
	}
	return io.Discard
}
