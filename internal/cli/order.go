package cli

import (
	"bufio"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/docgraph/pkg/errors"
	"github.com/matzehuels/docgraph/pkg/pipeline"
)

// orderCommand creates the order command, which lists graph files so that
// every file follows the files it links to.
func (c *CLI) orderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "order [entrypoint...]",
		Short: "List reachable files leaves first",
		Args:  usageArgs(cobra.ArbitraryArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, _, err := c.pipelineOptions(cmd, args)
			if err != nil {
				return err
			}
			built, err := c.newRunner().Build(cmd.Context(), popts)
			if err != nil {
				return err
			}
			for _, f := range pipeline.Order(built.Graph, built.BaseDir) {
				c.printf("%s\n", f)
			}
			return nil
		},
	}
}

// concatOpts holds the command-line flags for the concat command.
type concatOpts struct {
	output    string // output file, stdout when empty
	headers   bool   // precede each file with a comment naming it
	separator string // written between files
}

// concatCommand creates the concat command.
func (c *CLI) concatCommand() *cobra.Command {
	var opts concatOpts

	cmd := &cobra.Command{
		Use:   "concat [entrypoint...]",
		Short: "Concatenate reachable files leaves first",
		Long: `Write the content of every reachable file in dependency order: a file
appears after every file it links to. Files in a link cycle are written
once each.`,
		Args: usageArgs(cobra.ArbitraryArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, _, err := c.pipelineOptions(cmd, args)
			if err != nil {
				return err
			}
			runner := c.newRunner()
			built, err := runner.Build(cmd.Context(), popts)
			if err != nil {
				return err
			}

			w := c.out
			if opts.output != "" {
				f, err := os.Create(opts.output)
				if err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "create %s", opts.output)
				}
				defer f.Close()
				w = f
			}
			bw := bufio.NewWriter(w)
			err = pipeline.Concat(cmd.Context(), runner.Cache, built.Graph, bw, pipeline.ConcatOptions{
				Base:      built.BaseDir,
				Headers:   opts.headers,
				Separator: opts.separator,
			})
			if err != nil {
				return err
			}
			if err := bw.Flush(); err != nil {
				return err
			}
			if opts.output != "" {
				c.printSuccess("Wrote %s", plural(built.Graph.NodeCount(), "file"))
				c.printFile(opts.output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.headers, "headers", false, "precede each file with an HTML comment naming it")
	cmd.Flags().StringVar(&opts.separator, "separator", "", "text written between files (default a blank line)")

	return cmd
}
