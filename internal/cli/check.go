package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/docgraph/pkg/check"
	"github.com/matzehuels/docgraph/pkg/exclude"
	"github.com/matzehuels/docgraph/pkg/pipeline"
	"github.com/matzehuels/docgraph/pkg/watch"
)

// checkOpts holds the command-line flags for the check command.
type checkOpts struct {
	format    string // output format: "text" or "json"
	watch     bool   // re-run on markdown changes
	noOrphans bool   // skip the orphan scan
}

// checkCommand creates the check command: build, orphan scan and link
// validation in one run.
func (c *CLI) checkCommand() *cobra.Command {
	opts := checkOpts{format: formatText}

	cmd := &cobra.Command{
		Use:   "check [entrypoint...]",
		Short: "Report orphaned files, dead links and dead anchors",
		Long: `Build the document graph from the entry points, then report every markdown
file no entry point reaches and every link whose target file or heading
does not exist.

Exits 1 when any finding has error severity.`,
		Args: usageArgs(cobra.ArbitraryArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format, formatText, formatJSON); err != nil {
				return err
			}
			popts, _, err := c.pipelineOptions(cmd, args)
			if err != nil {
				return err
			}
			popts.SkipOrphans = opts.noOrphans
			if opts.watch {
				return c.watchCheck(cmd.Context(), popts, opts)
			}
			_, err = c.runCheck(cmd.Context(), c.newRunner(), popts, opts)
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text, json")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-run whenever a markdown file changes")
	cmd.Flags().BoolVar(&opts.noOrphans, "no-orphans", false, "skip the orphan scan")

	return cmd
}

// runCheck executes one pipeline run and prints its report. The result is
// returned alongside errFindings.
func (c *CLI) runCheck(ctx context.Context, runner *pipeline.Runner, popts pipeline.Options, opts checkOpts) (*pipeline.Result, error) {
	prog := newProgress(loggerFromContext(ctx))
	result, err := runner.Execute(ctx, popts)
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Checked %s", plural(result.Stats.NodeCount, "file")))

	if err := c.printReport(result, opts.format); err != nil {
		return nil, err
	}
	if check.HasErrors(result.Findings) {
		return result, errFindings
	}
	return result, nil
}

func (c *CLI) printReport(result *pipeline.Result, format string) error {
	if format == formatJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Report())
	}
	for _, f := range result.Findings {
		c.printFinding(f)
	}
	if len(result.Findings) > 0 {
		c.printNewline()
	}
	c.printSummary(result.Summary, result.Stats.NodeCount)
	return nil
}

// watchCheck runs check once, then again after every batch of markdown
// changes until interrupted. Each run starts from an empty cache. The
// watcher covers the first run's root: its scope root, or the base
// directory when scope limiting is off.
func (c *CLI) watchCheck(ctx context.Context, popts pipeline.Options, opts checkOpts) error {
	runner := c.newRunner()
	logger := loggerFromContext(ctx)

	rerun := func() (*pipeline.Result, error) {
		runner.Reset()
		result, err := c.runCheck(ctx, runner, popts, opts)
		if stderrors.Is(err, errFindings) {
			err = nil
		}
		return result, err
	}
	result, err := rerun()
	if err != nil {
		return err
	}

	root := result.Root()
	matcher, err := exclude.New(withBase(popts.Exclude, popts.BaseDir))
	if err != nil {
		return err
	}
	w, err := watch.New(root, watch.Options{Exclude: matcher, Logger: logger})
	if err != nil {
		return err
	}
	defer w.Close()

	c.printInfo("watching %s for changes", StyleHighlight.Render(root))
	return w.Run(ctx, func(ctx context.Context, changed []string) error {
		logger.Info("files changed", "count", len(changed))
		c.printNewline()
		_, err := rerun()
		return err
	})
}

func withBase(opts exclude.Options, base string) exclude.Options {
	if opts.BaseDir == "" {
		opts.BaseDir = base
	}
	return opts
}

// orphansCommand creates the orphans command.
func (c *CLI) orphansCommand() *cobra.Command {
	format := formatText

	cmd := &cobra.Command{
		Use:   "orphans [entrypoint...]",
		Short: "List markdown files no entry point reaches",
		Args:  usageArgs(cobra.ArbitraryArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format, formatText, formatJSON); err != nil {
				return err
			}
			popts, _, err := c.pipelineOptions(cmd, args)
			if err != nil {
				return err
			}
			popts.SkipValidation = true

			result, err := c.newRunner().Execute(cmd.Context(), popts)
			if err != nil {
				return err
			}

			if format == formatJSON {
				if err := c.printReport(result, format); err != nil {
					return err
				}
			} else if len(result.Findings) == 0 {
				c.printSuccess("no orphans among %s", plural(len(result.Files), "file"))
			} else {
				c.printError("%s not reachable from any entry point", plural(len(result.Findings), "file"))
				for _, f := range result.Findings {
					c.printFile(f.File)
				}
			}
			if len(result.Findings) > 0 {
				return errFindings
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", format, "output format: text, json")
	return cmd
}
