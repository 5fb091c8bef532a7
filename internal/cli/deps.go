package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/docgraph/pkg/deps"
)

const (
	formatTree = "tree"
	formatList = "list"
)

// depsOpts holds the command-line flags for the deps command.
type depsOpts struct {
	incoming bool   // include files linking to the target
	outgoing bool   // include files the target links to
	depth    int    // tree depth limit, 0 for unlimited
	format   string // output format: "tree", "list" or "json"
}

// depsCommand creates the deps command for per-file dependency reports.
func (c *CLI) depsCommand() *cobra.Command {
	opts := depsOpts{format: formatTree}

	cmd := &cobra.Command{
		Use:   "deps <file>",
		Short: "Show what a file links to and what links to it",
		Long: `Build the document graph, then print the outgoing (dependencies) and
incoming (dependents) link trees of one file. Links that loop back to a
file already on the current branch are marked as cycles.

Without --incoming or --outgoing both directions are shown.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format, formatTree, formatList, formatJSON); err != nil {
				return err
			}
			popts, cfg, err := c.pipelineOptions(cmd, nil)
			if err != nil {
				return err
			}
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			target := absFrom(cwd, args[0])

			built, err := c.newRunner().Build(cmd.Context(), popts)
			if err != nil {
				return err
			}
			if !built.Graph.HasFile(target) {
				c.printWarning("%s is not reachable from the entry points", args[0])
			}

			report := deps.Analyze(built.Graph, target, deps.Options{
				IncludeIncoming: opts.incoming,
				IncludeOutgoing: opts.outgoing,
				MaxDepth:        opts.depth,
			}).Relative(cfg.Dir)

			switch opts.format {
			case formatJSON:
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			case formatList:
				c.printDepsList(report)
			default:
				c.printDepsTree(report, opts)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.incoming, "incoming", false, "show files that link to the file")
	cmd.Flags().BoolVar(&opts.outgoing, "outgoing", false, "show files the file links to")
	cmd.Flags().IntVarP(&opts.depth, "depth", "d", 0, "maximum tree depth (0 unlimited)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: tree, list, json")

	return cmd
}

func (c *CLI) printDepsTree(r *deps.Report, opts depsOpts) {
	both := opts.incoming == opts.outgoing
	c.printf("%s\n", StyleTitle.Render(r.Path))
	if both || opts.outgoing {
		c.printDepsSection("Dependencies", r.Outgoing, r.Stats.OutgoingCount)
	}
	if both || opts.incoming {
		c.printDepsSection("Dependents", r.Incoming, r.Stats.IncomingCount)
	}
	if len(r.Cycles) > 0 {
		c.printNewline()
		c.printWarning("%s", plural(len(r.Cycles), "cycle"))
		for _, cy := range r.Cycles {
			c.printDetail("%s %s %s", cy.From, iconArrow, cy.To)
		}
	}
}

func (c *CLI) printDepsSection(title string, nodes []*deps.Node, count int) {
	c.printNewline()
	c.printf("%s %s\n", StyleValue.Bold(true).Render(title), StyleNumber.Render(fmt.Sprintf("(%d)", count)))
	if len(nodes) == 0 {
		c.printDetail("none")
		return
	}
	c.printTree(nodes, "")
}

// printTree draws nodes with box-drawing branches.
func (c *CLI) printTree(nodes []*deps.Node, indent string) {
	for i, n := range nodes {
		last := i == len(nodes)-1
		branch, next := "├── ", "│   "
		if last {
			branch, next = "└── ", "    "
		}
		label := n.Path
		if n.IsCycle {
			label += " " + styleCycle.Render(iconCycle+" cycle")
		}
		c.printf("%s%s\n", StyleDim.Render(indent+branch), label)
		c.printTree(n.Children, indent+next)
	}
}

func (c *CLI) printDepsList(r *deps.Report) {
	for _, p := range deps.Flatten(r.Outgoing) {
		c.printf("out\t%s\n", p)
	}
	for _, p := range deps.Flatten(r.Incoming) {
		c.printf("in\t%s\n", p)
	}
}
