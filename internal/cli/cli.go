// Package cli implements the docgraph command-line interface.
//
// # Commands
//
//   - check: build the document graph, report orphans and broken links
//   - orphans: report only files no entry point reaches
//   - deps: show what a file links to and what links to it
//   - graph: export the document graph as JSON, DOT or SVG
//   - order: list files leaves first
//   - concat: concatenate files leaves first
//
// Every command reads .docgraph.toml from the working directory (or the
// file named by --config) and lets flags override it. Only flags the user
// actually set take effect, so a config value is never clobbered by a flag
// default.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/docgraph/pkg/buildinfo"
	"github.com/matzehuels/docgraph/pkg/config"
	"github.com/matzehuels/docgraph/pkg/errors"
	"github.com/matzehuels/docgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "docgraph"

	formatText = "text"
	formatJSON = "json"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out   io.Writer
	errw  io.Writer
	flags globalFlags
}

// globalFlags holds the persistent flags shared by every command. Each maps
// to one config key.
type globalFlags struct {
	configPath         string
	entrypoint         string
	entrypoints        []string
	maxDepth           int
	scopeRoot          string
	noScope            bool
	exclude            []string
	respectGitignore   bool
	excludeHidden      bool
	excludeNodeModules bool
	ignoreFile         string
	externalLinks      string
	concurrency        int
	strictAnchors      bool
}

// New creates a new CLI instance logging to w. Command output goes to
// stdout until SetOutput is called.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
		errw:   w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "docgraph checks markdown documentation for broken links and orphaned files",
		Long:          `docgraph builds a graph of markdown documents connected by relative links, starting from one or more entry points. It reports files no entry point reaches, links to missing files or headings, and links that leave the documentation tree.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.New(errors.ErrCodeInvalidInput, "%v", err)
	})

	c.registerGlobalFlags(root)

	root.AddCommand(c.checkCommand())
	root.AddCommand(c.orphansCommand())
	root.AddCommand(c.depsCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.orderCommand())
	root.AddCommand(c.concatCommand())
	root.AddCommand(c.versionCommand())

	return root
}

func (c *CLI) registerGlobalFlags(root *cobra.Command) {
	f := &c.flags
	pf := root.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "config file (default ./"+config.FileName+")")
	pf.StringVarP(&f.entrypoint, "entrypoint", "e", config.DefaultEntrypoint, "primary entry point")
	pf.StringSliceVar(&f.entrypoints, "also", nil, "additional entry points (comma-separated or repeated)")
	pf.IntVar(&f.maxDepth, "max-depth", config.DefaultMaxDepth, "maximum link hops from an entry point (-1 unlimited)")
	pf.StringVar(&f.scopeRoot, "scope-root", "", "directory links may not leave (default: entry point directory)")
	pf.BoolVar(&f.noScope, "no-scope", false, "follow links anywhere on disk")
	pf.StringArrayVarP(&f.exclude, "exclude", "x", nil, "gitignore-style exclusion pattern (repeatable)")
	pf.BoolVar(&f.respectGitignore, "respect-gitignore", false, "also apply .gitignore patterns")
	pf.BoolVar(&f.excludeHidden, "exclude-hidden", true, "exclude hidden files and directories")
	pf.BoolVar(&f.excludeNodeModules, "exclude-node-modules", true, "exclude node_modules directories")
	pf.StringVar(&f.ignoreFile, "ignore-file", "", "ignore file to read instead of ./.docgraphignore")
	pf.StringVar(&f.externalLinks, "external-links", "", "policy for links leaving the scope: validate, warn, error, ignore")
	pf.IntVar(&f.concurrency, "concurrency", config.DefaultConcurrency, "files validated in parallel")
	pf.BoolVar(&f.strictAnchors, "strict-anchors", false, "report anchors whose target cannot be read")
}

// versionCommand prints build information.
func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  usageArgs(cobra.NoArgs),
		Run: func(cmd *cobra.Command, args []string) {
			c.printf("%s %s\n", appName, buildinfo.String())
		},
	}
}

// =============================================================================
// Config Resolution
// =============================================================================

// loadConfig resolves defaults, the config file and changed flags, in that
// order. Positional args replace the configured entry points.
func (c *CLI) loadConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return config.Config{}, errors.Wrap(errors.ErrCodeInternal, err, "get working directory")
	}

	var cfg config.Config
	if c.flags.configPath != "" {
		cfg, err = config.Load(absFrom(cwd, c.flags.configPath))
	} else {
		cfg, err = config.Discover(cwd)
	}
	if err != nil {
		return config.Config{}, err
	}
	if cfg.Source != "" {
		c.Logger.Debug("loaded config", "path", cfg.Source)
	}

	f := &c.flags
	changed := cmd.Flags().Changed
	if changed("entrypoint") {
		cfg.Entrypoint = absFrom(cwd, f.entrypoint)
	}
	if changed("also") {
		cfg.Entrypoints = absAll(cwd, f.entrypoints)
	}
	if len(args) > 0 {
		cfg.Entrypoint = absFrom(cwd, args[0])
		cfg.Entrypoints = absAll(cwd, args[1:])
	}
	if changed("max-depth") {
		cfg.MaxDepth = f.maxDepth
	}
	if changed("scope-root") {
		cfg.ScopeRoot = absFrom(cwd, f.scopeRoot)
	}
	if changed("no-scope") {
		cfg.ScopeLimit = !f.noScope
	}
	if changed("respect-gitignore") {
		cfg.RespectGitignore = f.respectGitignore
	}
	if changed("exclude-hidden") {
		cfg.ExcludeHidden = f.excludeHidden
	}
	if changed("exclude-node-modules") {
		cfg.ExcludeNodeModules = f.excludeNodeModules
	}
	if changed("ignore-file") {
		cfg.IgnoreFile = absFrom(cwd, f.ignoreFile)
	}
	if changed("external-links") {
		cfg.ExternalLinks = f.externalLinks
	}
	if changed("concurrency") {
		cfg.Concurrency = f.concurrency
	}
	if changed("strict-anchors") {
		cfg.StrictAnchors = f.strictAnchors
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	for _, p := range f.exclude {
		if err := errors.ValidatePattern(p); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

// pipelineOptions resolves config for cmd and converts it to run options.
func (c *CLI) pipelineOptions(cmd *cobra.Command, args []string) (pipeline.Options, config.Config, error) {
	cfg, err := c.loadConfig(cmd, args)
	if err != nil {
		return pipeline.Options{}, config.Config{}, err
	}
	opts := pipeline.FromConfig(cfg, c.flags.exclude)
	opts.Logger = loggerFromContext(cmd.Context())
	return opts, cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(nil, c.Logger)
}

// =============================================================================
// Helpers
// =============================================================================

func absFrom(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func absAll(dir string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = absFrom(dir, p)
	}
	return out
}

// usageArgs marks positional-argument failures as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "%v", err)
		}
		return nil
	}
}

// validateFormat rejects a --format value outside allowed.
func validateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid format %q (want one of %v)", format, allowed)
}
