package graph

import (
	"fmt"

	"github.com/LegacyCodeHQ/fence/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/fence/config"
	"github.com/LegacyCodeHQ/fence/internal/logging"
	"github.com/LegacyCodeHQ/fence/linter"
	"github.com/spf13/cobra"
)

type graphOptions struct {
	outputFormat string
	configPath   string
	repoPath     string
	commitID     string
	contractName string
	label        string
}

// Cmd represents the graph command.
var Cmd = NewCommand()

// NewCommand returns a new graph command instance.
func NewCommand() *cobra.Command {
	opts := &graphOptions{
		outputFormat: formatters.OutputFormatDOT.String(),
	}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the module import graph of the configured root packages",
		Long: `Build the import graph of the root packages declared in .fence.yaml and print it.

With --contract the modules declared by that contract are highlighted.

Examples:
  fence graph
  fence graph -f mermaid --contract "Feature modules are independent"
  fence graph -f json --commit HEAD~1`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGraph(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(
		&opts.outputFormat,
		"format",
		"f",
		opts.outputFormat,
		fmt.Sprintf("Output format (%s)", formatters.SupportedFormats()))
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to the configuration file (default: <repo>/.fence.yaml)")
	cmd.Flags().StringVarP(&opts.repoPath, "repo", "r", ".", "Project directory containing the root packages")
	cmd.Flags().StringVar(&opts.commitID, "commit", "", "Use the sources as of this git commit instead of the working tree")
	cmd.Flags().StringVar(&opts.contractName, "contract", "", "Highlight the modules declared by this contract")
	cmd.Flags().StringVarP(&opts.label, "label", "l", "", "Title of the rendered graph")

	return cmd
}

func runGraph(cmd *cobra.Command, opts *graphOptions) error {
	formatter, err := formatters.NewFormatter(opts.outputFormat)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(opts.configPath, opts.repoPath)
	if err != nil {
		return err
	}

	highlight, err := contractModules(cfg, opts.contractName)
	if err != nil {
		return err
	}

	b, err := linter.NewBuilder(cfg, opts.repoPath, opts.commitID)
	if err != nil {
		return err
	}

	g, err := b.Build(cfg.RootPackages, cfg.IncludeExternalPackages)
	if err != nil {
		return fmt.Errorf("failed to build import graph: %w", err)
	}
	logging.ForCommand(cmd).
		WithField("modules", g.ModuleCount()).
		WithField("imports", g.ImportCount()).
		Debug("built import graph")

	output, err := formatter.Format(g, formatters.FormatOptions{Label: opts.label, Highlight: highlight})
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), output)
	return err
}

// contractModules returns the declared modules of the named contract, or nil when name is empty.
func contractModules(cfg *config.Config, name string) (map[string]bool, error) {
	if name == "" {
		return nil, nil
	}
	for _, cc := range cfg.Contracts {
		if cc.Name != name {
			continue
		}
		modules := make(map[string]bool, len(cc.Modules))
		for _, m := range cc.Modules {
			modules[m] = true
		}
		return modules, nil
	}
	return nil, fmt.Errorf("no contract named %q in configuration", name)
}
