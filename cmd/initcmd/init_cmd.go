package initcmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/LegacyCodeHQ/fence/builder/registry"
	"github.com/LegacyCodeHQ/fence/config"
	"github.com/LegacyCodeHQ/fence/contract"
	"github.com/LegacyCodeHQ/fence/importgraph"
	"github.com/spf13/cobra"
)

type initOptions struct {
	repoPath        string
	rootPackages    []string
	language        string
	includeExternal bool
	force           bool
	quiet           bool
}

// Cmd represents the init command.
var Cmd = NewCommand()

// NewCommand returns a new init command instance.
func NewCommand() *cobra.Command {
	opts := &initOptions{
		language: registry.DefaultLanguage,
	}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter .fence.yaml for the given root packages",
		Long: `Build the import graph of the root packages and write a .fence.yaml declaring
one independence contract per root package over its direct subpackages.

With --force: Overwrites an existing .fence.yaml.

Examples:
  fence init --root myapp
  fence init --root example.com/app/internal --language go`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.repoPath, "repo", "r", ".", "Project directory containing the root packages")
	cmd.Flags().StringSliceVar(&opts.rootPackages, "root", nil, "Root package to fence (repeatable)")
	cmd.Flags().StringVarP(&opts.language, "language", "l", opts.language, fmt.Sprintf("Source language (%v)", registry.Names()))
	cmd.Flags().BoolVar(&opts.includeExternal, "include-external", false, "Record imports of external packages in the graph")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing configuration file")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress output")
	_ = cmd.MarkFlagRequired("root")

	return cmd
}

func runInit(cmd *cobra.Command, opts *initOptions) error {
	module, err := registry.ModuleForName(opts.language)
	if err != nil {
		return err
	}

	absRepo, err := filepath.Abs(opts.repoPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", opts.repoPath, err)
	}

	graph, err := module.NewBuilder(registry.Source{Dir: absRepo}).Build(opts.rootPackages, opts.includeExternal)
	if err != nil {
		return fmt.Errorf("failed to build import graph: %w", err)
	}

	cfg := &config.Config{
		RootPackages:            opts.rootPackages,
		IncludeExternalPackages: opts.includeExternal,
		Language:                module.Name(),
		Contracts:               starterContracts(graph, opts.rootPackages),
	}
	if len(cfg.Contracts) == 0 {
		return errors.New("no root package has two or more subpackages to declare independent")
	}

	path := filepath.Join(absRepo, config.FileName)
	if err := config.Save(path, cfg, opts.force); err != nil {
		return err
	}

	if !opts.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s with %d contract(s).\n", path, len(cfg.Contracts))
		fmt.Fprintln(cmd.OutOrStdout(), "")
		fmt.Fprintln(cmd.OutOrStdout(), "Next steps:")
		fmt.Fprintln(cmd.OutOrStdout(), "  - Review the declared modules and add ignore_imports where needed")
		fmt.Fprintln(cmd.OutOrStdout(), "  - Run 'fence check' to check the contracts")
	}

	return nil
}

// starterContracts declares the direct subpackages of each root independent.
func starterContracts(graph *importgraph.Graph, rootPackages []string) []config.ContractConfig {
	var contracts []config.ContractConfig
	for _, root := range rootPackages {
		children := graph.FindChildren(root)
		if len(children) < 2 {
			continue
		}
		contracts = append(contracts, config.ContractConfig{
			Name:    fmt.Sprintf("%s subpackages are independent", root),
			Type:    string(contract.TypeIndependence),
			Modules: children,
		})
	}
	return contracts
}
