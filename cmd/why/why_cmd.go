package why

import (
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/fence/config"
	"github.com/LegacyCodeHQ/fence/contract"
	"github.com/LegacyCodeHQ/fence/importgraph"
	"github.com/LegacyCodeHQ/fence/internal/logging"
	"github.com/LegacyCodeHQ/fence/linter"
	"github.com/spf13/cobra"
)

const (
	formatText    = "text"
	formatDOT     = "dot"
	formatMermaid = "mermaid"
)

type whyOptions struct {
	outputFormat string
	configPath   string
	repoPath     string
	commitID     string
}

// directedChain is the shortest chain from one module to another, if any.
type directedChain struct {
	From  string
	To    string
	Chain contract.ImportChain
}

// Cmd represents the why command.
var Cmd = NewCommand()

// NewCommand returns a new why command instance.
func NewCommand() *cobra.Command {
	opts := &whyOptions{
		outputFormat: formatText,
	}

	cmd := &cobra.Command{
		Use:   "why <importer> <imported>",
		Short: "Show the shortest import chain between two modules, in both directions.",
		Long: `Build the configured import graph and show the shortest chain by which each
module imports the other, with the line numbers of every import.

Examples:
  fence why myapp.api myapp.db
  fence why -f mermaid myapp.api.views myapp.db.models`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhy(cmd, opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVarP(
		&opts.outputFormat,
		"format",
		"f",
		opts.outputFormat,
		fmt.Sprintf("Output format (%s)", supportedFormats()))
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to the configuration file (default: <repo>/.fence.yaml)")
	cmd.Flags().StringVarP(&opts.repoPath, "repo", "r", ".", "Project directory containing the root packages")
	cmd.Flags().StringVar(&opts.commitID, "commit", "", "Use the sources as of this git commit instead of the working tree")

	return cmd
}

func runWhy(cmd *cobra.Command, opts *whyOptions, importer, imported string) error {
	if !isSupportedFormat(opts.outputFormat) {
		return fmt.Errorf("unknown format: %s (valid options: %s)", opts.outputFormat, supportedFormats())
	}

	cfg, err := config.LoadConfig(opts.configPath, opts.repoPath)
	if err != nil {
		return err
	}

	b, err := linter.NewBuilder(cfg, opts.repoPath, opts.commitID)
	if err != nil {
		return err
	}

	graph, err := b.Build(cfg.RootPackages, cfg.IncludeExternalPackages)
	if err != nil {
		return fmt.Errorf("failed to build import graph: %w", err)
	}
	logging.ForCommand(cmd).WithField("modules", graph.ModuleCount()).Debug("built import graph")

	for _, module := range []string{importer, imported} {
		if !graph.ContainsModule(module) {
			return fmt.Errorf("%w: %s", importgraph.ErrModuleNotFound, module)
		}
	}

	chains, err := findChains(graph, importer, imported)
	if err != nil {
		return err
	}

	output, err := formatOutput(opts.outputFormat, importer, imported, chains)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}

// findChains returns the shortest chain importer -> imported followed by imported -> importer.
func findChains(graph *importgraph.Graph, importer, imported string) ([]directedChain, error) {
	chains := make([]directedChain, 0, 2)
	for _, pair := range [][2]string{{importer, imported}, {imported, importer}} {
		modules, err := graph.FindShortestChain(pair[0], pair[1])
		if err != nil {
			return nil, fmt.Errorf("failed to find chain from %s to %s: %w", pair[0], pair[1], err)
		}
		chains = append(chains, directedChain{
			From:  pair[0],
			To:    pair[1],
			Chain: chainWithLines(graph, modules),
		})
	}
	return chains, nil
}

func chainWithLines(graph *importgraph.Graph, modules []string) contract.ImportChain {
	if len(modules) < 2 {
		return nil
	}
	chain := make(contract.ImportChain, 0, len(modules)-1)
	for i := 0; i < len(modules)-1; i++ {
		imp := contract.DirectImport{
			Importer: contract.Module(modules[i]),
			Imported: contract.Module(modules[i+1]),
		}
		for _, detail := range graph.GetImportDetails(modules[i], modules[i+1]) {
			imp.LineNumbers = append(imp.LineNumbers, detail.LineNumber)
		}
		chain = append(chain, imp)
	}
	return chain
}

func formatOutput(format, importer, imported string, chains []directedChain) (string, error) {
	switch strings.ToLower(format) {
	case formatText:
		return formatTextOutput(importer, imported, chains), nil
	case formatDOT:
		return formatDOTOutput(importer, imported, chains), nil
	case formatMermaid:
		return formatMermaidOutput(importer, imported, chains), nil
	default:
		return "", fmt.Errorf("unknown format: %s (valid options: %s)", format, supportedFormats())
	}
}

func formatTextOutput(importer, imported string, chains []directedChain) string {
	if len(chains[0].Chain) == 0 && len(chains[1].Chain) == 0 {
		return fmt.Sprintf("No import chain between %s and %s.", importer, imported)
	}

	var blocks []string
	for _, c := range chains {
		if len(c.Chain) == 0 {
			blocks = append(blocks, fmt.Sprintf("%s does not import %s.", c.From, c.To))
			continue
		}

		lines := []string{fmt.Sprintf("%s imports %s:", c.From, c.To), ""}
		for i, imp := range c.Chain {
			prefix := "    "
			if i == 0 {
				prefix = "-   "
			}
			lines = append(lines, prefix+contract.FormatDirectImport(imp))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

func formatDOTOutput(importer, imported string, chains []directedChain) string {
	var b strings.Builder
	b.WriteString("digraph G {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString(fmt.Sprintf("  %q [shape=box, style=bold];\n", importer))
	b.WriteString(fmt.Sprintf("  %q [shape=box, style=bold];\n", imported))
	for _, c := range chains {
		for _, imp := range c.Chain {
			b.WriteString(fmt.Sprintf("  %q -> %q [label=%q];\n", imp.Importer, imp.Imported, lineLabel(imp)))
		}
	}
	b.WriteString("}")
	return b.String()
}

func formatMermaidOutput(importer, imported string, chains []directedChain) string {
	var b strings.Builder
	b.WriteString("flowchart LR\n")

	ids := make(map[contract.Module]string)
	nodeID := func(module contract.Module) string {
		if id, ok := ids[module]; ok {
			return id
		}
		id := fmt.Sprintf("n%d", len(ids))
		ids[module] = id
		b.WriteString(fmt.Sprintf("  %s[%q]\n", id, module))
		return id
	}

	nodeID(contract.Module(importer))
	nodeID(contract.Module(imported))
	for _, c := range chains {
		for _, imp := range c.Chain {
			from := nodeID(imp.Importer)
			to := nodeID(imp.Imported)
			b.WriteString(fmt.Sprintf("  %s -->|%q| %s\n", from, lineLabel(imp), to))
		}
	}

	return b.String()
}

func lineLabel(imp contract.DirectImport) string {
	labels := make([]string, 0, len(imp.LineNumbers))
	for _, n := range imp.LineNumbers {
		labels = append(labels, fmt.Sprintf("l.%d", n))
	}
	return strings.Join(labels, ", ")
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(format) {
	case formatText, formatDOT, formatMermaid:
		return true
	default:
		return false
	}
}

func supportedFormats() string {
	return strings.Join([]string{formatText, formatDOT, formatMermaid}, ", ")
}
