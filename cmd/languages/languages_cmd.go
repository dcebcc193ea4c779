package languages

import (
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/fence/builder/registry"
	"github.com/spf13/cobra"
)

// Cmd represents the languages command.
var Cmd = NewCommand()

// NewCommand returns a new languages command instance.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List supported languages, their file extensions and maturity",
		Long: `List the languages fence can build import graphs for. The name in brackets
is the value of the "language" key in .fence.yaml.

Examples:
  fence languages`,
		RunE: runLanguages,
	}

	return cmd
}

func runLanguages(cmd *cobra.Command, _ []string) error {
	for _, module := range registry.Modules() {
		maturity := module.Maturity()
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s [%s] (%s) - %s\n",
			maturity.Symbol(),
			module.DisplayName(),
			module.Name(),
			strings.Join(module.Extensions(), ", "),
			maturity.DisplayName()); err != nil {
			return err
		}
	}

	return nil
}
