package cmd

import (
	"os"
	"strconv"

	"github.com/LegacyCodeHQ/fence/cmd/check"
	"github.com/LegacyCodeHQ/fence/cmd/graph"
	"github.com/LegacyCodeHQ/fence/cmd/initcmd"
	"github.com/LegacyCodeHQ/fence/cmd/languages"
	"github.com/LegacyCodeHQ/fence/cmd/why"
	"github.com/LegacyCodeHQ/fence/internal/logging"
	"github.com/spf13/cobra"
)

// version is set via build-time ldflags
var version = "dev"

// buildDate is set via build-time ldflags
var buildDate = "unknown"

// commit is set via build-time ldflags
var commit = "unknown"

// devCommands is set via build-time ldflags; "true" makes debug logging the default
var devCommands = "false"

// logLevel is a persistent flag selecting the log level of every command
var logLevel string

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fence",
		Short: "Enforce import contracts between the packages of your codebase",
		Long: `Fence builds the import graph of a Python or Go codebase and checks it
against the architectural contracts declared in .fence.yaml, such as
"these packages must not import each other".

Use 'fence --help' to see all available commands, or 'fence <command> --help'
for detailed information about a specific command.`,
		Version: version,
	}

	cmd.AddCommand(check.Cmd)
	cmd.AddCommand(why.Cmd)
	cmd.AddCommand(graph.Cmd)
	cmd.AddCommand(initcmd.Cmd)
	cmd.AddCommand(languages.Cmd)

	// Initialize annotations for version template
	if cmd.Annotations == nil {
		cmd.Annotations = make(map[string]string)
	}
	cmd.Annotations["buildDate"] = buildDate
	cmd.Annotations["commit"] = commit

	// Customize version template to show additional build info
	cmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build date: {{printf "%s" (index .Annotations "buildDate")}}
Commit: {{printf "%s" (index .Annotations "commit")}}
`)

	defaultLevel := logging.DefaultLevel.String()
	if isDevelopmentBuild(devCommands) {
		defaultLevel = "debug"
	}
	cmd.PersistentFlags().StringVar(&logLevel, logging.LevelFlag, defaultLevel, "Log level (trace, debug, info, warn, error)")

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func isDevelopmentBuild(flag string) bool {
	enabled, err := strconv.ParseBool(flag)
	return err == nil && enabled
}
