package check

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/LegacyCodeHQ/fence/config"
	"github.com/LegacyCodeHQ/fence/internal/logging"
	"github.com/LegacyCodeHQ/fence/linter"
	"github.com/LegacyCodeHQ/fence/report"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type checkOptions struct {
	configPath   string
	outputFormat string
	repoPath     string
	commitID     string
	watch        bool
}

// Cmd represents the check command.
var Cmd = NewCommand()

// NewCommand returns a new check command instance.
func NewCommand() *cobra.Command {
	opts := &checkOptions{
		outputFormat: report.OutputFormatText.String(),
	}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the import contracts declared in .fence.yaml",
		Long: `Build the import graph of the configured root packages and check every
declared contract against it. Exits non-zero when any contract is broken.

Examples:
  fence check
  fence check --format json
  fence check --commit HEAD~1
  fence check --watch`,
		Args:          cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to the configuration file (default: <repo>/.fence.yaml)")
	cmd.Flags().StringVarP(
		&opts.outputFormat,
		"format",
		"f",
		opts.outputFormat,
		fmt.Sprintf("Output format (%s)", report.SupportedFormats()))
	cmd.Flags().StringVarP(&opts.repoPath, "repo", "r", ".", "Project directory containing the root packages")
	cmd.Flags().StringVar(&opts.commitID, "commit", "", "Check the sources as of this git commit instead of the working tree")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-check whenever a source file changes")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *checkOptions) error {
	if _, ok := report.ParseOutputFormat(opts.outputFormat); !ok {
		return fmt.Errorf("unknown format: %s (valid options: %s)", opts.outputFormat, report.SupportedFormats())
	}
	if opts.watch && opts.commitID != "" {
		return errors.New("--watch cannot be combined with --commit")
	}

	logger := logging.ForCommand(cmd)

	if !opts.watch {
		return checkOnce(cmd, opts, logger)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := checkOnce(cmd, opts, logger); err != nil && !errors.Is(err, linter.ErrContractsBroken) {
		logger.WithError(err).Error("check failed")
	}

	return watchAndRecheck(ctx, opts.repoPath, logger, func() {
		if err := checkOnce(cmd, opts, logger); err != nil && !errors.Is(err, linter.ErrContractsBroken) {
			logger.WithError(err).Error("check failed")
		}
	})
}

// checkOnce loads the configuration, checks every contract, and prints the report.
func checkOnce(cmd *cobra.Command, opts *checkOptions, logger logrus.FieldLogger) error {
	cfg, err := config.LoadConfig(opts.configPath, opts.repoPath)
	if err != nil {
		return err
	}

	b, err := linter.NewBuilder(cfg, opts.repoPath, opts.commitID)
	if err != nil {
		return err
	}

	rep, err := linter.Run(cfg, b, logger)
	if err != nil {
		return err
	}

	if err := report.Write(cmd.OutOrStdout(), rep, opts.outputFormat); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return rep.Err()
}
