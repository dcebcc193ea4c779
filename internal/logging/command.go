package logging

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// LevelFlag is the persistent flag selecting the log level.
const LevelFlag = "log-level"

// ForCommand returns a logger writing to cmd's error stream at the level set by LevelFlag.
func ForCommand(cmd *cobra.Command) *logrus.Logger {
	level, err := cmd.Flags().GetString(LevelFlag)
	if err != nil {
		level = DefaultLevel.String()
	}
	return New(cmd.ErrOrStderr(), level)
}
