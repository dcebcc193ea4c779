// Package logging builds the logger shared by fence commands.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// DefaultLevel is used when no level or an unknown level is given.
const DefaultLevel = logrus.WarnLevel

// New returns a text logger writing to out at the named level.
func New(out io.Writer, levelName string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		level = DefaultLevel
	}
	logger.SetLevel(level)

	if hook := devHook(); hook != nil {
		logger.AddHook(hook)
	}

	return logger
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
