// Package report renders lint reports.
package report

import (
	"fmt"
	"io"

	"github.com/LegacyCodeHQ/fence/linter"
)

// Formatter renders a lint report.
type Formatter interface {
	Format(rep *linter.Report) (string, error)
}

// NewFormatter creates a Formatter for the specified format type.
func NewFormatter(format string) (Formatter, error) {
	f, ok := ParseOutputFormat(format)
	if !ok {
		return nil, fmt.Errorf("unknown format: %s (valid options: %s)", format, SupportedFormats())
	}

	switch f {
	case OutputFormatJSON:
		return &JSONFormatter{}, nil
	case OutputFormatYAML:
		return &YAMLFormatter{}, nil
	default:
		return &TextFormatter{}, nil
	}
}

// Write renders rep in format to w.
func Write(w io.Writer, rep *linter.Report, format string) error {
	formatter, err := NewFormatter(format)
	if err != nil {
		return err
	}
	output, err := formatter.Format(rep)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, output)
	return err
}
