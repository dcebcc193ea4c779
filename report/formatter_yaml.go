package report

import (
	"bytes"

	"github.com/LegacyCodeHQ/fence/linter"
	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats lint reports as YAML.
type YAMLFormatter struct{}

// Format converts the report to YAML with two-space indentation.
func (f *YAMLFormatter) Format(rep *linter.Report) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
