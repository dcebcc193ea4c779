package report

import (
	"bytes"
	"encoding/json"

	"github.com/LegacyCodeHQ/fence/linter"
)

// JSONFormatter formats lint reports as JSON.
type JSONFormatter struct{}

// Format converts the report to indented JSON.
func (f *JSONFormatter) Format(rep *linter.Report) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return "", err
	}
	return buf.String(), nil
}
