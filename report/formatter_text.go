package report

import (
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/fence/linter"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

const title = "Fence"

var (
	keptColor    = color.New(color.FgGreen)
	brokenColor  = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
)

// TextFormatter formats lint reports for terminals.
type TextFormatter struct{}

// Format renders a title, the contract table, a summary line, warnings, and
// the details of every broken contract.
func (f *TextFormatter) Format(rep *linter.Report) (string, error) {
	var b strings.Builder

	writeHeading(&b, title, "=")
	writeHeading(&b, "Contracts", "-")
	fmt.Fprintf(&b, "Analyzed %d modules, %d imports.\n\n", rep.Graph.Modules, rep.Graph.Imports)

	if len(rep.Contracts) > 0 {
		b.WriteString(contractTable(rep.Contracts))
		b.WriteString("\n\n")
	}

	b.WriteString(summaryLine(rep))
	b.WriteString("\n")

	if len(rep.Warnings) > 0 {
		b.WriteString("\n")
		for _, warning := range rep.Warnings {
			b.WriteString(warningColor.Sprint("Warning: " + warning))
			b.WriteString("\n")
		}
	}

	if rep.Broken > 0 {
		b.WriteString("\n")
		b.WriteString(brokenDetailsSection(rep.Contracts))
	}

	return b.String(), nil
}

func contractTable(results []linter.ContractResult) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = false

	tbl.AppendHeader(table.Row{"Contract", "Result"})
	for _, result := range results {
		tbl.AppendRow(table.Row{result.Name, status(result.Kept)})
	}

	return tbl.Render()
}

func status(kept bool) string {
	if kept {
		return keptColor.Sprint("KEPT")
	}
	return brokenColor.Sprint("BROKEN")
}

func summaryLine(rep *linter.Report) string {
	kept := fmt.Sprintf("%d kept", rep.Kept)
	broken := fmt.Sprintf("%d broken", rep.Broken)
	if rep.Broken > 0 {
		broken = brokenColor.Sprint(broken)
	} else {
		kept = keptColor.Sprint(kept)
	}
	return fmt.Sprintf("Contracts: %s, %s.", kept, broken)
}

// brokenDetailsSection renders the "Broken contracts" section.
func brokenDetailsSection(results []linter.ContractResult) string {
	var b strings.Builder
	writeHeading(&b, "Broken contracts", "-")

	for _, result := range results {
		if result.Kept {
			continue
		}
		writeHeading(&b, result.Name, "-")
		b.WriteString(result.Details)
	}

	return b.String()
}

func writeHeading(b *strings.Builder, text, rule string) {
	line := strings.Repeat(rule, len(text))
	if rule == "=" {
		fmt.Fprintf(b, "%s\n%s\n%s\n\n", line, text, line)
		return
	}
	fmt.Fprintf(b, "%s\n%s\n\n", text, line)
}
