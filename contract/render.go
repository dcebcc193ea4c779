package contract

import (
	"fmt"
	"io"
	"strings"
)

const indent = "    "

// renderInvalidChains writes one block per violation group:
//
//	a is not allowed to import b:
//
//	-   a.x -> c (l.1)
//	    c -> b (l.5, l.9)
//
// followed by a blank line after each chain and another after each group.
func renderInvalidChains(w io.Writer, groups []ViolationGroup) error {
	var b strings.Builder
	for _, group := range groups {
		fmt.Fprintf(&b, "%s is not allowed to import %s:\n", group.Downstream, group.Upstream)
		b.WriteString("\n")

		for _, chain := range group.Chains {
			for i, imp := range chain {
				if i == 0 {
					b.WriteString("-   ")
				} else {
					b.WriteString(indent)
				}
				b.WriteString(FormatDirectImport(imp))
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// FormatDirectImport renders an import as "importer -> imported (l.3, l.7)".
func FormatDirectImport(imp DirectImport) string {
	lines := make([]string, 0, len(imp.LineNumbers))
	for _, n := range imp.LineNumbers {
		lines = append(lines, fmt.Sprintf("l.%d", n))
	}
	return fmt.Sprintf("%s -> %s (%s)", imp.Importer, imp.Imported, strings.Join(lines, ", "))
}
