package plan

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ExportYAML marshals the stand-ins of plan.
func ExportYAML(plan *Plan) ([]byte, error) {
	return yaml.Marshal(plan)
}

// FormatReport formats a plan as human-readable text.
func FormatReport(plan *Plan) string {
	var sb strings.Builder

	for _, si := range plan.StandIns {
		sb.WriteString(fmt.Sprintf("\n=== %s [%s] ===\n", si.Name, strings.Join(si.Targets, ", ")))
		sb.WriteString(fmt.Sprintf("Requested: %d, Members: %d\n", len(si.Positions), len(si.Members)))

		if !si.Valid {
			sb.WriteString("\n✗ Target set rejected, see diagnostics.\n")
			continue
		}

		for _, m := range si.Members {
			var notes []string
			if m.Kind != "method" {
				notes = append(notes, m.Kind+" "+m.Accessor)
			}

			if m.FromBase {
				notes = append(notes, "base")
			}

			if m.Qualified {
				notes = append(notes, "view of "+m.Owner)
			}

			line := "  " + m.Signature
			if len(notes) > 0 {
				line += " (" + strings.Join(notes, ", ") + ")"
			}

			sb.WriteString(line + "\n")
		}

		sb.WriteString("\n✓ Ready to generate.\n")
	}

	return sb.String()
}
