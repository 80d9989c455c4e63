// Package output renders probe results for the command line.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/PetLahev/chartprobe/pkg/chartprobe/models"
)

// ToJSON serializes v to JSON.
func ToJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// Verdict returns the one-line answer for a check result.
func Verdict(res *models.CheckResult) string {
	if res.Found {
		return "The chart was FOUND"
	}
	return "The chart was NOT FOUND"
}

// WriteCheckText writes a check result as plain text: the verdict line,
// followed by the sheet and every matching chart.
func WriteCheckText(w io.Writer, res *models.CheckResult) error {
	var b strings.Builder

	b.WriteString(Verdict(res))
	b.WriteByte('\n')

	switch {
	case res.ChartID == "":
		b.WriteString("  no chart id given\n")
	case !res.SheetFound:
		fmt.Fprintf(&b, "  sheet id %d not found\n", res.SheetID)
	default:
		fmt.Fprintf(&b, "  sheet: %s (id %d)\n", res.SheetName, res.SheetID)
		fmt.Fprintf(&b, "  chart id: %s (%s, match %s)\n", res.ChartID, res.ChartIDKind, res.Match)
	}

	for _, m := range res.Matches {
		id := "-"
		if m.ID != nil {
			id = fmt.Sprint(*m.ID)
		}
		fmt.Fprintf(&b, "  match: %q id=%s", m.Name, id)
		if m.CreationID != "" {
			fmt.Fprintf(&b, " guid=%s", m.CreationID)
		}
		if m.From != "" {
			fmt.Fprintf(&b, " at %s", m.From)
		}
		if m.Grouped {
			b.WriteString(" (grouped)")
		}
		b.WriteByte('\n')
	}
	if res.Ambiguous {
		b.WriteString("  warning: the drawing id matched more than one chart\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
