package output

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Formats accepted by Write.
const (
	Table = "table"
	JSON  = "json"
	YAML  = "yaml"
)

// Write renders data in format. For table output, table is called with a
// tabwriter that is flushed afterwards.
func Write(w io.Writer, format string, data any, table func(tw *tabwriter.Writer)) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	case Table, "":
		tw := NewTabWriter(w)
		table(tw)
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// NewTabWriter returns the column writer every table uses.
func NewTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// Dash returns s, or "-" when s is empty.
func Dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Quantity formats a quantity without trailing zeros.
func Quantity(q float64) string {
	return fmt.Sprintf("%g", q)
}

// Check renders a boolean as a table mark.
func Check(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
