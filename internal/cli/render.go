package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rshade/nutriscan/internal/config"
	"github.com/rshade/nutriscan/internal/nutrition"
)

// tabwriterPadding is the minimum padding between table columns.
const tabwriterPadding = 2

// outputFormat resolves --output, falling back to the configured default.
func outputFormat(cmd *cobra.Command) (string, error) {
	format := config.GetDefaultOutputFormat()
	if cmd.Flags().Changed(flagOutput) {
		format, _ = cmd.Flags().GetString(flagOutput)
	}
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case config.FormatTable, config.FormatJSON, config.FormatNDJSON:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q (want table, json or ndjson)", config.ErrInvalidOutputFormat, format)
	}
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP(flagOutput, "o", config.FormatTable, "output format: table, json or ndjson")
}

// isWriterTerminal reports whether w is a terminal.
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// writeNDJSON writes each item as one JSON line.
func writeNDJSON[T any](w io.Writer, items []T) error {
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("marshaling row: %w", err)
		}
		if _, err = fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("writing NDJSON line: %w", err)
		}
	}
	return nil
}

// writeStructured handles the json and ndjson formats.
func writeStructured[T any](w io.Writer, format string, items []T) error {
	if format == config.FormatNDJSON {
		return writeNDJSON(w, items)
	}
	return writeJSON(w, items)
}

// table is a titled grid rendered with tabwriter, boxed with lipgloss on a terminal.
type table struct {
	title  string
	header []string
	rows   [][]string
	footer []string
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render(w io.Writer) error {
	var body strings.Builder
	tw := tabwriter.NewWriter(&body, 0, 0, tabwriterPadding, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.header, "\t"))
	seps := make([]string, len(t.header))
	for i, h := range t.header {
		seps[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(seps, "\t"))
	for _, r := range t.rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}
	content := strings.TrimRight(body.String(), "\n")
	for _, line := range t.footer {
		content += "\n" + line
	}

	if isWriterTerminal(w) {
		title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Render(t.title)
		box := lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Render(title + "\n\n" + content)
		_, err := fmt.Fprintln(w, box)
		return err
	}

	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n", t.title, strings.Repeat("=", len(t.title)), content)
	return err
}

// statusStyle colors a label by severity on a terminal.
func statusStyle(w io.Writer, label string, severity int) string {
	if !isWriterTerminal(w) {
		return label
	}
	colors := []string{"42", "214", "208", "196"}
	severity = min(max(severity, 0), len(colors)-1)
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colors[severity])).Render(label)
}

func balanceSeverity(s nutrition.BalanceStatus) int {
	switch s {
	case nutrition.BalanceOptimal:
		return 0
	case nutrition.BalanceGood:
		return 1
	case nutrition.BalanceNeedsAttention:
		return 2
	default:
		return 3
	}
}

func levelSeverity(l nutrition.CompatibilityLevel) int {
	switch l {
	case nutrition.LevelExcellent:
		return 0
	case nutrition.LevelGood:
		return 1
	case nutrition.LevelFair:
		return 2
	default:
		return 3
	}
}

// pct formats a percentage with precision decimals.
func pct(v float64, precision int) string {
	return nutrition.FormatFloat(v, precision) + "%"
}

// grams formats grams with precision decimals.
func grams(v float64, precision int) string {
	return nutrition.FormatFloat(v, precision) + " g"
}
