package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muntasir-islam/seo-audit-tool/internal/check"
	"github.com/muntasir-islam/seo-audit-tool/internal/score"
)

// CheckCatalogEntry describes one registered check for the catalog listing.
type CheckCatalogEntry struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Severity string  `json:"severity"`
	Points   float64 `json:"points"`
}

// getCheckCatalog snapshots the live registry in registration order.
func getCheckCatalog() []CheckCatalogEntry {
	specs := check.Registry()
	out := make([]CheckCatalogEntry, len(specs))
	for i, spec := range specs {
		out[i] = CheckCatalogEntry{
			Name:     spec.Name,
			Category: string(spec.Category),
			Severity: string(spec.Severity),
			Points:   spec.Points,
		}
	}
	return out
}

var checksCmd = &cobra.Command{
	Use:   "checks",
	Short: "List every registered check with category, severity, and points",
	RunE: func(cmd *cobra.Command, args []string) error {
		categoryFilter, _ := cmd.Flags().GetString("category")
		format, _ := cmd.Flags().GetString("format")

		catalog := getCheckCatalog()
		if categoryFilter != "" {
			filtered := catalog[:0]
			for _, entry := range catalog {
				if strings.EqualFold(entry.Category, categoryFilter) {
					filtered = append(filtered, entry)
				}
			}
			catalog = filtered
			if len(catalog) == 0 {
				return fmt.Errorf("no checks in category %q", categoryFilter)
			}
		}

		switch format {
		case formatJSON:
			b, _ := json.MarshalIndent(catalog, jsonPrefix, jsonIndent)
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		case formatText, "":
		default:
			return fmt.Errorf("unsupported output format %q (expected text or json)", format)
		}

		out := cmd.OutOrStdout()
		for _, cat := range check.Categories() {
			var entries []CheckCatalogEntry
			for _, entry := range catalog {
				if entry.Category == string(cat) {
					entries = append(entries, entry)
				}
			}
			if len(entries) == 0 {
				continue
			}

			fmt.Fprintf(out, "%s (%d checks, weight %d%%)\n",
				colorBold(string(cat)), len(entries), score.WeightPercent(cat))
			w := newTabWriter(out)
			for _, entry := range entries {
				fmt.Fprintf(w, "  %s\t%s\t%.1f pts\n",
					entry.Name, formatSeverityWithColor(entry.Severity), entry.Points)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(out)
		}

		fmt.Fprintf(out, "Total: %d checks\n", len(catalog))
		return nil
	},
}

func init() {
	checksCmd.Flags().String("category", "", "only list checks in this category")
	checksCmd.Flags().StringP("format", "f", formatText, "output format: text or json")
}
