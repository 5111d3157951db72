package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"

	"github.com/rshade/carbonlens/internal/analytics"
	"github.com/rshade/carbonlens/internal/carbon"
	"github.com/rshade/carbonlens/internal/recommend"
	"github.com/rshade/carbonlens/internal/scenario"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
)

func validateOutput(format string) error {
	switch format {
	case outputText, outputJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (want text or json)", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func renderBreakdown(w io.Writer, b carbon.EmissionBreakdown) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "CATEGORY\tKG CO2E / MONTH")
	fmt.Fprintf(tw, "%s\t%.2f\n", carbon.CategoryElectricity, b.Electricity)
	fmt.Fprintf(tw, "%s\t%.2f\n", carbon.CategoryTransport, b.Transport)
	fmt.Fprintf(tw, "%s\t%.2f\n", carbon.CategoryFood, b.Food)
	fmt.Fprintf(tw, "%s\t%.2f\n", carbon.CategoryWaste, b.Waste)
	fmt.Fprintf(tw, "total\t%.2f\n", b.Total)
	if err := tw.Flush(); err != nil {
		return err
	}

	if eq := analytics.Equivalencies(b.Total); eq.DisplayText != "" {
		_, err := fmt.Fprintln(w, eq.DisplayText)
		return err
	}
	return nil
}

func renderResult(w io.Writer, actions []scenario.Action, r scenario.Result) error {
	if len(actions) > 0 {
		descs := make([]string, len(actions))
		for i, a := range actions {
			descs[i] = a.String()
		}
		fmt.Fprintf(w, "Actions: %s\n", strings.Join(descs, "; "))
	}
	_, err := fmt.Fprintf(w, "Before: %.2f kg CO2e\nAfter: %.2f kg CO2e\nReduction: %.2f kg CO2e (%.1f%%)\n",
		r.Before, r.After, r.Reduction, r.ReductionPercent)
	return err
}

func renderRecommendations(w io.Writer, recs []recommend.Recommendation) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tACTION\tREDUCTION (KG)\tREDUCTION (%)\tPRIORITY")
	for i, r := range recs {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.1f\t%s\n", i+1, r.Description, r.Reduction, r.ReductionPercent, r.Priority)
	}
	return tw.Flush()
}

func renderFactors(w io.Writer, rows []carbon.Factor) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "CATEGORY\tSUB_CATEGORY\tCO2_PER_UNIT\tUNIT")
	for _, f := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Category, f.SubCategory, carbon.FormatQuantity(f.CO2PerUnit), f.Unit)
	}
	return tw.Flush()
}
