// Package main checks an emission factor CSV before it is shipped or
// configured via factors.file.
//
// Usage:
//
//	go run ./tools/check-factors [--file path] [--strict]
//
// Flags:
//
//	--file    Factor CSV to check (default: the embedded table)
//	--strict  Also fail on rows with an unknown category or no unit
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"github.com/rshade/carbonlens/internal/carbon"
)

const (
	// Valid range for factors in kg CO2e per unit of activity.
	minValidFactor = 0.0
	maxValidFactor = 100.0
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check-factors", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "", "Factor CSV to check (default: embedded table)")
	strict := fs.Bool("strict", false, "Fail on unknown categories and missing units")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	carbon.SetLogger(zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true}))

	table, err := load(*file)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading factors: %v\n", err)
		return 1
	}

	if err := printTable(stdout, table.Rows()); err != nil {
		fmt.Fprintf(stderr, "Error writing table: %v\n", err)
		return 1
	}

	if problems := validate(table, *strict); len(problems) > 0 {
		fmt.Fprintf(stderr, "Validation failed:\n%s\n", strings.Join(problems, "\n"))
		return 1
	}

	fmt.Fprintf(stdout, "Validation passed (%d factors)\n", table.Len())
	return 0
}

func load(path string) (*carbon.FactorTable, error) {
	if path == "" {
		return carbon.DefaultFactors()
	}
	return carbon.LoadFactorFile(path)
}

// validate lists every problem found in the table.
func validate(table *carbon.FactorTable, strict bool) []string {
	var problems []string

	for _, k := range carbon.MissingKeys(table) {
		problems = append(problems, fmt.Sprintf("missing required factor %s/%s", k[0], k[1]))
	}

	for _, f := range table.Rows() {
		if f.CO2PerUnit < minValidFactor || f.CO2PerUnit > maxValidFactor {
			problems = append(problems, fmt.Sprintf(
				"%s/%s: factor %.4f is outside valid range [%.1f, %.1f]",
				f.Category, f.SubCategory, f.CO2PerUnit, minValidFactor, maxValidFactor,
			))
		}
		if !strict {
			continue
		}
		if !slices.Contains(carbon.Categories(), f.Category) {
			problems = append(problems, fmt.Sprintf("%s/%s: unknown category", f.Category, f.SubCategory))
		}
		if f.Unit == "" {
			problems = append(problems, fmt.Sprintf("%s/%s: missing unit", f.Category, f.SubCategory))
		}
	}
	return problems
}

func printTable(w io.Writer, rows []carbon.Factor) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tSUB_CATEGORY\tCO2_PER_UNIT\tUNIT")
	for _, f := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%g\t%s\n", f.Category, f.SubCategory, f.CO2PerUnit, f.Unit)
	}
	return tw.Flush()
}
