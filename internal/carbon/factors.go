package carbon

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// CSV column indices for the factor table.
const (
	colCategory    = 0 // category (electricity, transport, food, waste)
	colSubCategory = 1 // sub_category (grid, petrol, veg, ...)
	colCO2PerUnit  = 2 // co2_per_unit in kg CO2e
	colUnit        = 3 // unit of activity (kWh, km, meal, kg); optional
)

//go:embed data/emission_factors.csv
var emissionFactorsCSV string

// FactorSource resolves an emission factor in kg CO2e per unit of activity.
// Implementations return an error matching ErrFactorNotFound when the pair is unknown.
type FactorSource interface {
	Lookup(category, subCategory string) (float64, error)
}

// Factor is one row of a factor table.
type Factor struct {
	Category    string  `json:"category"`
	SubCategory string  `json:"sub_category"`
	CO2PerUnit  float64 `json:"co2_per_unit"`
	Unit        string  `json:"unit,omitempty"`
}

// FactorTable is an immutable FactorSource. It is safe for concurrent use.
type FactorTable struct {
	factors map[string]Factor
}

var _ FactorSource = (*FactorTable)(nil)

// factorKey generates the lookup key for a (category, sub_category) pair.
// Keys are exact: the original table is matched case-sensitively.
func factorKey(category, subCategory string) string {
	return category + ":" + subCategory
}

// NewFactorTable builds a table from explicit rows. Later rows win over
// earlier rows with the same key.
func NewFactorTable(rows []Factor) (*FactorTable, error) {
	t := &FactorTable{factors: make(map[string]Factor, len(rows))}
	for _, f := range rows {
		if f.Category == "" || f.SubCategory == "" {
			return nil, fmt.Errorf("factor row %q/%q: category and sub_category are required",
				f.Category, f.SubCategory)
		}
		if math.IsNaN(f.CO2PerUnit) || math.IsInf(f.CO2PerUnit, 0) || f.CO2PerUnit < 0 {
			return nil, fmt.Errorf("factor row %s/%s: invalid co2_per_unit %v",
				f.Category, f.SubCategory, f.CO2PerUnit)
		}
		t.factors[factorKey(f.Category, f.SubCategory)] = f
	}
	if len(t.factors) == 0 {
		return nil, ErrEmptyFactorTable
	}
	return t, nil
}

// ParseFactors reads a factor table from CSV with the header
// category,sub_category,co2_per_unit[,unit]. Malformed rows are skipped
// with a warning; a table with no usable rows is an error.
func ParseFactors(r io.Reader) (*FactorTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// Skip header row
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFactorTable
		}
		return nil, fmt.Errorf("reading factor header: %w", err)
	}

	var rows []Factor
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Warn().Err(err).Msg("skipping malformed factor row")
			continue
		}

		// Ensure we have enough columns
		if len(record) <= colCO2PerUnit {
			logger.Warn().Strs("record", record).Msg("skipping short factor row")
			continue
		}

		category := strings.TrimSpace(record[colCategory])
		subCategory := strings.TrimSpace(record[colSubCategory])
		if category == "" || subCategory == "" {
			continue
		}

		co2, err := strconv.ParseFloat(strings.TrimSpace(record[colCO2PerUnit]), 64)
		if err != nil || co2 < 0 || math.IsInf(co2, 0) || math.IsNaN(co2) {
			logger.Warn().
				Str("category", category).
				Str("sub_category", subCategory).
				Str("value", record[colCO2PerUnit]).
				Msg("skipping factor row with invalid co2_per_unit")
			continue
		}

		unit := ""
		if len(record) > colUnit {
			unit = strings.TrimSpace(record[colUnit])
		}

		rows = append(rows, Factor{
			Category:    category,
			SubCategory: subCategory,
			CO2PerUnit:  co2,
			Unit:        unit,
		})
	}

	return NewFactorTable(rows)
}

// LoadFactorFile parses the factor CSV at path.
func LoadFactorFile(path string) (*FactorTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening factor file: %w", err)
	}
	defer f.Close()

	table, err := ParseFactors(f)
	if err != nil {
		return nil, fmt.Errorf("parsing factor file %s: %w", path, err)
	}
	return table, nil
}

var (
	defaultFactors     *FactorTable
	defaultFactorsErr  error
	defaultFactorsOnce sync.Once
)

// DefaultFactors returns the table parsed from the embedded factor data.
// Parsing happens once; every caller shares the same read-only table.
func DefaultFactors() (*FactorTable, error) {
	defaultFactorsOnce.Do(func() {
		defaultFactors, defaultFactorsErr = ParseFactors(strings.NewReader(emissionFactorsCSV))
	})
	return defaultFactors, defaultFactorsErr
}

// Lookup returns the factor for the pair, or a *FactorNotFoundError.
func (t *FactorTable) Lookup(category, subCategory string) (float64, error) {
	f, ok := t.factors[factorKey(category, subCategory)]
	if !ok {
		return 0, &FactorNotFoundError{Category: category, SubCategory: subCategory}
	}
	return f.CO2PerUnit, nil
}

// Has reports whether the pair is present.
func (t *FactorTable) Has(category, subCategory string) bool {
	_, ok := t.factors[factorKey(category, subCategory)]
	return ok
}

// Len reports the number of rows in the table.
func (t *FactorTable) Len() int {
	return len(t.factors)
}

// Rows returns a copy of the table sorted by category then sub_category.
func (t *FactorTable) Rows() []Factor {
	rows := make([]Factor, 0, len(t.factors))
	for _, f := range t.factors {
		rows = append(rows, f)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Category != rows[j].Category {
			return rows[i].Category < rows[j].Category
		}
		return rows[i].SubCategory < rows[j].SubCategory
	})
	return rows
}

// RequiredKeys lists every (category, sub_category) pair the calculator can
// request for recognised inputs.
func RequiredKeys() [][2]string {
	keys := [][2]string{{CategoryElectricity, SubCategoryGrid}}
	for _, m := range AllTransportModes() {
		keys = append(keys, [2]string{CategoryTransport, string(m)})
	}
	for _, d := range AllDietTypes() {
		keys = append(keys, [2]string{CategoryFood, string(d)})
	}
	keys = append(keys, [2]string{CategoryWaste, SubCategoryMixedWaste})
	return keys
}

// MissingKeys returns the required pairs absent from src, in RequiredKeys order.
func MissingKeys(src FactorSource) [][2]string {
	var missing [][2]string
	for _, k := range RequiredKeys() {
		if _, err := src.Lookup(k[0], k[1]); err != nil {
			missing = append(missing, k)
		}
	}
	return missing
}
