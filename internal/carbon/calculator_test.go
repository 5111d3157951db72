package carbon

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// referenceFactors mirrors the factor values used throughout the scenario tests.
func referenceFactors(t testing.TB) *FactorTable {
	t.Helper()
	table, err := NewFactorTable([]Factor{
		{Category: "electricity", SubCategory: "grid", CO2PerUnit: 0.82},
		{Category: "transport", SubCategory: "petrol", CO2PerUnit: 0.21},
		{Category: "transport", SubCategory: "diesel", CO2PerUnit: 0.17},
		{Category: "transport", SubCategory: "public_transport", CO2PerUnit: 0.05},
		{Category: "food", SubCategory: "veg", CO2PerUnit: 1.7},
		{Category: "food", SubCategory: "mixed", CO2PerUnit: 2.5},
		{Category: "food", SubCategory: "non_veg", CO2PerUnit: 3.3},
		{Category: "waste", SubCategory: "mixed", CO2PerUnit: 0.1},
	})
	require.NoError(t, err)
	return table
}

func baselineInput() FootprintInput {
	return FootprintInput{
		ElectricityKWh: 300,
		TransportMode:  TransportPetrol,
		TransportKm:    500,
		DietType:       DietMixed,
		MealsPerMonth:  90,
		WasteKg:        20,
	}
}

func TestCalculator_Calculate_Baseline(t *testing.T) {
	calc := NewCalculator(referenceFactors(t))

	got, err := calc.Calculate(baselineInput())
	require.NoError(t, err)

	assert.InDelta(t, 246.0, got.Electricity, 1e-9)
	assert.InDelta(t, 105.0, got.Transport, 1e-9)
	assert.InDelta(t, 225.0, got.Food, 1e-9)
	assert.InDelta(t, 2.0, got.Waste, 1e-9)
	assert.InDelta(t, 578.0, got.Total, 1e-9)
}

func TestCalculator_Calculate_TotalIsExactSum(t *testing.T) {
	calc := NewCalculator(referenceFactors(t))

	inputs := []FootprintInput{
		baselineInput(),
		{},
		{ElectricityKWh: 0.1, TransportMode: TransportDiesel, TransportKm: 0.7, DietType: DietVeg, MealsPerMonth: 3.3, WasteKg: 1e-3},
		{ElectricityKWh: 12345.678, TransportMode: TransportPublicTransport, TransportKm: 9876.5, DietType: DietNonVeg, MealsPerMonth: 93, WasteKg: 41.25},
	}
	for _, in := range inputs {
		in := in
		if in.TransportMode == "" {
			in.TransportMode = TransportPetrol
			in.DietType = DietMixed
		}
		got, err := calc.Calculate(in)
		require.NoError(t, err)
		assert.Equal(t, got.Electricity+got.Transport+got.Food+got.Waste, got.Total,
			"total must be the exact sum of components for %+v", in)
	}
}

func TestCalculator_Calculate_Idempotent(t *testing.T) {
	calc := NewCalculator(referenceFactors(t))
	in := baselineInput()

	first, err := calc.Calculate(in)
	require.NoError(t, err)
	second, err := calc.Calculate(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, baselineInput(), in, "input must not be modified")
}

func TestCalculator_Calculate_UnknownEnumFails(t *testing.T) {
	calc := NewCalculator(referenceFactors(t))

	tests := []struct {
		name        string
		mutate      func(*FootprintInput)
		category    string
		subCategory string
	}{
		{
			name:        "unknown transport mode",
			mutate:      func(in *FootprintInput) { in.TransportMode = "unknown_mode" },
			category:    "transport",
			subCategory: "unknown_mode",
		},
		{
			name:        "unknown diet",
			mutate:      func(in *FootprintInput) { in.DietType = "keto" },
			category:    "food",
			subCategory: "keto",
		},
		{
			name:        "empty transport mode",
			mutate:      func(in *FootprintInput) { in.TransportMode = "" },
			category:    "transport",
			subCategory: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baselineInput()
			tt.mutate(&in)

			got, err := calc.Calculate(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFactorNotFound))
			assert.Equal(t, EmissionBreakdown{}, got, "no partial result on failure")

			var notFound *FactorNotFoundError
			require.ErrorAs(t, err, &notFound)
			assert.Equal(t, tt.category, notFound.Category)
			assert.Equal(t, tt.subCategory, notFound.SubCategory)
		})
	}
}

func TestCalculator_Calculate_MissingGridFactor(t *testing.T) {
	table, err := NewFactorTable([]Factor{
		{Category: "transport", SubCategory: "petrol", CO2PerUnit: 0.21},
		{Category: "food", SubCategory: "mixed", CO2PerUnit: 2.5},
		{Category: "waste", SubCategory: "mixed", CO2PerUnit: 0.1},
	})
	require.NoError(t, err)

	_, err = NewCalculator(table).Calculate(baselineInput())
	assert.ErrorIs(t, err, ErrFactorNotFound)
	assert.EqualError(t, err, "no emission factor found for electricity - grid")
}

func TestCalculator_Calculate_NegativeQuantityNotRejected(t *testing.T) {
	calc := NewCalculator(referenceFactors(t))
	in := baselineInput()
	in.ElectricityKWh = -30

	got, err := calc.Calculate(in)
	require.NoError(t, err)
	assert.InDelta(t, -24.6, got.Electricity, 1e-9)
}

func TestCalculator_DefaultFactors(t *testing.T) {
	table, err := DefaultFactors()
	require.NoError(t, err)

	got, err := NewCalculator(table).Calculate(baselineInput())
	require.NoError(t, err)
	assert.InDelta(t, 578.0, got.Total, 1e-9)
}

func BenchmarkCalculator_Calculate(b *testing.B) {
	calc := NewCalculator(referenceFactors(b))
	in := baselineInput()

	b.ReportAllocs()
	for b.Loop() {
		if _, err := calc.Calculate(in); err != nil {
			b.Fatal(err)
		}
	}
}
