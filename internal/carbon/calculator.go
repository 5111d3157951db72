package carbon

// Calculator computes household emissions from a FootprintInput.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	factors FactorSource
}

// NewCalculator creates a calculator backed by the given factor source.
func NewCalculator(factors FactorSource) *Calculator {
	return &Calculator{factors: factors}
}

// Calculate returns per-category and total emissions in kg CO2e.
//
// The calculation is:
//  1. Electricity = electricity_kwh × factor(electricity, grid)
//  2. Transport   = transport_km × factor(transport, transport_mode)
//  3. Food        = meals_per_month × factor(food, diet_type)
//  4. Waste       = waste_kg × factor(waste, mixed)
//  5. Total       = sum of the four
//
// No rounding is applied. If any factor is missing the whole calculation
// fails with an error matching ErrFactorNotFound and a zero breakdown.
// Negative quantities are evaluated as given.
func (c *Calculator) Calculate(input FootprintInput) (EmissionBreakdown, error) {
	electricity, err := c.component(CategoryElectricity, SubCategoryGrid, input.ElectricityKWh)
	if err != nil {
		return EmissionBreakdown{}, err
	}

	transport, err := c.component(CategoryTransport, string(input.TransportMode), input.TransportKm)
	if err != nil {
		return EmissionBreakdown{}, err
	}

	food, err := c.component(CategoryFood, string(input.DietType), input.MealsPerMonth)
	if err != nil {
		return EmissionBreakdown{}, err
	}

	waste, err := c.component(CategoryWaste, SubCategoryMixedWaste, input.WasteKg)
	if err != nil {
		return EmissionBreakdown{}, err
	}

	return EmissionBreakdown{
		Electricity: electricity,
		Transport:   transport,
		Food:        food,
		Waste:       waste,
		Total:       electricity + transport + food + waste,
	}, nil
}

func (c *Calculator) component(category, subCategory string, quantity float64) (float64, error) {
	factor, err := c.factors.Lookup(category, subCategory)
	if err != nil {
		return 0, err
	}
	return quantity * factor, nil
}
