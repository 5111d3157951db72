package carbon

import (
	"fmt"
	"math"
)

// Validate checks the FootprintInput invariants: finite, non-negative
// quantities and recognised enum values. The calculator does not call it;
// request handlers do, before accepting user data.
func (in FootprintInput) Validate() error {
	quantities := []struct {
		name  string
		value float64
	}{
		{"electricity_kwh", in.ElectricityKWh},
		{"transport_km", in.TransportKm},
		{"meals_per_month", in.MealsPerMonth},
		{"waste_kg", in.WasteKg},
	}
	for _, q := range quantities {
		if math.IsNaN(q.value) || math.IsInf(q.value, 0) {
			return fmt.Errorf("%w: %s must be a finite number", ErrInvalidInput, q.name)
		}
		if q.value < 0 {
			return fmt.Errorf("%w: %s must be >= 0 (got %s)", ErrInvalidInput, q.name, formatFloat(q.value))
		}
	}

	if !in.TransportMode.Valid() {
		return fmt.Errorf("%w: unsupported transport_mode %q", ErrInvalidInput, in.TransportMode)
	}
	if !in.DietType.Valid() {
		return fmt.Errorf("%w: unsupported diet_type %q", ErrInvalidInput, in.DietType)
	}
	return nil
}
