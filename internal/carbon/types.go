// Package carbon computes household carbon footprints from activity data
// using a keyed table of emission factors.
package carbon

// TransportMode is the primary mode of transport used by a household.
// Values outside the recognised set are representable so that an unknown
// mode fails at factor lookup rather than at decode time.
type TransportMode string

const (
	TransportPetrol          TransportMode = "petrol"
	TransportDiesel          TransportMode = "diesel"
	TransportPublicTransport TransportMode = "public_transport"
)

// AllTransportModes returns the recognised transport modes in declaration order.
func AllTransportModes() []TransportMode {
	return []TransportMode{TransportPetrol, TransportDiesel, TransportPublicTransport}
}

// Valid reports whether m is a recognised transport mode.
func (m TransportMode) Valid() bool {
	switch m {
	case TransportPetrol, TransportDiesel, TransportPublicTransport:
		return true
	default:
		return false
	}
}

// DietType is the household's prevailing diet.
type DietType string

const (
	DietVeg    DietType = "veg"
	DietMixed  DietType = "mixed"
	DietNonVeg DietType = "non_veg"
)

// AllDietTypes returns the recognised diet types in declaration order.
func AllDietTypes() []DietType {
	return []DietType{DietVeg, DietMixed, DietNonVeg}
}

// Valid reports whether d is a recognised diet type.
func (d DietType) Valid() bool {
	switch d {
	case DietVeg, DietMixed, DietNonVeg:
		return true
	default:
		return false
	}
}

// FootprintInput contains monthly household activity data.
// It is passed by value; nothing in this module mutates a caller's copy.
type FootprintInput struct {
	// ElectricityKWh is grid electricity consumed in kilowatt-hours.
	ElectricityKWh float64 `json:"electricity_kwh" yaml:"electricity_kwh"`

	// TransportMode is the mode used for TransportKm.
	TransportMode TransportMode `json:"transport_mode" yaml:"transport_mode"`

	// TransportKm is the distance travelled in kilometres.
	TransportKm float64 `json:"transport_km" yaml:"transport_km"`

	// DietType selects the per-meal food factor.
	DietType DietType `json:"diet_type" yaml:"diet_type"`

	// MealsPerMonth is the number of meals eaten.
	MealsPerMonth float64 `json:"meals_per_month" yaml:"meals_per_month"`

	// WasteKg is mixed household waste in kilograms.
	WasteKg float64 `json:"waste_kg" yaml:"waste_kg"`
}

// EmissionBreakdown contains per-category and total emissions in kg CO2e.
type EmissionBreakdown struct {
	Electricity float64 `json:"electricity" yaml:"electricity"`
	Transport   float64 `json:"transport" yaml:"transport"`
	Food        float64 `json:"food" yaml:"food"`
	Waste       float64 `json:"waste" yaml:"waste"`
	Total       float64 `json:"total" yaml:"total"`
}
