package analytics

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// English locale for consistent thousand separators.
var printer = message.NewPrinter(language.English)

// Equivalency expresses a footprint in everyday terms.
type Equivalency struct {
	InputKg            float64 `json:"input_kg"`
	MilesDriven        float64 `json:"miles_driven"`
	SmartphonesCharged float64 `json:"smartphones_charged"`
	DisplayText        string  `json:"display_text,omitempty"`
}

// Equivalencies converts kg CO2e into miles driven and smartphones charged.
// Non-positive or non-finite input yields a zero Equivalency with no text.
func Equivalencies(kg float64) Equivalency {
	if kg <= 0 || math.IsInf(kg, 0) || math.IsNaN(kg) {
		return Equivalency{}
	}

	miles := kg / MilesDrivenFactor
	phones := kg / SmartphoneChargeFactor

	return Equivalency{
		InputKg:            kg,
		MilesDriven:        miles,
		SmartphonesCharged: phones,
		DisplayText: printer.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones",
			FormatNumber(miles), FormatNumber(phones)),
	}
}

// FormatNumber rounds v to an integer and adds thousand separators.
// Example: FormatNumber(18247.6) returns "18,248".
func FormatNumber(v float64) string {
	return printer.Sprintf("%d", int64(math.Round(v)))
}
