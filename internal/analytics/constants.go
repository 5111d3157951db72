// Package analytics summarises a user's stored footprint history.
package analytics

// EPA greenhouse gas equivalency divisors: equivalency = kg_CO2e / factor.
const (
	// MilesDrivenFactor is kg CO2e per mile driven by an average passenger vehicle.
	MilesDrivenFactor = 0.393

	// SmartphoneChargeFactor is kg CO2e per full smartphone charge.
	SmartphoneChargeFactor = 0.0124
)

// StableThresholdPercent is the largest month-over-month change, as a
// percentage of the previous total, still reported as stable.
const StableThresholdPercent = 1.0

// Direction describes how the latest footprint moved relative to the previous one.
type Direction string

const (
	DirectionIncreasing Direction = "increasing"
	DirectionDecreasing Direction = "decreasing"
	DirectionStable     Direction = "stable"
)
