package carbon

import "strconv"

// formatFloat formats a float for display.
// Integral values print without a fractional part; others use 2 decimal places.
func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// FormatQuantity formats a quantity for human-readable messages.
func FormatQuantity(f float64) string {
	return formatFloat(f)
}
