package carbon

import "fmt"

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors, compared with errors.Is.
var (
	// ErrFactorNotFound indicates no factor row matches a (category, sub_category) pair.
	ErrFactorNotFound = constError("emission factor not found")

	// ErrInvalidAction indicates an action variant that is not recognised.
	ErrInvalidAction = constError("invalid action")

	// ErrInvalidInput indicates a FootprintInput that violates its invariants.
	ErrInvalidInput = constError("invalid footprint input")

	// ErrEmptyFactorTable indicates a factor source with no usable rows.
	ErrEmptyFactorTable = constError("emission factor table is empty")
)

// FactorNotFoundError reports the pair that failed to resolve.
// It matches ErrFactorNotFound under errors.Is.
type FactorNotFoundError struct {
	Category    string
	SubCategory string
}

func (e *FactorNotFoundError) Error() string {
	return fmt.Sprintf("no emission factor found for %s - %s", e.Category, e.SubCategory)
}

// Unwrap returns ErrFactorNotFound.
func (e *FactorNotFoundError) Unwrap() error { return ErrFactorNotFound }
