package carbon

// Factor table categories.
const (
	CategoryElectricity = "electricity"
	CategoryTransport   = "transport"
	CategoryFood        = "food"
	CategoryWaste       = "waste"
)

const (
	// SubCategoryGrid is the only electricity sub-category: grid supply.
	SubCategoryGrid = "grid"

	// SubCategoryMixedWaste is the only waste sub-category: unsorted household waste.
	SubCategoryMixedWaste = "mixed"
)

// Categories returns the factor categories in breakdown order.
func Categories() []string {
	return []string{CategoryElectricity, CategoryTransport, CategoryFood, CategoryWaste}
}
