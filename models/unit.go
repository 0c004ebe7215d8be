package models

// UnitCategory groups units that can be converted into each other.
type UnitCategory string

const (
	CategoryWeight UnitCategory = "weight"
	CategoryVolume UnitCategory = "volume"
	CategoryPiece  UnitCategory = "piece"
	CategoryLength UnitCategory = "length"
)

// Unit is one entry of the unit registry. BaseMultiplier converts 1 unit
// into the base unit of its category (g, ml, 1 piece, cm).
type Unit struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Symbol         string       `json:"symbol"`
	Category       UnitCategory `json:"category"`
	BaseMultiplier float64      `json:"base_multiplier"`
}

// SameCategory reports whether u and o are directly convertible.
func (u Unit) SameCategory(o Unit) bool {
	return u.Category == o.Category
}
