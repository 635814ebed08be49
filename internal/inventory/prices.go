package inventory

import (
	"fmt"
	"strings"
)

// PriceRange is the per-pound price of fresh stock (High) and of stock at expiration (Low).
type PriceRange struct {
	High float64 `mapstructure:"high" json:"high"`
	Low  float64 `mapstructure:"low" json:"low"`
}

// PriceTable maps ingredient names to their price range.
type PriceTable map[string]PriceRange

// DefaultPrices is used when the configuration does not provide a table.
func DefaultPrices() PriceTable {
	return PriceTable{
		"lemon": {High: 2.0, Low: 1.0},
	}
}

// Lookup finds the price range for name, falling back to its lowercase form.
func (pt PriceTable) Lookup(name string) (PriceRange, error) {
	pr, ok := pt[name]
	if !ok {
		pr, ok = pt[strings.ToLower(name)]
	}
	if !ok {
		return PriceRange{}, fmt.Errorf("price lookup for %q: %w", name, ErrUnknownIngredient)
	}
	return pr, nil
}
