package domain

import "fmt"

// StockStatus is the availability of a product line.
type StockStatus string

const (
	InStock    StockStatus = "in_stock"
	OutOfStock StockStatus = "out_of_stock"
)

// Adjustable reports whether quantity controls and move-to-cart are allowed.
func (s StockStatus) Adjustable() bool {
	return s == InStock
}

// Valid reports whether s is one of the known statuses.
func (s StockStatus) Valid() bool {
	return s == InStock || s == OutOfStock
}

func (s StockStatus) String() string {
	return string(s)
}

// UnmarshalText rejects anything other than the two known variants.
func (s *StockStatus) UnmarshalText(b []byte) error {
	v := StockStatus(b)
	if !v.Valid() {
		return fmt.Errorf("unknown stock status %q", string(b))
	}
	*s = v
	return nil
}
