package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrOutOfStock is returned when an unavailable product would enter the cart.
var ErrOutOfStock = errors.New("item is out of stock")

const (
	MaxQuantityPerLine = 100
	MaxLines           = 50
)

// LineItem is a product with a quantity in the cart.
type LineItem struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Stock     StockStatus     `json:"stock_status"`
	ImageURL  string          `json:"image_url,omitempty"`
}

// LineTotal is unit price times quantity, unrounded.
func (i LineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SavedItem is a line item parked outside the cart. Its quantity is kept so
// moving it back restores the line as it was.
type SavedItem LineItem

// Cart is the state of one shopper's session. All mutations report whether
// anything changed; unknown ids and blocked transitions are no-ops.
type Cart struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Items     []LineItem    `json:"items"`
	Saved     []SavedItem   `json:"saved_items"`
	Promo     *AppliedPromo `json:"promo,omitempty"`
	Currency  string        `json:"currency"`
	Version   int           `json:"version"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// NewCart returns an empty cart expiring ttl after now.
func NewCart(id, userID, currency string, now time.Time, ttl time.Duration) *Cart {
	return &Cart{
		ID:        id,
		UserID:    userID,
		Items:     []LineItem{},
		Saved:     []SavedItem{},
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// FindItemIndex returns the index of the cart line with the given id, or -1.
func (c *Cart) FindItemIndex(id string) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// FindSavedIndex returns the index of the saved item with the given id, or -1.
func (c *Cart) FindSavedIndex(id string) int {
	for i := range c.Saved {
		if c.Saved[i].ID == id {
			return i
		}
	}
	return -1
}

// FindProductIndex returns the index of the cart line holding productID, or -1.
func (c *Cart) FindProductIndex(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// IncreaseQuantity adds one unit to an in-stock line. There is no upper cap.
func (c *Cart) IncreaseQuantity(id string) bool {
	i := c.FindItemIndex(id)
	if i < 0 || !c.Items[i].Stock.Adjustable() {
		return false
	}
	c.Items[i].Quantity++
	return true
}

// DecreaseQuantity never takes a line below 1 and never removes it.
func (c *Cart) DecreaseQuantity(id string) bool {
	i := c.FindItemIndex(id)
	if i < 0 || !c.Items[i].Stock.Adjustable() || c.Items[i].Quantity <= 1 {
		return false
	}
	c.Items[i].Quantity--
	return true
}

// RemoveItem deletes the line whatever its stock status.
func (c *Cart) RemoveItem(id string) bool {
	i := c.FindItemIndex(id)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return true
}

// SaveForLater moves a cart line to the end of the saved list.
func (c *Cart) SaveForLater(id string) bool {
	i := c.FindItemIndex(id)
	if i < 0 {
		return false
	}
	item := c.Items[i]
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.Saved = append(c.Saved, SavedItem(item))
	return true
}

// MoveToCart moves a saved item back to the end of the cart. Out-of-stock
// saved items stay put and ErrOutOfStock is returned.
func (c *Cart) MoveToCart(id string) (bool, error) {
	i := c.FindSavedIndex(id)
	if i < 0 {
		return false, nil
	}
	if !c.Saved[i].Stock.Adjustable() {
		return false, ErrOutOfStock
	}
	item := c.Saved[i]
	c.Saved = append(c.Saved[:i], c.Saved[i+1:]...)
	c.Items = append(c.Items, LineItem(item))
	return true, nil
}

// RemoveSavedItem drops a saved item regardless of its stock status.
func (c *Cart) RemoveSavedItem(id string) bool {
	i := c.FindSavedIndex(id)
	if i < 0 {
		return false
	}
	c.Saved = append(c.Saved[:i], c.Saved[i+1:]...)
	return true
}

// CanAddLine reports whether productID fits, either because it already has a
// line or because the cart is below MaxLines.
func (c *Cart) CanAddLine(productID string) bool {
	return c.FindProductIndex(productID) >= 0 || len(c.Items) < MaxLines
}

// AddItem merges item into the line for the same product, capping the line
// at MaxQuantityPerLine, or appends a new line. The caller checks CanAddLine.
func (c *Cart) AddItem(item LineItem) (bool, error) {
	if !item.Stock.Adjustable() {
		return false, ErrOutOfStock
	}
	if item.Quantity < 1 {
		return false, nil
	}

	if i := c.FindProductIndex(item.ProductID); i >= 0 {
		merged := min(c.Items[i].Quantity+item.Quantity, MaxQuantityPerLine)
		if merged == c.Items[i].Quantity {
			return false, nil
		}
		c.Items[i].Quantity = merged
		return true, nil
	}

	item.Quantity = min(item.Quantity, MaxQuantityPerLine)
	c.Items = append(c.Items, item)
	return true, nil
}

// ApplyPromo locks the first matching code onto the cart. Unknown codes and
// any attempt after a promo is locked leave the cart untouched.
func (c *Cart) ApplyPromo(code string, table PromoTable, now time.Time) bool {
	if c.Promo != nil {
		return false
	}
	rule, ok := table.Lookup(code)
	if !ok {
		return false
	}
	c.Promo = &AppliedPromo{Code: rule.Code, Percent: rule.Percent, AppliedAt: now}
	return true
}

// PromoLocked reports whether a promo has been applied. Once set it is never
// replaced.
func (c *Cart) PromoLocked() bool {
	return c.Promo != nil
}

// IsEmpty ignores saved items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// CanCheckout is false while any cart line (saved items excluded) is out of
// stock. An empty cart passes this check; callers test IsEmpty separately.
func (c *Cart) CanCheckout() bool {
	for _, it := range c.Items {
		if !it.Stock.Adjustable() {
			return false
		}
	}
	return true
}

// ItemCount is the total quantity across cart lines.
func (c *Cart) ItemCount() int {
	var n int
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Totals prices the cart with p.
func (c *Cart) Totals(p Pricing) OrderTotals {
	return CalculateTotals(c.Items, c.Promo, p)
}

// Touch bumps the timestamps after a mutation.
func (c *Cart) Touch(now time.Time, ttl time.Duration) {
	c.UpdatedAt = now
	c.ExpiresAt = now.Add(ttl)
}
