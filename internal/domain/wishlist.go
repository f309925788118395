package domain

import "time"

// WishlistItem is a product a shopper wants to keep an eye on.
type WishlistItem struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	AddedAt   time.Time `json:"added_at"`
}

// Wishlist is a shopper's wishlist, oldest entry first.
type Wishlist struct {
	UserID string         `json:"user_id"`
	Items  []WishlistItem `json:"items"`
}

// Contains reports whether productID is already listed.
func (w Wishlist) Contains(productID string) bool {
	for _, it := range w.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}
