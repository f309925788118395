package repository

import (
	"context"

	"github.com/utafrali/storefront/internal/domain"
)

// CartRepository persists one cart per shopper.
type CartRepository interface {
	// Get returns the shopper's cart or an apperrors.ErrNotFound error.
	Get(ctx context.Context, userID string) (*domain.Cart, error)

	// SaveIfVersion stores cart only if the stored version still equals
	// expected (0 meaning no cart is stored yet). On success cart.Version is
	// advanced to expected+1. A false result with a nil error means another
	// writer got there first.
	SaveIfVersion(ctx context.Context, cart *domain.Cart, expected int) (bool, error)
}

// WishlistRepository persists wishlist entries per shopper.
type WishlistRepository interface {
	// List returns the shopper's entries, oldest first.
	List(ctx context.Context, userID string) ([]domain.WishlistItem, error)

	// Add inserts item; adding a product already present is a no-op that
	// returns false.
	Add(ctx context.Context, userID string, item domain.WishlistItem) (bool, error)

	// Remove deletes one product and reports whether it was present.
	Remove(ctx context.Context, userID, productID string) (bool, error)

	// Clear removes every entry for the shopper.
	Clear(ctx context.Context, userID string) error
}
