package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/utafrali/storefront/internal/domain"
)

// WishlistRepository keeps wishlists in process memory.
type WishlistRepository struct {
	mu    sync.RWMutex
	lists map[string][]domain.WishlistItem
}

// NewWishlistRepository creates an empty in-memory wishlist store.
func NewWishlistRepository() *WishlistRepository {
	return &WishlistRepository{lists: make(map[string][]domain.WishlistItem)}
}

// List returns a copy of the shopper's entries, never nil.
func (r *WishlistRepository) List(_ context.Context, userID string) ([]domain.WishlistItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]domain.WishlistItem, len(r.lists[userID]))
	copy(items, r.lists[userID])
	return items, nil
}

// Add appends item unless its product is already listed.
func (r *WishlistRepository) Add(_ context.Context, userID string, item domain.WishlistItem) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if indexOf(r.lists[userID], item.ProductID) >= 0 {
		return false, nil
	}
	r.lists[userID] = append(r.lists[userID], item)
	return true, nil
}

// Remove deletes the entry for productID and reports whether it existed.
func (r *WishlistRepository) Remove(_ context.Context, userID, productID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.lists[userID]
	i := indexOf(items, productID)
	if i < 0 {
		return false, nil
	}
	r.lists[userID] = slices.Delete(items, i, i+1)
	return true, nil
}

// Clear forgets the shopper's wishlist.
func (r *WishlistRepository) Clear(_ context.Context, userID string) error {
	r.mu.Lock()
	delete(r.lists, userID)
	r.mu.Unlock()
	return nil
}

func indexOf(items []domain.WishlistItem, productID string) int {
	return slices.IndexFunc(items, func(it domain.WishlistItem) bool {
		return it.ProductID == productID
	})
}
