package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

type entry struct {
	data      []byte
	version   int
	expiresAt time.Time
}

// CartRepository keeps carts in process memory. Carts are stored as JSON so
// callers never share slices with the store.
type CartRepository struct {
	mu    sync.RWMutex
	carts map[string]entry
	ttl   time.Duration
	now   func() time.Time
}

// NewCartRepository creates an empty in-memory store. Entries expire ttl
// after their last save.
func NewCartRepository(ttl time.Duration) *CartRepository {
	return &CartRepository{
		carts: make(map[string]entry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns a decoded copy of the stored cart.
func (r *CartRepository) Get(_ context.Context, userID string) (*domain.Cart, error) {
	r.mu.RLock()
	e, ok := r.lookup(userID)
	r.mu.RUnlock()

	if !ok {
		return nil, apperrors.NotFound("cart", userID)
	}

	var cart domain.Cart
	if err := json.Unmarshal(e.data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return &cart, nil
}

// SaveIfVersion compares and stores under the write lock.
func (r *CartRepository) SaveIfVersion(_ context.Context, cart *domain.Cart, expected int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := 0
	if e, ok := r.lookup(cart.UserID); ok {
		current = e.version
	}
	if current != expected {
		return false, nil
	}

	next := *cart
	next.Version = expected + 1
	data, err := json.Marshal(&next)
	if err != nil {
		return false, fmt.Errorf("marshal cart: %w", err)
	}

	r.store(cart.UserID, data, next.Version)
	cart.Version = next.Version
	return true, nil
}

// lookup must be called with mu held.
func (r *CartRepository) lookup(userID string) (entry, bool) {
	e, ok := r.carts[userID]
	if !ok || (r.ttl > 0 && !r.now().Before(e.expiresAt)) {
		return entry{}, false
	}
	return e, true
}

// store must be called with mu held for writing.
func (r *CartRepository) store(userID string, data []byte, version int) {
	r.carts[userID] = entry{
		data:      data,
		version:   version,
		expiresAt: r.now().Add(r.ttl),
	}
}
