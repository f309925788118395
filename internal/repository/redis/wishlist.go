package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/internal/domain"
)

const wishlistKeyPrefix = "storefront:wishlist:"

// WishlistRepository stores each wishlist as a hash of product id to JSON
// entry.
type WishlistRepository struct {
	client redis.UniversalClient
}

// NewWishlistRepository stores each wishlist as a Redis hash keyed by product id.
func NewWishlistRepository(client redis.UniversalClient) *WishlistRepository {
	return &WishlistRepository{client: client}
}

// List returns the shopper's entries ordered by AddedAt.
func (r *WishlistRepository) List(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	fields, err := r.client.HGetAll(ctx, wishlistKeyPrefix+userID).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall wishlist: %w", err)
	}

	items := make([]domain.WishlistItem, 0, len(fields))
	for productID, raw := range fields {
		var it domain.WishlistItem
		if err := json.Unmarshal([]byte(raw), &it); err != nil {
			return nil, fmt.Errorf("unmarshal wishlist item %s: %w", productID, err)
		}
		items = append(items, it)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].AddedAt.Equal(items[j].AddedAt) {
			return items[i].ProductID < items[j].ProductID
		}
		return items[i].AddedAt.Before(items[j].AddedAt)
	})
	return items, nil
}

// Add writes the entry with HSETNX so an existing product keeps its original AddedAt.
func (r *WishlistRepository) Add(ctx context.Context, userID string, item domain.WishlistItem) (bool, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return false, fmt.Errorf("marshal wishlist item: %w", err)
	}

	added, err := r.client.HSetNX(ctx, wishlistKeyPrefix+userID, item.ProductID, data).Result()
	if err != nil {
		return false, fmt.Errorf("redis hsetnx wishlist: %w", err)
	}
	return added, nil
}

// Remove deletes one hash field.
func (r *WishlistRepository) Remove(ctx context.Context, userID, productID string) (bool, error) {
	n, err := r.client.HDel(ctx, wishlistKeyPrefix+userID, productID).Result()
	if err != nil {
		return false, fmt.Errorf("redis hdel wishlist: %w", err)
	}
	return n > 0, nil
}

// Clear drops the whole hash.
func (r *WishlistRepository) Clear(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, wishlistKeyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("redis del wishlist: %w", err)
	}
	return nil
}
