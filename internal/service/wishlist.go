package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// ProductLookup resolves catalog products by id.
type ProductLookup interface {
	Product(ctx context.Context, id string) (domain.Product, error)
}

// WishlistService manages per-shopper wishlists.
type WishlistService struct {
	repo     repository.WishlistRepository
	products ProductLookup
	logger   *slog.Logger
	now      func() time.Time
}

// NewWishlistService creates a wishlist service that resolves products through
// products.
func NewWishlistService(repo repository.WishlistRepository, products ProductLookup, logger *slog.Logger) *WishlistService {
	return &WishlistService{
		repo:     repo,
		products: products,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Items returns the shopper's wishlist.
func (s *WishlistService) Items(ctx context.Context, userID string) (domain.Wishlist, error) {
	if userID == "" {
		return domain.Wishlist{}, apperrors.InvalidInput("user id is required")
	}

	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return domain.Wishlist{}, fmt.Errorf("list wishlist: %w", err)
	}
	return domain.Wishlist{UserID: userID, Items: items}, nil
}

// Add puts a catalog product on the wishlist. Adding it twice is a no-op.
func (s *WishlistService) Add(ctx context.Context, userID, productID string) (domain.Wishlist, error) {
	if userID == "" {
		return domain.Wishlist{}, apperrors.InvalidInput("user id is required")
	}

	product, err := s.products.Product(ctx, productID)
	if err != nil {
		return domain.Wishlist{}, err
	}

	current, err := s.Items(ctx, userID)
	if err != nil {
		wishlistOperations.WithLabelValues("add", resultError).Inc()
		return domain.Wishlist{}, err
	}
	if current.Contains(product.ID) {
		s.record(ctx, "add", userID, productID, false)
		return current, nil
	}

	added, err := s.repo.Add(ctx, userID, domain.WishlistItem{
		ProductID: product.ID,
		Name:      product.Name,
		AddedAt:   s.now(),
	})
	if err != nil {
		wishlistOperations.WithLabelValues("add", resultError).Inc()
		return domain.Wishlist{}, fmt.Errorf("add wishlist item: %w", err)
	}
	s.record(ctx, "add", userID, productID, added)

	return s.Items(ctx, userID)
}

// RemoveItem drops one product. Removing an absent product is a no-op.
func (s *WishlistService) RemoveItem(ctx context.Context, userID, productID string) (domain.Wishlist, error) {
	if userID == "" {
		return domain.Wishlist{}, apperrors.InvalidInput("user id is required")
	}

	removed, err := s.repo.Remove(ctx, userID, productID)
	if err != nil {
		wishlistOperations.WithLabelValues("remove", resultError).Inc()
		return domain.Wishlist{}, fmt.Errorf("remove wishlist item: %w", err)
	}
	s.record(ctx, "remove", userID, productID, removed)

	return s.Items(ctx, userID)
}

// Clear empties the shopper's wishlist.
func (s *WishlistService) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return apperrors.InvalidInput("user id is required")
	}

	if err := s.repo.Clear(ctx, userID); err != nil {
		wishlistOperations.WithLabelValues("clear", resultError).Inc()
		return fmt.Errorf("clear wishlist: %w", err)
	}
	wishlistOperations.WithLabelValues("clear", resultChanged).Inc()

	s.logger.InfoContext(ctx, "wishlist cleared", slog.String("user_id", userID))
	return nil
}

func (s *WishlistService) record(ctx context.Context, op, userID, productID string, changed bool) {
	if !changed {
		wishlistOperations.WithLabelValues(op, resultNoop).Inc()
		return
	}
	wishlistOperations.WithLabelValues(op, resultChanged).Inc()
	s.logger.InfoContext(ctx, "wishlist updated",
		slog.String("user_id", userID),
		slog.String("operation", op),
		slog.String("product_id", productID),
	)
}
