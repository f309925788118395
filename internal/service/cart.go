package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// AddItemInput holds the parameters for adding a product to the cart.
type AddItemInput struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=100"`
}

// ApplyPromoInput holds the promo code entered by the shopper.
type ApplyPromoInput struct {
	Code string `json:"code" validate:"required,max=32,printascii"`
}

// CheckoutResult tells the client where to go after a successful checkout
// guard.
type CheckoutResult struct {
	Redirect string          `json:"redirect"`
	View     domain.CartView `json:"cart"`
}

// Catalog is what the cart service needs from the product catalog.
type Catalog interface {
	Product(ctx context.Context, id string) (domain.Product, error)
	SeedDemoCart(cart *domain.Cart, newID func() string)
}

// EventPublisher emits cart events. Failures are logged, never returned to
// the shopper.
type EventPublisher interface {
	PublishCartUpdated(ctx context.Context, cart *domain.Cart, totals domain.OrderTotals) error
	PublishCartCleared(ctx context.Context, userID string) error
	PublishPromoApplied(ctx context.Context, cart *domain.Cart, totals domain.OrderTotals) error
	PublishCheckoutStarted(ctx context.Context, cart *domain.Cart, totals domain.OrderTotals) error
}

// CartConfig holds the pricing and session settings of the cart service.
type CartConfig struct {
	TTL      time.Duration
	Currency string
	Pricing  domain.Pricing
	Promos   domain.PromoTable
	SeedDemo bool
}

// CartService owns every cart mutation: load, apply, persist with a version
// check, publish.
type CartService struct {
	repo    repository.CartRepository
	catalog Catalog
	events  EventPublisher
	logger  *slog.Logger
	cfg     CartConfig

	now   func() time.Time
	newID func() string
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, catalog Catalog, events EventPublisher, logger *slog.Logger, cfg CartConfig) *CartService {
	if cfg.Promos == nil {
		cfg.Promos = domain.DefaultPromoTable()
	}
	return &CartService{
		repo:    repo,
		catalog: catalog,
		events:  events,
		logger:  logger,
		cfg:     cfg,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

// GetCart returns the shopper's cart, creating it on first access.
func (s *CartService) GetCart(ctx context.Context, userID string) (domain.CartView, error) {
	if userID == "" {
		return domain.CartView{}, apperrors.InvalidInput("user id is required")
	}

	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return domain.CartView{}, err
	}
	return s.view(cart), nil
}

// AddItem adds quantity units of a catalog product, merging into an existing
// line for the same product.
func (s *CartService) AddItem(ctx context.Context, userID string, input AddItemInput) (domain.CartView, error) {
	if input.ProductID == "" {
		return domain.CartView{}, apperrors.InvalidInput("product id is required")
	}
	if input.Quantity < 1 || input.Quantity > domain.MaxQuantityPerLine {
		return domain.CartView{}, apperrors.InvalidInput(fmt.Sprintf("quantity must be between 1 and %d", domain.MaxQuantityPerLine))
	}

	product, err := s.catalog.Product(ctx, input.ProductID)
	if err != nil {
		return domain.CartView{}, err
	}

	return s.mutate(ctx, userID, "add_item", func(c *domain.Cart) (bool, error) {
		if !c.CanAddLine(product.ID) {
			return false, apperrors.InvalidInput(fmt.Sprintf("cart must not contain more than %d items", domain.MaxLines))
		}
		changed, err := c.AddItem(product.ToLineItem(s.newID(), input.Quantity))
		if errors.Is(err, domain.ErrOutOfStock) {
			return false, apperrors.Conflict(fmt.Sprintf("product %s is out of stock", product.Name))
		}
		return changed, err
	})
}

// IncreaseQuantity adds one unit to an in-stock line.
func (s *CartService) IncreaseQuantity(ctx context.Context, userID, itemID string) (domain.CartView, error) {
	return s.mutate(ctx, userID, "increase_quantity", func(c *domain.Cart) (bool, error) {
		return c.IncreaseQuantity(itemID), nil
	})
}

// DecreaseQuantity removes one unit from an in-stock line, never going below 1.
func (s *CartService) DecreaseQuantity(ctx context.Context, userID, itemID string) (domain.CartView, error) {
	return s.mutate(ctx, userID, "decrease_quantity", func(c *domain.Cart) (bool, error) {
		return c.DecreaseQuantity(itemID), nil
	})
}

// RemoveItem deletes a line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) (domain.CartView, error) {
	return s.mutate(ctx, userID, "remove_item", func(c *domain.Cart) (bool, error) {
		return c.RemoveItem(itemID), nil
	})
}

// SaveForLater moves a cart line to the end of the saved list.
func (s *CartService) SaveForLater(ctx context.Context, userID, itemID string) (domain.CartView, error) {
	return s.mutate(ctx, userID, "save_for_later", func(c *domain.Cart) (bool, error) {
		return c.SaveForLater(itemID), nil
	})
}

// MoveToCart restores a saved item. Out-of-stock saved items are rejected
// with a conflict.
func (s *CartService) MoveToCart(ctx context.Context, userID, itemID string) (domain.CartView, error) {
	return s.mutate(ctx, userID, "move_to_cart", func(c *domain.Cart) (bool, error) {
		moved, err := c.MoveToCart(itemID)
		if errors.Is(err, domain.ErrOutOfStock) {
			return false, apperrors.Conflict("saved item is out of stock and cannot be moved to the cart")
		}
		return moved, err
	})
}

// RemoveSavedItem deletes an entry from the saved list.
func (s *CartService) RemoveSavedItem(ctx context.Context, userID, itemID string) (domain.CartView, error) {
	return s.mutate(ctx, userID, "remove_saved_item", func(c *domain.Cart) (bool, error) {
		return c.RemoveSavedItem(itemID), nil
	})
}

// ApplyPromo locks a promo code onto the cart. Unknown codes and repeated
// attempts leave the cart unchanged and are not errors.
func (s *CartService) ApplyPromo(ctx context.Context, userID string, input ApplyPromoInput) (domain.CartView, error) {
	applied := false
	view, err := s.mutate(ctx, userID, "apply_promo", func(c *domain.Cart) (bool, error) {
		switch {
		case c.PromoLocked():
			promoApplications.WithLabelValues("locked").Inc()
			return false, nil
		case c.ApplyPromo(input.Code, s.cfg.Promos, s.now()):
			applied = true
			return true, nil
		default:
			promoApplications.WithLabelValues("unknown_code").Inc()
			s.logger.InfoContext(ctx, "promo code not recognised",
				slog.String("user_id", userID),
			)
			return false, nil
		}
	})
	if err != nil || !applied {
		return view, err
	}

	promoApplications.WithLabelValues("applied").Inc()
	if err := s.events.PublishPromoApplied(ctx, view.Cart, view.Totals); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.promo_applied event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
	s.logger.InfoContext(ctx, "promo code applied",
		slog.String("user_id", userID),
		slog.String("code", view.Cart.Promo.Code),
		slog.String("discount", view.Totals.Discount.StringFixed(2)),
	)
	return view, nil
}

// ClearCart replaces the shopper's cart with a fresh empty one, dropping the
// saved items and the promo lock. Demo seeding does not run again.
func (s *CartService) ClearCart(ctx context.Context, userID string) (domain.CartView, error) {
	if userID == "" {
		return domain.CartView{}, apperrors.InvalidInput("user id is required")
	}

	current, err := s.repo.Get(ctx, userID)
	expected := 0
	switch {
	case err == nil:
		expected = current.Version
	case errors.Is(err, apperrors.ErrNotFound):
	default:
		return domain.CartView{}, fmt.Errorf("get cart for clear: %w", err)
	}

	fresh := domain.NewCart(s.newID(), userID, s.cfg.Currency, s.now(), s.cfg.TTL)
	ok, err := s.repo.SaveIfVersion(ctx, fresh, expected)
	if err != nil {
		cartOperations.WithLabelValues("clear", resultError).Inc()
		return domain.CartView{}, fmt.Errorf("save cart: %w", err)
	}
	if !ok {
		cartOperations.WithLabelValues("clear", resultConflict).Inc()
		return domain.CartView{}, apperrors.Conflict("cart was modified concurrently, please retry")
	}
	cartOperations.WithLabelValues("clear", resultChanged).Inc()

	if err := s.events.PublishCartCleared(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("user_id", userID),
	)
	return s.view(fresh), nil
}

// BeginCheckout runs the checkout guard and returns the route to navigate
// to. An empty cart is invalid input; an out-of-stock line is a conflict.
func (s *CartService) BeginCheckout(ctx context.Context, userID string) (CheckoutResult, error) {
	view, err := s.GetCart(ctx, userID)
	if err != nil {
		return CheckoutResult{}, err
	}

	if view.IsEmpty {
		checkoutAttempts.WithLabelValues("empty").Inc()
		return CheckoutResult{}, apperrors.InvalidInput("cart is empty")
	}
	if !view.CanCheckout {
		checkoutAttempts.WithLabelValues("out_of_stock").Inc()
		return CheckoutResult{}, apperrors.Conflict("remove out-of-stock items before checking out")
	}

	checkoutAttempts.WithLabelValues("allowed").Inc()
	if err := s.events.PublishCheckoutStarted(ctx, view.Cart, view.Totals); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.checkout_started event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "checkout started",
		slog.String("user_id", userID),
		slog.String("total", view.Totals.Total.StringFixed(2)),
	)
	return CheckoutResult{Redirect: domain.RouteCheckout, View: view}, nil
}

// mutate loads the cart, applies fn and, when fn reports a change, saves
// with a version check and publishes cart.updated.
func (s *CartService) mutate(ctx context.Context, userID, op string, fn func(*domain.Cart) (bool, error)) (domain.CartView, error) {
	if userID == "" {
		return domain.CartView{}, apperrors.InvalidInput("user id is required")
	}

	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		cartOperations.WithLabelValues(op, resultError).Inc()
		return domain.CartView{}, err
	}

	expected := cart.Version
	changed, err := fn(cart)
	if err != nil {
		cartOperations.WithLabelValues(op, resultRejected).Inc()
		return domain.CartView{}, err
	}
	if !changed {
		cartOperations.WithLabelValues(op, resultNoop).Inc()
		return s.view(cart), nil
	}

	cart.Touch(s.now(), s.cfg.TTL)
	ok, err := s.repo.SaveIfVersion(ctx, cart, expected)
	if err != nil {
		cartOperations.WithLabelValues(op, resultError).Inc()
		return domain.CartView{}, fmt.Errorf("save cart: %w", err)
	}
	if !ok {
		cartOperations.WithLabelValues(op, resultConflict).Inc()
		return domain.CartView{}, apperrors.Conflict("cart was modified concurrently, please retry")
	}
	cartOperations.WithLabelValues(op, resultChanged).Inc()

	view := s.view(cart)
	if err := s.events.PublishCartUpdated(ctx, cart, view.Totals); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart updated",
		slog.String("user_id", userID),
		slog.String("operation", op),
		slog.Int("version", cart.Version),
		slog.Int("item_count", view.Totals.ItemCount),
	)
	return view, nil
}

// loadOrCreate returns the stored cart or persists a new one. A shopper's
// first cart is seeded with demo items when enabled.
func (s *CartService) loadOrCreate(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.Get(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	cart = domain.NewCart(s.newID(), userID, s.cfg.Currency, s.now(), s.cfg.TTL)
	if s.cfg.SeedDemo {
		s.catalog.SeedDemoCart(cart, s.newID)
	}

	ok, err := s.repo.SaveIfVersion(ctx, cart, 0)
	if err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	if !ok {
		// Another request created it first.
		cart, err = s.repo.Get(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("get cart: %w", err)
		}
		return cart, nil
	}

	s.logger.InfoContext(ctx, "cart created",
		slog.String("user_id", userID),
		slog.String("cart_id", cart.ID),
		slog.Int("seeded_items", len(cart.Items)+len(cart.Saved)),
	)
	return cart, nil
}

func (s *CartService) view(c *domain.Cart) domain.CartView {
	return domain.NewCartView(c, s.cfg.Pricing)
}
