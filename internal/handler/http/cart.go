package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/middleware"
	"github.com/utafrali/storefront/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{service: svc, logger: logger}
}

// itemAction is the shape shared by every per-item cart operation.
type itemAction func(h *CartHandler, r *http.Request, userID, itemID string) (domain.CartView, error)

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetCart(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, view)
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.ClearCart(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, view)
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req service.AddItemInput
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	view, err := h.service.AddItem(r.Context(), middleware.UserIDFromContext(r.Context()), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, view)
}

// ApplyPromo handles POST /api/v1/cart/promo
func (h *CartHandler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	var req service.ApplyPromoInput
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	view, err := h.service.ApplyPromo(r.Context(), middleware.UserIDFromContext(r.Context()), req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, view)
}

// Checkout handles POST /api/v1/cart/checkout
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.BeginCheckout(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, res)
}

// Item wraps a per-item operation keyed by the {itemId} path parameter.
func (h *CartHandler) Item(action itemAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, ok := httputil.ParseUUID(w, chi.URLParam(r, "itemId"))
		if !ok {
			return
		}

		view, err := action(h, r, middleware.UserIDFromContext(r.Context()), itemID.String())
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		httputil.WriteData(w, http.StatusOK, view)
	}
}

func increase(h *CartHandler, r *http.Request, userID, itemID string) (domain.CartView, error) {
	return h.service.IncreaseQuantity(r.Context(), userID, itemID)
}

func decrease(h *CartHandler, r *http.Request, userID, itemID string) (domain.CartView, error) {
	return h.service.DecreaseQuantity(r.Context(), userID, itemID)
}

func removeItem(h *CartHandler, r *http.Request, userID, itemID string) (domain.CartView, error) {
	return h.service.RemoveItem(r.Context(), userID, itemID)
}

func saveForLater(h *CartHandler, r *http.Request, userID, itemID string) (domain.CartView, error) {
	return h.service.SaveForLater(r.Context(), userID, itemID)
}

func moveToCart(h *CartHandler, r *http.Request, userID, itemID string) (domain.CartView, error) {
	return h.service.MoveToCart(r.Context(), userID, itemID)
}

func removeSaved(h *CartHandler, r *http.Request, userID, itemID string) (domain.CartView, error) {
	return h.service.RemoveSavedItem(r.Context(), userID, itemID)
}
