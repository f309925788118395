package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for cart operations.
const (
	resultChanged  = "changed"
	resultNoop     = "noop"
	resultRejected = "rejected"
	resultConflict = "conflict"
	resultError    = "error"
)

var (
	cartOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "cart",
			Name:      "operations_total",
			Help:      "Cart mutations by operation and outcome",
		},
		[]string{"operation", "result"},
	)

	promoApplications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "cart",
			Name:      "promo_applications_total",
			Help:      "Promo code attempts by outcome",
		},
		[]string{"result"},
	)

	checkoutAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "cart",
			Name:      "checkout_attempts_total",
			Help:      "Checkout attempts by outcome",
		},
		[]string{"result"},
	)

	wishlistOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "wishlist",
			Name:      "operations_total",
			Help:      "Wishlist mutations by operation and outcome",
		},
		[]string{"operation", "result"},
	)
)
