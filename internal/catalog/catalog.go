package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/pagination"
)

// Config controls the simulated backend behaviour.
type Config struct {
	Latency         time.Duration
	SimulateFailure bool
}

// Catalog serves a fixed, read-only set of categories and products. Listing
// calls wait Latency before answering to mimic a remote backend.
type Catalog struct {
	cfg        Config
	logger     *slog.Logger
	categories []domain.Category
	products   []domain.Product
	byID       map[string]int
}

// New returns a catalog loaded with the built-in seed data.
func New(cfg Config, logger *slog.Logger) *Catalog {
	cats, prods := seedData()
	return NewWithData(cfg, logger, cats, prods)
}

// NewWithData returns a catalog over the given data. Category product counts
// are recomputed.
func NewWithData(cfg Config, logger *slog.Logger, categories []domain.Category, products []domain.Product) *Catalog {
	c := &Catalog{
		cfg:        cfg,
		logger:     logger,
		categories: make([]domain.Category, len(categories)),
		products:   make([]domain.Product, len(products)),
		byID:       make(map[string]int, len(products)),
	}
	copy(c.categories, categories)
	copy(c.products, products)

	counts := make(map[string]int)
	for i, p := range c.products {
		c.byID[p.ID] = i
		counts[p.CategoryID]++
	}
	for i := range c.categories {
		c.categories[i].ProductCount = counts[c.categories[i].ID]
	}
	return c
}

// Categories lists every category.
func (c *Catalog) Categories(ctx context.Context) ([]domain.Category, error) {
	if err := c.simulateBackend(ctx, "categories"); err != nil {
		return nil, err
	}

	out := make([]domain.Category, len(c.categories))
	copy(out, c.categories)
	return out, nil
}

// Products lists products, optionally restricted to the category with the
// given slug, one page at a time.
func (c *Catalog) Products(ctx context.Context, categorySlug string, p pagination.Params) (pagination.Result[domain.Product], error) {
	if err := c.simulateBackend(ctx, "products"); err != nil {
		return pagination.Result[domain.Product]{}, err
	}

	if categorySlug == "" {
		return pagination.Slice(c.products, p), nil
	}

	catID := ""
	for _, cat := range c.categories {
		if cat.Slug == categorySlug {
			catID = cat.ID
			break
		}
	}
	if catID == "" {
		return pagination.Result[domain.Product]{}, apperrors.NotFound("category", categorySlug)
	}

	filtered := make([]domain.Product, 0)
	for _, prod := range c.products {
		if prod.CategoryID == catID {
			filtered = append(filtered, prod)
		}
	}
	return pagination.Slice(filtered, p), nil
}

// Product looks up one product by id. Lookups are not delayed.
func (c *Catalog) Product(_ context.Context, id string) (domain.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, apperrors.NotFound("product", id)
	}
	return c.products[i], nil
}

func (c *Catalog) productByName(name string) (domain.Product, bool) {
	for _, p := range c.products {
		if p.Name == name {
			return p, true
		}
	}
	return domain.Product{}, false
}

// simulateBackend waits out the configured latency, then fails if failure
// simulation is on. A cancelled context ends the wait early.
func (c *Catalog) simulateBackend(ctx context.Context, what string) error {
	if c.cfg.Latency > 0 {
		timer := time.NewTimer(c.cfg.Latency)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	if c.cfg.SimulateFailure {
		c.logger.WarnContext(ctx, "simulated catalog failure", slog.String("resource", what))
		return apperrors.ServiceUnavailable("failed to load " + what)
	}
	return nil
}
