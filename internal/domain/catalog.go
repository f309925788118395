package domain

import "github.com/shopspring/decimal"

// Category groups products on the storefront.
type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description,omitempty"`
	ProductCount int    `json:"product_count"`
}

// Product is a catalog entry that can be added to a cart.
type Product struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Slug       string          `json:"slug"`
	CategoryID string          `json:"category_id"`
	Price      decimal.Decimal `json:"price"`
	Stock      StockStatus     `json:"stock_status"`
	ImageURL   string          `json:"image_url,omitempty"`
}

// ToLineItem builds a cart line for quantity units of the product.
func (p Product) ToLineItem(id string, quantity int) LineItem {
	return LineItem{
		ID:        id,
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  quantity,
		Stock:     p.Stock,
		ImageURL:  p.ImageURL,
	}
}
