package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/slug"
)

var idNamespace = uuid.MustParse("6f1f4a8e-2f0b-4c55-9a8e-3c1d7b2a9e10")

// stableID derives a deterministic id so seeded data is addressable across
// restarts.
func stableID(kind, name string) string {
	return uuid.NewSHA1(idNamespace, []byte(kind+":"+name)).String()
}

type seedProduct struct {
	name     string
	category string
	price    string
	stock    domain.StockStatus
}

var seedCategories = []struct {
	name        string
	description string
}{
	{"Audio", "Headphones, speakers and earbuds"},
	{"Wearables", "Smart watches and fitness trackers"},
	{"Accessories", "Cases, cables and chargers"},
	{"Home Office", "Stands, hubs and desk gear"},
}

var seedProducts = []seedProduct{
	{"Wireless Headphones", "Audio", "99.99", domain.InStock},
	{"Bluetooth Speaker", "Audio", "59.99", domain.InStock},
	{"Noise Cancelling Earbuds", "Audio", "149.99", domain.OutOfStock},
	{"Smart Watch", "Wearables", "249.99", domain.InStock},
	{"Fitness Tracker", "Wearables", "79.99", domain.InStock},
	{"Phone Case", "Accessories", "49.99", domain.OutOfStock},
	{"Fast Charger", "Accessories", "29.99", domain.InStock},
	{"Braided USB-C Cable", "Accessories", "14.99", domain.InStock},
	{"Laptop Stand", "Home Office", "39.99", domain.InStock},
	{"USB-C Hub", "Home Office", "59.99", domain.OutOfStock},
	{"Mechanical Keyboard", "Home Office", "129.99", domain.InStock},
}

func seedData() ([]domain.Category, []domain.Product) {
	catIDs := make(map[string]string, len(seedCategories))
	categories := make([]domain.Category, 0, len(seedCategories))
	for _, c := range seedCategories {
		id := stableID("category", c.name)
		catIDs[c.name] = id
		categories = append(categories, domain.Category{
			ID:          id,
			Name:        c.name,
			Slug:        slug.Generate(c.name),
			Description: c.description,
		})
	}

	products := make([]domain.Product, 0, len(seedProducts))
	for _, p := range seedProducts {
		s := slug.Generate(p.name)
		products = append(products, domain.Product{
			ID:         stableID("product", p.name),
			Name:       p.name,
			Slug:       s,
			CategoryID: catIDs[p.category],
			Price:      decimal.RequireFromString(p.price),
			Stock:      p.stock,
			ImageURL:   "/images/products/" + s + ".jpg",
		})
	}
	return categories, products
}

type demoLine struct {
	product  string
	quantity int
}

var (
	demoCartLines  = []demoLine{{"Wireless Headphones", 1}, {"Smart Watch", 2}, {"Phone Case", 1}}
	demoSavedLines = []demoLine{{"Laptop Stand", 1}, {"USB-C Hub", 1}}
)

// SeedDemoCart fills an empty cart with the demo lines and saved items.
// Lines whose product is missing from the catalog are skipped.
func (c *Catalog) SeedDemoCart(cart *domain.Cart, newID func() string) {
	for _, l := range demoCartLines {
		if p, ok := c.productByName(l.product); ok {
			cart.Items = append(cart.Items, p.ToLineItem(newID(), l.quantity))
		}
	}
	for _, l := range demoSavedLines {
		if p, ok := c.productByName(l.product); ok {
			cart.Saved = append(cart.Saved, domain.SavedItem(p.ToLineItem(newID(), l.quantity)))
		}
	}
}
