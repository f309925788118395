package domain

// CartView is the cart together with everything derived from it. Every cart
// endpoint returns one.
type CartView struct {
	Cart        *Cart       `json:"cart"`
	Totals      OrderTotals `json:"totals"`
	IsEmpty     bool        `json:"is_empty"`
	CanCheckout bool        `json:"can_checkout"`
	PromoLocked bool        `json:"promo_locked"`
	Links       []Link      `json:"links"`
}

// NewCartView derives the view. Checkout is offered only for a non-empty cart
// whose lines are all in stock; the cart and continue-shopping links always are.
func NewCartView(c *Cart, p Pricing) CartView {
	v := CartView{
		Cart:        c,
		Totals:      c.Totals(p),
		IsEmpty:     c.IsEmpty(),
		PromoLocked: c.PromoLocked(),
	}
	v.CanCheckout = !v.IsEmpty && c.CanCheckout()

	v.Links = append(v.Links, Link{Rel: "self", Href: RouteCart})
	if v.CanCheckout {
		v.Links = append(v.Links, Link{Rel: "checkout", Href: RouteCheckout})
	}
	v.Links = append(v.Links, Link{Rel: "continue_shopping", Href: RouteProducts})
	return v
}
