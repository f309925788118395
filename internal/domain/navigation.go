package domain

// Routes the storefront front end navigates between.
const (
	RouteCheckout = "/checkout"
	RouteProducts = "/products"
	RouteCart     = "/cart"
)

// Link is a navigation target offered to the client.
type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}
