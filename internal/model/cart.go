package model

// CartItem is a client-supplied cart line. The client never sends a price;
// prices are always resolved server-side against the storefront catalog.
type CartItem struct {
	ID           string `json:"id"`
	ProductID    string `json:"productId"`
	VariantID    string `json:"variantId"`
	Title        string `json:"title"`
	VariantTitle string `json:"variantTitle,omitempty"`
	Quantity     int    `json:"quantity"`
	Image        string `json:"image,omitempty"`
}

// CustomerAddress is the optional shipping address block.
type CustomerAddress struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
}

// CustomerInfo identifies the payer. Only the email is mandatory.
type CustomerInfo struct {
	Email     string           `json:"email"`
	FirstName string           `json:"firstName,omitempty"`
	LastName  string           `json:"lastName,omitempty"`
	Phone     string           `json:"phone,omitempty"`
	Address   *CustomerAddress `json:"address,omitempty"`
}

// CheckoutRequest is the request payload for creating a payment preference.
type CheckoutRequest struct {
	Items        []CartItem   `json:"items"`
	Customer     CustomerInfo `json:"customer"`
	ShippingCost float64      `json:"shippingCost"`
}

// CheckoutResponse is returned to the client on successful preference creation.
type CheckoutResponse struct {
	PreferenceID     string `json:"preferenceId"`
	InitPoint        string `json:"initPoint"`
	SandboxInitPoint string `json:"sandboxInitPoint"`
}

// VariantPrice is the authoritative price record fetched from the storefront
// catalog at request time.
type VariantPrice struct {
	ID        string
	Title     string
	Price     float64
	Available bool
}
