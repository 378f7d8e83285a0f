package orders

import "encoding/json"

// Kind of fiscal operation an order maps to.
type Kind string

const (
	KindSell   Kind = "SELL"
	KindReturn Kind = "RETURN"
)

type LineItem struct {
	SKU       string  `json:"sku,omitempty"`
	ProductID string  `json:"productId,omitempty"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  float64 `json:"quantity"`
}

type BuyerInfo struct {
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type Totals struct {
	Total float64 `json:"total"`
}

// Order is the immutable input of one fiscalization. The shape follows the
// storefront webhook body; number arrives as either a string or a number
// depending on the sender.
type Order struct {
	Number       json.Number `json:"number"`
	Totals       Totals      `json:"totals"`
	LineItems    []LineItem  `json:"lineItems"`
	BuyerInfo    BuyerInfo   `json:"buyerInfo"`
	Kind         Kind        `json:"kind,omitempty"`
	PaymentType  string      `json:"paymentType,omitempty"`
	PaymentLabel string      `json:"paymentLabel,omitempty"`
}

type orderEnvelope struct {
	Order Order `json:"order"`
}
