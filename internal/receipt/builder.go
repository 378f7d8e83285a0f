// Package receipt maps storefront orders into the Checkbox receipt schema.
// Build is pure: identical orders yield identical payloads.
package receipt

import (
	"math"

	"checkbox-fiscalizer/internal/checkbox"
	"checkbox-fiscalizer/internal/orders"
)

const (
	defaultPaymentType  = "CASHLESS"
	defaultPaymentLabel = "Оплата на сайті"

	// fallbackGoodCode stands in when an item carries neither SKU nor
	// product id; the fiscal API requires a non-empty code per good.
	fallbackGoodCode = "ITEM"
	goodCodeMaxLen   = 10
)

func Build(order orders.Order) checkbox.ReceiptPayload {
	goods := make([]checkbox.ReceiptGood, 0, len(order.LineItems))
	var total float64

	for _, item := range order.LineItems {
		goods = append(goods, checkbox.ReceiptGood{
			Good: checkbox.Good{
				Code:  goodCode(item),
				Name:  item.Name,
				Price: toMinorUnits(item.Price),
			},
			Quantity: toThousandths(item.Quantity),
		})
		// Summed from line items rather than taken from order totals:
		// the storefront rounds its total differently.
		total += item.Price * item.Quantity
	}

	return checkbox.ReceiptPayload{
		Goods: goods,
		Payments: []checkbox.Payment{
			{
				Type:  paymentType(order),
				Value: toMinorUnits(total),
				Label: paymentLabel(order),
			},
		},
		Delivery: delivery(order),
	}
}

// Kind maps the order operation onto the submission endpoint.
func Kind(order orders.Order) checkbox.ReceiptKind {
	if order.Kind == orders.KindReturn {
		return checkbox.ReceiptKindReturn
	}
	return checkbox.ReceiptKindSell
}

// toMinorUnits converts a currency amount to kopecks.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// toThousandths converts a quantity to fixed-point with three decimals,
// so weight-based goods keep fractional quantities.
func toThousandths(quantity float64) int64 {
	return int64(math.Round(quantity * 1000))
}

func goodCode(item orders.LineItem) string {
	if item.SKU != "" {
		return item.SKU
	}
	if item.ProductID != "" {
		if len(item.ProductID) > goodCodeMaxLen {
			return item.ProductID[:goodCodeMaxLen]
		}
		return item.ProductID
	}
	return fallbackGoodCode
}

func paymentType(order orders.Order) string {
	if order.PaymentType != "" {
		return order.PaymentType
	}
	return defaultPaymentType
}

func paymentLabel(order orders.Order) string {
	if order.PaymentLabel != "" {
		return order.PaymentLabel
	}
	return defaultPaymentLabel
}

func delivery(order orders.Order) *checkbox.Delivery {
	if order.BuyerInfo.Email == "" && order.BuyerInfo.Phone == "" {
		return nil
	}
	return &checkbox.Delivery{
		Email: order.BuyerInfo.Email,
		Phone: order.BuyerInfo.Phone,
	}
}
