package pricing

import (
	"github.com/arenashop/storefront/models"
	"github.com/shopspring/decimal"
)

// Line is one priced cart line.
type Line struct {
	Kind      models.ProductKind
	UnitPrice decimal.Decimal
	Quantity  int
}

func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ShippingRules decide the delivery fee of physical goods.
// A zero FreeThreshold disables free shipping.
type ShippingRules struct {
	Fee           decimal.Decimal
	FreeThreshold decimal.Decimal
}

type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// Subtotal sums the line totals.
func Subtotal(lines []Line) decimal.Decimal {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total())
	}
	return subtotal
}

// Quote prices an order. Digital-only orders ship for free.
func Quote(lines []Line, discount decimal.Decimal, rules ShippingRules) Totals {
	subtotal := Subtotal(lines)
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	needsShipping := false
	for _, l := range lines {
		if l.Kind == models.KindPhysical {
			needsShipping = true
			break
		}
	}

	shipping := decimal.Zero
	afterDiscount := subtotal.Sub(discount)
	if needsShipping {
		shipping = rules.Fee
		if rules.FreeThreshold.IsPositive() && afterDiscount.GreaterThanOrEqual(rules.FreeThreshold) {
			shipping = decimal.Zero
		}
	}

	return Totals{
		Subtotal: subtotal.Round(2),
		Discount: discount.Round(2),
		Shipping: shipping.Round(2),
		Total:    afterDiscount.Add(shipping).Round(2),
	}
}
