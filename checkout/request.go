package checkout

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/arenashop/storefront/models"
	"github.com/arenashop/storefront/pricing"
	"github.com/shopspring/decimal"
)

const maxQuantity = 99

type ItemRequest struct {
	ProductCode string
	VariantSKU  string
	Quantity    int
}

type Customer struct {
	Name    string
	Email   string
	Phone   string
	Address string
	City    string
	Country string
}

// Request is a checkout submitted by the storefront.
type Request struct {
	Customer     Customer
	Items        []ItemRequest
	DiscountCode string
	Notes        string
}

func (r *Request) validate() []string {
	var problems []string
	if strings.TrimSpace(r.Customer.Name) == "" {
		problems = append(problems, "customer name is required")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(r.Customer.Email)); err != nil {
		problems = append(problems, "a valid customer email is required")
	}
	return append(problems, r.validateItems()...)
}

func (r *Request) validateItems() []string {
	var problems []string
	if len(r.Items) == 0 {
		problems = append(problems, "at least one item is required")
	}
	for i, item := range r.Items {
		if strings.TrimSpace(item.ProductCode) == "" {
			problems = append(problems, fmt.Sprintf("item %d: product_code is required", i+1))
		}
		if item.Quantity < 1 || item.Quantity > maxQuantity {
			problems = append(problems, fmt.Sprintf("item %d: quantity must be between 1 and %d", i+1, maxQuantity))
		}
	}
	return problems
}

func (r *Request) productCodes() []string {
	seen := make(map[string]bool, len(r.Items))
	codes := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		if !seen[item.ProductCode] {
			seen[item.ProductCode] = true
			codes = append(codes, item.ProductCode)
		}
	}
	return codes
}

// pricedLine is an order line with the product it resolved to.
type pricedLine struct {
	product *models.Product
	variant *models.Variant
	line    pricing.Line
}

func (l pricedLine) item() models.OrderItem {
	item := models.OrderItem{
		ProductID:   l.product.ID,
		ProductCode: l.product.Code,
		ProductName: l.product.Name,
		Kind:        l.product.Kind,
		UnitPrice:   l.line.UnitPrice,
		Quantity:    l.line.Quantity,
		LineTotal:   l.line.Total(),
	}
	if l.variant != nil {
		item.VariantSKU = l.variant.SKU
		item.ProductName = l.product.Name + " - " + l.variant.Name
	}
	return item
}

// priceLines resolves every requested item against the loaded products.
// Prices always come from the catalog, never from the client.
func priceLines(products []models.Product, items []ItemRequest) ([]pricedLine, error) {
	byCode := make(map[string]*models.Product, len(products))
	for i := range products {
		byCode[products[i].Code] = &products[i]
	}

	lines := make([]pricedLine, 0, len(items))
	for _, item := range items {
		product, ok := byCode[item.ProductCode]
		if !ok || !product.Active {
			return nil, &UnavailableError{ProductCode: item.ProductCode}
		}

		pl := pricedLine{product: product}
		unit := product.EffectivePrice()
		if item.VariantSKU != "" {
			for i := range product.Variants {
				if product.Variants[i].SKU == item.VariantSKU {
					pl.variant = &product.Variants[i]
					break
				}
			}
			if pl.variant == nil {
				return nil, &ValidationError{Problems: []string{
					fmt.Sprintf("variant %s does not belong to %s", item.VariantSKU, product.Code),
				}}
			}
			unit = pl.variant.PriceFor(product)
		}

		pl.line = pricing.Line{Kind: product.Kind, UnitPrice: unit, Quantity: item.Quantity}
		lines = append(lines, pl)
	}
	return lines, nil
}

// checkStock verifies physical quantities against the loaded stock levels,
// summing lines that refer to the same product.
func checkStock(lines []pricedLine) error {
	wanted := make(map[*models.Product]int)
	for _, l := range lines {
		if l.product.Kind == models.KindPhysical {
			wanted[l.product] += l.line.Quantity
		}
	}
	for _, l := range lines {
		p := l.product
		if n, ok := wanted[p]; ok && n > p.Stock {
			return &StockError{ProductCode: p.Code, Requested: n, Available: p.Stock}
		}
	}
	return nil
}

func needsShipping(lines []pricedLine) bool {
	for _, l := range lines {
		if l.product.Kind == models.KindPhysical {
			return true
		}
	}
	return false
}

func toPricingLines(lines []pricedLine) []pricing.Line {
	out := make([]pricing.Line, len(lines))
	for i, l := range lines {
		out[i] = l.line
	}
	return out
}

func subtotalOf(lines []pricedLine) decimal.Decimal {
	return pricing.Subtotal(toPricingLines(lines))
}
