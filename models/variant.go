package models

import "github.com/shopspring/decimal"

// Variant is a purchasable option of a product, e.g. a gift card denomination.
// A zero price means the variant sells at the product's price.
type Variant struct {
	ID        uint            `gorm:"primaryKey"`
	ProductID uint            `gorm:"not null;index"`
	Name      string          `gorm:"not null"`
	SKU       string          `gorm:"uniqueIndex;not null"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
}

func (v *Variant) TableName() string {
	return "product_variants"
}

// PriceFor returns the variant price, inheriting from the product when unset.
func (v *Variant) PriceFor(p *Product) decimal.Decimal {
	if v.Price.IsZero() {
		return p.EffectivePrice()
	}
	return v.Price
}
