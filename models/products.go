package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProductKind tells whether a product is delivered as a code or shipped.
type ProductKind string

const (
	KindDigital  ProductKind = "digital"
	KindPhysical ProductKind = "physical"
)

func (k ProductKind) Valid() bool {
	return k == KindDigital || k == KindPhysical
}

// Product represents a product in the catalog.
// It includes a unique code, bilingual copy, price, stock, category, and a list of variants.
type Product struct {
	ID            uint              `gorm:"primaryKey"`
	Code          string            `gorm:"uniqueIndex;not null"`
	Name          string            `gorm:"not null"`
	NameAr        string            `gorm:"not null;default:''"`
	Description   string            `gorm:"type:text"`
	DescriptionAr string            `gorm:"type:text"`
	Price         decimal.Decimal   `gorm:"type:decimal(10,2);not null"`
	SalePrice     decimal.Decimal   `gorm:"type:decimal(10,2);not null;default:0"`
	Stock         int               `gorm:"not null;default:0"`
	Kind          ProductKind       `gorm:"type:varchar(16);not null;default:'physical'"`
	Platform      string            `gorm:"type:varchar(32);index"`
	ImageURL      string            `gorm:"type:text"`
	Featured      bool              `gorm:"not null;default:false"`
	Active        bool              `gorm:"not null"`
	Attributes    datatypes.JSONMap `gorm:"type:jsonb"`
	CategoryID    uint              `gorm:"not null"`
	Category      Category          `gorm:"foreignKey:CategoryID"`
	Variants      []Variant         `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (p *Product) TableName() string {
	return "products"
}

// EffectivePrice is the sale price when one is set, otherwise the list price.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice.IsPositive() && p.SalePrice.LessThan(p.Price) {
		return p.SalePrice
	}
	return p.Price
}

// OnSale reports whether a sale price below the list price applies.
func (p *Product) OnSale() bool {
	return p.SalePrice.IsPositive() && p.SalePrice.LessThan(p.Price)
}
