package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusDelivered, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an order in status s may move to next.
// Delivered and cancelled orders are final.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is a placed purchase. Prices are captured at purchase time so later
// catalog edits do not change what the customer paid.
type Order struct {
	ID              uint            `gorm:"primaryKey"`
	Reference       string          `gorm:"uniqueIndex;not null"`
	CustomerName    string          `gorm:"not null"`
	CustomerEmail   string          `gorm:"not null;index"`
	CustomerPhone   string          `gorm:"type:varchar(32)"`
	ShippingAddress string          `gorm:"type:text"`
	City            string          `gorm:"type:varchar(100)"`
	Country         string          `gorm:"type:varchar(2)"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DiscountCode    string          `gorm:"type:varchar(64)"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	ShippingFee     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Total           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Notes           string          `gorm:"type:text"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time       `gorm:"index"`
	UpdatedAt       time.Time
}

func (o *Order) TableName() string {
	return "orders"
}

// OrderItem is one line of an order.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey"`
	OrderID     uint            `gorm:"not null;index"`
	ProductID   uint            `gorm:"not null;index"`
	ProductCode string          `gorm:"not null"`
	ProductName string          `gorm:"not null"`
	VariantSKU  string          `gorm:"type:varchar(64)"`
	Kind        ProductKind     `gorm:"type:varchar(16);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity    int             `gorm:"not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

func (i *OrderItem) TableName() string {
	return "order_items"
}
