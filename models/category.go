package models

import "time"

// Category groups products on the storefront (consoles, gift cards, accessories...).
// It includes a unique code and a name in English and Arabic.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Code      string `gorm:"uniqueIndex;not null"`
	Name      string `gorm:"not null"`
	NameAr    string
	SortOrder int  `gorm:"not null;default:0"`
	Active    bool `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Category) TableName() string {
	return "categories"
}
