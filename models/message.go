package models

import (
	"time"

	"gorm.io/gorm"
)

// MessageStatus tracks how far an admin got with a contact message.
type MessageStatus string

const (
	MessageNew      MessageStatus = "new"
	MessageRead     MessageStatus = "read"
	MessageArchived MessageStatus = "archived"
)

func (s MessageStatus) Valid() bool {
	return s == MessageNew || s == MessageRead || s == MessageArchived
}

// Message is a contact-form submission.
type Message struct {
	ID        uint          `gorm:"primaryKey"`
	Name      string        `gorm:"not null"`
	Email     string        `gorm:"not null"`
	Phone     string        `gorm:"type:varchar(32)"`
	Subject   string        `gorm:"not null"`
	Body      string        `gorm:"type:text;not null"`
	Status    MessageStatus `gorm:"type:varchar(16);not null;default:'new';index"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (m *Message) TableName() string {
	return "messages"
}
