package models

import (
	"errors"
	"fmt"
)

var (
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrMessageNotFound  = errors.New("message not found")
	ErrDiscountNotFound = errors.New("discount code not found")

	// ErrDuplicateCode is returned when a unique code is already taken.
	ErrDuplicateCode = errors.New("code already exists")
	// ErrCategoryInUse is returned when deleting a category that still has products.
	ErrCategoryInUse = errors.New("category has products")
)

// TransitionError is returned when an order status change is not allowed.
type TransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}
