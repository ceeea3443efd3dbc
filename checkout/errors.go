package checkout

import (
	"fmt"
	"strings"
)

// ValidationError lists what is wrong with an order request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid order: " + strings.Join(e.Problems, "; ")
}

// UnavailableError is returned for products that do not exist or are not for sale.
type UnavailableError struct {
	ProductCode string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("product %s is not available", e.ProductCode)
}

// StockError is returned when a physical product cannot cover the requested quantity.
type StockError struct {
	ProductCode string
	Requested   int
	Available   int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("only %d of %s left, %d requested", e.Available, e.ProductCode, e.Requested)
}
