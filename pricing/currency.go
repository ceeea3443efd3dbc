package pricing

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrUnknownCurrency = errors.New("unknown currency")

// Converter turns base-currency amounts into display currencies.
// Rates are units of the target currency per one unit of the base currency.
type Converter struct {
	base  string
	rates map[string]decimal.Decimal
}

func NewConverter(base string, rates map[string]float64) (*Converter, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	if base == "" {
		return nil, errors.New("base currency is required")
	}

	c := &Converter{
		base:  base,
		rates: map[string]decimal.Decimal{base: decimal.NewFromInt(1)},
	}
	for code, rate := range rates {
		code = strings.ToUpper(strings.TrimSpace(code))
		if rate <= 0 {
			return nil, fmt.Errorf("rate for %s must be positive", code)
		}
		if code == base && rate != 1 {
			return nil, fmt.Errorf("base currency %s must have rate 1", base)
		}
		c.rates[code] = decimal.NewFromFloat(rate)
	}
	return c, nil
}

func (c *Converter) Base() string {
	return c.base
}

// Resolve normalizes a requested currency, defaulting to the base currency.
func (c *Converter) Resolve(currency string) (string, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return c.base, nil
	}
	if _, ok := c.rates[currency]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCurrency, currency)
	}
	return currency, nil
}

// Convert converts amount from the base currency, rounded to two decimals.
func (c *Converter) Convert(amount decimal.Decimal, currency string) (decimal.Decimal, error) {
	code, err := c.Resolve(currency)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(c.rates[code]).Round(2), nil
}

// Currencies lists supported codes, base first and the rest sorted.
func (c *Converter) Currencies() []string {
	codes := make([]string, 0, len(c.rates))
	for code := range c.rates {
		if code != c.base {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return append([]string{c.base}, codes...)
}

func (c *Converter) Rate(currency string) (decimal.Decimal, bool) {
	rate, ok := c.rates[strings.ToUpper(currency)]
	return rate, ok
}
