package describe

import "github.com/arenashop/storefront/models"

// InputFromProduct builds generator input from a stored product. Prices are in
// the store's base currency.
func InputFromProduct(p *models.Product, currency string) Input {
	return Input{
		Code:       p.Code,
		Name:       p.Name,
		NameAr:     p.NameAr,
		Category:   p.Category.Name,
		CategoryAr: p.Category.NameAr,
		Platform:   p.Platform,
		Kind:       string(p.Kind),
		Price:      p.EffectivePrice(),
		Currency:   currency,
		ImageURL:   p.ImageURL,
		Attributes: p.Attributes,
	}
}
