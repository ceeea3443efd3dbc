package catalog

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/arenashop/storefront/app/render"
	"github.com/arenashop/storefront/models"
	"github.com/arenashop/storefront/pricing"
	"github.com/shopspring/decimal"
)

type Response struct {
	Total    int       `json:"total"`
	Currency string    `json:"currency"`
	Products []Product `json:"products"`
}

type Category struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	NameAr string `json:"name_ar"`
}

type Product struct {
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	NameAr    string   `json:"name_ar"`
	Price     float64  `json:"price"`
	SalePrice *float64 `json:"sale_price,omitempty"`
	Kind      string   `json:"kind"`
	Platform  string   `json:"platform"`
	ImageURL  string   `json:"image_url"`
	Featured  bool     `json:"featured"`
	InStock   bool     `json:"in_stock"`
	Category  Category `json:"category"`
}

type Variant struct {
	Name  string  `json:"name"`
	SKU   string  `json:"sku"`
	Price float64 `json:"price"`
}

type ProductDetail struct {
	Product
	Currency      string                 `json:"currency"`
	Description   string                 `json:"description"`
	DescriptionAr string                 `json:"description_ar"`
	Attributes    map[string]interface{} `json:"attributes,omitempty"`
	Variants      []Variant              `json:"variants"`
}

type ProductProvider interface {
	GetFilteredProducts(ctx context.Context, offset, limit int, filters models.ProductFilters) ([]models.Product, int64, error)
	GetByCode(ctx context.Context, code string) (*models.Product, error)
}

type CatalogHandler struct {
	repo      ProductProvider
	converter *pricing.Converter
}

func NewCatalogHandler(r ProductProvider, converter *pricing.Converter) *CatalogHandler {
	return &CatalogHandler{
		repo:      r,
		converter: converter,
	}
}

func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	offset, limit := render.Page(r)

	currency, err := h.converter.Resolve(r.URL.Query().Get("currency"))
	if err != nil {
		render.Error(w, http.StatusBadRequest, "Unsupported currency")
		return
	}

	// Parse filters
	q := r.URL.Query()
	filters := models.ProductFilters{
		CategoryCode: q.Get("category"),
		Platform:     q.Get("platform"),
		Kind:         models.ProductKind(strings.ToLower(q.Get("kind"))),
		Search:       strings.TrimSpace(q.Get("q")),
		FeaturedOnly: q.Get("featured") == "true",
	}

	if priceStr := q.Get("price_lt"); priceStr != "" {
		if val, err := strconv.ParseFloat(priceStr, 64); err == nil {
			filters.PriceLessThan = &val
		}
	}

	res, total, err := h.repo.GetFilteredProducts(r.Context(), offset, limit, filters)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	products := make([]Product, len(res))
	for i := range res {
		products[i] = h.mapProduct(&res[i], currency)
	}

	render.JSON(w, http.StatusOK, Response{
		Total:    int(total),
		Currency: currency,
		Products: products,
	})
}

func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	currency, err := h.converter.Resolve(r.URL.Query().Get("currency"))
	if err != nil {
		render.Error(w, http.StatusBadRequest, "Unsupported currency")
		return
	}

	product, err := h.repo.GetByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			render.Error(w, http.StatusNotFound, "Product not found")
			return
		}
		render.Error(w, http.StatusInternalServerError, "Failed to retrieve product")
		return
	}
	if !product.Active {
		render.Error(w, http.StatusNotFound, "Product not found")
		return
	}

	// Map response
	variants := make([]Variant, len(product.Variants))
	for i := range product.Variants {
		v := &product.Variants[i]
		variants[i] = Variant{
			Name:  v.Name,
			SKU:   v.SKU,
			Price: h.convert(v.PriceFor(product), currency),
		}
	}

	render.JSON(w, http.StatusOK, ProductDetail{
		Product:       h.mapProduct(product, currency),
		Currency:      currency,
		Description:   product.Description,
		DescriptionAr: product.DescriptionAr,
		Attributes:    product.Attributes,
		Variants:      variants,
	})
}

func (h *CatalogHandler) mapProduct(p *models.Product, currency string) Product {
	out := Product{
		Code:     p.Code,
		Name:     p.Name,
		NameAr:   p.NameAr,
		Price:    h.convert(p.Price, currency),
		Kind:     string(p.Kind),
		Platform: p.Platform,
		ImageURL: p.ImageURL,
		Featured: p.Featured,
		InStock:  p.Kind == models.KindDigital || p.Stock > 0,
		Category: Category{
			Code:   p.Category.Code,
			Name:   p.Category.Name,
			NameAr: p.Category.NameAr,
		},
	}
	if p.OnSale() {
		sale := h.convert(p.SalePrice, currency)
		out.SalePrice = &sale
	}
	return out
}

// convert never fails here: currency was resolved before.
func (h *CatalogHandler) convert(amount decimal.Decimal, currency string) float64 {
	converted, err := h.converter.Convert(amount, currency)
	if err != nil {
		return amount.InexactFloat64()
	}
	return converted.InexactFloat64()
}

type CurrencyRate struct {
	Code string  `json:"code"`
	Rate float64 `json:"rate"`
}

type CurrenciesResponse struct {
	Base       string         `json:"base"`
	Currencies []CurrencyRate `json:"currencies"`
}

// HandleCurrencies lists the display currencies and their rates against the base currency.
func (h *CatalogHandler) HandleCurrencies(w http.ResponseWriter, r *http.Request) {
	codes := h.converter.Currencies()
	rates := make([]CurrencyRate, 0, len(codes))
	for _, code := range codes {
		rate, _ := h.converter.Rate(code)
		rates = append(rates, CurrencyRate{Code: code, Rate: rate.InexactFloat64()})
	}
	render.JSON(w, http.StatusOK, CurrenciesResponse{
		Base:       h.converter.Base(),
		Currencies: rates,
	})
}
