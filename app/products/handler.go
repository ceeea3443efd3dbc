package products

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/arenashop/storefront/app/render"
	"github.com/arenashop/storefront/models"
	"github.com/shopspring/decimal"
)

type ProductProvider interface {
	GetFilteredProducts(ctx context.Context, offset, limit int, filters models.ProductFilters) ([]models.Product, int64, error)
	GetByCode(ctx context.Context, code string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product, categoryCode string) error
	UpdateProduct(ctx context.Context, code string, update *models.Product, categoryCode string) (*models.Product, error)
	DeleteProduct(ctx context.Context, code string) error
}

type Variant struct {
	Name  string  `json:"name"`
	SKU   string  `json:"sku"`
	Price float64 `json:"price"`
}

// Product is the back-office view of a product, stock and inactive flags included.
type Product struct {
	Code          string                 `json:"code"`
	Name          string                 `json:"name"`
	NameAr        string                 `json:"name_ar"`
	Description   string                 `json:"description"`
	DescriptionAr string                 `json:"description_ar"`
	Price         float64                `json:"price"`
	SalePrice     float64                `json:"sale_price"`
	Stock         int                    `json:"stock"`
	Kind          string                 `json:"kind"`
	Platform      string                 `json:"platform"`
	ImageURL      string                 `json:"image_url"`
	Featured      bool                   `json:"featured"`
	Active        bool                   `json:"active"`
	Attributes    map[string]interface{} `json:"attributes"`
	Category      string                 `json:"category"`
	Variants      []Variant              `json:"variants"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

type ListResponse struct {
	Total    int       `json:"total"`
	Products []Product `json:"products"`
}

type ProductHandler struct {
	repo ProductProvider
}

func NewProductHandler(r ProductProvider) *ProductHandler {
	return &ProductHandler{repo: r}
}

func (h *ProductHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	offset, limit := render.Page(r)
	q := r.URL.Query()

	filters := models.ProductFilters{
		CategoryCode:    q.Get("category"),
		Platform:        q.Get("platform"),
		Kind:            models.ProductKind(strings.ToLower(q.Get("kind"))),
		Search:          strings.TrimSpace(q.Get("q")),
		IncludeInactive: q.Get("active") != "true",
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
		products[i] = toResponse(&res[i])
	}
	render.JSON(w, http.StatusOK, ListResponse{Total: int(total), Products: products})
}

func (h *ProductHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	product, err := h.repo.GetByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		writeRepoError(w, err, "Failed to retrieve product")
		return
	}
	render.JSON(w, http.StatusOK, toResponse(product))
}

func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := render.Decode(r, &input); err != nil {
		render.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	input.normalize()
	if problems := input.Validate(true); len(problems) > 0 {
		render.Invalid(w, problems)
		return
	}

	product := input.toModel()
	if err := h.repo.CreateProduct(r.Context(), product, input.Category); err != nil {
		writeRepoError(w, err, "Failed to create product")
		return
	}
	render.JSON(w, http.StatusCreated, toResponse(product))
}

func (h *ProductHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	var input Input
	if err := render.Decode(r, &input); err != nil {
		render.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	input.Code = code
	input.normalize()
	if problems := input.Validate(false); len(problems) > 0 {
		render.Invalid(w, problems)
		return
	}

	updated, err := h.repo.UpdateProduct(r.Context(), code, input.toModel(), input.Category)
	if err != nil {
		writeRepoError(w, err, "Failed to update product")
		return
	}
	render.JSON(w, http.StatusOK, toResponse(updated))
}

func (h *ProductHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteProduct(r.Context(), r.PathValue("code")); err != nil {
		writeRepoError(w, err, "Failed to delete product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeRepoError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrProductNotFound):
		render.Error(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, models.ErrCategoryNotFound):
		render.Invalid(w, []string{"category does not exist"})
	case errors.Is(err, models.ErrDuplicateCode):
		render.Error(w, http.StatusConflict, "Product code or variant SKU already exists")
	default:
		render.Error(w, http.StatusInternalServerError, fallback)
	}
}

func toResponse(p *models.Product) Product {
	variants := make([]Variant, len(p.Variants))
	for i := range p.Variants {
		v := &p.Variants[i]
		variants[i] = Variant{Name: v.Name, SKU: v.SKU, Price: v.Price.InexactFloat64()}
	}
	attrs := map[string]interface{}(p.Attributes)
	if attrs == nil {
		attrs = map[string]interface{}{}
	}
	return Product{
		Code:          p.Code,
		Name:          p.Name,
		NameAr:        p.NameAr,
		Description:   p.Description,
		DescriptionAr: p.DescriptionAr,
		Price:         p.Price.InexactFloat64(),
		SalePrice:     p.SalePrice.InexactFloat64(),
		Stock:         p.Stock,
		Kind:          string(p.Kind),
		Platform:      p.Platform,
		ImageURL:      p.ImageURL,
		Featured:      p.Featured,
		Active:        p.Active,
		Attributes:    attrs,
		Category:      p.Category.Code,
		Variants:      variants,
		UpdatedAt:     p.UpdatedAt,
	}
}

// Input is the body accepted by create and update.
type Input struct {
	Code          string                 `json:"code"`
	Name          string                 `json:"name"`
	NameAr        string                 `json:"name_ar"`
	Description   string                 `json:"description"`
	DescriptionAr string                 `json:"description_ar"`
	Price         float64                `json:"price"`
	SalePrice     float64                `json:"sale_price"`
	Stock         int                    `json:"stock"`
	Kind          string                 `json:"kind"`
	Platform      string                 `json:"platform"`
	ImageURL      string                 `json:"image_url"`
	Featured      bool                   `json:"featured"`
	Active        *bool                  `json:"active"`
	Attributes    map[string]interface{} `json:"attributes"`
	Category      string                 `json:"category"`
	Variants      []Variant              `json:"variants"`
}

func (in *Input) normalize() {
	in.Code = strings.ToLower(strings.TrimSpace(in.Code))
	in.Name = strings.TrimSpace(in.Name)
	in.NameAr = strings.TrimSpace(in.NameAr)
	in.Kind = strings.ToLower(strings.TrimSpace(in.Kind))
	in.Platform = strings.ToLower(strings.TrimSpace(in.Platform))
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	for i := range in.Variants {
		in.Variants[i].Name = strings.TrimSpace(in.Variants[i].Name)
		in.Variants[i].SKU = strings.ToUpper(strings.TrimSpace(in.Variants[i].SKU))
	}
}

// Validate lists every problem with the input. Category is required on create only.
func (in *Input) Validate(create bool) []string {
	var problems []string
	if in.Code == "" {
		problems = append(problems, "code is required")
	}
	if in.Name == "" {
		problems = append(problems, "name is required")
	}
	if create && in.Category == "" {
		problems = append(problems, "category is required")
	}
	if in.Price < 0 {
		problems = append(problems, "price cannot be negative")
	}
	if in.SalePrice < 0 {
		problems = append(problems, "sale_price cannot be negative")
	} else if in.SalePrice > 0 && in.SalePrice >= in.Price {
		problems = append(problems, "sale_price must be lower than price")
	}
	if in.Stock < 0 {
		problems = append(problems, "stock cannot be negative")
	}
	if !models.ProductKind(in.Kind).Valid() {
		problems = append(problems, "kind must be digital or physical")
	}

	seen := make(map[string]bool, len(in.Variants))
	for i, v := range in.Variants {
		if v.Name == "" || v.SKU == "" {
			problems = append(problems, fmt.Sprintf("variant %d needs a name and a sku", i+1))
		}
		if v.Price < 0 {
			problems = append(problems, fmt.Sprintf("variant %d price cannot be negative", i+1))
		}
		if v.SKU != "" && seen[v.SKU] {
			problems = append(problems, fmt.Sprintf("variant sku %s is repeated", v.SKU))
		}
		seen[v.SKU] = true
	}
	return problems
}

func (in *Input) toModel() *models.Product {
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	// nil keeps the stored variants on update
	var variants []models.Variant
	if in.Variants != nil {
		variants = make([]models.Variant, len(in.Variants))
	}
	for i, v := range in.Variants {
		variants[i] = models.Variant{
			Name:  v.Name,
			SKU:   v.SKU,
			Price: decimal.NewFromFloat(v.Price),
		}
	}
	return &models.Product{
		Code:          in.Code,
		Name:          in.Name,
		NameAr:        in.NameAr,
		Description:   in.Description,
		DescriptionAr: in.DescriptionAr,
		Price:         decimal.NewFromFloat(in.Price),
		SalePrice:     decimal.NewFromFloat(in.SalePrice),
		Stock:         in.Stock,
		Kind:          models.ProductKind(in.Kind),
		Platform:      in.Platform,
		ImageURL:      in.ImageURL,
		Featured:      in.Featured,
		Active:        active,
		Attributes:    in.Attributes,
		Variants:      variants,
	}
}
