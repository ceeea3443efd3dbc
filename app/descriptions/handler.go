package descriptions

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/arenashop/storefront/app/render"
	"github.com/arenashop/storefront/describe"
	"github.com/arenashop/storefront/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Describer interface {
	Generate(ctx context.Context, in describe.Input, opts describe.Options) (*describe.Result, error)
}

type ProductProvider interface {
	GetByCode(ctx context.Context, code string) (*models.Product, error)
	UpdateDescription(ctx context.Context, code, lang, text string) error
}

type ProductRequest struct {
	Language string   `json:"language"`
	Tone     string   `json:"tone"`
	Keywords []string `json:"keywords"`
	Save     bool     `json:"save"`
}

type GenerateRequest struct {
	Name       string                 `json:"name"`
	NameAr     string                 `json:"name_ar"`
	Category   string                 `json:"category"`
	CategoryAr string                 `json:"category_ar"`
	Platform   string                 `json:"platform"`
	Kind       string                 `json:"kind"`
	Price      float64                `json:"price"`
	ImageURL   string                 `json:"image_url"`
	Attributes map[string]interface{} `json:"attributes"`
	Keywords   []string               `json:"keywords"`
	Language   string                 `json:"language"`
	Tone       string                 `json:"tone"`
}

type Response struct {
	*describe.Result
	Saved bool `json:"saved"`
}

type DescriptionHandler struct {
	generator Describer
	repo      ProductProvider
	currency  string
	log       *zap.Logger
}

func NewDescriptionHandler(g Describer, r ProductProvider, baseCurrency string, log *zap.Logger) *DescriptionHandler {
	return &DescriptionHandler{
		generator: g,
		repo:      r,
		currency:  baseCurrency,
		log:       log,
	}
}

// HandleProduct generates copy for a stored product and optionally saves it.
func (h *DescriptionHandler) HandleProduct(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	var req ProductRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	lang, err := describe.ParseLanguage(req.Language)
	if err != nil {
		render.Invalid(w, []string{"language must be ar or en"})
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

	in := describe.InputFromProduct(product, h.currency)
	in.Keywords = req.Keywords

	result, err := h.generator.Generate(r.Context(), in, describe.Options{Language: lang, Tone: req.Tone})
	if err != nil {
		h.writeGenerateError(w, err)
		return
	}

	resp := Response{Result: result}
	if req.Save {
		if err := h.repo.UpdateDescription(r.Context(), code, string(lang), result.Text); err != nil {
			h.log.Error("failed to save description", zap.String("product", code), zap.Error(err))
			render.Error(w, http.StatusInternalServerError, "Failed to save description")
			return
		}
		resp.Saved = true
	}
	render.JSON(w, http.StatusOK, resp)
}

// HandleGenerate produces copy for a product that is not stored yet.
func (h *DescriptionHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	var problems []string
	lang, err := describe.ParseLanguage(req.Language)
	if err != nil {
		problems = append(problems, "language must be ar or en")
	}
	if strings.TrimSpace(req.Name) == "" && strings.TrimSpace(req.NameAr) == "" {
		problems = append(problems, "name or name_ar is required")
	}
	if req.Kind != "" && !models.ProductKind(req.Kind).Valid() {
		problems = append(problems, "kind must be digital or physical")
	}
	if req.Price < 0 {
		problems = append(problems, "price cannot be negative")
	}
	if len(problems) > 0 {
		render.Invalid(w, problems)
		return
	}

	in := describe.Input{
		Name:       req.Name,
		NameAr:     req.NameAr,
		Category:   req.Category,
		CategoryAr: req.CategoryAr,
		Platform:   req.Platform,
		Kind:       req.Kind,
		Price:      decimal.NewFromFloat(req.Price),
		Currency:   h.currency,
		ImageURL:   strings.TrimSpace(req.ImageURL),
		Attributes: req.Attributes,
		Keywords:   req.Keywords,
	}

	result, err := h.generator.Generate(r.Context(), in, describe.Options{Language: lang, Tone: req.Tone})
	if err != nil {
		h.writeGenerateError(w, err)
		return
	}
	render.JSON(w, http.StatusOK, Response{Result: result})
}

func (h *DescriptionHandler) writeGenerateError(w http.ResponseWriter, err error) {
	if errors.Is(err, describe.ErrMissingName) {
		render.Invalid(w, []string{"name or name_ar is required"})
		return
	}
	h.log.Error("description generation failed", zap.Error(err))
	render.Error(w, http.StatusInternalServerError, "Failed to generate description")
}
