package discounts

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/arenashop/storefront/app/render"
	"github.com/arenashop/storefront/models"
	"github.com/arenashop/storefront/pricing"
	"github.com/shopspring/decimal"
)

type DiscountProvider interface {
	ListDiscountCodes(ctx context.Context) ([]models.DiscountCode, error)
	GetDiscountCode(ctx context.Context, code string) (*models.DiscountCode, error)
	CreateDiscountCode(ctx context.Context, dc *models.DiscountCode) error
	UpdateDiscountCode(ctx context.Context, code string, update *models.DiscountCode) (*models.DiscountCode, error)
	DeleteDiscountCode(ctx context.Context, code string) error
}

type DiscountInput struct {
	Code        string     `json:"code"`
	Description string     `json:"description"`
	Kind        string     `json:"kind"`
	Value       float64    `json:"value"`
	MinSubtotal float64    `json:"min_subtotal"`
	MaxUses     *int       `json:"max_uses"`
	Active      *bool      `json:"active"`
	StartsAt    *time.Time `json:"starts_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

type Discount struct {
	Code          string     `json:"code"`
	Description   string     `json:"description"`
	Kind          string     `json:"kind"`
	Value         float64    `json:"value"`
	MinSubtotal   float64    `json:"min_subtotal"`
	MaxUses       *int       `json:"max_uses"`
	UsedCount     int        `json:"used_count"`
	RemainingUses int        `json:"remaining_uses"`
	Active        bool       `json:"active"`
	StartsAt      *time.Time `json:"starts_at"`
	ExpiresAt     *time.Time `json:"expires_at"`
}

type ValidateRequest struct {
	Code     string  `json:"code"`
	Subtotal float64 `json:"subtotal"`
}

type ValidateResponse struct {
	Code     string  `json:"code"`
	Valid    bool    `json:"valid"`
	Discount float64 `json:"discount"`
	Reason   string  `json:"reason,omitempty"`
	Message  string  `json:"message,omitempty"`
}

type DiscountHandler struct {
	repo DiscountProvider
	now  func() time.Time
}

func NewDiscountHandler(r DiscountProvider) *DiscountHandler {
	return &DiscountHandler{repo: r, now: time.Now}
}

// HandleValidate tells the storefront what a code would take off a cart subtotal.
// Refusals are answered with 200 and valid=false so the cart can show the reason.
func (h *DiscountHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := render.Decode(r, &req); err != nil {
		render.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	code := models.NormalizeCode(req.Code)
	if code == "" || req.Subtotal < 0 {
		render.Invalid(w, []string{"code and a non-negative subtotal are required"})
		return
	}

	dc, err := h.repo.GetDiscountCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, models.ErrDiscountNotFound) {
			render.JSON(w, http.StatusOK, ValidateResponse{Code: code, Reason: "not_found", Message: "Discount code not found"})
			return
		}
		render.Error(w, http.StatusInternalServerError, "Failed to validate discount code")
		return
	}

	amount, err := pricing.EvaluateDiscount(dc, decimal.NewFromFloat(req.Subtotal), h.now())
	if err != nil {
		var refused *pricing.DiscountError
		if errors.As(err, &refused) {
			render.JSON(w, http.StatusOK, ValidateResponse{Code: code, Reason: refused.Reason, Message: refused.Error()})
			return
		}
		render.Error(w, http.StatusInternalServerError, "Failed to validate discount code")
		return
	}

	render.JSON(w, http.StatusOK, ValidateResponse{Code: code, Valid: true, Discount: amount.InexactFloat64()})
}

func (h *DiscountHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	codes, err := h.repo.ListDiscountCodes(r.Context())
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "Failed to retrieve discount codes")
		return
	}
	out := make([]Discount, len(codes))
	for i := range codes {
		out[i] = toResponse(&codes[i])
	}
	render.JSON(w, http.StatusOK, out)
}

func (h *DiscountHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	dc, err := h.repo.GetDiscountCode(r.Context(), models.NormalizeCode(r.PathValue("code")))
	if err != nil {
		writeRepoError(w, err, "Failed to retrieve discount code")
		return
	}
	render.JSON(w, http.StatusOK, toResponse(dc))
}

func (h *DiscountHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input DiscountInput
	if err := render.Decode(r, &input); err != nil {
		render.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	dc := input.toModel()
	if problems := pricing.ValidateDiscountTerms(dc); len(problems) > 0 {
		render.Invalid(w, problems)
		return
	}
	if err := h.repo.CreateDiscountCode(r.Context(), dc); err != nil {
		writeRepoError(w, err, "Failed to create discount code")
		return
	}
	render.JSON(w, http.StatusCreated, toResponse(dc))
}

func (h *DiscountHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	code := models.NormalizeCode(r.PathValue("code"))

	var input DiscountInput
	if err := render.Decode(r, &input); err != nil {
		render.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	input.Code = code

	dc := input.toModel()
	if problems := pricing.ValidateDiscountTerms(dc); len(problems) > 0 {
		render.Invalid(w, problems)
		return
	}
	updated, err := h.repo.UpdateDiscountCode(r.Context(), code, dc)
	if err != nil {
		writeRepoError(w, err, "Failed to update discount code")
		return
	}
	render.JSON(w, http.StatusOK, toResponse(updated))
}

func (h *DiscountHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteDiscountCode(r.Context(), models.NormalizeCode(r.PathValue("code"))); err != nil {
		writeRepoError(w, err, "Failed to delete discount code")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeRepoError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrDiscountNotFound):
		render.Error(w, http.StatusNotFound, "Discount code not found")
	case errors.Is(err, models.ErrDuplicateCode):
		render.Error(w, http.StatusConflict, "Discount code already exists")
	default:
		render.Error(w, http.StatusInternalServerError, fallback)
	}
}

func (in DiscountInput) toModel() *models.DiscountCode {
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	return &models.DiscountCode{
		Code:        models.NormalizeCode(in.Code),
		Description: strings.TrimSpace(in.Description),
		Kind:        models.DiscountKind(strings.ToLower(strings.TrimSpace(in.Kind))),
		Value:       decimal.NewFromFloat(in.Value),
		MinSubtotal: decimal.NewFromFloat(in.MinSubtotal),
		MaxUses:     in.MaxUses,
		Active:      active,
		StartsAt:    in.StartsAt,
		ExpiresAt:   in.ExpiresAt,
	}
}

func toResponse(dc *models.DiscountCode) Discount {
	return Discount{
		Code:          dc.Code,
		Description:   dc.Description,
		Kind:          string(dc.Kind),
		Value:         dc.Value.InexactFloat64(),
		MinSubtotal:   dc.MinSubtotal.InexactFloat64(),
		MaxUses:       dc.MaxUses,
		UsedCount:     dc.UsedCount,
		RemainingUses: dc.RemainingUses(),
		Active:        dc.Active,
		StartsAt:      dc.StartsAt,
		ExpiresAt:     dc.ExpiresAt,
	}
}
