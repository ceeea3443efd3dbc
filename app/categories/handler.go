package categories

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/arenashop/storefront/app/render"
	"github.com/arenashop/storefront/models"
)

type CategoryResponse struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	NameAr    string `json:"name_ar"`
	SortOrder int    `json:"sort_order"`
	Active    bool   `json:"active"`
}

type CategoryInput struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	NameAr    string `json:"name_ar"`
	SortOrder int    `json:"sort_order"`
	Active    *bool  `json:"active"`
}

type CategoryProvider interface {
	GetAllCategories(ctx context.Context, includeInactive bool) ([]models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, code string, update *models.Category) (*models.Category, error)
	DeleteCategory(ctx context.Context, code string) error
}

type CategoryHandler struct {
	repo CategoryProvider
}

func NewCategoryHandler(r CategoryProvider) *CategoryHandler {
	return &CategoryHandler{repo: r}
}

// HandleGetAll lists the categories shown on the storefront.
func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

// HandleAdminList also includes inactive categories.
func (h *CategoryHandler) HandleAdminList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *CategoryHandler) list(w http.ResponseWriter, r *http.Request, includeInactive bool) {
	categories, err := h.repo.GetAllCategories(r.Context(), includeInactive)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i := range categories {
		response[i] = toResponse(&categories[i])
	}
	render.JSON(w, http.StatusOK, response)
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input CategoryInput
	if err := render.Decode(r, &input); err != nil {
		render.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	input.Code = strings.ToLower(strings.TrimSpace(input.Code))
	if problems := input.Validate(true); len(problems) > 0 {
		render.Invalid(w, problems)
		return
	}

	category := input.toModel()
	if err := h.repo.CreateCategory(r.Context(), category); err != nil {
		if errors.Is(err, models.ErrDuplicateCode) {
			render.Error(w, http.StatusConflict, "Category code already exists")
			return
		}
		render.Error(w, http.StatusInternalServerError, "Failed to create category")
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(category))
}

func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	var input CategoryInput
	if err := render.Decode(r, &input); err != nil {
		render.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if problems := input.Validate(false); len(problems) > 0 {
		render.Invalid(w, problems)
		return
	}

	updated, err := h.repo.UpdateCategory(r.Context(), code, input.toModel())
	if err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			render.Error(w, http.StatusNotFound, "Category not found")
			return
		}
		render.Error(w, http.StatusInternalServerError, "Failed to update category")
		return
	}

	render.JSON(w, http.StatusOK, toResponse(updated))
}

func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	err := h.repo.DeleteCategory(r.Context(), r.PathValue("code"))
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, models.ErrCategoryNotFound):
		render.Error(w, http.StatusNotFound, "Category not found")
	case errors.Is(err, models.ErrCategoryInUse):
		render.Error(w, http.StatusConflict, "Category still has products")
	default:
		render.Error(w, http.StatusInternalServerError, "Failed to delete category")
	}
}

// Validate lists what is missing from the input. The code is only required on create.
func (in *CategoryInput) Validate(create bool) []string {
	in.Name = strings.TrimSpace(in.Name)

	var problems []string
	if create && in.Code == "" {
		problems = append(problems, "code is required")
	}
	if in.Name == "" {
		problems = append(problems, "name is required")
	}
	if in.SortOrder < 0 {
		problems = append(problems, "sort_order cannot be negative")
	}
	return problems
}

func (in CategoryInput) toModel() *models.Category {
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	return &models.Category{
		Code:      in.Code,
		Name:      in.Name,
		NameAr:    strings.TrimSpace(in.NameAr),
		SortOrder: in.SortOrder,
		Active:    active,
	}
}

func toResponse(c *models.Category) CategoryResponse {
	return CategoryResponse{
		Code:      c.Code,
		Name:      c.Name,
		NameAr:    c.NameAr,
		SortOrder: c.SortOrder,
		Active:    c.Active,
	}
}
