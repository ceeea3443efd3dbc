package descriptions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arenashop/storefront/describe"
	"github.com/arenashop/storefront/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockDescriber struct {
	result *describe.Result
	err    error

	lastInput describe.Input
	lastOpts  describe.Options
}

func (m *mockDescriber) Generate(_ context.Context, in describe.Input, opts describe.Options) (*describe.Result, error) {
	m.lastInput = in
	m.lastOpts = opts
	return m.result, m.err
}

type mockProductRepo struct {
	product   *models.Product
	getErr    error
	updateErr error

	savedCode string
	savedLang string
	savedText string
}

func (m *mockProductRepo) GetByCode(_ context.Context, _ string) (*models.Product, error) {
	return m.product, m.getErr
}

func (m *mockProductRepo) UpdateDescription(_ context.Context, code, lang, text string) error {
	m.savedCode, m.savedLang, m.savedText = code, lang, text
	return m.updateErr
}

func ps5() *models.Product {
	return &models.Product{
		Code:      "ps5-slim",
		Name:      "PlayStation 5 Slim",
		NameAr:    "بلايستيشن 5 سليم",
		Price:     decimal.NewFromInt(2199),
		SalePrice: decimal.NewFromInt(1999),
		Kind:      models.KindPhysical,
		Platform:  "playstation",
		ImageURL:  "https://cdn.example.com/ps5.png",
		Category:  models.Category{Name: "Consoles", NameAr: "أجهزة"},
	}
}

func aiResult() *describe.Result {
	return &describe.Result{Text: "وصف", Language: describe.Arabic, Source: describe.SourceModel}
}

func TestHandleProduct(t *testing.T) {
	testCases := []struct {
		name               string
		body               string
		repo               *mockProductRepo
		gen                *mockDescriber
		expectedStatusCode int
		check              func(t *testing.T, rec *httptest.ResponseRecorder, repo *mockProductRepo, gen *mockDescriber)
	}{
		{
			name:               "Generates and saves Arabic copy by default",
			body:               `{"save": true, "keywords": ["1TB"]}`,
			repo:               &mockProductRepo{product: ps5()},
			gen:                &mockDescriber{result: aiResult()},
			expectedStatusCode: http.StatusOK,
			check: func(t *testing.T, rec *httptest.ResponseRecorder, repo *mockProductRepo, gen *mockDescriber) {
				assert.Equal(t, describe.Arabic, gen.lastOpts.Language)
				assert.Equal(t, "SAR", gen.lastInput.Currency)
				assert.True(t, decimal.NewFromInt(1999).Equal(gen.lastInput.Price), "Sale price is used")
				assert.Equal(t, "أجهزة", gen.lastInput.CategoryAr)
				assert.Equal(t, []string{"1TB"}, gen.lastInput.Keywords)

				assert.Equal(t, "ps5-slim", repo.savedCode)
				assert.Equal(t, "ar", repo.savedLang)
				assert.Equal(t, "وصف", repo.savedText)

				var resp map[string]interface{}
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, true, resp["saved"])
				assert.Equal(t, "ai", resp["source"])
			},
		},
		{
			name:               "Preview without saving",
			body:               `{"language": "en"}`,
			repo:               &mockProductRepo{product: ps5()},
			gen:                &mockDescriber{result: aiResult()},
			expectedStatusCode: http.StatusOK,
			check: func(t *testing.T, _ *httptest.ResponseRecorder, repo *mockProductRepo, gen *mockDescriber) {
				assert.Equal(t, describe.English, gen.lastOpts.Language)
				assert.Empty(t, repo.savedCode)
			},
		},
		{
			name:               "Unsupported language",
			body:               `{"language": "fr"}`,
			repo:               &mockProductRepo{product: ps5()},
			gen:                &mockDescriber{},
			expectedStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:               "Unknown product",
			body:               `{}`,
			repo:               &mockProductRepo{getErr: models.ErrProductNotFound},
			gen:                &mockDescriber{},
			expectedStatusCode: http.StatusNotFound,
		},
		{
			name:               "Generator failure",
			body:               `{}`,
			repo:               &mockProductRepo{product: ps5()},
			gen:                &mockDescriber{err: errors.New("template broken")},
			expectedStatusCode: http.StatusInternalServerError,
		},
		{
			name:               "Save failure",
			body:               `{"save": true}`,
			repo:               &mockProductRepo{product: ps5(), updateErr: errors.New("db down")},
			gen:                &mockDescriber{result: aiResult()},
			expectedStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewDescriptionHandler(tc.gen, tc.repo, "SAR", zap.NewNop())
			req := httptest.NewRequest("POST", "/admin/products/ps5-slim/description", strings.NewReader(tc.body))
			req.SetPathValue("code", "ps5-slim")
			rec := httptest.NewRecorder()

			handler.HandleProduct(rec, req)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.check != nil {
				tc.check(t, rec, tc.repo, tc.gen)
			}
		})
	}
}

func TestHandleGenerate(t *testing.T) {
	t.Run("Ad-hoc product", func(t *testing.T) {
		gen := &mockDescriber{result: &describe.Result{Text: "Great card", Source: describe.SourceTemplate, FallbackReason: describe.FallbackModelDisabled}}
		handler := NewDescriptionHandler(gen, &mockProductRepo{}, "SAR", zap.NewNop())
		body := `{"name": "Steam Wallet 50", "kind": "digital", "price": 50, "language": "en", "tone": "friendly"}`
		rec := httptest.NewRecorder()

		handler.HandleGenerate(rec, httptest.NewRequest("POST", "/admin/descriptions/generate", strings.NewReader(body)))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "friendly", gen.lastOpts.Tone)
		assert.Equal(t, "digital", gen.lastInput.Kind)

		var resp map[string]interface{}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "template", resp["source"])
		assert.Equal(t, "model_disabled", resp["fallback_reason"])
		assert.Equal(t, false, resp["saved"])
	})

	t.Run("Validation", func(t *testing.T) {
		gen := &mockDescriber{}
		handler := NewDescriptionHandler(gen, &mockProductRepo{}, "SAR", zap.NewNop())
		rec := httptest.NewRecorder()

		handler.HandleGenerate(rec, httptest.NewRequest("POST", "/admin/descriptions/generate", strings.NewReader(`{"kind":"boxed","price":-1,"language":"de"}`)))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		var resp struct {
			Problems []string `json:"problems"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Len(t, resp.Problems, 4)
	})
}
