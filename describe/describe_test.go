package describe

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Fake model ---

type fakeModel struct {
	analysis    string
	analysisErr error
	text        string
	textErr     error

	requests []Request
}

func (m *fakeModel) Complete(_ context.Context, req Request) (string, error) {
	m.requests = append(m.requests, req)
	if req.JSON {
		return m.analysis, m.analysisErr
	}
	return m.text, m.textErr
}

func (m *fakeModel) lastPrompt() string {
	for i := len(m.requests) - 1; i >= 0; i-- {
		if !m.requests[i].JSON {
			return m.requests[i].Prompt
		}
	}
	return ""
}

// --- Helpers ---

const arabicCopy = "استمتع بتجربة لعب مذهلة مع جهاز PlayStation 5 Slim الجديد، بتصميم أنحف وأداء فائق السرعة يجعل كل لعبة أكثر متعة. " +
	"يأتي الجهاز بسعة تخزين كبيرة تكفي لمكتبة ألعابك المفضلة، وهو الخيار المثالي لعشاق الألعاب في كل مكان."

func ps5Input() Input {
	return Input{
		Code:       "ps5-slim",
		Name:       "PlayStation 5 Slim",
		NameAr:     "بلايستيشن 5 سليم",
		Category:   "Consoles",
		CategoryAr: "أجهزة الألعاب",
		Platform:   "PlayStation",
		Kind:       "physical",
		Price:      decimal.NewFromInt(1999),
		Currency:   "SAR",
		ImageURL:   "https://cdn.example.com/products/ps5-slim.png?v=2",
		Attributes: map[string]interface{}{"storage": "1TB", "edition": "disc"},
	}
}

// --- Tests ---

func TestGenerateUsesModelOutput(t *testing.T) {
	model := &fakeModel{
		analysis: "```json\n{\"subject\": \"A white PS5 Slim console with a controller\", \"visible_text\": \"PS5\", \"features\": [\"white finish\", \"disc drive\"]}\n```",
		text:     "**" + arabicCopy + "**",
	}
	g := NewGenerator(model, zap.NewNop())

	res, err := g.Generate(t.Context(), ps5Input(), Options{Language: Arabic})
	require.NoError(t, err)

	assert.Equal(t, SourceModel, res.Source)
	assert.Equal(t, arabicCopy, res.Text, "markdown emphasis is stripped")
	assert.Empty(t, res.FallbackReason)
	require.NotNil(t, res.Image)
	assert.Equal(t, []string{"white finish", "disc drive"}, res.Image.Features)

	require.Len(t, model.requests, 2)
	assert.Equal(t, "image/png", model.requests[0].ImageMIME)
	prompt := model.lastPrompt()
	assert.Contains(t, prompt, "Modern Standard Arabic")
	assert.Contains(t, prompt, "- Name: بلايستيشن 5 سليم")
	assert.Contains(t, prompt, "A white PS5 Slim console with a controller")
	assert.Contains(t, prompt, "edition: disc")
	assert.Equal(t, systemInstruction, model.requests[1].System)
}

func TestGenerateFallsBackOnModelError(t *testing.T) {
	model := &fakeModel{analysisErr: errors.New("quota"), textErr: errors.New("quota")}
	g := NewGenerator(model, zap.NewNop())

	res, err := g.Generate(t.Context(), ps5Input(), Options{Language: English})
	require.NoError(t, err)

	assert.Equal(t, SourceTemplate, res.Source)
	assert.Equal(t, FallbackModelError, res.FallbackReason)
	assert.Nil(t, res.Image, "failed image analysis is dropped")
	assert.True(t, strings.HasPrefix(res.Text, "PlayStation 5 Slim for PlayStation is an original product"))
}

func TestGenerateFallsBackWhenValidationFails(t *testing.T) {
	model := &fakeModel{
		text: "Here is your description: The PlayStation 5 Slim is a great console for every gamer who wants speed and style.",
	}
	in := ps5Input()
	in.ImageURL = ""
	g := NewGenerator(model, zap.NewNop())

	res, err := g.Generate(t.Context(), in, Options{Language: Arabic})
	require.NoError(t, err)

	assert.Equal(t, SourceTemplate, res.Source)
	assert.Equal(t, FallbackValidation, res.FallbackReason)
	assert.Contains(t, res.Issues, IssueNotArabic)
	assert.Contains(t, res.Issues, IssuePreamble)
	assert.True(t, strings.HasPrefix(res.Text, "بلايستيشن 5 سليم لمنصة PlayStation"))
	assert.Len(t, model.requests, 1, "no image analysis without an image")
}

func TestGenerateWithoutModel(t *testing.T) {
	g := NewGenerator(nil, zap.NewNop())
	in := Input{Name: "Steam Wallet Code", Kind: "digital", Platform: "PC", Keywords: []string{"instant delivery"}}

	res, err := g.Generate(t.Context(), in, Options{})
	require.NoError(t, err)

	assert.Equal(t, Arabic, res.Language, "arabic is the default language")
	assert.Equal(t, SourceTemplate, res.Source)
	assert.Equal(t, FallbackModelDisabled, res.FallbackReason)
	assert.Contains(t, res.Text, "Steam Wallet Code منتج رقمي لمنصة PC")
	assert.Contains(t, res.Text, "التفاصيل: instant delivery.")
}

func TestGenerateRejectsMissingName(t *testing.T) {
	g := NewGenerator(&fakeModel{}, zap.NewNop())
	_, err := g.Generate(t.Context(), Input{Kind: "digital"}, Options{Language: English})
	assert.ErrorIs(t, err, ErrMissingName)
}

func TestGenerateHonoursBounds(t *testing.T) {
	model := &fakeModel{text: arabicCopy}
	in := ps5Input()
	in.ImageURL = ""
	g := NewGenerator(model, zap.NewNop(), WithBounds(Bounds{MinRunes: 10, MaxRunes: 50}))

	res, err := g.Generate(t.Context(), in, Options{Language: Arabic, Tone: "calm"})
	require.NoError(t, err)

	assert.Equal(t, SourceTemplate, res.Source)
	assert.Equal(t, []string{IssueTooLong}, res.Issues)
	assert.Contains(t, model.lastPrompt(), "Tone: calm. Length: between 10 and 50 characters")
}

func TestParseLanguage(t *testing.T) {
	lang, err := ParseLanguage("")
	require.NoError(t, err)
	assert.Equal(t, Arabic, lang)

	lang, err = ParseLanguage(" EN ")
	require.NoError(t, err)
	assert.Equal(t, English, lang)

	_, err = ParseLanguage("fr")
	assert.Error(t, err)
}
