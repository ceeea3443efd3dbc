// Package describe writes storefront product descriptions.
//
// A description is produced by a fixed sequence of steps: optional image
// analysis, fusion of the product record with what the image shows, prompt
// construction, generation by a language model, clean-up and validation.
// When the model is missing, fails, or returns text that does not pass
// validation, a deterministic template is rendered instead. There is exactly
// one fallback and no retry.
package describe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Language of the generated copy.
type Language string

const (
	Arabic  Language = "ar"
	English Language = "en"
)

func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case Arabic, "":
		return Arabic, nil
	case English:
		return English, nil
	}
	return "", fmt.Errorf("unsupported language %q", s)
}

// Source tells where the final text came from.
type Source string

const (
	SourceModel    Source = "ai"
	SourceTemplate Source = "template"
)

// Fallback reasons.
const (
	FallbackModelDisabled = "model_disabled"
	FallbackModelError    = "model_error"
	FallbackValidation    = "validation_failed"
)

var ErrMissingName = errors.New("product name is required")

// Input is the product information the generator works from.
type Input struct {
	Code       string
	Name       string
	NameAr     string
	Category   string
	CategoryAr string
	Platform   string
	Kind       string
	Price      decimal.Decimal
	Currency   string
	ImageURL   string
	Attributes map[string]interface{}
	Keywords   []string
}

// Options tune a single generation.
type Options struct {
	Language Language
	Tone     string
}

// Result is the outcome of Generate. Issues lists validation findings on the
// model output, if any; FallbackReason is set whenever Source is template.
type Result struct {
	Text           string         `json:"text"`
	Language       Language       `json:"language"`
	Source         Source         `json:"source"`
	FallbackReason string         `json:"fallback_reason,omitempty"`
	Issues         []string       `json:"issues,omitempty"`
	Image          *ImageAnalysis `json:"image_analysis,omitempty"`
}

// Generator runs the description pipeline. A nil model makes it template-only.
type Generator struct {
	model  Model
	log    *zap.Logger
	bounds Bounds
}

type Option func(*Generator)

// WithBounds overrides the accepted length of generated text.
func WithBounds(b Bounds) Option {
	return func(g *Generator) { g.bounds = b }
}

func NewGenerator(model Model, log *zap.Logger, opts ...Option) *Generator {
	g := &Generator{
		model:  model,
		log:    log.Named("describe"),
		bounds: DefaultBounds,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces a description for in. It only fails on unusable input or
// when the fallback template itself cannot be rendered.
func (g *Generator) Generate(ctx context.Context, in Input, opts Options) (*Result, error) {
	if strings.TrimSpace(in.Name) == "" && strings.TrimSpace(in.NameAr) == "" {
		return nil, ErrMissingName
	}
	if opts.Language == "" {
		opts.Language = Arabic
	}
	if opts.Tone == "" {
		opts.Tone = "enthusiastic"
	}

	log := g.log.With(zap.String("product", in.Code), zap.String("lang", string(opts.Language)))

	if g.model == nil {
		fused := Fuse(in, nil, opts.Language)
		return g.fallback(fused, opts.Language, FallbackModelDisabled, nil, nil)
	}

	analysis := g.analyzeImage(ctx, in.ImageURL, log)
	fused := Fuse(in, analysis, opts.Language)
	prompt := BuildPrompt(fused, opts, g.bounds)

	raw, err := g.model.Complete(ctx, Request{
		System: systemInstruction,
		Prompt: prompt,
	})
	if err != nil {
		log.Warn("description model failed, using template", zap.Error(err))
		return g.fallback(fused, opts.Language, FallbackModelError, nil, analysis)
	}

	text := Clean(raw)
	if issues := Validate(text, opts.Language, g.bounds); len(issues) > 0 {
		log.Info("generated description rejected, using template", zap.Strings("issues", issues))
		return g.fallback(fused, opts.Language, FallbackValidation, issues, analysis)
	}

	return &Result{
		Text:     text,
		Language: opts.Language,
		Source:   SourceModel,
		Image:    analysis,
	}, nil
}

func (g *Generator) fallback(fused *Context, lang Language, reason string, issues []string, analysis *ImageAnalysis) (*Result, error) {
	text, err := RenderTemplate(fused, lang)
	if err != nil {
		return nil, err
	}
	return &Result{
		Text:           text,
		Language:       lang,
		Source:         SourceTemplate,
		FallbackReason: reason,
		Issues:         issues,
		Image:          analysis,
	}, nil
}
