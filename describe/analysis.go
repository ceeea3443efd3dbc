package describe

import (
	"context"
	"encoding/json"
	"mime"
	"net/url"
	"path"
	"strings"

	"go.uber.org/zap"
)

// ImageAnalysis is what the model could tell from the product picture.
type ImageAnalysis struct {
	Subject     string   `json:"subject"`
	VisibleText string   `json:"visible_text,omitempty"`
	Features    []string `json:"features,omitempty"`
}

func (a *ImageAnalysis) empty() bool {
	return a == nil || (a.Subject == "" && a.VisibleText == "" && len(a.Features) == 0)
}

const imageAnalysisPrompt = `Look at this product photo from a video game store.
Answer with a JSON object with these keys:
"subject": one short sentence naming what is shown,
"visible_text": text printed on the product or packaging, empty if none,
"features": up to five short visual details useful to a buyer (colour, edition, bundled items).
Describe only what is visible. Do not guess prices.`

// analyzeImage asks the model about the product image. Any failure yields nil:
// the description is then written from the record alone.
func (g *Generator) analyzeImage(ctx context.Context, imageURL string, log *zap.Logger) *ImageAnalysis {
	if imageURL == "" {
		return nil
	}

	raw, err := g.model.Complete(ctx, Request{
		Prompt:    imageAnalysisPrompt,
		ImageURL:  imageURL,
		ImageMIME: imageMIMEType(imageURL),
		JSON:      true,
	})
	if err != nil {
		log.Warn("image analysis failed", zap.String("image", imageURL), zap.Error(err))
		return nil
	}

	analysis, err := parseImageAnalysis(raw)
	if err != nil {
		log.Warn("image analysis unreadable", zap.Error(err))
		return nil
	}
	if analysis.empty() {
		return nil
	}
	return analysis
}

func parseImageAnalysis(raw string) (*ImageAnalysis, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var analysis ImageAnalysis
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &analysis); err != nil {
		return nil, err
	}

	analysis.Subject = strings.TrimSpace(analysis.Subject)
	analysis.VisibleText = strings.TrimSpace(analysis.VisibleText)
	features := analysis.Features[:0]
	for _, f := range analysis.Features {
		if f = strings.TrimSpace(f); f != "" {
			features = append(features, f)
		}
	}
	if len(features) > 5 {
		features = features[:5]
	}
	analysis.Features = features
	return &analysis, nil
}

func imageMIMEType(imageURL string) string {
	p := imageURL
	if u, err := url.Parse(imageURL); err == nil {
		p = u.Path
	}
	if t := mime.TypeByExtension(strings.ToLower(path.Ext(p))); strings.HasPrefix(t, "image/") {
		return t
	}
	return "image/jpeg"
}
