package describe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// GenAIModel generates text with Google's Gemini API.
type GenAIModel struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGenAIModel creates a Gemini-backed model.
func NewGenAIModel(ctx context.Context, apiKey, model string, timeout time.Duration) (*GenAIModel, error) {
	if apiKey == "" {
		return nil, errors.New("GenAI API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIModel{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

func (m *GenAIModel) Complete(ctx context.Context, req Request) (string, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if req.ImageURL != "" {
		parts = append(parts, genai.NewPartFromURI(req.ImageURL, req.ImageMIME))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.7),
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
		config.Temperature = genai.Ptr[float32](0.2)
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("GenAI returned no text")
	}
	return text, nil
}

// Name returns the model name.
func (m *GenAIModel) Name() string {
	return fmt.Sprintf("genai:%s", m.model)
}
