package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Generator produces free text from a prompt against a named model. The
// analyzer iterates candidate models through this interface; tests substitute
// their own implementation.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

type geminiGenerator struct {
	client *genai.Client
}

// NewGeminiGenerator builds a Generator backed by the Gemini API.
func NewGeminiGenerator(ctx context.Context, apiKey string) (Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &geminiGenerator{client: client}, nil
}

func (g *geminiGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}
