// Package model provides the Gemini-backed completion client used by the
// model-backed pipeline strategies.
package model

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/leanlens/leanlens/internal/contract"
)

// DefaultModelName is used when no model is configured.
const DefaultModelName = "gemini-2.0-flash"

// GenAIClient implements contract.ModelClient over Google's Gemini API.
type GenAIClient struct {
	client *genai.Client
	model  string
}

var _ contract.ModelClient = &GenAIClient{} // Compile-time check

// NewGenAIClient creates a completion client for the configured model.
func NewGenAIClient(ctx context.Context, apiKey, model string) (*GenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = DefaultModelName
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIClient{client: client, model: model}, nil
}

// Complete sends a system instruction and user prompt, returning the raw
// model text.
func (c *GenAIClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx,
		c.model,
		contents,
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
			ResponseMIMEType:  "application/json",
		},
	)
	if err != nil {
		return "", fmt.Errorf("GenAI completion failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("no completion returned")
	}
	return text, nil
}

// Name returns the client name for logging.
func (c *GenAIClient) Name() string {
	return fmt.Sprintf("genai:%s", c.model)
}
