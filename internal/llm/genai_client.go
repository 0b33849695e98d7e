package llm

import (
	"context"
	"fmt"

	gogenai "google.golang.org/genai"
)

// GenAIClient implements Client on the google.golang.org/genai SDK
type GenAIClient struct {
	client *gogenai.Client
	config *Config
}

// NewGenAIClient creates a client for the Gemini API backend of the genai SDK
func NewGenAIClient(ctx context.Context, config *Config, apiKey string) (*GenAIClient, error) {
	if apiKey == "" {
		return nil, &AuthenticationError{Message: "API key is required"}
	}

	client, err := gogenai.NewClient(ctx, &gogenai.ClientConfig{
		APIKey:  apiKey,
		Backend: gogenai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GenAIClient{client: client, config: config}, nil
}

// GenerateContent generates text content using the specified model tier
func (c *GenAIClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.generate(ctx, "", prompt, tier)
}

// GenerateChat generates text with a distinguished system instruction
func (c *GenAIClient) GenerateChat(ctx context.Context, system, user string, tier ModelTier) (string, error) {
	return c.generate(ctx, system, user, tier)
}

func (c *GenAIClient) generate(ctx context.Context, system, user string, tier ModelTier) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", &InvocationError{Message: fmt.Sprintf("no model configured for tier %s", tier)}
	}

	genConfig := &gogenai.GenerateContentConfig{
		Temperature: gogenai.Ptr(c.config.Temperature),
	}
	if system != "" {
		genConfig.SystemInstruction = gogenai.NewContentFromText(system, gogenai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, modelName, gogenai.Text(user), genConfig)
	if err != nil {
		return "", &InvocationError{Model: modelName, Message: "failed to generate content", Cause: err}
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", &InvocationError{Model: modelName, Message: "malformed response", Cause: fmt.Errorf("no candidates in response")}
	}

	text := resp.Text()
	if text == "" {
		return "", &InvocationError{Model: modelName, Message: "malformed response", Cause: fmt.Errorf("no text parts in response")}
	}
	return text, nil
}

// GetModel returns the model name for a tier
func (c *GenAIClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the genai client holds no closable resources
func (c *GenAIClient) Close() error {
	return nil
}
