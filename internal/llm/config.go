// Package llm provides centralized LLM configuration and client abstractions.
// This package enables easy switching between model tiers and providers.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: classification, extraction, basic summarization
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: résumé analysis and site generation
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider SDK
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is Google Gemini through github.com/google/generative-ai-go
	ProviderGemini Provider = "gemini"
	// ProviderGenAI is Google Gemini through the google.golang.org/genai SDK
	ProviderGenAI Provider = "genai"
)

// DefaultTemperature matches the randomness used for both pipeline calls
const DefaultTemperature float32 = 0.5

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: DefaultTemperature,
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return "" // No model configured
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := c.clone()
	newConfig.Models[tier] = model
	return newConfig
}

// WithTemperature returns a new Config with the given sampling temperature
func (c *Config) WithTemperature(temperature float32) *Config {
	newConfig := c.clone()
	newConfig.Temperature = temperature
	return newConfig
}

// WithProvider returns a new Config targeting a different provider SDK
func (c *Config) WithProvider(provider Provider) *Config {
	newConfig := c.clone()
	newConfig.Provider = provider
	return newConfig
}

func (c *Config) clone() *Config {
	newConfig := &Config{
		Provider:    c.Provider,
		Models:      make(map[ModelTier]string, len(c.Models)),
		Temperature: c.Temperature,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	return newConfig
}
