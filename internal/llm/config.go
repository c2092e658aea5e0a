// Package llm provides the model configuration and client abstraction for
// generative AI calls.
package llm

import "os"

// ModelTier selects a capability level for a request.
type ModelTier string

const (
	// TierLite is for cheap classification and extraction calls.
	TierLite ModelTier = "lite"
	// TierStandard is for structured output such as resume analysis.
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long-form reasoning.
	TierAdvanced ModelTier = "advanced"
)

// Config maps tiers to concrete model names.
type Config struct {
	Models map[ModelTier]string
}

// DefaultConfig returns the Gemini model mapping, overridable per tier via
// GEMINI_MODEL_LITE, GEMINI_MODEL_STANDARD and GEMINI_MODEL_ADVANCED.
func DefaultConfig() *Config {
	c := &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
	if m := os.Getenv("GEMINI_MODEL_LITE"); m != "" {
		c.Models[TierLite] = m
	}
	if m := os.Getenv("GEMINI_MODEL_STANDARD"); m != "" {
		c.Models[TierStandard] = m
	}
	if m := os.Getenv("GEMINI_MODEL_ADVANCED"); m != "" {
		c.Models[TierAdvanced] = m
	}
	return c
}

// GetModel returns the model for a tier, falling back to standard then lite.
func (c *Config) GetModel(tier ModelTier) string {
	if m, ok := c.Models[tier]; ok {
		return m
	}
	if m, ok := c.Models[TierStandard]; ok {
		return m
	}
	return c.Models[TierLite]
}
