package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	assert.Equal(t, `{"a":1}`, CleanJSONBlock("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, CleanJSONBlock("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, CleanJSONBlock(`{"a":1}`))
	assert.Equal(t, "", CleanJSONBlock("   "))
}

func TestConfigGetModelFallback(t *testing.T) {
	c := &Config{Models: map[ModelTier]string{TierStandard: "model-std"}}
	assert.Equal(t, "model-std", c.GetModel(TierAdvanced))
	assert.Equal(t, "model-std", c.GetModel(TierStandard))

	c = &Config{Models: map[ModelTier]string{TierLite: "model-lite"}}
	assert.Equal(t, "model-lite", c.GetModel(TierStandard))
}

func TestDefaultConfigEnvOverride(t *testing.T) {
	t.Setenv("GEMINI_MODEL_STANDARD", "custom-model")
	c := DefaultConfig()
	assert.Equal(t, "custom-model", c.GetModel(TierStandard))
}
