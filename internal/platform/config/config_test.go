package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVICE_NAME", "")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("VARIATION_UNIT_COST", "")
	t.Setenv("INSIGHT_CREDIT_COST", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_GENERATIVE_AI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "voltic", cfg.ServiceName)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 10, cfg.VariationUnitCost)
	assert.Equal(t, 2, cfg.InsightCreditCost)
	assert.Empty(t, cfg.GeminiAPIKey)
	assert.Equal(t, "brand-assets", cfg.ObjectStoreBucket)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("VARIATION_UNIT_COST", "12")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_GENERATIVE_AI_API_KEY", "legacy-key")
	t.Setenv("OBJECT_STORE_USE_SSL", "off")
	t.Setenv("GEMINI_RPS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.VariationUnitCost)
	assert.Equal(t, "legacy-key", cfg.GeminiAPIKey)
	assert.False(t, cfg.ObjectStoreUseSSL)
	assert.Equal(t, float64(2), cfg.GeminiRPS)
}
