package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"voltic/contexts/creative-generation/variation-service/domain/entities"
)

var serum = entities.TargetAsset{AssetID: "asset-1", Name: "Glow Serum", Description: "Vitamin C face serum"}

func TestTextPromptForCompetitorSource(t *testing.T) {
	ad := &entities.SourceAd{BrandName: "Rival", Headline: "Shine on", Format: "image"}
	guideline := &entities.GuidelineContext{BrandName: "Glow Co", BrandVoice: "Warm"}

	prompt := TextPrompt(ad, serum, entities.StrategyPainPoint, guideline, "tiktok", nil)

	assert.Contains(t, prompt, "inspired by the competitor ad below")
	assert.Contains(t, prompt, "**Strategy:** PAIN POINT - ")
	assert.Contains(t, prompt, "**Channel:** TIKTOK")
	assert.Contains(t, prompt, "Brand: Rival")
	assert.Contains(t, prompt, "Body: (none)")
	assert.Contains(t, prompt, "--- BRAND GUIDELINES (must follow) ---")
	assert.Contains(t, prompt, "Match the tone and style")
}

func TestTextPromptForAssetSourceIncludesDirection(t *testing.T) {
	options := &entities.CreativeOptions{Angle: "flat_lay", Lighting: "golden_hour"}
	prompt := TextPrompt(nil, serum, entities.StrategyHeroProduct, nil, "unknown", options)

	assert.Contains(t, prompt, "based on its details and creative direction")
	assert.Contains(t, prompt, "Product angle: Flat Lay")
	assert.Contains(t, prompt, "Lighting: Golden Hour")
	assert.NotContains(t, prompt, "**Channel:**")
	assert.NotContains(t, prompt, "BRAND GUIDELINES")
}

func TestImagePromptUsesPaletteAndStyle(t *testing.T) {
	prompt := ImagePrompt(
		entities.SourceAd{BrandName: "Rival", Format: "video"},
		serum,
		entities.StrategyCuriosity,
		&entities.GuidelineContext{ColorPalette: "#ff0000, #00ff00"},
		nil,
	)
	assert.Contains(t, prompt, `"Glow Serum"`)
	assert.Contains(t, prompt, "Rival's video ad")
	assert.Contains(t, prompt, "dramatic lighting")
	assert.Contains(t, prompt, "Use the brand color palette: #ff0000, #00ff00.")
	assert.True(t, strings.HasSuffix(prompt, "watermarks in the image."))
}

func TestEditPromptDefaultsWhenNoDirection(t *testing.T) {
	prompt := EditPrompt(entities.TargetAsset{Name: "Mug"}, entities.StrategyTextOnly, nil, nil)
	assert.Contains(t, prompt, "Enhance this product image")
	assert.Contains(t, prompt, "CRITICAL RULES:")
}

func TestEditPromptListsDirectives(t *testing.T) {
	options := &entities.CreativeOptions{Background: "outdoor", CustomInstruction: "Add autumn leaves"}
	prompt := EditPrompt(serum, entities.StrategyProofPoint, options, nil)
	assert.Contains(t, prompt, "- Change the background to outdoor.")
	assert.Contains(t, prompt, "- Add autumn leaves")
	assert.Contains(t, prompt, "- Give the image a premium")
	assert.NotContains(t, prompt, "Enhance this product image")
}

func TestKnownChannel(t *testing.T) {
	assert.True(t, KnownChannel("LinkedIn"))
	assert.False(t, KnownChannel("myspace"))
}
