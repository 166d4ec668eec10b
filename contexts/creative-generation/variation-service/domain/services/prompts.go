package services

import (
	"fmt"
	"strings"

	"voltic/contexts/creative-generation/variation-service/domain/entities"
)

// TextSystemPrompt instructs the copy model to answer with {headline, body}.
const TextSystemPrompt = `You are a world-class direct-response copywriter specializing in Meta (Facebook/Instagram) ad copy. You create scroll-stopping headlines and persuasive body copy.

Respond ONLY with valid JSON matching this schema:
{
  "headline": string,
  "body": string
}

Guidelines:
- headline: 5-12 words, punchy, attention-grabbing. Use the strategy provided.
- body: 2-4 sentences of compelling ad copy. Include a clear value proposition and CTA.
- Never use placeholder text or generic filler.
- If brand guidelines are provided, strictly follow the brand voice, tone, and rules.`

// MaskPrompt asks the image model for a binary product segmentation mask.
const MaskPrompt = `Create a precise binary segmentation mask of the product in this image.
Rules:
- The product (including its label, cap, and any attached elements) must be PURE WHITE (#FFFFFF).
- Everything else (background, shadows, reflections, surface) must be PURE BLACK (#000000).
- The mask must have clean, precise edges around the product silhouette.
- Output ONLY the mask image with no text response.`

// MaskCaption labels the mask image in an edit request.
const MaskCaption = "Product mask (WHITE = product to preserve exactly, BLACK = background to modify):"

var strategyInstructions = map[entities.Strategy]string{
	entities.StrategyHeroProduct: "Write copy that positions the product as the hero/star. Lead with the product name and its key benefit.",
	entities.StrategyCuriosity:   "Write copy that creates an open loop - make the reader curious. Use intrigue, questions, or surprising facts.",
	entities.StrategyPainPoint:   "Write copy that leads with a specific pain point the target audience feels, then position the product as the solution.",
	entities.StrategyProofPoint:  "Write copy that leads with social proof, results, or authority. Use specific numbers or credibility signals.",
	entities.StrategyImageOnly:   "Write a short supporting headline and body for an image-first ad. Keep text minimal but impactful.",
	entities.StrategyTextOnly:    "Write a longer, more detailed headline and body since there's no image. The text must carry all the persuasive weight.",
}

var imageStyleNotes = map[entities.Strategy]string{
	entities.StrategyHeroProduct: "The product should be prominently featured in the center, with a clean, professional background.",
	entities.StrategyCuriosity:   "Create a visually intriguing image that makes the viewer want to learn more. Use dramatic lighting or an unexpected angle.",
	entities.StrategyPainPoint:   "Show a before/after contrast or a visual metaphor for the problem the product solves.",
	entities.StrategyProofPoint:  "Create a premium, trustworthy look - clean layout, the product displayed in an aspirational setting.",
	entities.StrategyImageOnly:   "Create a stunning, eye-catching product photo that works as a standalone ad image. High production value.",
}

var editVisualNotes = map[entities.Strategy]string{
	entities.StrategyHeroProduct: "Make the product the prominent focal point, centered with a clean professional look.",
	entities.StrategyCuriosity:   "Create a visually intriguing composition with dramatic lighting or an unexpected angle.",
	entities.StrategyPainPoint:   "Show a visual contrast or metaphor - the product should appear as a clear solution.",
	entities.StrategyProofPoint:  "Give the image a premium, trustworthy, aspirational quality.",
	entities.StrategyImageOnly:   "Make this a stunning, eye-catching product photo with high production value.",
}

var channelInstructions = map[string]string{
	"facebook":  "Write for Facebook feed - conversational, emoji-friendly, engagement-focused.",
	"instagram": "Write for Instagram - visual-first, hashtag-ready, shorter punchy copy.",
	"tiktok":    "Write for TikTok - Gen-Z tone, trend-aware, ultra-short and punchy.",
	"linkedin":  "Write for LinkedIn - professional, thought-leadership tone, B2B-friendly.",
	"google":    "Write for Google Ads - keyword-focused, direct response, respect character limits.",
}

// KnownChannel reports whether channel has dedicated copy instructions.
func KnownChannel(channel string) bool {
	_, ok := channelInstructions[strings.ToLower(strings.TrimSpace(channel))]
	return ok
}

// TextPrompt builds the user prompt for copy generation. A nil ad selects the
// asset-only prompt.
func TextPrompt(
	ad *entities.SourceAd,
	asset entities.TargetAsset,
	strategy entities.Strategy,
	guideline *entities.GuidelineContext,
	channel string,
	options *entities.CreativeOptions,
) string {
	lines := make([]string, 0, 20)
	if ad != nil {
		lines = append(lines, "Create ad copy for the following product, inspired by the competitor ad below.")
	} else {
		lines = append(lines, "Create ad copy for the following product based on its details and creative direction.")
	}
	lines = append(lines,
		"",
		fmt.Sprintf("**Strategy:** %s - %s", strategyHeading(strategy), strategyInstructions[strategy]),
	)
	if line := channelLine(channel); line != "" {
		lines = append(lines, line)
	}
	if ad != nil {
		lines = append(lines,
			"",
			"--- COMPETITOR AD (inspiration) ---",
			"Brand: "+orDefault(ad.BrandName, "Unknown"),
			"Headline: "+orDefault(ad.Headline, "(none)"),
			"Body: "+orDefault(ad.Body, "(none)"),
			"Format: "+ad.Format,
		)
	}
	lines = append(lines,
		"",
		"--- YOUR PRODUCT ---",
		"Product: "+asset.Name,
		"Description: "+orDefault(asset.Description, "(no description)"),
	)
	if ad == nil {
		lines = appendSection(lines, CreativeOptionsSection(options))
	}
	lines = appendSection(lines, GuidelineSection(guideline))
	lines = append(lines, "")
	if ad != nil {
		lines = append(lines, "Match the tone and style of the original ad but adapt it for the new product.")
	}
	lines = append(lines, "Write the ad copy as JSON.")
	return strings.Join(lines, "\n")
}

// ImagePrompt builds a generation prompt for competitor-inspired images.
func ImagePrompt(
	ad entities.SourceAd,
	asset entities.TargetAsset,
	strategy entities.Strategy,
	guideline *entities.GuidelineContext,
	options *entities.CreativeOptions,
) string {
	parts := []string{
		fmt.Sprintf("Create a professional Meta (Facebook/Instagram) ad image for a product called %q.", asset.Name),
	}
	if strings.TrimSpace(asset.Description) != "" {
		parts = append(parts, "Product description: "+asset.Description)
	}
	parts = append(parts,
		fmt.Sprintf("Inspired by the visual style of %s's %s ad.", orDefault(ad.BrandName, "a competitor"), orDefault(ad.Format, "image")),
		imageStyleNotes[strategy],
	)
	if options != nil && options.AspectRatio != "" {
		parts = append(parts, fmt.Sprintf("Compose the image for a %s aspect ratio.", options.AspectRatio))
	}
	parts = append(parts,
		"The image should be suitable for a social media ad - clean, modern, high-contrast, attention-grabbing."+paletteHint(guideline),
		"Do NOT include any text, logos, or watermarks in the image.",
	)
	return joinNonEmpty(parts, " ")
}

// EditPrompt builds the mask-protected edit prompt for asset images.
func EditPrompt(
	asset entities.TargetAsset,
	strategy entities.Strategy,
	options *entities.CreativeOptions,
	guideline *entities.GuidelineContext,
) string {
	directives := make([]string, 0, 6)
	if options != nil {
		if options.Angle.Label() != "" {
			directives = append(directives, fmt.Sprintf("Adjust the product angle to a %s perspective.", strings.ToLower(options.Angle.Label())))
		}
		if options.Lighting.Label() != "" {
			directives = append(directives, fmt.Sprintf("Change the lighting to %s.", strings.ToLower(options.Lighting.Label())))
		}
		if options.Background.Label() != "" {
			directives = append(directives, fmt.Sprintf("Change the background to %s.", strings.ToLower(options.Background.Label())))
		}
		if custom := strings.TrimSpace(options.CustomInstruction); custom != "" {
			directives = append(directives, custom)
		}
		if options.AspectRatio != "" {
			directives = append(directives, fmt.Sprintf("Recompose the scene for a %s aspect ratio.", options.AspectRatio))
		}
	}
	if guideline != nil && strings.TrimSpace(guideline.ColorPalette) != "" {
		directives = append(directives, fmt.Sprintf("Use the brand color palette where appropriate: %s.", guideline.ColorPalette))
	}
	if note := editVisualNotes[strategy]; note != "" {
		directives = append(directives, note)
	}
	if len(directives) == 0 {
		directives = append(directives, "Enhance this product image for use as a social media advertisement. Improve the composition, lighting, and background to make it more visually appealing and professional.")
	}

	lines := []string{fmt.Sprintf("Edit this product image of %q for a social media ad.", asset.Name)}
	if strings.TrimSpace(asset.Description) != "" {
		lines = append(lines, fmt.Sprintf("Product context: %s.", asset.Description))
	}
	lines = append(lines,
		"A product mask is provided as the second image - WHITE areas are the product, BLACK areas are the background.",
		"Apply these changes ONLY to the BLACK (background) areas of the mask:",
	)
	for _, directive := range directives {
		lines = append(lines, "- "+directive)
	}
	lines = append(lines,
		"CRITICAL RULES:",
		"- The WHITE areas in the mask are the product - do NOT modify those pixels at all.",
		"- Preserve the product EXACTLY as it appears - same shape, colors, label, packaging, and all text.",
		"- Do NOT re-render, regenerate, or alter any text on the product label or packaging.",
		"- Do NOT add any NEW text, words, letters, logos, or watermarks anywhere in the image.",
		"- Only transform the background/surroundings (BLACK mask areas) as directed above.",
	)
	return strings.Join(lines, "\n")
}

// GuidelineSection renders brand guidance, or "" when there is none.
func GuidelineSection(guideline *entities.GuidelineContext) string {
	if guideline == nil {
		return ""
	}
	parts := make([]string, 0, 5)
	if guideline.BrandName != "" {
		parts = append(parts, "Brand Name: "+guideline.BrandName)
	}
	if guideline.BrandVoice != "" {
		parts = append(parts, "Brand Voice: "+guideline.BrandVoice)
	}
	if guideline.ColorPalette != "" {
		parts = append(parts, "Color Palette: "+guideline.ColorPalette)
	}
	if guideline.TargetAudience != "" {
		parts = append(parts, "Target Audience: "+guideline.TargetAudience)
	}
	if guideline.DosAndDonts != "" {
		parts = append(parts, "Guidelines: "+guideline.DosAndDonts)
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(append([]string{"--- BRAND GUIDELINES (must follow) ---"}, parts...), "\n")
}

// CreativeOptionsSection renders creative direction, or "" when unset.
func CreativeOptionsSection(options *entities.CreativeOptions) string {
	if options == nil {
		return ""
	}
	parts := make([]string, 0, 4)
	if options.Angle.Label() != "" {
		parts = append(parts, "Product angle: "+options.Angle.Label())
	}
	if options.Lighting.Label() != "" {
		parts = append(parts, "Lighting: "+options.Lighting.Label())
	}
	if options.Background.Label() != "" {
		parts = append(parts, "Background: "+options.Background.Label())
	}
	if custom := strings.TrimSpace(options.CustomInstruction); custom != "" {
		parts = append(parts, "Custom direction: "+custom)
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(append([]string{"--- CREATIVE DIRECTION ---"}, parts...), "\n")
}

func strategyHeading(strategy entities.Strategy) string {
	return strings.ToUpper(strings.ReplaceAll(string(strategy), "_", " "))
}

func channelLine(channel string) string {
	key := strings.ToLower(strings.TrimSpace(channel))
	instruction, ok := channelInstructions[key]
	if !ok {
		return ""
	}
	return fmt.Sprintf("**Channel:** %s - %s", strings.ToUpper(key), instruction)
}

func paletteHint(guideline *entities.GuidelineContext) string {
	if guideline == nil || strings.TrimSpace(guideline.ColorPalette) == "" {
		return ""
	}
	return fmt.Sprintf(" Use the brand color palette: %s.", guideline.ColorPalette)
}

func appendSection(lines []string, section string) []string {
	if section == "" {
		return lines
	}
	return append(lines, "", section)
}

func orDefault(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func joinNonEmpty(parts []string, sep string) string {
	kept := parts[:0]
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, sep)
}
