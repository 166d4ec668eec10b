package services

import (
	"fmt"
	"strings"

	"voltic/contexts/creative-generation/insight-service/domain/entities"
)

// SystemPrompt fixes the JSON schema of InsightData.
const SystemPrompt = `You are an expert digital advertising strategist specializing in Meta (Facebook/Instagram) ads analysis. You analyze competitor ads and provide actionable insights for marketers.

Respond ONLY with valid JSON matching this exact schema:
{
  "hookType": string,
  "hookExplanation": string,
  "copyStructure": {
    "headlineFormula": string,
    "bodyFramework": string,
    "ctaType": string
  },
  "creativeStrategy": string,
  "targetAudience": {
    "primary": string,
    "interests": [string],
    "painPoints": [string]
  },
  "strengths": [string],
  "performanceScore": number,
  "performanceRationale": string,
  "improvements": [string]
}

Field guidelines:
- hookType: e.g. "Question Hook", "Bold Claim", "Social Proof", "FOMO", "Curiosity Gap", "Before/After", "Storytelling"
- hookExplanation: 1-2 sentences explaining how the hook grabs attention
- copyStructure.headlineFormula: e.g. "Benefit + Urgency", "Problem-Solution", "Social Proof + CTA"
- copyStructure.bodyFramework: e.g. "AIDA", "PAS", "BAB", "FAB", "4Ps", "Feature-Benefit"
- copyStructure.ctaType: e.g. "Direct CTA", "Soft CTA", "Urgency CTA", "Value-First CTA"
- creativeStrategy: Primary persuasion technique, e.g. "Scarcity", "Authority", "Social Proof", "Reciprocity", "Emotional Appeal"
- targetAudience.primary: Specific demographic description, e.g. "Health-conscious millennials aged 25-34"
- targetAudience.interests: 3-5 inferred interest categories
- targetAudience.painPoints: 2-3 pain points the ad addresses
- strengths: 3-5 specific things that make this ad effective
- performanceScore: 1-10 estimated effectiveness score
- performanceRationale: Brief explanation of the score
- improvements: 3-5 specific, actionable improvement suggestions`

// AnalysisPrompt describes ad to the analysis model.
func AnalysisPrompt(ad entities.SavedAd) string {
	parts := []string{
		"Analyze this Meta ad and provide detailed marketing insights:",
		"",
		"**Brand:** " + orDefault(ad.BrandName, "Unknown"),
		"**Headline:** " + orDefault(ad.Headline, "(none)"),
		"**Body Copy:** " + orDefault(ad.Body, "(none)"),
		"**Format:** " + orDefault(ad.Format, "image"),
		"**Platforms:** " + strings.Join(ad.Platforms, ", "),
	}
	if ad.LandingPageURL != "" {
		parts = append(parts, "**Landing Page URL:** "+ad.LandingPageURL)
	}
	if ad.RuntimeDays > 0 {
		parts = append(parts, fmt.Sprintf("**Running for:** %d days (longer runtime suggests good performance)", ad.RuntimeDays))
	}
	if ad.IsActive {
		parts = append(parts, "**Status:** Currently active (still running)")
	}
	parts = append(parts, "", "Provide your analysis as JSON.")
	return strings.Join(parts, "\n")
}

func orDefault(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
