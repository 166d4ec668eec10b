package entities

import "strings"

type ProductAngle string

type LightingStyle string

type BackgroundStyle string

type AspectRatio string

var productAngleLabels = map[ProductAngle]string{
	"front":         "Front View",
	"side":          "Side View",
	"top":           "Top Down",
	"back":          "Back View",
	"three_quarter": "3/4 View",
	"close_up":      "Close Up",
	"flat_lay":      "Flat Lay",
}

var lightingStyleLabels = map[LightingStyle]string{
	"natural":       "Natural Light",
	"studio":        "Studio Lighting",
	"dramatic":      "Dramatic",
	"backlit":       "Backlit",
	"golden_hour":   "Golden Hour",
	"neon":          "Neon Glow",
	"soft_diffused": "Soft & Diffused",
}

var backgroundStyleLabels = map[BackgroundStyle]string{
	"solid_white":     "Solid White",
	"solid_black":     "Solid Black",
	"solid_color":     "Solid Color",
	"gradient":        "Gradient",
	"lifestyle_scene": "Lifestyle Scene",
	"studio":          "Studio",
	"outdoor":         "Outdoor",
	"minimal":         "Minimal",
	"abstract":        "Abstract",
}

var aspectRatioLabels = map[AspectRatio]string{
	"1:1":  "Square (1:1)",
	"9:16": "Portrait (9:16)",
	"16:9": "Landscape (16:9)",
	"4:5":  "Portrait (4:5)",
	"3:4":  "Portrait (3:4)",
	"4:3":  "Landscape (4:3)",
	"5:4":  "Landscape (5:4)",
}

func (a ProductAngle) Label() string    { return productAngleLabels[a] }
func (l LightingStyle) Label() string   { return lightingStyleLabels[l] }
func (b BackgroundStyle) Label() string { return backgroundStyleLabels[b] }
func (r AspectRatio) Label() string     { return aspectRatioLabels[r] }

// CreativeOptions steers image editing for asset-sourced variations. Every
// field is optional.
type CreativeOptions struct {
	Angle             ProductAngle    `json:"angle,omitempty"`
	Lighting          LightingStyle   `json:"lighting,omitempty"`
	Background        BackgroundStyle `json:"background,omitempty"`
	CustomInstruction string          `json:"custom_instruction,omitempty"`
	AspectRatio       AspectRatio     `json:"aspect_ratio,omitempty"`
}

func (o CreativeOptions) IsZero() bool {
	return o.Angle == "" &&
		o.Lighting == "" &&
		o.Background == "" &&
		strings.TrimSpace(o.CustomInstruction) == "" &&
		o.AspectRatio == ""
}

func (o CreativeOptions) Valid() bool {
	if o.Angle != "" && o.Angle.Label() == "" {
		return false
	}
	if o.Lighting != "" && o.Lighting.Label() == "" {
		return false
	}
	if o.Background != "" && o.Background.Label() == "" {
		return false
	}
	if o.AspectRatio != "" && o.AspectRatio.Label() == "" {
		return false
	}
	return len(o.CustomInstruction) <= 500
}
