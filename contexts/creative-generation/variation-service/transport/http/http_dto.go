package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreativeOptionsDTO struct {
	Angle             string `json:"angle,omitempty"`
	Lighting          string `json:"lighting,omitempty"`
	Background        string `json:"background,omitempty"`
	CustomInstruction string `json:"custom_instruction,omitempty"`
	AspectRatio       string `json:"aspect_ratio,omitempty"`
}

type GenerateVariationsRequest struct {
	Source           string              `json:"source"`
	SavedAdID        string              `json:"saved_ad_id,omitempty"`
	AssetID          string              `json:"asset_id"`
	Strategies       []string            `json:"strategies"`
	Channel          string              `json:"channel,omitempty"`
	CreativeOptions  *CreativeOptionsDTO `json:"creative_options,omitempty"`
	BrandGuidelineID string              `json:"brand_guideline_id,omitempty"`
}

type UnitResultDTO struct {
	Strategy    string `json:"strategy"`
	Success     bool   `json:"success"`
	VariationID string `json:"variation_id,omitempty"`
	Error       string `json:"error,omitempty"`
}

type GenerateVariationsResponse struct {
	Status string `json:"status"`
	Data   struct {
		BatchID        string          `json:"batch_id"`
		Results        []UnitResultDTO `json:"results"`
		Summary        string          `json:"summary"`
		UnitCost       int             `json:"unit_cost"`
		CreditsCharged int             `json:"credits_charged"`
		Replayed       bool            `json:"replayed"`
	} `json:"data"`
}

type VariationDTO struct {
	VariationID       string              `json:"variation_id"`
	Source            string              `json:"source"`
	SavedAdID         string              `json:"saved_ad_id,omitempty"`
	AssetID           string              `json:"asset_id"`
	Strategy          string              `json:"strategy"`
	StrategyLabel     string              `json:"strategy_label"`
	CreativeOptions   *CreativeOptionsDTO `json:"creative_options,omitempty"`
	Status            string              `json:"status"`
	GeneratedHeadline string              `json:"generated_headline,omitempty"`
	GeneratedBody     string              `json:"generated_body,omitempty"`
	GeneratedImageURL string              `json:"generated_image_url,omitempty"`
	FailureReason     string              `json:"failure_reason,omitempty"`
	CreditsUsed       int                 `json:"credits_used"`
	CreatedAt         string              `json:"created_at"`
	UpdatedAt         string              `json:"updated_at"`
}

type ListVariationsRequest struct {
	SavedAdID string
	Limit     int
}

type ListVariationsResponse struct {
	Status string         `json:"status"`
	Data   []VariationDTO `json:"data"`
}

type GetVariationResponse struct {
	Status string       `json:"status"`
	Data   VariationDTO `json:"data"`
}

type DeleteVariationResponse struct {
	Status string `json:"status"`
	Data   struct {
		VariationID string `json:"variation_id"`
		Deleted     bool   `json:"deleted"`
	} `json:"data"`
}
