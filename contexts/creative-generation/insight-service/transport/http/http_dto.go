package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type GenerateInsightRequest struct {
	AdID string `json:"ad_id"`
}

type InsightDTO struct {
	InsightID   string         `json:"insight_id"`
	LibraryID   string         `json:"library_id,omitempty"`
	BrandName   string         `json:"brand_name,omitempty"`
	Headline    string         `json:"headline,omitempty"`
	Body        string         `json:"body,omitempty"`
	Format      string         `json:"format,omitempty"`
	Insights    InsightDataDTO `json:"insights"`
	Model       string         `json:"model"`
	CreditsUsed int            `json:"credits_used"`
	CreatedAt   string         `json:"created_at"`
}

type InsightDataDTO struct {
	HookType        string `json:"hookType"`
	HookExplanation string `json:"hookExplanation"`
	CopyStructure   struct {
		HeadlineFormula string `json:"headlineFormula"`
		BodyFramework   string `json:"bodyFramework"`
		CTAType         string `json:"ctaType"`
	} `json:"copyStructure"`
	CreativeStrategy string `json:"creativeStrategy"`
	TargetAudience   struct {
		Primary    string   `json:"primary"`
		Interests  []string `json:"interests"`
		PainPoints []string `json:"painPoints"`
	} `json:"targetAudience"`
	Strengths            []string `json:"strengths"`
	PerformanceScore     float64  `json:"performanceScore"`
	PerformanceRationale string   `json:"performanceRationale"`
	Improvements         []string `json:"improvements"`
}

type GenerateInsightResponse struct {
	Status string     `json:"status"`
	Data   InsightDTO `json:"data"`
	Cached bool       `json:"cached"`
}

type ListInsightsResponse struct {
	Status string       `json:"status"`
	Data   []InsightDTO `json:"data"`
}
