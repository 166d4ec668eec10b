package entities

import "time"

// SavedAd is the ad being analyzed.
type SavedAd struct {
	AdID           string
	WorkspaceID    string
	Identity       AdIdentity
	BrandName      string
	Headline       string
	Body           string
	Format         string
	Platforms      []string
	LandingPageURL string
	RuntimeDays    int
	IsActive       bool
}

type CopyStructure struct {
	HeadlineFormula string `json:"headlineFormula"`
	BodyFramework   string `json:"bodyFramework"`
	CTAType         string `json:"ctaType"`
}

type TargetAudience struct {
	Primary    string   `json:"primary"`
	Interests  []string `json:"interests"`
	PainPoints []string `json:"painPoints"`
}

// InsightData is the structured analysis of one ad.
type InsightData struct {
	HookType             string         `json:"hookType"`
	HookExplanation      string         `json:"hookExplanation"`
	CopyStructure        CopyStructure  `json:"copyStructure"`
	CreativeStrategy     string         `json:"creativeStrategy"`
	TargetAudience       TargetAudience `json:"targetAudience"`
	Strengths            []string       `json:"strengths"`
	PerformanceScore     float64        `json:"performanceScore"`
	PerformanceRationale string         `json:"performanceRationale"`
	Improvements         []string       `json:"improvements"`
}

// Normalize clamps the score to 1..10 and replaces nil lists.
func (d InsightData) Normalize() InsightData {
	switch {
	case d.PerformanceScore < 1:
		d.PerformanceScore = 1
	case d.PerformanceScore > 10:
		d.PerformanceScore = 10
	}
	d.Strengths = orEmpty(d.Strengths)
	d.Improvements = orEmpty(d.Improvements)
	d.TargetAudience.Interests = orEmpty(d.TargetAudience.Interests)
	d.TargetAudience.PainPoints = orEmpty(d.TargetAudience.PainPoints)
	return d
}

// Empty reports a response that carries no analysis.
func (d InsightData) Empty() bool {
	return d.HookType == "" && d.CreativeStrategy == "" && len(d.Strengths) == 0 && d.PerformanceScore == 0
}

// Insight is a cached analysis keyed by workspace and library id.
type Insight struct {
	InsightID   string
	WorkspaceID string
	LibraryID   string
	BrandName   string
	Headline    string
	Body        string
	Format      string
	Data        InsightData
	Model       string
	CreditsUsed int
	CreatedAt   time.Time
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
