package entities

import "time"

type SourceKind string

const (
	SourceCompetitor SourceKind = "competitor"
	SourceAsset      SourceKind = "asset"
)

func (k SourceKind) Valid() bool {
	return k == SourceCompetitor || k == SourceAsset
}

type VariationStatus string

const (
	VariationStatusPending   VariationStatus = "pending"
	VariationStatusCompleted VariationStatus = "completed"
	VariationStatusFailed    VariationStatus = "failed"
)

// Variation is one generated creative. It is created pending and moves
// exactly once to completed or failed.
type Variation struct {
	VariationID       string
	WorkspaceID       string
	SourceKind        SourceKind
	SourceAdID        string
	TargetAssetID     string
	Strategy          Strategy
	CreativeOptions   *CreativeOptions
	Status            VariationStatus
	GeneratedHeadline string
	GeneratedBody     string
	GeneratedImageURL string
	FailureReason     string
	CreditsUsed       int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type GeneratedContent struct {
	Headline string
	Body     string
	ImageURL string
}

// SourceAd is a saved competitor ad used as inspiration.
type SourceAd struct {
	AdID      string
	BrandName string
	Headline  string
	Body      string
	Format    string
	ImageURL  string
}

// TargetAsset is the workspace product the variation is generated for.
type TargetAsset struct {
	AssetID     string
	Name        string
	Description string
	ImageURL    string
}

// GuidelineContext is the brand guidance injected into prompts.
type GuidelineContext struct {
	GuidelineID    string
	BrandName      string
	BrandVoice     string
	ColorPalette   string
	TargetAudience string
	DosAndDonts    string
}

type VariationFilter struct {
	WorkspaceID string
	SourceAdID  string
	Limit       int
}
