package ports

import (
	"context"
	"time"

	"voltic/contexts/creative-generation/variation-service/domain/entities"
)

// CreditLedger is the slice of the credit ledger this context spends
// through. Implementations translate ledger failures into this context's
// ErrInsufficientCredits, ErrWorkspaceNotFound and ErrLedgerUnavailable.
type CreditLedger interface {
	CheckAndDeduct(ctx context.Context, workspaceID string, amount int, reason string, referenceID string) error
	Refund(ctx context.Context, workspaceID string, amount int, reason string, referenceID string) error
}

type VariationRepository interface {
	CreateVariation(ctx context.Context, variation entities.Variation) error
	// CompleteVariation and FailVariation only move pending records and
	// return ErrInvalidStatusTransition otherwise.
	CompleteVariation(ctx context.Context, variationID string, content entities.GeneratedContent, at time.Time) (entities.Variation, error)
	FailVariation(ctx context.Context, variationID string, reason string, at time.Time) (entities.Variation, error)
	GetVariation(ctx context.Context, workspaceID string, variationID string) (entities.Variation, error)
	ListVariations(ctx context.Context, filter entities.VariationFilter) ([]entities.Variation, error)
	DeleteVariation(ctx context.Context, workspaceID string, variationID string) error
}

type SourceAdRepository interface {
	GetSourceAd(ctx context.Context, workspaceID string, adID string) (entities.SourceAd, error)
}

type AssetRepository interface {
	GetAsset(ctx context.Context, workspaceID string, assetID string) (entities.TargetAsset, error)
}

type GuidelineRepository interface {
	GetGuideline(ctx context.Context, workspaceID string, guidelineID string) (entities.GuidelineContext, error)
	GetDefaultGuideline(ctx context.Context, workspaceID string) (entities.GuidelineContext, error)
}

// TextRequest carries everything the copy model sees. Ad is nil for
// asset-sourced variations.
type TextRequest struct {
	Ad        *entities.SourceAd
	Asset     entities.TargetAsset
	Strategy  entities.Strategy
	Guideline *entities.GuidelineContext
	Channel   string
	Options   *entities.CreativeOptions
}

type TextCopy struct {
	Headline string `json:"headline"`
	Body     string `json:"body"`
}

type ImageRequest struct {
	WorkspaceID string
	VariationID string
	Ad          entities.SourceAd
	Asset       entities.TargetAsset
	Strategy    entities.Strategy
	Guideline   *entities.GuidelineContext
	Options     *entities.CreativeOptions
}

// Capabilities are the external generative operations. GenerateImage and
// EditImage return a durable URL for the stored image.
type Capabilities interface {
	GenerateText(ctx context.Context, request TextRequest) (TextCopy, error)
	GenerateImage(ctx context.Context, request ImageRequest) (string, error)
	EditImage(ctx context.Context, request ImageRequest) (string, error)
}

type IdempotencyRecord struct {
	Key             string
	RequestHash     string
	ResponsePayload []byte
	ExpiresAt       time.Time
}

type IdempotencyStore interface {
	GetRecord(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	PutRecord(ctx context.Context, record IdempotencyRecord) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type Telemetry interface {
	UnitFinished(strategy string, status string, elapsed time.Duration)
	BatchRejected(reason string)
}
