package ports

import (
	"context"
	"time"

	"voltic/contexts/creative-generation/insight-service/domain/entities"
)

// CreditLedger is the slice of the credit ledger insights spend through.
type CreditLedger interface {
	CheckAndDeduct(ctx context.Context, workspaceID string, amount int, reason string, referenceID string) error
	Refund(ctx context.Context, workspaceID string, amount int, reason string, referenceID string) error
}

type AdRepository interface {
	GetSavedAd(ctx context.Context, workspaceID string, adID string) (entities.SavedAd, error)
}

// InsightCache stores at most one insight per workspace and library id.
// PutInsight replaces an existing entry for the same key.
type InsightCache interface {
	GetInsight(ctx context.Context, workspaceID string, libraryID string) (entities.Insight, error)
	PutInsight(ctx context.Context, insight entities.Insight) (entities.Insight, error)
	ListByLibraryIDs(ctx context.Context, workspaceID string, libraryIDs []string) ([]entities.Insight, error)
}

type Analyzer interface {
	AnalyzeAd(ctx context.Context, ad entities.SavedAd) (entities.InsightData, error)
	ModelName() string
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type Telemetry interface {
	InsightLookup(result string)
	InsightAnalyzed(outcome string)
}
