package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	application "voltic/contexts/creative-generation/insight-service/application"
	"voltic/contexts/creative-generation/insight-service/domain/entities"
	domainerrors "voltic/contexts/creative-generation/insight-service/domain/errors"
	"voltic/contexts/creative-generation/insight-service/ports"
)

const (
	// LedgerReason is the transaction type of an insight charge.
	LedgerReason = "ad_insight"

	DefaultInsightCost = 2
)

type GenerateInsightCommand struct {
	WorkspaceID string
	AdID        string
}

type GenerateInsightResult struct {
	Insight entities.Insight
	Cached  bool
}

type GenerateInsightUseCase struct {
	Ads       ports.AdRepository
	Cache     ports.InsightCache
	Ledger    ports.CreditLedger
	Analyzer  ports.Analyzer
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Telemetry ports.Telemetry
	Cost      int
	Logger    *slog.Logger
}

// Execute returns a cached analysis when the ad has a library id and one is
// stored. Otherwise it bills one analysis, refunding it if the analysis fails.
func (uc GenerateInsightUseCase) Execute(ctx context.Context, cmd GenerateInsightCommand) (GenerateInsightResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	workspaceID := strings.TrimSpace(cmd.WorkspaceID)
	adID := strings.TrimSpace(cmd.AdID)
	if workspaceID == "" || adID == "" {
		return GenerateInsightResult{}, domainerrors.ErrInvalidRequest
	}

	ad, err := uc.Ads.GetSavedAd(ctx, workspaceID, adID)
	if err != nil {
		return GenerateInsightResult{}, err
	}

	external, cacheable := ad.Identity.(entities.ExternalAdIdentity)
	if cacheable {
		if cached, hit := uc.lookup(ctx, logger, workspaceID, external.LibraryID); hit {
			return GenerateInsightResult{Insight: cached, Cached: true}, nil
		}
	} else {
		uc.lookupResult("skipped")
	}

	insightID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return GenerateInsightResult{}, err
	}
	cost := uc.cost()
	if err := uc.Ledger.CheckAndDeduct(ctx, workspaceID, cost, LedgerReason, adID); err != nil {
		return GenerateInsightResult{}, err
	}

	data, err := uc.Analyzer.AnalyzeAd(ctx, ad)
	if err != nil {
		uc.analyzed("failure")
		logger.Warn("ad analysis failed, refunding",
			"event", "insight_analysis_failed",
			"module", application.ModuleName,
			"layer", "application",
			"workspace_id", workspaceID,
			"ad_id", adID,
			"error", err.Error(),
		)
		if refundErr := uc.Ledger.Refund(context.WithoutCancel(ctx), workspaceID, cost, LedgerReason, adID); refundErr != nil {
			logger.Error("refund failed, credits unreconciled",
				"event", "insight_refund_failed",
				"module", application.ModuleName,
				"layer", "application",
				"workspace_id", workspaceID,
				"ad_id", adID,
				"unreconciled_credits", cost,
				"error", refundErr.Error(),
			)
			return GenerateInsightResult{}, fmt.Errorf("%w: refund of %d credits for %s: %v", domainerrors.ErrLedgerUnavailable, cost, adID, refundErr)
		}
		return GenerateInsightResult{}, fmt.Errorf("%w: %v", domainerrors.ErrAnalysisFailed, err)
	}
	uc.analyzed("success")

	insight := entities.Insight{
		InsightID:   insightID,
		WorkspaceID: workspaceID,
		BrandName:   ad.BrandName,
		Headline:    ad.Headline,
		Body:        ad.Body,
		Format:      ad.Format,
		Data:        data.Normalize(),
		Model:       uc.Analyzer.ModelName(),
		CreditsUsed: cost,
		CreatedAt:   uc.Clock.Now().UTC(),
	}

	if cacheable {
		insight.LibraryID = external.LibraryID
		stored, err := uc.Cache.PutInsight(ctx, insight)
		if err != nil {
			logger.Warn("insight not cached",
				"event", "insight_cache_put_failed",
				"module", application.ModuleName,
				"layer", "application",
				"workspace_id", workspaceID,
				"library_id", external.LibraryID,
				"error", err.Error(),
			)
		} else {
			insight = stored
		}
	}

	logger.Info("ad insight generated",
		"event", "insight_generated",
		"module", application.ModuleName,
		"layer", "application",
		"workspace_id", workspaceID,
		"ad_id", adID,
		"cacheable", cacheable,
		"credits_used", cost,
	)
	return GenerateInsightResult{Insight: insight}, nil
}

// lookup treats cache errors as misses.
func (uc GenerateInsightUseCase) lookup(ctx context.Context, logger *slog.Logger, workspaceID string, libraryID string) (entities.Insight, bool) {
	cached, err := uc.Cache.GetInsight(ctx, workspaceID, libraryID)
	switch {
	case err == nil:
		uc.lookupResult("hit")
		return cached, true
	case errors.Is(err, domainerrors.ErrInsightNotFound):
		uc.lookupResult("miss")
	default:
		uc.lookupResult("error")
		logger.Warn("insight cache lookup failed, analyzing uncached",
			"event", "insight_cache_get_failed",
			"module", application.ModuleName,
			"layer", "application",
			"workspace_id", workspaceID,
			"library_id", libraryID,
			"error", err.Error(),
		)
	}
	return entities.Insight{}, false
}

func (uc GenerateInsightUseCase) cost() int {
	if uc.Cost <= 0 {
		return DefaultInsightCost
	}
	return uc.Cost
}

func (uc GenerateInsightUseCase) lookupResult(result string) {
	if uc.Telemetry != nil {
		uc.Telemetry.InsightLookup(result)
	}
}

func (uc GenerateInsightUseCase) analyzed(outcome string) {
	if uc.Telemetry != nil {
		uc.Telemetry.InsightAnalyzed(outcome)
	}
}
