package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "voltic/contexts/creative-generation/variation-service/application"
	"voltic/contexts/creative-generation/variation-service/domain/entities"
	domainerrors "voltic/contexts/creative-generation/variation-service/domain/errors"
	"voltic/contexts/creative-generation/variation-service/ports"
)

const (
	// LedgerReason is the transaction type every variation charge uses.
	LedgerReason = "variation"

	DefaultUnitCost       = 10
	defaultIdempotencyTTL = 24 * time.Hour
)

type GenerateVariationsCommand struct {
	WorkspaceID      string
	SourceKind       entities.SourceKind
	SourceAdID       string
	TargetAssetID    string
	Strategies       []string
	Channel          string
	CreativeOptions  *entities.CreativeOptions
	BrandGuidelineID string
	IdempotencyKey   string
}

type GenerateVariationsResult struct {
	Batch    entities.BatchResult
	Replayed bool
}

type GenerateVariationsUseCase struct {
	Ledger         ports.CreditLedger
	Variations     ports.VariationRepository
	SourceAds      ports.SourceAdRepository
	Assets         ports.AssetRepository
	Guidelines     ports.GuidelineRepository
	Capabilities   ports.Capabilities
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	Telemetry      ports.Telemetry
	UnitCost       int
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

// batchPlan is a validated command.
type batchPlan struct {
	workspaceID   string
	sourceKind    entities.SourceKind
	sourceAdID    string
	targetAssetID string
	strategies    []entities.Strategy
	channel       string
	options       *entities.CreativeOptions
	guidelineID   string
}

// batchInputs are the records resolved after the charge succeeded.
type batchInputs struct {
	ad        *entities.SourceAd
	asset     entities.TargetAsset
	guideline *entities.GuidelineContext
}

// Execute charges unitCost for every requested strategy up front, then runs
// each strategy in order. A unit that fails is marked failed and refunded on
// its own; the others are unaffected.
func (uc GenerateVariationsUseCase) Execute(ctx context.Context, cmd GenerateVariationsCommand) (GenerateVariationsResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	plan, err := planBatch(cmd)
	if err != nil {
		uc.batchRejected("invalid_request")
		return GenerateVariationsResult{}, err
	}

	unitCost := uc.unitCost()
	now := uc.Clock.Now().UTC()
	idempotencyKey := scopedIdempotencyKey(plan.workspaceID, cmd.IdempotencyKey)
	requestHash := hashPlan(plan, unitCost)
	if idempotencyKey != "" && uc.Idempotency != nil {
		record, found, err := uc.Idempotency.GetRecord(ctx, idempotencyKey, now)
		if err != nil {
			return GenerateVariationsResult{}, err
		}
		if found {
			if record.RequestHash != requestHash {
				return GenerateVariationsResult{}, domainerrors.ErrIdempotencyConflict
			}
			var replay entities.BatchResult
			if err := json.Unmarshal(record.ResponsePayload, &replay); err != nil {
				return GenerateVariationsResult{}, err
			}
			logger.Info("variation batch replayed",
				"event", "variation_batch_replayed",
				"module", application.ModuleName,
				"layer", "application",
				"workspace_id", plan.workspaceID,
				"batch_id", replay.BatchID,
			)
			return GenerateVariationsResult{Batch: replay, Replayed: true}, nil
		}
	}

	batchID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return GenerateVariationsResult{}, err
	}
	totalCost := unitCost * len(plan.strategies)
	if err := uc.Ledger.CheckAndDeduct(ctx, plan.workspaceID, totalCost, LedgerReason, batchID); err != nil {
		if errors.Is(err, domainerrors.ErrInsufficientCredits) {
			uc.batchRejected("insufficient_credits")
		} else {
			uc.batchRejected("ledger_error")
		}
		logger.Warn("variation batch not admitted",
			"event", "variation_batch_rejected",
			"module", application.ModuleName,
			"layer", "application",
			"workspace_id", plan.workspaceID,
			"requested", len(plan.strategies),
			"total_cost", totalCost,
			"error", err.Error(),
		)
		return GenerateVariationsResult{}, err
	}

	inputs, err := uc.resolveInputs(ctx, plan)
	if err != nil {
		uc.batchRejected("unresolved_input")
		if refundErr := uc.refund(ctx, plan.workspaceID, totalCost, batchID); refundErr != nil {
			return GenerateVariationsResult{}, uc.unreconciled(logger, plan.workspaceID, batchID, totalCost, refundErr)
		}
		return GenerateVariationsResult{}, err
	}

	batch := entities.BatchResult{
		BatchID:  batchID,
		UnitCost: unitCost,
		Results:  make([]entities.UnitResult, 0, len(plan.strategies)),
	}
	// A started batch runs every unit even if the caller goes away or the
	// ledger rejects a refund.
	ctx = context.WithoutCancel(ctx)
	var refundErr error
	for _, strategy := range plan.strategies {
		result, err := uc.runUnit(ctx, logger, plan, inputs, batchID, strategy, unitCost)
		batch.Results = append(batch.Results, result)
		if err != nil {
			batch.CreditsUnreconciled += unitCost
			if refundErr == nil {
				refundErr = err
			}
		}
	}
	batch.CreditsCharged = unitCost * batch.Succeeded()
	if batch.CreditsUnreconciled > 0 {
		logger.Error("variation batch finished with unreconciled credits",
			"event", "variation_batch_unreconciled",
			"module", application.ModuleName,
			"layer", "application",
			"workspace_id", plan.workspaceID,
			"batch_id", batchID,
			"summary", batch.Summary(),
			"unreconciled_credits", batch.CreditsUnreconciled,
		)
		return GenerateVariationsResult{Batch: batch}, fmt.Errorf(
			"%w: %d credits unreconciled in batch %s: %v",
			domainerrors.ErrLedgerUnavailable, batch.CreditsUnreconciled, batchID, refundErr,
		)
	}

	if idempotencyKey != "" && uc.Idempotency != nil {
		payload, err := json.Marshal(batch)
		if err == nil {
			err = uc.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
				Key:             idempotencyKey,
				RequestHash:     requestHash,
				ResponsePayload: payload,
				ExpiresAt:       now.Add(uc.idempotencyTTL()),
			})
		}
		if err != nil {
			logger.Warn("variation batch idempotency record not stored",
				"event", "variation_batch_idempotency_failed",
				"module", application.ModuleName,
				"layer", "application",
				"batch_id", batchID,
				"error", err.Error(),
			)
		}
	}

	logger.Info("variation batch finished",
		"event", "variation_batch_finished",
		"module", application.ModuleName,
		"layer", "application",
		"workspace_id", plan.workspaceID,
		"batch_id", batchID,
		"summary", batch.Summary(),
		"credits_charged", batch.CreditsCharged,
	)
	return GenerateVariationsResult{Batch: batch}, nil
}

// runUnit produces one variation. The returned error is non-nil only when the
// unit failed and its refund could not be recorded.
func (uc GenerateVariationsUseCase) runUnit(
	ctx context.Context,
	logger *slog.Logger,
	plan batchPlan,
	inputs batchInputs,
	batchID string,
	strategy entities.Strategy,
	unitCost int,
) (entities.UnitResult, error) {
	started := time.Now()
	result := entities.UnitResult{Strategy: strategy}

	variationID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		result.Error = err.Error()
		return result, uc.refundUnit(ctx, logger, plan.workspaceID, batchID, strategy, unitCost, started)
	}
	now := uc.Clock.Now().UTC()
	variation := entities.Variation{
		VariationID:     variationID,
		WorkspaceID:     plan.workspaceID,
		SourceKind:      plan.sourceKind,
		SourceAdID:      plan.sourceAdID,
		TargetAssetID:   plan.targetAssetID,
		Strategy:        strategy,
		CreativeOptions: plan.options,
		Status:          entities.VariationStatusPending,
		CreditsUsed:     unitCost,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.Variations.CreateVariation(ctx, variation); err != nil {
		result.Error = err.Error()
		return result, uc.refundUnit(ctx, logger, plan.workspaceID, batchID, strategy, unitCost, started)
	}
	result.VariationID = variationID

	content, err := uc.generate(ctx, plan, inputs, variationID, strategy)
	if err == nil {
		_, err = uc.Variations.CompleteVariation(ctx, variationID, content, uc.Clock.Now().UTC())
	}
	if err != nil {
		result.Error = err.Error()
		if _, failErr := uc.Variations.FailVariation(ctx, variationID, err.Error(), uc.Clock.Now().UTC()); failErr != nil {
			logger.Error("variation could not be marked failed",
				"event", "variation_fail_transition_failed",
				"module", application.ModuleName,
				"layer", "application",
				"variation_id", variationID,
				"error", failErr.Error(),
			)
		}
		logger.Warn("variation unit failed",
			"event", "variation_unit_failed",
			"module", application.ModuleName,
			"layer", "application",
			"workspace_id", plan.workspaceID,
			"variation_id", variationID,
			"strategy", string(strategy),
			"error", err.Error(),
		)
		return result, uc.refundUnit(ctx, logger, plan.workspaceID, variationID, strategy, unitCost, started)
	}

	result.Success = true
	uc.unitFinished(strategy, entities.VariationStatusCompleted, started)
	return result, nil
}

func (uc GenerateVariationsUseCase) generate(
	ctx context.Context,
	plan batchPlan,
	inputs batchInputs,
	variationID string,
	strategy entities.Strategy,
) (entities.GeneratedContent, error) {
	text, err := uc.Capabilities.GenerateText(ctx, ports.TextRequest{
		Ad:        inputs.ad,
		Asset:     inputs.asset,
		Strategy:  strategy,
		Guideline: inputs.guideline,
		Channel:   plan.channel,
		Options:   plan.options,
	})
	if err != nil {
		return entities.GeneratedContent{}, fmt.Errorf("generate text: %w", err)
	}
	content := entities.GeneratedContent{Headline: text.Headline, Body: text.Body}
	if !strategy.ProducesImage() {
		return content, nil
	}

	request := ports.ImageRequest{
		WorkspaceID: plan.workspaceID,
		VariationID: variationID,
		Asset:       inputs.asset,
		Strategy:    strategy,
		Guideline:   inputs.guideline,
		Options:     plan.options,
	}
	if plan.sourceKind == entities.SourceAsset {
		content.ImageURL, err = uc.Capabilities.EditImage(ctx, request)
		if err != nil {
			return entities.GeneratedContent{}, fmt.Errorf("edit image: %w", err)
		}
		return content, nil
	}
	request.Ad = *inputs.ad
	content.ImageURL, err = uc.Capabilities.GenerateImage(ctx, request)
	if err != nil {
		return entities.GeneratedContent{}, fmt.Errorf("generate image: %w", err)
	}
	return content, nil
}

func (uc GenerateVariationsUseCase) resolveInputs(ctx context.Context, plan batchPlan) (batchInputs, error) {
	logger := application.ResolveLogger(uc.Logger)
	var inputs batchInputs
	if plan.sourceKind == entities.SourceCompetitor {
		ad, err := uc.SourceAds.GetSourceAd(ctx, plan.workspaceID, plan.sourceAdID)
		if err != nil {
			return batchInputs{}, err
		}
		inputs.ad = &ad
	}
	asset, err := uc.Assets.GetAsset(ctx, plan.workspaceID, plan.targetAssetID)
	if err != nil {
		return batchInputs{}, err
	}
	inputs.asset = asset

	if uc.Guidelines == nil {
		return inputs, nil
	}
	var guideline entities.GuidelineContext
	if plan.guidelineID != "" {
		guideline, err = uc.Guidelines.GetGuideline(ctx, plan.workspaceID, plan.guidelineID)
	} else {
		guideline, err = uc.Guidelines.GetDefaultGuideline(ctx, plan.workspaceID)
	}
	switch {
	case err == nil:
		inputs.guideline = &guideline
	case errors.Is(err, domainerrors.ErrGuidelineNotFound) && plan.guidelineID == "":
	default:
		logger.Warn("brand guideline unavailable, generating without it",
			"event", "variation_guideline_skipped",
			"module", application.ModuleName,
			"layer", "application",
			"workspace_id", plan.workspaceID,
			"guideline_id", plan.guidelineID,
			"error", err.Error(),
		)
	}
	return inputs, nil
}

func (uc GenerateVariationsUseCase) refundUnit(
	ctx context.Context,
	logger *slog.Logger,
	workspaceID string,
	referenceID string,
	strategy entities.Strategy,
	unitCost int,
	started time.Time,
) error {
	uc.unitFinished(strategy, entities.VariationStatusFailed, started)
	if err := uc.refund(ctx, workspaceID, unitCost, referenceID); err != nil {
		return uc.unreconciled(logger, workspaceID, referenceID, unitCost, err)
	}
	return nil
}

func (uc GenerateVariationsUseCase) refund(ctx context.Context, workspaceID string, amount int, referenceID string) error {
	return uc.Ledger.Refund(context.WithoutCancel(ctx), workspaceID, amount, LedgerReason, referenceID)
}

func (uc GenerateVariationsUseCase) unreconciled(logger *slog.Logger, workspaceID string, referenceID string, amount int, err error) error {
	logger.Error("refund failed, credits unreconciled",
		"event", "variation_refund_failed",
		"module", application.ModuleName,
		"layer", "application",
		"workspace_id", workspaceID,
		"reference_id", referenceID,
		"unreconciled_credits", amount,
		"error", err.Error(),
	)
	return fmt.Errorf("%w: refund of %d credits for %s: %v", domainerrors.ErrLedgerUnavailable, amount, referenceID, err)
}

func (uc GenerateVariationsUseCase) unitCost() int {
	if uc.UnitCost <= 0 {
		return DefaultUnitCost
	}
	return uc.UnitCost
}

func (uc GenerateVariationsUseCase) idempotencyTTL() time.Duration {
	if uc.IdempotencyTTL <= 0 {
		return defaultIdempotencyTTL
	}
	return uc.IdempotencyTTL
}

func (uc GenerateVariationsUseCase) unitFinished(strategy entities.Strategy, status entities.VariationStatus, started time.Time) {
	if uc.Telemetry == nil {
		return
	}
	uc.Telemetry.UnitFinished(string(strategy), string(status), time.Since(started))
}

func (uc GenerateVariationsUseCase) batchRejected(reason string) {
	if uc.Telemetry == nil {
		return
	}
	uc.Telemetry.BatchRejected(reason)
}

func planBatch(cmd GenerateVariationsCommand) (batchPlan, error) {
	plan := batchPlan{
		workspaceID:   strings.TrimSpace(cmd.WorkspaceID),
		sourceKind:    cmd.SourceKind,
		sourceAdID:    strings.TrimSpace(cmd.SourceAdID),
		targetAssetID: strings.TrimSpace(cmd.TargetAssetID),
		channel:       strings.ToLower(strings.TrimSpace(cmd.Channel)),
		guidelineID:   strings.TrimSpace(cmd.BrandGuidelineID),
	}
	if plan.sourceKind == "" {
		plan.sourceKind = entities.SourceCompetitor
	}
	if plan.workspaceID == "" || plan.targetAssetID == "" || !plan.sourceKind.Valid() {
		return batchPlan{}, domainerrors.ErrInvalidRequest
	}
	switch plan.sourceKind {
	case entities.SourceCompetitor:
		if plan.sourceAdID == "" {
			return batchPlan{}, domainerrors.ErrSourceAdRequired
		}
	case entities.SourceAsset:
		plan.sourceAdID = ""
	}

	if len(cmd.Strategies) == 0 || len(cmd.Strategies) > entities.MaxStrategiesPerBatch {
		return batchPlan{}, domainerrors.ErrInvalidStrategy
	}
	seen := make(map[entities.Strategy]struct{}, len(cmd.Strategies))
	plan.strategies = make([]entities.Strategy, 0, len(cmd.Strategies))
	for _, raw := range cmd.Strategies {
		strategy, ok := entities.ParseStrategy(raw)
		if !ok {
			return batchPlan{}, domainerrors.ErrInvalidStrategy
		}
		if _, dup := seen[strategy]; dup {
			return batchPlan{}, domainerrors.ErrDuplicateStrategy
		}
		seen[strategy] = struct{}{}
		plan.strategies = append(plan.strategies, strategy)
	}

	if cmd.CreativeOptions != nil && !cmd.CreativeOptions.IsZero() {
		if !cmd.CreativeOptions.Valid() {
			return batchPlan{}, domainerrors.ErrInvalidCreativeOptions
		}
		options := *cmd.CreativeOptions
		options.CustomInstruction = strings.TrimSpace(options.CustomInstruction)
		plan.options = &options
	}
	return plan, nil
}

func scopedIdempotencyKey(workspaceID string, key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	return workspaceID + ":" + key
}

func hashPlan(plan batchPlan, unitCost int) string {
	raw, _ := json.Marshal(map[string]any{
		"workspace_id":    plan.workspaceID,
		"source_kind":     plan.sourceKind,
		"source_ad_id":    plan.sourceAdID,
		"target_asset_id": plan.targetAssetID,
		"strategies":      plan.strategies,
		"channel":         plan.channel,
		"options":         plan.options,
		"guideline_id":    plan.guidelineID,
		"unit_cost":       unitCost,
	})
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
