package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"voltic/contexts/creative-generation/variation-service/application/commands"
	"voltic/contexts/creative-generation/variation-service/application/queries"
	"voltic/contexts/creative-generation/variation-service/domain/entities"
	httptransport "voltic/contexts/creative-generation/variation-service/transport/http"
)

type Handler struct {
	GenerateVariations commands.GenerateVariationsUseCase
	DeleteVariation    commands.DeleteVariationUseCase
	GetVariation       queries.GetVariationUseCase
	ListVariations     queries.ListVariationsUseCase
	Logger             *slog.Logger
}

// GenerateVariationsHandler godoc
// @Summary Generate a variation batch
// @Description Charges one unit per strategy up front and refunds every unit that fails.
// @Tags variations
// @Accept json
// @Produce json
// @Param X-Workspace-Id header string true "Workspace id"
// @Param Idempotency-Key header string false "Replays the stored batch for a repeated request"
// @Param request body httptransport.GenerateVariationsRequest true "Batch request"
// @Success 200 {object} httptransport.GenerateVariationsResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 402 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 503 {object} httptransport.ErrorResponse
// @Router /v1/variations/batches [post]
func (h Handler) GenerateVariationsHandler(
	ctx context.Context,
	workspaceID string,
	idempotencyKey string,
	req httptransport.GenerateVariationsRequest,
) (httptransport.GenerateVariationsResponse, error) {
	result, err := h.GenerateVariations.Execute(ctx, commands.GenerateVariationsCommand{
		WorkspaceID:      workspaceID,
		SourceKind:       entities.SourceKind(req.Source),
		SourceAdID:       req.SavedAdID,
		TargetAssetID:    req.AssetID,
		Strategies:       req.Strategies,
		Channel:          req.Channel,
		CreativeOptions:  creativeOptionsFromDTO(req.CreativeOptions),
		BrandGuidelineID: req.BrandGuidelineID,
		IdempotencyKey:   idempotencyKey,
	})
	if err != nil {
		return httptransport.GenerateVariationsResponse{}, err
	}

	resp := httptransport.GenerateVariationsResponse{Status: "success"}
	resp.Data.BatchID = result.Batch.BatchID
	resp.Data.Summary = result.Batch.Summary()
	resp.Data.UnitCost = result.Batch.UnitCost
	resp.Data.CreditsCharged = result.Batch.CreditsCharged
	resp.Data.Replayed = result.Replayed
	resp.Data.Results = make([]httptransport.UnitResultDTO, 0, len(result.Batch.Results))
	for _, item := range result.Batch.Results {
		resp.Data.Results = append(resp.Data.Results, httptransport.UnitResultDTO{
			Strategy:    string(item.Strategy),
			Success:     item.Success,
			VariationID: item.VariationID,
			Error:       item.Error,
		})
	}
	return resp, nil
}

// ListVariationsHandler godoc
// @Summary List variations
// @Tags variations
// @Produce json
// @Param X-Workspace-Id header string true "Workspace id"
// @Param saved_ad_id query string false "Only variations of this saved ad"
// @Param limit query int false "Maximum results, default 50"
// @Success 200 {object} httptransport.ListVariationsResponse
// @Router /v1/variations [get]
func (h Handler) ListVariationsHandler(
	ctx context.Context,
	workspaceID string,
	req httptransport.ListVariationsRequest,
) (httptransport.ListVariationsResponse, error) {
	items, err := h.ListVariations.Execute(ctx, queries.ListVariationsQuery{
		WorkspaceID: workspaceID,
		SourceAdID:  req.SavedAdID,
		Limit:       req.Limit,
	})
	if err != nil {
		return httptransport.ListVariationsResponse{}, err
	}
	resp := httptransport.ListVariationsResponse{
		Status: "success",
		Data:   make([]httptransport.VariationDTO, 0, len(items)),
	}
	for _, item := range items {
		resp.Data = append(resp.Data, toVariationDTO(item))
	}
	return resp, nil
}

// GetVariationHandler godoc
// @Summary Get a variation
// @Tags variations
// @Produce json
// @Param X-Workspace-Id header string true "Workspace id"
// @Param variation_id path string true "Variation id"
// @Success 200 {object} httptransport.GetVariationResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/variations/{variation_id} [get]
func (h Handler) GetVariationHandler(ctx context.Context, workspaceID string, variationID string) (httptransport.GetVariationResponse, error) {
	item, err := h.GetVariation.Execute(ctx, workspaceID, variationID)
	if err != nil {
		return httptransport.GetVariationResponse{}, err
	}
	return httptransport.GetVariationResponse{Status: "success", Data: toVariationDTO(item)}, nil
}

// DeleteVariationHandler godoc
// @Summary Delete a variation
// @Description Spent credits are not returned.
// @Tags variations
// @Produce json
// @Param X-Workspace-Id header string true "Workspace id"
// @Param variation_id path string true "Variation id"
// @Success 200 {object} httptransport.DeleteVariationResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/variations/{variation_id} [delete]
func (h Handler) DeleteVariationHandler(ctx context.Context, workspaceID string, variationID string) (httptransport.DeleteVariationResponse, error) {
	if err := h.DeleteVariation.Execute(ctx, commands.DeleteVariationCommand{
		WorkspaceID: workspaceID,
		VariationID: variationID,
	}); err != nil {
		return httptransport.DeleteVariationResponse{}, err
	}
	resp := httptransport.DeleteVariationResponse{Status: "success"}
	resp.Data.VariationID = variationID
	resp.Data.Deleted = true
	return resp, nil
}

func creativeOptionsFromDTO(dto *httptransport.CreativeOptionsDTO) *entities.CreativeOptions {
	if dto == nil {
		return nil
	}
	return &entities.CreativeOptions{
		Angle:             entities.ProductAngle(dto.Angle),
		Lighting:          entities.LightingStyle(dto.Lighting),
		Background:        entities.BackgroundStyle(dto.Background),
		CustomInstruction: dto.CustomInstruction,
		AspectRatio:       entities.AspectRatio(dto.AspectRatio),
	}
}

func toVariationDTO(item entities.Variation) httptransport.VariationDTO {
	dto := httptransport.VariationDTO{
		VariationID:       item.VariationID,
		Source:            string(item.SourceKind),
		SavedAdID:         item.SourceAdID,
		AssetID:           item.TargetAssetID,
		Strategy:          string(item.Strategy),
		StrategyLabel:     item.Strategy.Label(),
		Status:            string(item.Status),
		GeneratedHeadline: item.GeneratedHeadline,
		GeneratedBody:     item.GeneratedBody,
		GeneratedImageURL: item.GeneratedImageURL,
		FailureReason:     item.FailureReason,
		CreditsUsed:       item.CreditsUsed,
		CreatedAt:         item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         item.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if item.CreativeOptions != nil {
		dto.CreativeOptions = &httptransport.CreativeOptionsDTO{
			Angle:             string(item.CreativeOptions.Angle),
			Lighting:          string(item.CreativeOptions.Lighting),
			Background:        string(item.CreativeOptions.Background),
			CustomInstruction: item.CreativeOptions.CustomInstruction,
			AspectRatio:       string(item.CreativeOptions.AspectRatio),
		}
	}
	return dto
}
