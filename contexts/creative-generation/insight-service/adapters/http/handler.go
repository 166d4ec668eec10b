package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"voltic/contexts/creative-generation/insight-service/application/commands"
	"voltic/contexts/creative-generation/insight-service/application/queries"
	"voltic/contexts/creative-generation/insight-service/domain/entities"
	httptransport "voltic/contexts/creative-generation/insight-service/transport/http"
)

type Handler struct {
	GenerateInsight commands.GenerateInsightUseCase
	ListInsights    queries.ListInsightsUseCase
	Logger          *slog.Logger
}

// GenerateInsightHandler godoc
// @Summary Analyze a saved ad
// @Description Returns the cached analysis for library ads, otherwise bills and runs a new analysis.
// @Tags insights
// @Accept json
// @Produce json
// @Param X-Workspace-Id header string true "Workspace id"
// @Param request body httptransport.GenerateInsightRequest true "Ad to analyze"
// @Success 200 {object} httptransport.GenerateInsightResponse
// @Failure 402 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 502 {object} httptransport.ErrorResponse
// @Router /v1/insights [post]
func (h Handler) GenerateInsightHandler(
	ctx context.Context,
	workspaceID string,
	req httptransport.GenerateInsightRequest,
) (httptransport.GenerateInsightResponse, error) {
	result, err := h.GenerateInsight.Execute(ctx, commands.GenerateInsightCommand{
		WorkspaceID: workspaceID,
		AdID:        req.AdID,
	})
	if err != nil {
		return httptransport.GenerateInsightResponse{}, err
	}
	return httptransport.GenerateInsightResponse{
		Status: "success",
		Data:   toInsightDTO(result.Insight),
		Cached: result.Cached,
	}, nil
}

// ListInsightsHandler godoc
// @Summary Look up cached insights
// @Tags insights
// @Produce json
// @Param X-Workspace-Id header string true "Workspace id"
// @Param library_id query []string false "External library ids" collectionFormat(multi)
// @Success 200 {object} httptransport.ListInsightsResponse
// @Router /v1/insights [get]
func (h Handler) ListInsightsHandler(ctx context.Context, workspaceID string, libraryIDs []string) (httptransport.ListInsightsResponse, error) {
	items, err := h.ListInsights.Execute(ctx, workspaceID, libraryIDs)
	if err != nil {
		return httptransport.ListInsightsResponse{}, err
	}
	resp := httptransport.ListInsightsResponse{
		Status: "success",
		Data:   make([]httptransport.InsightDTO, 0, len(items)),
	}
	for _, item := range items {
		resp.Data = append(resp.Data, toInsightDTO(item))
	}
	return resp, nil
}

func toInsightDTO(item entities.Insight) httptransport.InsightDTO {
	dto := httptransport.InsightDTO{
		InsightID:   item.InsightID,
		LibraryID:   item.LibraryID,
		BrandName:   item.BrandName,
		Headline:    item.Headline,
		Body:        item.Body,
		Format:      item.Format,
		Model:       item.Model,
		CreditsUsed: item.CreditsUsed,
		CreatedAt:   item.CreatedAt.UTC().Format(time.RFC3339),
	}
	data := item.Data.Normalize()
	dto.Insights.HookType = data.HookType
	dto.Insights.HookExplanation = data.HookExplanation
	dto.Insights.CopyStructure.HeadlineFormula = data.CopyStructure.HeadlineFormula
	dto.Insights.CopyStructure.BodyFramework = data.CopyStructure.BodyFramework
	dto.Insights.CopyStructure.CTAType = data.CopyStructure.CTAType
	dto.Insights.CreativeStrategy = data.CreativeStrategy
	dto.Insights.TargetAudience.Primary = data.TargetAudience.Primary
	dto.Insights.TargetAudience.Interests = data.TargetAudience.Interests
	dto.Insights.TargetAudience.PainPoints = data.TargetAudience.PainPoints
	dto.Insights.Strengths = data.Strengths
	dto.Insights.PerformanceScore = data.PerformanceScore
	dto.Insights.PerformanceRationale = data.PerformanceRationale
	dto.Insights.Improvements = data.Improvements
	return dto
}
