package genaiadapter

import (
	"context"

	"voltic/contexts/creative-generation/insight-service/domain/entities"
	"voltic/contexts/creative-generation/insight-service/domain/services"
	"voltic/contexts/creative-generation/insight-service/ports"
	"voltic/integrations/gemini"
)

type Model interface {
	GenerateJSON(ctx context.Context, systemPrompt string, prompt string, out any) error
	TextModel() string
}

// Analyzer asks the text model for InsightData in JSON mode.
type Analyzer struct {
	Model Model
}

var _ ports.Analyzer = Analyzer{}

func (a Analyzer) AnalyzeAd(ctx context.Context, ad entities.SavedAd) (entities.InsightData, error) {
	var data entities.InsightData
	if err := a.Model.GenerateJSON(ctx, services.SystemPrompt, services.AnalysisPrompt(ad), &data); err != nil {
		return entities.InsightData{}, err
	}
	if data.Empty() {
		return entities.InsightData{}, gemini.ErrEmptyResponse
	}
	return data, nil
}

func (a Analyzer) ModelName() string {
	return a.Model.TextModel()
}
