package genaiadapter

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltic/contexts/creative-generation/insight-service/domain/entities"
	"voltic/integrations/gemini"
)

type stubModel struct {
	response string
	prompt   string
}

func (m *stubModel) GenerateJSON(_ context.Context, _ string, prompt string, out any) error {
	m.prompt = prompt
	return json.Unmarshal([]byte(m.response), out)
}

func (m *stubModel) TextModel() string { return "gemini-test" }

func TestAnalyzerDecodesInsight(t *testing.T) {
	model := &stubModel{response: `{"hookType":"Bold Claim","copyStructure":{"bodyFramework":"PAS"},"strengths":["clear"],"performanceScore":7}`}
	analyzer := Analyzer{Model: model}

	data, err := analyzer.AnalyzeAd(context.Background(), entities.SavedAd{BrandName: "Rival", Platforms: []string{"facebook"}})
	require.NoError(t, err)
	assert.Equal(t, "Bold Claim", data.HookType)
	assert.Equal(t, "PAS", data.CopyStructure.BodyFramework)
	assert.Contains(t, model.prompt, "**Brand:** Rival")
	assert.Equal(t, "gemini-test", analyzer.ModelName())
}

func TestAnalyzerRejectsEmptyAnalysis(t *testing.T) {
	_, err := Analyzer{Model: &stubModel{response: `{}`}}.AnalyzeAd(context.Background(), entities.SavedAd{})
	require.ErrorIs(t, err, gemini.ErrEmptyResponse)
}
