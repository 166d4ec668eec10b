package genaiadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltic/contexts/creative-generation/variation-service/domain/entities"
	domainerrors "voltic/contexts/creative-generation/variation-service/domain/errors"
	"voltic/contexts/creative-generation/variation-service/ports"
	"voltic/integrations/gemini"
)

type imageCall struct {
	prompt     string
	references []gemini.Image
}

type stubModel struct {
	text       string
	textErr    error
	imageErr   error
	imageCalls []imageCall
}

func (m *stubModel) GenerateJSON(_ context.Context, _ string, _ string, out any) error {
	if m.textErr != nil {
		return m.textErr
	}
	return json.Unmarshal([]byte(m.text), out)
}

func (m *stubModel) GenerateImage(_ context.Context, prompt string, references ...gemini.Image) (gemini.Image, error) {
	m.imageCalls = append(m.imageCalls, imageCall{prompt: prompt, references: references})
	if m.imageErr != nil {
		return gemini.Image{}, m.imageErr
	}
	return gemini.Image{Data: []byte("png"), MIMEType: "image/png"}, nil
}

type recordingStore struct {
	keys []string
}

func (s *recordingStore) PutImage(_ context.Context, key string, _ []byte, _ string) (string, error) {
	s.keys = append(s.keys, key)
	return "https://cdn.test/" + key, nil
}

type staticFetcher struct{}

func (staticFetcher) FetchImage(_ context.Context, _ string) ([]byte, string, error) {
	return []byte("source"), "image/jpeg", nil
}

func TestGenerateTextTrimsCopy(t *testing.T) {
	model := &stubModel{text: `{"headline":"  Glow up  ","body":"Try it today."}`}
	caps := Capabilities{Model: model}

	text, err := caps.GenerateText(context.Background(), ports.TextRequest{
		Asset:    entities.TargetAsset{Name: "Serum"},
		Strategy: entities.StrategyCuriosity,
	})
	require.NoError(t, err)
	assert.Equal(t, "Glow up", text.Headline)
}

func TestGenerateTextRejectsEmptyCopy(t *testing.T) {
	caps := Capabilities{Model: &stubModel{text: `{}`}}
	_, err := caps.GenerateText(context.Background(), ports.TextRequest{Strategy: entities.StrategyCuriosity})
	require.ErrorIs(t, err, gemini.ErrEmptyResponse)
}

func TestGenerateImageRefusesTextOnly(t *testing.T) {
	model := &stubModel{}
	caps := Capabilities{Model: model, Images: &recordingStore{}}
	_, err := caps.GenerateImage(context.Background(), ports.ImageRequest{Strategy: entities.StrategyTextOnly})
	require.ErrorIs(t, err, domainerrors.ErrTextOnlyHasNoImage)
	assert.Empty(t, model.imageCalls)
}

func TestGenerateImageStoresUnderVariationKey(t *testing.T) {
	store := &recordingStore{}
	caps := Capabilities{Model: &stubModel{}, Images: store}

	url, err := caps.GenerateImage(context.Background(), ports.ImageRequest{
		WorkspaceID: "ws-1",
		VariationID: "var-1",
		Strategy:    entities.StrategyHeroProduct,
		Asset:       entities.TargetAsset{Name: "Serum"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/ws-1/variations/var-1-image.png", url)
}

func TestEditImageMasksBeforeEditing(t *testing.T) {
	model := &stubModel{}
	store := &recordingStore{}
	caps := Capabilities{Model: model, Images: store, Fetcher: staticFetcher{}}

	_, err := caps.EditImage(context.Background(), ports.ImageRequest{
		WorkspaceID: "ws-1",
		VariationID: "var-2",
		Strategy:    entities.StrategyProofPoint,
		Asset:       entities.TargetAsset{Name: "Serum", ImageURL: "https://assets.test/serum.jpg"},
	})
	require.NoError(t, err)
	require.Len(t, model.imageCalls, 2)
	assert.True(t, strings.HasPrefix(model.imageCalls[0].prompt, "Create a precise binary segmentation mask"))
	require.Len(t, model.imageCalls[1].references, 2)
	assert.Contains(t, model.imageCalls[1].references[1].Caption, "Product mask")
	assert.Equal(t, []string{"ws-1/variations/var-2-edit.png"}, store.keys)
}

func TestEditImagePropagatesMaskFailure(t *testing.T) {
	caps := Capabilities{Model: &stubModel{imageErr: errors.New("quota")}, Images: &recordingStore{}, Fetcher: staticFetcher{}}
	_, err := caps.EditImage(context.Background(), ports.ImageRequest{
		Strategy: entities.StrategyHeroProduct,
		Asset:    entities.TargetAsset{ImageURL: "https://assets.test/a.png"},
	})
	require.ErrorContains(t, err, "product mask")
}
