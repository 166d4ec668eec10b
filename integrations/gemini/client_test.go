package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type stubGenerator struct {
	resp      *genai.GenerateContentResponse
	err       error
	lastModel string
	lastParts []*genai.Part
	lastCfg   *genai.GenerateContentConfig
}

func (s *stubGenerator) GenerateContent(
	_ context.Context,
	model string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	s.lastModel = model
	s.lastCfg = config
	if len(contents) > 0 {
		s.lastParts = contents[0].Parts
	}
	return s.resp, s.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
	}}}
}

type copyPayload struct {
	Headline string `json:"headline"`
	Body     string `json:"body"`
}

func TestDecodeJSONHandlesFencesAndRepair(t *testing.T) {
	var fenced copyPayload
	require.NoError(t, DecodeJSON("```json\n{\"headline\":\"Hi\",\"body\":\"There\"}\n```", &fenced))
	assert.Equal(t, "Hi", fenced.Headline)

	var broken copyPayload
	require.NoError(t, DecodeJSON(`{"headline": "Glow", "body": "Serum",}`, &broken))
	assert.Equal(t, "Serum", broken.Body)
}

func TestGenerateJSONUsesTextModel(t *testing.T) {
	stub := &stubGenerator{resp: textResponse(`{"headline":"Bright","body":"Skin"}`)}
	client := newClient(stub, Config{TextModel: "text-model"}, nil)

	var out copyPayload
	require.NoError(t, client.GenerateJSON(context.Background(), "system", "prompt", &out))
	assert.Equal(t, "Bright", out.Headline)
	assert.Equal(t, "text-model", stub.lastModel)
	assert.Equal(t, "application/json", stub.lastCfg.ResponseMIMEType)
	require.NotNil(t, stub.lastCfg.SystemInstruction)
}

func TestGenerateJSONRejectsEmptyOutput(t *testing.T) {
	client := newClient(&stubGenerator{resp: textResponse("  ")}, Config{}, nil)
	var out copyPayload
	assert.ErrorIs(t, client.GenerateJSON(context.Background(), "", "prompt", &out), ErrEmptyResponse)
}

func TestGenerateImageReturnsInlineData(t *testing.T) {
	stub := &stubGenerator{resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []*genai.Part{
			{Text: "here you go"},
			{InlineData: &genai.Blob{Data: []byte{1, 2, 3}, MIMEType: "image/png"}},
		}},
	}}}}
	client := newClient(stub, Config{ImageModel: "image-model"}, nil)

	image, err := client.GenerateImage(context.Background(), "edit",
		Image{Data: []byte{9}},
		Image{Data: []byte{8}, Caption: "mask:"},
	)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, image.Data)
	assert.Equal(t, "image-model", stub.lastModel)
	require.Len(t, stub.lastParts, 4)
	assert.Equal(t, "edit", stub.lastParts[0].Text)
	require.NotNil(t, stub.lastParts[1].InlineData)
	assert.Equal(t, "mask:", stub.lastParts[2].Text)
	assert.Equal(t, []byte{8}, stub.lastParts[3].InlineData.Data)
}

func TestGenerateImageWithoutImagePart(t *testing.T) {
	client := newClient(&stubGenerator{resp: textResponse("sorry")}, Config{}, nil)
	_, err := client.GenerateImage(context.Background(), "draw")
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestGenerateWrapsProviderErrors(t *testing.T) {
	client := newClient(&stubGenerator{err: errors.New("quota")}, Config{}, nil)
	_, err := client.GenerateImage(context.Background(), "draw")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota")
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), Config{}, nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
