package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

var (
	ErrEmptyResponse = errors.New("gemini returned no content")
	ErrNoImage       = errors.New("gemini returned no image")
	ErrMissingAPIKey = errors.New("gemini api key is required")
)

type Config struct {
	APIKey     string
	TextModel  string
	ImageModel string
	// RPS and Burst bound outbound calls across every capability sharing
	// the client.
	RPS   float64
	Burst int
}

// Image is an inline image sent to or returned by the model. Caption, when
// set, is sent as a text part directly before the image.
type Image struct {
	Data     []byte
	MIMEType string
	Caption  string
}

type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Client wraps the genai SDK with rate limiting and JSON recovery.
type Client struct {
	models     contentGenerator
	textModel  string
	imageModel string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	return newClient(cli.Models, cfg, logger), nil
}

func newClient(models contentGenerator, cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	textModel := strings.TrimSpace(cfg.TextModel)
	if textModel == "" {
		textModel = "gemini-2.5-flash"
	}
	imageModel := strings.TrimSpace(cfg.ImageModel)
	if imageModel == "" {
		imageModel = "gemini-2.5-flash-image"
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		models:     models,
		textModel:  textModel,
		imageModel: imageModel,
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger,
	}
}

func (c *Client) TextModel() string {
	return c.textModel
}

// GenerateJSON asks the text model for a JSON document and decodes it into out.
func (c *Client) GenerateJSON(ctx context.Context, systemPrompt string, prompt string, out any) error {
	config := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	if strings.TrimSpace(systemPrompt) != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}}
	}

	resp, err := c.generate(ctx, c.textModel, []*genai.Part{{Text: prompt}}, config)
	if err != nil {
		return err
	}
	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return ErrEmptyResponse
	}
	return DecodeJSON(text, out)
}

// GenerateImage produces one image from a prompt. Reference images follow
// the prompt in order so the model can edit or restyle them.
func (c *Client) GenerateImage(ctx context.Context, prompt string, references ...Image) (Image, error) {
	parts := make([]*genai.Part, 0, 2*len(references)+1)
	parts = append(parts, &genai.Part{Text: prompt})
	for _, ref := range references {
		if len(ref.Data) == 0 {
			continue
		}
		if ref.Caption != "" {
			parts = append(parts, &genai.Part{Text: ref.Caption})
		}
		mimeType := ref.MIMEType
		if mimeType == "" {
			mimeType = "image/png"
		}
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{Data: ref.Data, MIMEType: mimeType}})
	}

	resp, err := c.generate(ctx, c.imageModel, parts, &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	})
	if err != nil {
		return Image{}, err
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mimeType := part.InlineData.MIMEType
			if mimeType == "" {
				mimeType = "image/png"
			}
			return Image{Data: part.InlineData.Data, MIMEType: mimeType}, nil
		}
	}
	return Image{}, ErrNoImage
}

func (c *Client) generate(
	ctx context.Context,
	model string,
	parts []*genai.Part,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	started := time.Now()
	resp, err := c.models.GenerateContent(ctx, model, []*genai.Content{{Role: "user", Parts: parts}}, config)
	if err != nil {
		c.logger.Warn("gemini call failed",
			"event", "gemini_call_failed",
			"module", "integrations/gemini",
			"layer", "adapter",
			"model", model,
			"elapsed_ms", time.Since(started).Milliseconds(),
			"error", err.Error(),
		)
		return nil, fmt.Errorf("gemini %s: %w", model, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, ErrEmptyResponse
	}
	c.logger.Debug("gemini call completed",
		"event", "gemini_call_completed",
		"module", "integrations/gemini",
		"layer", "adapter",
		"model", model,
		"elapsed_ms", time.Since(started).Milliseconds(),
	)
	return resp, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}
