package genaiadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainerrors "voltic/contexts/creative-generation/variation-service/domain/errors"
	"voltic/contexts/creative-generation/variation-service/domain/services"
	"voltic/contexts/creative-generation/variation-service/ports"
	"voltic/integrations/gemini"
	"voltic/integrations/objectstore"
)

// Model is the part of the Gemini client the capabilities call.
type Model interface {
	GenerateJSON(ctx context.Context, systemPrompt string, prompt string, out any) error
	GenerateImage(ctx context.Context, prompt string, references ...gemini.Image) (gemini.Image, error)
}

type ImageStore interface {
	PutImage(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type ImageFetcher interface {
	FetchImage(ctx context.Context, url string) ([]byte, string, error)
}

// Capabilities implements ports.Capabilities on Gemini. Generated images are
// uploaded to Images and referenced by URL.
type Capabilities struct {
	Model   Model
	Images  ImageStore
	Fetcher ImageFetcher
	Logger  *slog.Logger
}

var _ ports.Capabilities = Capabilities{}

func (c Capabilities) GenerateText(ctx context.Context, request ports.TextRequest) (ports.TextCopy, error) {
	prompt := services.TextPrompt(request.Ad, request.Asset, request.Strategy, request.Guideline, request.Channel, request.Options)
	var text ports.TextCopy
	if err := c.Model.GenerateJSON(ctx, services.TextSystemPrompt, prompt, &text); err != nil {
		return ports.TextCopy{}, err
	}
	text.Headline = strings.TrimSpace(text.Headline)
	text.Body = strings.TrimSpace(text.Body)
	if text.Headline == "" && text.Body == "" {
		return ports.TextCopy{}, gemini.ErrEmptyResponse
	}
	return text, nil
}

func (c Capabilities) GenerateImage(ctx context.Context, request ports.ImageRequest) (string, error) {
	if !request.Strategy.ProducesImage() {
		return "", domainerrors.ErrTextOnlyHasNoImage
	}
	prompt := services.ImagePrompt(request.Ad, request.Asset, request.Strategy, request.Guideline, request.Options)
	image, err := c.Model.GenerateImage(ctx, prompt)
	if err != nil {
		return "", err
	}
	return c.store(ctx, request, "image", image)
}

// EditImage segments the product, then edits only the background around it.
func (c Capabilities) EditImage(ctx context.Context, request ports.ImageRequest) (string, error) {
	if !request.Strategy.ProducesImage() {
		return "", domainerrors.ErrTextOnlyHasNoImage
	}
	if strings.TrimSpace(request.Asset.ImageURL) == "" {
		return "", errors.New("asset has no image to edit")
	}
	data, contentType, err := c.Fetcher.FetchImage(ctx, request.Asset.ImageURL)
	if err != nil {
		return "", err
	}
	source := gemini.Image{Data: data, MIMEType: contentType}

	mask, err := c.Model.GenerateImage(ctx, services.MaskPrompt, source)
	if err != nil {
		return "", fmt.Errorf("product mask: %w", err)
	}
	mask.Caption = services.MaskCaption

	prompt := services.EditPrompt(request.Asset, request.Strategy, request.Options, request.Guideline)
	edited, err := c.Model.GenerateImage(ctx, prompt, source, mask)
	if err != nil {
		return "", err
	}
	return c.store(ctx, request, "edit", edited)
}

func (c Capabilities) store(ctx context.Context, request ports.ImageRequest, kind string, image gemini.Image) (string, error) {
	key := objectstore.ObjectKey(request.WorkspaceID, request.VariationID, kind)
	url, err := c.Images.PutImage(ctx, key, image.Data, image.MIMEType)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("variation image stored",
		"event", "variation_image_stored",
		"module", "creative-generation/variation-service",
		"layer", "adapter",
		"variation_id", request.VariationID,
		"strategy", string(request.Strategy),
		"kind", kind,
		"bytes", len(image.Data),
	)
	return url, nil
}
