package queries

import (
	"context"
	"log/slog"
	"strings"

	application "voltic/contexts/creative-generation/variation-service/application"
	"voltic/contexts/creative-generation/variation-service/domain/entities"
	domainerrors "voltic/contexts/creative-generation/variation-service/domain/errors"
	"voltic/contexts/creative-generation/variation-service/ports"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type ListVariationsQuery struct {
	WorkspaceID string
	SourceAdID  string
	Limit       int
}

type ListVariationsUseCase struct {
	Variations ports.VariationRepository
	Logger     *slog.Logger
}

// Execute returns the newest variations first.
func (uc ListVariationsUseCase) Execute(ctx context.Context, query ListVariationsQuery) ([]entities.Variation, error) {
	logger := application.ResolveLogger(uc.Logger)
	filter := entities.VariationFilter{
		WorkspaceID: strings.TrimSpace(query.WorkspaceID),
		SourceAdID:  strings.TrimSpace(query.SourceAdID),
		Limit:       query.Limit,
	}
	if filter.WorkspaceID == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	items, err := uc.Variations.ListVariations(ctx, filter)
	if err != nil {
		return nil, err
	}
	logger.Debug("variations listed",
		"event", "variations_listed",
		"module", application.ModuleName,
		"layer", "application",
		"workspace_id", filter.WorkspaceID,
		"count", len(items),
	)
	return items, nil
}
