package queries

import (
	"context"
	"strings"

	"voltic/contexts/creative-generation/variation-service/domain/entities"
	domainerrors "voltic/contexts/creative-generation/variation-service/domain/errors"
	"voltic/contexts/creative-generation/variation-service/ports"
)

type GetVariationUseCase struct {
	Variations ports.VariationRepository
}

func (uc GetVariationUseCase) Execute(ctx context.Context, workspaceID string, variationID string) (entities.Variation, error) {
	workspaceID = strings.TrimSpace(workspaceID)
	variationID = strings.TrimSpace(variationID)
	if workspaceID == "" || variationID == "" {
		return entities.Variation{}, domainerrors.ErrInvalidRequest
	}
	return uc.Variations.GetVariation(ctx, workspaceID, variationID)
}
