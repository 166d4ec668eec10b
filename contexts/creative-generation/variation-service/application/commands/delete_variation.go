package commands

import (
	"context"
	"log/slog"
	"strings"

	application "voltic/contexts/creative-generation/variation-service/application"
	domainerrors "voltic/contexts/creative-generation/variation-service/domain/errors"
	"voltic/contexts/creative-generation/variation-service/ports"
)

type DeleteVariationCommand struct {
	WorkspaceID string
	VariationID string
}

// DeleteVariationUseCase removes a variation on explicit request. Credits
// already spent on it are not returned.
type DeleteVariationUseCase struct {
	Variations ports.VariationRepository
	Logger     *slog.Logger
}

func (uc DeleteVariationUseCase) Execute(ctx context.Context, cmd DeleteVariationCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	workspaceID := strings.TrimSpace(cmd.WorkspaceID)
	variationID := strings.TrimSpace(cmd.VariationID)
	if workspaceID == "" || variationID == "" {
		return domainerrors.ErrInvalidRequest
	}
	if err := uc.Variations.DeleteVariation(ctx, workspaceID, variationID); err != nil {
		return err
	}
	logger.Info("variation deleted",
		"event", "variation_deleted",
		"module", application.ModuleName,
		"layer", "application",
		"workspace_id", workspaceID,
		"variation_id", variationID,
	)
	return nil
}
