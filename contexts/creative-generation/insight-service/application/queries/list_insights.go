package queries

import (
	"context"
	"strings"

	"voltic/contexts/creative-generation/insight-service/domain/entities"
	domainerrors "voltic/contexts/creative-generation/insight-service/domain/errors"
	"voltic/contexts/creative-generation/insight-service/ports"
)

const maxLibraryIDs = 100

// ListInsightsUseCase returns cached insights for a set of library ids.
// Ids without a cached insight are absent from the result.
type ListInsightsUseCase struct {
	Cache ports.InsightCache
}

func (uc ListInsightsUseCase) Execute(ctx context.Context, workspaceID string, libraryIDs []string) ([]entities.Insight, error) {
	workspaceID = strings.TrimSpace(workspaceID)
	if workspaceID == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	ids := make([]string, 0, len(libraryIDs))
	seen := make(map[string]struct{}, len(libraryIDs))
	for _, id := range libraryIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return []entities.Insight{}, nil
	}
	if len(ids) > maxLibraryIDs {
		return nil, domainerrors.ErrInvalidRequest
	}
	return uc.Cache.ListByLibraryIDs(ctx, workspaceID, ids)
}
