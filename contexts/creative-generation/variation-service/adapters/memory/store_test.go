package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltic/contexts/creative-generation/variation-service/domain/entities"
	domainerrors "voltic/contexts/creative-generation/variation-service/domain/errors"
	"voltic/contexts/creative-generation/variation-service/ports"
)

func pendingVariation(id string, createdAt time.Time) entities.Variation {
	return entities.Variation{
		VariationID:   id,
		WorkspaceID:   "ws-1",
		SourceKind:    entities.SourceCompetitor,
		SourceAdID:    "ad-1",
		TargetAssetID: "asset-1",
		Strategy:      entities.StrategyCuriosity,
		Status:        entities.VariationStatusPending,
		CreditsUsed:   10,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

func TestTerminalTransitionHappensOnce(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, store.CreateVariation(ctx, pendingVariation("var-1", now)))

	done, err := store.CompleteVariation(ctx, "var-1", entities.GeneratedContent{Headline: "H", Body: "B"}, now)
	require.NoError(t, err)
	assert.Equal(t, entities.VariationStatusCompleted, done.Status)

	_, err = store.FailVariation(ctx, "var-1", "late failure", now)
	require.ErrorIs(t, err, domainerrors.ErrInvalidStatusTransition)

	_, err = store.CompleteVariation(ctx, "missing", entities.GeneratedContent{}, now)
	require.ErrorIs(t, err, domainerrors.ErrVariationNotFound)
}

func TestListIsNewestFirstAndScoped(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.CreateVariation(ctx, pendingVariation("var-old", base)))
	require.NoError(t, store.CreateVariation(ctx, pendingVariation("var-new", base.Add(time.Minute))))
	other := pendingVariation("var-other", base)
	other.WorkspaceID = "ws-2"
	require.NoError(t, store.CreateVariation(ctx, other))

	items, err := store.ListVariations(ctx, entities.VariationFilter{WorkspaceID: "ws-1", Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "var-new", items[0].VariationID)

	_, err = store.GetVariation(ctx, "ws-1", "var-other")
	require.ErrorIs(t, err, domainerrors.ErrVariationNotFound)
	require.ErrorIs(t, store.DeleteVariation(ctx, "ws-1", "var-other"), domainerrors.ErrVariationNotFound)
	require.NoError(t, store.DeleteVariation(ctx, "ws-2", "var-other"))
}

func TestIdempotencyRecordsExpire(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, store.PutRecord(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h", ExpiresAt: now.Add(time.Minute)}))

	_, found, err := store.GetRecord(ctx, "k", now)
	require.NoError(t, err)
	assert.True(t, found)

	_, found, err = store.GetRecord(ctx, "k", now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.False(t, found)
}
