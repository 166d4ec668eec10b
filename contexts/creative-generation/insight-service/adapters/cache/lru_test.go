package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltic/contexts/creative-generation/insight-service/adapters/memory"
	"voltic/contexts/creative-generation/insight-service/domain/entities"
	domainerrors "voltic/contexts/creative-generation/insight-service/domain/errors"
)

func TestLRUServesRepeatReadsFromMemory(t *testing.T) {
	store := memory.NewStore()
	cache, err := NewLRU(store, 8)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = cache.GetInsight(ctx, "ws-1", "lib-1")
	require.ErrorIs(t, err, domainerrors.ErrInsightNotFound)
	assert.Equal(t, 0, cache.Len())

	_, err = cache.PutInsight(ctx, entities.Insight{InsightID: "i-1", WorkspaceID: "ws-1", LibraryID: "lib-1"})
	require.NoError(t, err)

	store.FailCache(errors.New("db down"), nil)
	insight, err := cache.GetInsight(ctx, "ws-1", "lib-1")
	require.NoError(t, err)
	assert.Equal(t, "i-1", insight.InsightID)
}

func TestLRUDoesNotKeepRejectedWrites(t *testing.T) {
	store := memory.NewStore()
	store.FailCache(nil, errors.New("constraint"))
	cache, err := NewLRU(store, 8)
	require.NoError(t, err)

	_, err = cache.PutInsight(context.Background(), entities.Insight{WorkspaceID: "ws-1", LibraryID: "lib-1"})
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())
}
