package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltic/contexts/creative-generation/insight-service/domain/entities"
)

func TestPutInsightReplacesExistingKey(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	_, err := store.PutInsight(ctx, entities.Insight{InsightID: "i-1", WorkspaceID: "ws-1", LibraryID: "lib-1", Model: "a"})
	require.NoError(t, err)
	stored, err := store.PutInsight(ctx, entities.Insight{InsightID: "i-2", WorkspaceID: "ws-1", LibraryID: "lib-1", Model: "b"})
	require.NoError(t, err)

	assert.Equal(t, "i-1", stored.InsightID)
	assert.Equal(t, "b", stored.Model)
	assert.Equal(t, 1, store.InsightCount())

	_, err = store.PutInsight(ctx, entities.Insight{InsightID: "i-3", WorkspaceID: "ws-2", LibraryID: "lib-1"})
	require.NoError(t, err)
	assert.Equal(t, 2, store.InsightCount())
}
