package queries

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltic/contexts/creative-generation/insight-service/adapters/memory"
	"voltic/contexts/creative-generation/insight-service/domain/entities"
)

func TestListInsightsDeduplicatesIDs(t *testing.T) {
	store := memory.NewStore()
	_, err := store.PutInsight(context.Background(), entities.Insight{InsightID: "i-1", WorkspaceID: "ws-1", LibraryID: "lib-1"})
	require.NoError(t, err)

	items, err := ListInsightsUseCase{Cache: store}.Execute(context.Background(), "ws-1", []string{"lib-1", " lib-1 ", "lib-2", ""})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "i-1", items[0].InsightID)

	items, err = ListInsightsUseCase{Cache: store}.Execute(context.Background(), "ws-1", nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}
