package cache

import (
	"context"

	"voltic/contexts/creative-generation/insight-service/domain/entities"
	"voltic/contexts/creative-generation/insight-service/ports"

	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultSize = 1024

// LRU is a read-through front for another InsightCache. Entries are only
// added after the backing store accepted them.
type LRU struct {
	next    ports.InsightCache
	entries *lru.Cache[string, entities.Insight]
}

var _ ports.InsightCache = (*LRU)(nil)

func NewLRU(next ports.InsightCache, size int) (*LRU, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[string, entities.Insight](size)
	if err != nil {
		return nil, err
	}
	return &LRU{next: next, entries: entries}, nil
}

func (c *LRU) GetInsight(ctx context.Context, workspaceID string, libraryID string) (entities.Insight, error) {
	key := entryKey(workspaceID, libraryID)
	if insight, ok := c.entries.Get(key); ok {
		return insight, nil
	}
	insight, err := c.next.GetInsight(ctx, workspaceID, libraryID)
	if err != nil {
		return entities.Insight{}, err
	}
	c.entries.Add(key, insight)
	return insight, nil
}

func (c *LRU) PutInsight(ctx context.Context, insight entities.Insight) (entities.Insight, error) {
	stored, err := c.next.PutInsight(ctx, insight)
	if err != nil {
		c.entries.Remove(entryKey(insight.WorkspaceID, insight.LibraryID))
		return entities.Insight{}, err
	}
	c.entries.Add(entryKey(stored.WorkspaceID, stored.LibraryID), stored)
	return stored, nil
}

func (c *LRU) ListByLibraryIDs(ctx context.Context, workspaceID string, libraryIDs []string) ([]entities.Insight, error) {
	items, err := c.next.ListByLibraryIDs(ctx, workspaceID, libraryIDs)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		c.entries.Add(entryKey(item.WorkspaceID, item.LibraryID), item)
	}
	return items, nil
}

// Len is the number of entries held in memory.
func (c *LRU) Len() int {
	return c.entries.Len()
}

func entryKey(workspaceID string, libraryID string) string {
	return workspaceID + "\x00" + libraryID
}
