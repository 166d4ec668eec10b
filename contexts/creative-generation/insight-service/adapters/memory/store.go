package memory

import (
	"context"
	"sync"
	"time"

	"voltic/contexts/creative-generation/insight-service/domain/entities"
	domainerrors "voltic/contexts/creative-generation/insight-service/domain/errors"

	"github.com/google/uuid"
)

// Store holds saved ads and the insight cache in process.
type Store struct {
	mu sync.RWMutex

	ads      map[string]entities.SavedAd
	insights map[string]entities.Insight

	getErr error
	putErr error
}

func NewStore() *Store {
	return &Store{
		ads:      make(map[string]entities.SavedAd),
		insights: make(map[string]entities.Insight),
	}
}

func (s *Store) SeedSavedAd(ad entities.SavedAd) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ads[ad.AdID] = ad
}

// FailCache makes subsequent cache reads and writes return the given errors.
func (s *Store) FailCache(getErr error, putErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getErr = getErr
	s.putErr = putErr
}

// InsightCount is the number of cached insights in all workspaces.
func (s *Store) InsightCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.insights)
}

func (s *Store) GetSavedAd(_ context.Context, workspaceID string, adID string) (entities.SavedAd, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ad, ok := s.ads[adID]
	if !ok || ad.WorkspaceID != workspaceID {
		return entities.SavedAd{}, domainerrors.ErrAdNotFound
	}
	ad.Platforms = append([]string(nil), ad.Platforms...)
	return ad, nil
}

func (s *Store) GetInsight(_ context.Context, workspaceID string, libraryID string) (entities.Insight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.getErr != nil {
		return entities.Insight{}, s.getErr
	}
	insight, ok := s.insights[cacheKey(workspaceID, libraryID)]
	if !ok {
		return entities.Insight{}, domainerrors.ErrInsightNotFound
	}
	return insight, nil
}

func (s *Store) PutInsight(_ context.Context, insight entities.Insight) (entities.Insight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.putErr != nil {
		return entities.Insight{}, s.putErr
	}
	key := cacheKey(insight.WorkspaceID, insight.LibraryID)
	if existing, ok := s.insights[key]; ok {
		insight.InsightID = existing.InsightID
	}
	s.insights[key] = insight
	return insight, nil
}

func (s *Store) ListByLibraryIDs(_ context.Context, workspaceID string, libraryIDs []string) ([]entities.Insight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.getErr != nil {
		return nil, s.getErr
	}
	items := make([]entities.Insight, 0, len(libraryIDs))
	for _, id := range libraryIDs {
		if insight, ok := s.insights[cacheKey(workspaceID, id)]; ok {
			items = append(items, insight)
		}
	}
	return items, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func cacheKey(workspaceID string, libraryID string) string {
	return workspaceID + "\x00" + libraryID
}
