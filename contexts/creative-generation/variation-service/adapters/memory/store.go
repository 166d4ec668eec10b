package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"voltic/contexts/creative-generation/variation-service/domain/entities"
	domainerrors "voltic/contexts/creative-generation/variation-service/domain/errors"
	"voltic/contexts/creative-generation/variation-service/ports"

	"github.com/google/uuid"
)

// Store holds variations plus the read-only catalog (saved ads, assets,
// guidelines) that batches resolve against.
type Store struct {
	mu sync.RWMutex

	variations  map[string]entities.Variation
	ads         map[string]workspaceAd
	assets      map[string]workspaceAsset
	guidelines  map[string]workspaceGuideline
	idempotency map[string]ports.IdempotencyRecord
}

type workspaceAd struct {
	WorkspaceID string
	Ad          entities.SourceAd
}

type workspaceAsset struct {
	WorkspaceID string
	Asset       entities.TargetAsset
}

type workspaceGuideline struct {
	WorkspaceID string
	IsDefault   bool
	Guideline   entities.GuidelineContext
}

func NewStore() *Store {
	return &Store{
		variations:  make(map[string]entities.Variation),
		ads:         make(map[string]workspaceAd),
		assets:      make(map[string]workspaceAsset),
		guidelines:  make(map[string]workspaceGuideline),
		idempotency: make(map[string]ports.IdempotencyRecord),
	}
}

func (s *Store) SeedSourceAd(workspaceID string, ad entities.SourceAd) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ads[ad.AdID] = workspaceAd{WorkspaceID: workspaceID, Ad: ad}
}

func (s *Store) SeedAsset(workspaceID string, asset entities.TargetAsset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[asset.AssetID] = workspaceAsset{WorkspaceID: workspaceID, Asset: asset}
}

func (s *Store) SeedGuideline(workspaceID string, guideline entities.GuidelineContext, isDefault bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guidelines[guideline.GuidelineID] = workspaceGuideline{
		WorkspaceID: workspaceID,
		IsDefault:   isDefault,
		Guideline:   guideline,
	}
}

func (s *Store) CreateVariation(_ context.Context, variation entities.Variation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.variations[variation.VariationID]; exists {
		return domainerrors.ErrInvalidStatusTransition
	}
	s.variations[variation.VariationID] = cloneVariation(variation)
	return nil
}

func (s *Store) CompleteVariation(
	_ context.Context,
	variationID string,
	content entities.GeneratedContent,
	at time.Time,
) (entities.Variation, error) {
	return s.transition(variationID, func(item *entities.Variation) {
		item.Status = entities.VariationStatusCompleted
		item.GeneratedHeadline = content.Headline
		item.GeneratedBody = content.Body
		item.GeneratedImageURL = content.ImageURL
		item.UpdatedAt = at
	})
}

func (s *Store) FailVariation(_ context.Context, variationID string, reason string, at time.Time) (entities.Variation, error) {
	return s.transition(variationID, func(item *entities.Variation) {
		item.Status = entities.VariationStatusFailed
		item.FailureReason = reason
		item.UpdatedAt = at
	})
}

func (s *Store) transition(variationID string, apply func(*entities.Variation)) (entities.Variation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.variations[variationID]
	if !ok {
		return entities.Variation{}, domainerrors.ErrVariationNotFound
	}
	if item.Status != entities.VariationStatusPending {
		return entities.Variation{}, domainerrors.ErrInvalidStatusTransition
	}
	apply(&item)
	s.variations[variationID] = item
	return cloneVariation(item), nil
}

func (s *Store) GetVariation(_ context.Context, workspaceID string, variationID string) (entities.Variation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.variations[variationID]
	if !ok || item.WorkspaceID != workspaceID {
		return entities.Variation{}, domainerrors.ErrVariationNotFound
	}
	return cloneVariation(item), nil
}

func (s *Store) ListVariations(_ context.Context, filter entities.VariationFilter) ([]entities.Variation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Variation, 0)
	for _, item := range s.variations {
		if item.WorkspaceID != filter.WorkspaceID {
			continue
		}
		if filter.SourceAdID != "" && item.SourceAdID != filter.SourceAdID {
			continue
		}
		items = append(items, cloneVariation(item))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].VariationID > items[j].VariationID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, nil
}

func (s *Store) DeleteVariation(_ context.Context, workspaceID string, variationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.variations[variationID]
	if !ok || item.WorkspaceID != workspaceID {
		return domainerrors.ErrVariationNotFound
	}
	delete(s.variations, variationID)
	return nil
}

func (s *Store) GetSourceAd(_ context.Context, workspaceID string, adID string) (entities.SourceAd, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.ads[adID]
	if !ok || item.WorkspaceID != workspaceID {
		return entities.SourceAd{}, domainerrors.ErrSourceAdNotFound
	}
	return item.Ad, nil
}

func (s *Store) GetAsset(_ context.Context, workspaceID string, assetID string) (entities.TargetAsset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.assets[assetID]
	if !ok || item.WorkspaceID != workspaceID {
		return entities.TargetAsset{}, domainerrors.ErrAssetNotFound
	}
	return item.Asset, nil
}

func (s *Store) GetGuideline(_ context.Context, workspaceID string, guidelineID string) (entities.GuidelineContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.guidelines[guidelineID]
	if !ok || item.WorkspaceID != workspaceID {
		return entities.GuidelineContext{}, domainerrors.ErrGuidelineNotFound
	}
	return item.Guideline, nil
}

func (s *Store) GetDefaultGuideline(_ context.Context, workspaceID string) (entities.GuidelineContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.guidelines {
		if item.WorkspaceID == workspaceID && item.IsDefault {
			return item.Guideline, nil
		}
	}
	return entities.GuidelineContext{}, domainerrors.ErrGuidelineNotFound
}

func (s *Store) GetRecord(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.idempotency[key]
	if !ok {
		return ports.IdempotencyRecord{}, false, nil
	}
	if !record.ExpiresAt.IsZero() && now.After(record.ExpiresAt) {
		delete(s.idempotency, key)
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) PutRecord(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idempotency[strings.TrimSpace(record.Key)] = record
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func cloneVariation(item entities.Variation) entities.Variation {
	if item.CreativeOptions != nil {
		options := *item.CreativeOptions
		item.CreativeOptions = &options
	}
	return item
}
