package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"voltic/contexts/creative-generation/variation-service/domain/entities"
	domainerrors "voltic/contexts/creative-generation/variation-service/domain/errors"
	"voltic/contexts/creative-generation/variation-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Models lists the tables this context writes.
func Models() []any {
	return []any{&variationModel{}, &idempotencyModel{}}
}

// CatalogModels lists read-only catalog tables migrated for local databases.
// saved_ads is migrated by the insight context, which reads more of it.
func CatalogModels() []any {
	return []any{&assetModel{}, &brandGuidelineModel{}}
}

func (r *Repository) CreateVariation(ctx context.Context, variation entities.Variation) error {
	row, err := variationModelFromEntity(variation)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidStatusTransition
		}
		return err
	}
	return nil
}

func (r *Repository) CompleteVariation(
	ctx context.Context,
	variationID string,
	content entities.GeneratedContent,
	at time.Time,
) (entities.Variation, error) {
	return r.transition(ctx, variationID, map[string]any{
		"status":              string(entities.VariationStatusCompleted),
		"generated_headline":  content.Headline,
		"generated_body":      content.Body,
		"generated_image_url": content.ImageURL,
		"updated_at":          at.UTC(),
	})
}

func (r *Repository) FailVariation(ctx context.Context, variationID string, reason string, at time.Time) (entities.Variation, error) {
	return r.transition(ctx, variationID, map[string]any{
		"status":         string(entities.VariationStatusFailed),
		"failure_reason": truncate(reason, 1000),
		"updated_at":     at.UTC(),
	})
}

// transition applies updates only while the row is still pending.
func (r *Repository) transition(ctx context.Context, variationID string, updates map[string]any) (entities.Variation, error) {
	var out entities.Variation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&variationModel{}).
			Where("id = ? AND status = ?", strings.TrimSpace(variationID), string(entities.VariationStatusPending)).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}

		var row variationModel
		if err := tx.Where("id = ?", strings.TrimSpace(variationID)).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrVariationNotFound
			}
			return err
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrInvalidStatusTransition
		}
		out = row.toEntity()
		return nil
	})
	if err != nil {
		return entities.Variation{}, err
	}
	return out, nil
}

func (r *Repository) GetVariation(ctx context.Context, workspaceID string, variationID string) (entities.Variation, error) {
	var row variationModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND workspace_id = ?", strings.TrimSpace(variationID), strings.TrimSpace(workspaceID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Variation{}, domainerrors.ErrVariationNotFound
		}
		return entities.Variation{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListVariations(ctx context.Context, filter entities.VariationFilter) ([]entities.Variation, error) {
	query := r.db.WithContext(ctx).
		Model(&variationModel{}).
		Where("workspace_id = ?", strings.TrimSpace(filter.WorkspaceID))
	if filter.SourceAdID != "" {
		query = query.Where("saved_ad_id = ?", strings.TrimSpace(filter.SourceAdID))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []variationModel
	if err := query.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.Variation, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) DeleteVariation(ctx context.Context, workspaceID string, variationID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND workspace_id = ?", strings.TrimSpace(variationID), strings.TrimSpace(workspaceID)).
		Delete(&variationModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrVariationNotFound
	}
	return nil
}

func (r *Repository) GetSourceAd(ctx context.Context, workspaceID string, adID string) (entities.SourceAd, error) {
	if _, err := uuid.Parse(strings.TrimSpace(adID)); err != nil {
		return entities.SourceAd{}, domainerrors.ErrSourceAdNotFound
	}
	var row savedAdModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND workspace_id = ?", strings.TrimSpace(adID), strings.TrimSpace(workspaceID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.SourceAd{}, domainerrors.ErrSourceAdNotFound
		}
		return entities.SourceAd{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetAsset(ctx context.Context, workspaceID string, assetID string) (entities.TargetAsset, error) {
	if _, err := uuid.Parse(strings.TrimSpace(assetID)); err != nil {
		return entities.TargetAsset{}, domainerrors.ErrAssetNotFound
	}
	var row assetModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND workspace_id = ?", strings.TrimSpace(assetID), strings.TrimSpace(workspaceID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.TargetAsset{}, domainerrors.ErrAssetNotFound
		}
		return entities.TargetAsset{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetGuideline(ctx context.Context, workspaceID string, guidelineID string) (entities.GuidelineContext, error) {
	if _, err := uuid.Parse(strings.TrimSpace(guidelineID)); err != nil {
		return entities.GuidelineContext{}, domainerrors.ErrGuidelineNotFound
	}
	return r.findGuideline(ctx, r.db.WithContext(ctx).
		Where("id = ? AND workspace_id = ?", strings.TrimSpace(guidelineID), strings.TrimSpace(workspaceID)))
}

func (r *Repository) GetDefaultGuideline(ctx context.Context, workspaceID string) (entities.GuidelineContext, error) {
	return r.findGuideline(ctx, r.db.WithContext(ctx).
		Where("workspace_id = ? AND is_default = ?", strings.TrimSpace(workspaceID), true).
		Order("updated_at DESC"))
}

func (r *Repository) findGuideline(_ context.Context, query *gorm.DB) (entities.GuidelineContext, error) {
	var row brandGuidelineModel
	if err := query.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.GuidelineContext{}, domainerrors.ErrGuidelineNotFound
		}
		return entities.GuidelineContext{}, err
	}
	guideline, err := row.toEntity()
	if err != nil {
		r.logger.Warn("brand guideline palette unreadable",
			"event", "variation_guideline_palette_invalid",
			"module", "creative-generation/variation-service",
			"layer", "adapter",
			"guideline_id", row.ID,
			"error", err.Error(),
		)
	}
	return guideline, nil
}

func (r *Repository) GetRecord(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("idempotency_key = ? AND expires_at > ?", strings.TrimSpace(key), now.UTC()).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, err
	}
	return ports.IdempotencyRecord{
		Key:             row.IdempotencyKey,
		RequestHash:     row.RequestHash,
		ResponsePayload: append([]byte(nil), row.ResponsePayload...),
		ExpiresAt:       row.ExpiresAt,
	}, true, nil
}

func (r *Repository) PutRecord(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		IdempotencyKey:  strings.TrimSpace(record.Key),
		RequestHash:     record.RequestHash,
		ResponsePayload: append([]byte(nil), record.ResponsePayload...),
		ExpiresAt:       record.ExpiresAt.UTC(),
		CreatedAt:       time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "idempotency_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"request_hash", "response_payload", "expires_at"}),
		}).
		Create(&row).
		Error
}

type variationModel struct {
	ID                string    `gorm:"column:id;type:uuid;primaryKey"`
	WorkspaceID       string    `gorm:"column:workspace_id;type:uuid;not null;index:variations_workspace_created_idx,priority:1"`
	SavedAdID         *string   `gorm:"column:saved_ad_id;type:uuid;index"`
	AssetID           string    `gorm:"column:asset_id;type:uuid;not null"`
	Source            string    `gorm:"column:source;not null;default:competitor"`
	Strategy          string    `gorm:"column:strategy;not null"`
	CreativeOptions   []byte    `gorm:"column:creative_options;type:jsonb"`
	GeneratedImageURL string    `gorm:"column:generated_image_url"`
	GeneratedHeadline string    `gorm:"column:generated_headline"`
	GeneratedBody     string    `gorm:"column:generated_body"`
	FailureReason     string    `gorm:"column:failure_reason"`
	CreditsUsed       int       `gorm:"column:credits_used;not null"`
	Status            string    `gorm:"column:status;not null;default:pending"`
	CreatedAt         time.Time `gorm:"column:created_at;not null;index:variations_workspace_created_idx,priority:2"`
	UpdatedAt         time.Time `gorm:"column:updated_at;not null"`
}

func (variationModel) TableName() string { return "variations" }

func variationModelFromEntity(item entities.Variation) (variationModel, error) {
	row := variationModel{
		ID:          item.VariationID,
		WorkspaceID: item.WorkspaceID,
		AssetID:     item.TargetAssetID,
		Source:      string(item.SourceKind),
		Strategy:    string(item.Strategy),
		CreditsUsed: item.CreditsUsed,
		Status:      string(item.Status),
		CreatedAt:   item.CreatedAt.UTC(),
		UpdatedAt:   item.UpdatedAt.UTC(),
	}
	if item.SourceAdID != "" {
		adID := item.SourceAdID
		row.SavedAdID = &adID
	}
	if item.CreativeOptions != nil {
		raw, err := json.Marshal(item.CreativeOptions)
		if err != nil {
			return variationModel{}, err
		}
		row.CreativeOptions = raw
	}
	return row, nil
}

func (m variationModel) toEntity() entities.Variation {
	item := entities.Variation{
		VariationID:       m.ID,
		WorkspaceID:       m.WorkspaceID,
		SourceKind:        entities.SourceKind(m.Source),
		TargetAssetID:     m.AssetID,
		Strategy:          entities.Strategy(m.Strategy),
		Status:            entities.VariationStatus(m.Status),
		GeneratedHeadline: m.GeneratedHeadline,
		GeneratedBody:     m.GeneratedBody,
		GeneratedImageURL: m.GeneratedImageURL,
		FailureReason:     m.FailureReason,
		CreditsUsed:       m.CreditsUsed,
		CreatedAt:         m.CreatedAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
	}
	if m.SavedAdID != nil {
		item.SourceAdID = *m.SavedAdID
	}
	if len(m.CreativeOptions) > 0 {
		var options entities.CreativeOptions
		if err := json.Unmarshal(m.CreativeOptions, &options); err == nil && !options.IsZero() {
			item.CreativeOptions = &options
		}
	}
	return item
}

type idempotencyModel struct {
	IdempotencyKey  string    `gorm:"column:idempotency_key;primaryKey"`
	RequestHash     string    `gorm:"column:request_hash;not null"`
	ResponsePayload []byte    `gorm:"column:response_payload;type:jsonb;not null"`
	ExpiresAt       time.Time `gorm:"column:expires_at;not null;index"`
	CreatedAt       time.Time `gorm:"column:created_at;not null"`
}

func (idempotencyModel) TableName() string { return "variation_idempotency" }

type savedAdModel struct {
	ID            string    `gorm:"column:id;type:uuid;primaryKey"`
	WorkspaceID   string    `gorm:"column:workspace_id;type:uuid;not null;index"`
	MetaLibraryID *string   `gorm:"column:meta_library_id"`
	BrandName     string    `gorm:"column:brand_name"`
	Headline      string    `gorm:"column:headline"`
	Body          string    `gorm:"column:body"`
	Format        string    `gorm:"column:format;not null;default:image"`
	ImageURL      string    `gorm:"column:image_url"`
	CreatedAt     time.Time `gorm:"column:created_at;not null"`
}

func (savedAdModel) TableName() string { return "saved_ads" }

func (m savedAdModel) toEntity() entities.SourceAd {
	return entities.SourceAd{
		AdID:      m.ID,
		BrandName: m.BrandName,
		Headline:  m.Headline,
		Body:      m.Body,
		Format:    m.Format,
		ImageURL:  m.ImageURL,
	}
}

type assetModel struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey"`
	WorkspaceID string    `gorm:"column:workspace_id;type:uuid;not null;index"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description"`
	ImageURL    string    `gorm:"column:image_url;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null"`
}

func (assetModel) TableName() string { return "assets" }

func (m assetModel) toEntity() entities.TargetAsset {
	return entities.TargetAsset{
		AssetID:     m.ID,
		Name:        m.Name,
		Description: m.Description,
		ImageURL:    m.ImageURL,
	}
}

type brandGuidelineModel struct {
	ID             string    `gorm:"column:id;type:uuid;primaryKey"`
	WorkspaceID    string    `gorm:"column:workspace_id;type:uuid;not null;index"`
	Name           string    `gorm:"column:name;not null"`
	BrandName      string    `gorm:"column:brand_name"`
	BrandVoice     string    `gorm:"column:brand_voice"`
	ColorPalette   []byte    `gorm:"column:color_palette;type:jsonb;not null;default:'[]'"`
	TargetAudience string    `gorm:"column:target_audience"`
	DosAndDonts    string    `gorm:"column:dos_and_donts"`
	IsDefault      bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt      time.Time `gorm:"column:created_at;not null"`
	UpdatedAt      time.Time `gorm:"column:updated_at;not null"`
}

func (brandGuidelineModel) TableName() string { return "brand_guidelines" }

type paletteColor struct {
	Hex  string `json:"hex"`
	Name string `json:"name"`
}

// toEntity renders the palette as comma separated hex values. An unreadable
// palette is dropped and reported.
func (m brandGuidelineModel) toEntity() (entities.GuidelineContext, error) {
	guideline := entities.GuidelineContext{
		GuidelineID:    m.ID,
		BrandName:      m.BrandName,
		BrandVoice:     m.BrandVoice,
		TargetAudience: m.TargetAudience,
		DosAndDonts:    m.DosAndDonts,
	}
	if len(m.ColorPalette) == 0 {
		return guideline, nil
	}
	var colors []paletteColor
	if err := json.Unmarshal(m.ColorPalette, &colors); err != nil {
		return guideline, err
	}
	hexes := make([]string, 0, len(colors))
	for _, color := range colors {
		if hex := strings.TrimSpace(color.Hex); hex != "" {
			hexes = append(hexes, hex)
		}
	}
	guideline.ColorPalette = strings.Join(hexes, ", ")
	return guideline, nil
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return value[:limit]
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
