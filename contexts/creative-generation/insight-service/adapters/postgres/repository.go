package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"voltic/contexts/creative-generation/insight-service/domain/entities"
	domainerrors "voltic/contexts/creative-generation/insight-service/domain/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
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
	return []any{&insightModel{}}
}

// CatalogModels lists the saved ad table this context reads.
func CatalogModels() []any {
	return []any{&savedAdModel{}}
}

func (r *Repository) GetSavedAd(ctx context.Context, workspaceID string, adID string) (entities.SavedAd, error) {
	if _, err := uuid.Parse(strings.TrimSpace(adID)); err != nil {
		return entities.SavedAd{}, domainerrors.ErrAdNotFound
	}
	var row savedAdModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND workspace_id = ?", strings.TrimSpace(adID), strings.TrimSpace(workspaceID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.SavedAd{}, domainerrors.ErrAdNotFound
		}
		return entities.SavedAd{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetInsight(ctx context.Context, workspaceID string, libraryID string) (entities.Insight, error) {
	var row insightModel
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND meta_library_id = ?", strings.TrimSpace(workspaceID), strings.TrimSpace(libraryID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Insight{}, domainerrors.ErrInsightNotFound
		}
		return entities.Insight{}, err
	}
	return row.toEntity()
}

// PutInsight upserts on (workspace_id, meta_library_id). The stored row keeps
// its original id when it already existed.
func (r *Repository) PutInsight(ctx context.Context, insight entities.Insight) (entities.Insight, error) {
	row, err := insightModelFromEntity(insight)
	if err != nil {
		return entities.Insight{}, err
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "workspace_id"}, {Name: "meta_library_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"brand_name", "headline", "body_text", "format", "insights", "model", "credits_used", "created_at",
			}),
		}).
		Create(&row).
		Error
	if err != nil {
		return entities.Insight{}, err
	}
	return r.GetInsight(ctx, insight.WorkspaceID, insight.LibraryID)
}

func (r *Repository) ListByLibraryIDs(ctx context.Context, workspaceID string, libraryIDs []string) ([]entities.Insight, error) {
	if len(libraryIDs) == 0 {
		return []entities.Insight{}, nil
	}
	var rows []insightModel
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND meta_library_id IN ?", strings.TrimSpace(workspaceID), libraryIDs).
		Order("created_at DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]entities.Insight, 0, len(rows))
	for _, row := range rows {
		item, err := row.toEntity()
		if err != nil {
			r.logger.Warn("skipping unreadable insight",
				"event", "insight_row_invalid",
				"module", "creative-generation/insight-service",
				"layer", "adapter",
				"insight_id", row.ID,
				"error", err.Error(),
			)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

type insightModel struct {
	ID            string    `gorm:"column:id;type:uuid;primaryKey"`
	WorkspaceID   string    `gorm:"column:workspace_id;type:uuid;not null;uniqueIndex:ad_insights_workspace_meta_library_idx,priority:1"`
	MetaLibraryID string    `gorm:"column:meta_library_id;not null;uniqueIndex:ad_insights_workspace_meta_library_idx,priority:2"`
	BrandName     string    `gorm:"column:brand_name"`
	Headline      string    `gorm:"column:headline"`
	BodyText      string    `gorm:"column:body_text"`
	Format        string    `gorm:"column:format"`
	Insights      []byte    `gorm:"column:insights;type:jsonb;not null"`
	Model         string    `gorm:"column:model;not null"`
	CreditsUsed   int       `gorm:"column:credits_used;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;not null"`
}

func (insightModel) TableName() string { return "ad_insights" }

func insightModelFromEntity(item entities.Insight) (insightModel, error) {
	raw, err := json.Marshal(item.Data)
	if err != nil {
		return insightModel{}, err
	}
	return insightModel{
		ID:            item.InsightID,
		WorkspaceID:   item.WorkspaceID,
		MetaLibraryID: item.LibraryID,
		BrandName:     item.BrandName,
		Headline:      item.Headline,
		BodyText:      item.Body,
		Format:        item.Format,
		Insights:      raw,
		Model:         item.Model,
		CreditsUsed:   item.CreditsUsed,
		CreatedAt:     item.CreatedAt.UTC(),
	}, nil
}

func (m insightModel) toEntity() (entities.Insight, error) {
	var data entities.InsightData
	if err := json.Unmarshal(m.Insights, &data); err != nil {
		return entities.Insight{}, err
	}
	return entities.Insight{
		InsightID:   m.ID,
		WorkspaceID: m.WorkspaceID,
		LibraryID:   m.MetaLibraryID,
		BrandName:   m.BrandName,
		Headline:    m.Headline,
		Body:        m.BodyText,
		Format:      m.Format,
		Data:        data,
		Model:       m.Model,
		CreditsUsed: m.CreditsUsed,
		CreatedAt:   m.CreatedAt.UTC(),
	}, nil
}

type savedAdModel struct {
	ID             string       `gorm:"column:id;type:uuid;primaryKey"`
	WorkspaceID    string       `gorm:"column:workspace_id;type:uuid;not null;index"`
	Source         string       `gorm:"column:source;not null;default:discover"`
	MetaLibraryID  *string      `gorm:"column:meta_library_id"`
	BrandName      string       `gorm:"column:brand_name"`
	Headline       string       `gorm:"column:headline"`
	Body           string       `gorm:"column:body"`
	Format         string       `gorm:"column:format;not null;default:image"`
	ImageURL       string       `gorm:"column:image_url"`
	LandingPageURL string       `gorm:"column:landing_page_url"`
	Platforms      platformList `gorm:"column:platforms;type:text[]"`
	RuntimeDays    *int         `gorm:"column:runtime_days"`
	Metadata       []byte       `gorm:"column:metadata;type:jsonb"`
	CreatedAt      time.Time    `gorm:"column:created_at;not null"`
}

func (savedAdModel) TableName() string { return "saved_ads" }

// platformList decodes a text[] column with pgx's type map.
type platformList []string

func (p *platformList) Scan(src any) error {
	return pgtype.NewMap().SQLScanner((*[]string)(p)).Scan(src)
}

type savedAdMetadata struct {
	IsActive bool `json:"isActive"`
}

func (m savedAdModel) toEntity() entities.SavedAd {
	ad := entities.SavedAd{
		AdID:           m.ID,
		WorkspaceID:    m.WorkspaceID,
		Identity:       entities.LocalAdIdentity{},
		BrandName:      m.BrandName,
		Headline:       m.Headline,
		Body:           m.Body,
		Format:         m.Format,
		Platforms:      []string(m.Platforms),
		LandingPageURL: m.LandingPageURL,
	}
	if m.MetaLibraryID != nil {
		ad.Identity = entities.IdentityFromLibraryID(*m.MetaLibraryID)
	}
	if m.RuntimeDays != nil {
		ad.RuntimeDays = *m.RuntimeDays
	}
	if len(m.Metadata) > 0 {
		var meta savedAdMetadata
		if err := json.Unmarshal(m.Metadata, &meta); err == nil {
			ad.IsActive = meta.IsActive
		}
	}
	return ad
}
