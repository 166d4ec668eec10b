package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"voltic/contexts/billing/credit-ledger/domain/entities"
	domainerrors "voltic/contexts/billing/credit-ledger/domain/errors"
	"voltic/contexts/billing/credit-ledger/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
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

// Models lists the tables owned by the ledger for migrations.
func Models() []any {
	return []any{&workspaceModel{}, &transactionModel{}, &outboxModel{}}
}

func (r *Repository) CreateWorkspace(ctx context.Context, workspace entities.Workspace) error {
	row := workspaceModelFromEntity(workspace)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrWorkspaceExists
		}
		return err
	}
	return nil
}

func (r *Repository) GetWorkspace(ctx context.Context, workspaceID string) (entities.Workspace, error) {
	var row workspaceModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(workspaceID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Workspace{}, domainerrors.ErrWorkspaceNotFound
		}
		return entities.Workspace{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ApplyDebit(ctx context.Context, entry ports.LedgerEntry) (int, error) {
	workspaceID := strings.TrimSpace(entry.Transaction.WorkspaceID)
	amount := -entry.Transaction.Amount
	if amount <= 0 {
		return 0, domainerrors.ErrInvalidAmount
	}

	var balance int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&workspaceModel{}).
			Where("id = ? AND credit_balance >= ?", workspaceID, amount).
			Updates(map[string]any{
				"credit_balance": gorm.Expr("credit_balance - ?", amount),
				"updated_at":     entry.Transaction.CreatedAt.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&workspaceModel{}).Where("id = ?", workspaceID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return domainerrors.ErrWorkspaceNotFound
			}
			return domainerrors.ErrInsufficientCredits
		}

		var err error
		balance, err = readBalanceTx(tx, workspaceID)
		if err != nil {
			return err
		}
		return appendEntryTx(tx, entry)
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *Repository) ApplyCredit(ctx context.Context, entry ports.LedgerEntry) (int, error) {
	workspaceID := strings.TrimSpace(entry.Transaction.WorkspaceID)
	amount := entry.Transaction.Amount
	if amount <= 0 {
		return 0, domainerrors.ErrInvalidAmount
	}

	var balance int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&workspaceModel{}).
			Where("id = ?", workspaceID).
			Updates(map[string]any{
				"credit_balance": gorm.Expr("credit_balance + ?", amount),
				"updated_at":     entry.Transaction.CreatedAt.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrWorkspaceNotFound
		}

		var err error
		balance, err = readBalanceTx(tx, workspaceID)
		if err != nil {
			return err
		}
		return appendEntryTx(tx, entry)
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *Repository) ListTransactions(
	ctx context.Context,
	filter ports.TransactionFilter,
) ([]entities.CreditTransaction, int, error) {
	query := r.db.WithContext(ctx).
		Model(&transactionModel{}).
		Where("workspace_id = ?", strings.TrimSpace(filter.WorkspaceID))
	if filter.Type != "" {
		query = query.Where("type = ?", string(filter.Type))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	var rows []transactionModel
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&rows).
		Error; err != nil {
		return nil, 0, err
	}

	items := make([]entities.CreditTransaction, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, int(total), nil
}

func (r *Repository) SumTransactions(ctx context.Context, workspaceID string) (int, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&transactionModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("workspace_id = ?", strings.TrimSpace(workspaceID)).
		Scan(&sum).
		Error
	if err != nil {
		return 0, err
	}
	return int(sum), nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ? AND status = ?", strings.TrimSpace(outboxID), outboxStatusPending).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("ledger outbox row already published",
			"event", "ledger_outbox_mark_noop",
			"module", "billing/credit-ledger",
			"layer", "adapter",
			"outbox_id", outboxID,
		)
	}
	return nil
}

func readBalanceTx(tx *gorm.DB, workspaceID string) (int, error) {
	var row workspaceModel
	if err := tx.Select("credit_balance").
		Where("id = ?", workspaceID).
		First(&row).
		Error; err != nil {
		return 0, err
	}
	return row.CreditBalance, nil
}

func appendEntryTx(tx *gorm.DB, entry ports.LedgerEntry) error {
	row := transactionModelFromEntity(entry.Transaction)
	if row.TransactionID == "" {
		row.TransactionID = uuid.NewString()
	}
	if err := tx.Create(&row).Error; err != nil {
		return err
	}
	return insertOutboxEnvelopeTx(tx, entry.Event)
}

func insertOutboxEnvelopeTx(tx *gorm.DB, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row).Error
}

type workspaceModel struct {
	WorkspaceID   string    `gorm:"column:id;primaryKey"`
	Name          string    `gorm:"column:name"`
	CreditBalance int       `gorm:"column:credit_balance;not null;check:credit_balance >= 0"`
	InitialGrant  int       `gorm:"column:initial_grant;not null"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (workspaceModel) TableName() string {
	return "workspaces"
}

func workspaceModelFromEntity(item entities.Workspace) workspaceModel {
	return workspaceModel{
		WorkspaceID:   strings.TrimSpace(item.WorkspaceID),
		Name:          item.Name,
		CreditBalance: item.CreditBalance,
		InitialGrant:  item.InitialGrant,
		CreatedAt:     item.CreatedAt.UTC(),
		UpdatedAt:     item.UpdatedAt.UTC(),
	}
}

func (m workspaceModel) toEntity() entities.Workspace {
	return entities.Workspace{
		WorkspaceID:   m.WorkspaceID,
		Name:          m.Name,
		CreditBalance: m.CreditBalance,
		InitialGrant:  m.InitialGrant,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

type transactionModel struct {
	TransactionID string    `gorm:"column:id;primaryKey"`
	WorkspaceID   string    `gorm:"column:workspace_id;index:credit_transactions_workspace_created_idx,priority:1"`
	Amount        int       `gorm:"column:amount"`
	Type          string    `gorm:"column:type"`
	ReferenceID   *string   `gorm:"column:reference_id"`
	Description   string    `gorm:"column:description"`
	CreatedAt     time.Time `gorm:"column:created_at;index:credit_transactions_workspace_created_idx,priority:2"`
}

func (transactionModel) TableName() string {
	return "credit_transactions"
}

func transactionModelFromEntity(item entities.CreditTransaction) transactionModel {
	var reference *string
	if value := strings.TrimSpace(item.ReferenceID); value != "" {
		reference = &value
	}
	return transactionModel{
		TransactionID: strings.TrimSpace(item.TransactionID),
		WorkspaceID:   strings.TrimSpace(item.WorkspaceID),
		Amount:        item.Amount,
		Type:          string(item.Type),
		ReferenceID:   reference,
		Description:   item.Description,
		CreatedAt:     item.CreatedAt.UTC(),
	}
}

func (m transactionModel) toEntity() entities.CreditTransaction {
	reference := ""
	if m.ReferenceID != nil {
		reference = *m.ReferenceID
	}
	return entities.CreditTransaction{
		TransactionID: m.TransactionID,
		WorkspaceID:   m.WorkspaceID,
		Amount:        m.Amount,
		Type:          entities.TransactionType(m.Type),
		ReferenceID:   reference,
		Description:   m.Description,
		CreatedAt:     m.CreatedAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "ledger_outbox"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
