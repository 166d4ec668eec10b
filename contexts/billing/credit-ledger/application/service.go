package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	eventsv1 "voltic/contracts/events/v1"
	"voltic/contexts/billing/credit-ledger/domain/entities"
	domainerrors "voltic/contexts/billing/credit-ledger/domain/errors"
	"voltic/contexts/billing/credit-ledger/ports"
)

const (
	moduleName    = "billing/credit-ledger"
	sourceService = "credit-ledger"

	EventCreditsDebited  = "credits.debited"
	EventCreditsRefunded = "credits.refunded"
	EventCreditsGranted  = "credits.granted"
)

// Receipt describes one committed balance movement.
type Receipt struct {
	TransactionID string
	WorkspaceID   string
	Amount        int
	BalanceAfter  int
	Type          entities.TransactionType
	Description   string
}

type TransactionPage struct {
	Items      []entities.CreditTransaction
	Page       int
	PageSize   int
	TotalCount int
	TotalPages int
}

type Service struct {
	Repo      ports.Repository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Telemetry ports.Telemetry
	Logger    *slog.Logger
}

// CheckAndDeduct debits amount credits for a billable operation. The check
// and the debit are one conditional write; a rejected debit leaves the
// balance and the transaction log untouched.
func (s Service) CheckAndDeduct(
	ctx context.Context,
	workspaceID string,
	amount int,
	reason entities.TransactionType,
	referenceID string,
) (Receipt, error) {
	workspaceID = strings.TrimSpace(workspaceID)
	if workspaceID == "" {
		return Receipt{}, domainerrors.ErrWorkspaceRequired
	}
	if amount <= 0 {
		return Receipt{}, domainerrors.ErrInvalidAmount
	}
	if !reason.IsSpend() {
		return Receipt{}, domainerrors.ErrInvalidTransactionType
	}

	entry, err := s.newEntry(ctx, workspaceID, -amount, reason, referenceID, entities.Describe(reason, amount), EventCreditsDebited)
	if err != nil {
		return Receipt{}, unavailable(err)
	}

	balance, err := s.Repo.ApplyDebit(ctx, entry)
	if err != nil {
		if errors.Is(err, domainerrors.ErrInsufficientCredits) {
			s.telemetry().DebitRejected(string(reason))
			ResolveLogger(s.Logger).Info("credit debit rejected",
				"event", "credit_debit_rejected",
				"module", moduleName,
				"layer", "application",
				"workspace_id", workspaceID,
				"amount", amount,
				"type", string(reason),
			)
			return Receipt{}, err
		}
		if errors.Is(err, domainerrors.ErrWorkspaceNotFound) {
			return Receipt{}, err
		}
		return Receipt{}, s.failLoud("credit debit failed", workspaceID, amount, reason, err)
	}

	s.telemetry().CreditsDebited(string(reason), amount)
	ResolveLogger(s.Logger).Info("credits debited",
		"event", "credits_debited",
		"module", moduleName,
		"layer", "application",
		"workspace_id", workspaceID,
		"amount", amount,
		"type", string(reason),
		"reference_id", referenceID,
		"balance_after", balance,
	)
	return receiptFrom(entry.Transaction, balance), nil
}

// Refund returns credits for a billable operation that did not deliver.
// Refunds are not deduplicated; callers issue exactly one per failure.
func (s Service) Refund(
	ctx context.Context,
	workspaceID string,
	amount int,
	reason entities.TransactionType,
	referenceID string,
) (Receipt, error) {
	workspaceID = strings.TrimSpace(workspaceID)
	if workspaceID == "" {
		return Receipt{}, domainerrors.ErrWorkspaceRequired
	}
	if amount <= 0 {
		return Receipt{}, domainerrors.ErrInvalidAmount
	}

	entry, err := s.newEntry(ctx, workspaceID, amount, entities.TransactionTypeRefund, referenceID, entities.DescribeRefund(amount, reason), EventCreditsRefunded)
	if err != nil {
		return Receipt{}, unavailable(err)
	}

	balance, err := s.Repo.ApplyCredit(ctx, entry)
	if err != nil {
		return Receipt{}, s.failLoud("credit refund failed", workspaceID, amount, reason, err)
	}

	s.telemetry().CreditsReturned(string(entities.TransactionTypeRefund), amount)
	ResolveLogger(s.Logger).Info("credits refunded",
		"event", "credits_refunded",
		"module", moduleName,
		"layer", "application",
		"workspace_id", workspaceID,
		"amount", amount,
		"reason", string(reason),
		"reference_id", referenceID,
		"balance_after", balance,
	)
	return receiptFrom(entry.Transaction, balance), nil
}

// Grant adds purchased or bonus credits.
func (s Service) Grant(
	ctx context.Context,
	workspaceID string,
	amount int,
	txType entities.TransactionType,
	referenceID string,
	description string,
) (Receipt, error) {
	workspaceID = strings.TrimSpace(workspaceID)
	if workspaceID == "" {
		return Receipt{}, domainerrors.ErrWorkspaceRequired
	}
	if amount <= 0 {
		return Receipt{}, domainerrors.ErrInvalidAmount
	}
	if !txType.IsGrant() {
		return Receipt{}, domainerrors.ErrInvalidTransactionType
	}
	if strings.TrimSpace(description) == "" {
		description = entities.Describe(txType, amount)
	}

	entry, err := s.newEntry(ctx, workspaceID, amount, txType, referenceID, strings.TrimSpace(description), EventCreditsGranted)
	if err != nil {
		return Receipt{}, unavailable(err)
	}

	balance, err := s.Repo.ApplyCredit(ctx, entry)
	if err != nil {
		if errors.Is(err, domainerrors.ErrWorkspaceNotFound) {
			return Receipt{}, err
		}
		return Receipt{}, s.failLoud("credit grant failed", workspaceID, amount, txType, err)
	}

	s.telemetry().CreditsReturned(string(txType), amount)
	ResolveLogger(s.Logger).Info("credits granted",
		"event", "credits_granted",
		"module", moduleName,
		"layer", "application",
		"workspace_id", workspaceID,
		"amount", amount,
		"type", string(txType),
		"balance_after", balance,
	)
	return receiptFrom(entry.Transaction, balance), nil
}

// GrantPackage grants the credits of a catalogued package as a purchase.
func (s Service) GrantPackage(ctx context.Context, workspaceID string, packageID string, referenceID string) (Receipt, error) {
	pkg, ok := entities.FindCreditPackage(packageID)
	if !ok {
		return Receipt{}, domainerrors.ErrUnknownPackage
	}
	return s.Grant(ctx, workspaceID, pkg.Credits, entities.TransactionTypePurchase, referenceID, "")
}

// ProvisionWorkspace creates a workspace whose opening balance is its
// initial grant. No transaction row is written for the grant.
func (s Service) ProvisionWorkspace(
	ctx context.Context,
	workspaceID string,
	name string,
	initialGrant int,
) (entities.Workspace, error) {
	workspaceID = strings.TrimSpace(workspaceID)
	if workspaceID == "" {
		return entities.Workspace{}, domainerrors.ErrWorkspaceRequired
	}
	if initialGrant < 0 {
		return entities.Workspace{}, domainerrors.ErrInvalidAmount
	}

	now := s.now()
	workspace := entities.Workspace{
		WorkspaceID:   workspaceID,
		Name:          strings.TrimSpace(name),
		CreditBalance: initialGrant,
		InitialGrant:  initialGrant,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Repo.CreateWorkspace(ctx, workspace); err != nil {
		if errors.Is(err, domainerrors.ErrWorkspaceExists) {
			return entities.Workspace{}, err
		}
		return entities.Workspace{}, unavailable(err)
	}

	ResolveLogger(s.Logger).Info("workspace provisioned",
		"event", "credit_workspace_provisioned",
		"module", moduleName,
		"layer", "application",
		"workspace_id", workspaceID,
		"initial_grant", initialGrant,
	)
	return workspace, nil
}

func (s Service) GetBalance(ctx context.Context, workspaceID string) (entities.Workspace, error) {
	workspaceID = strings.TrimSpace(workspaceID)
	if workspaceID == "" {
		return entities.Workspace{}, domainerrors.ErrWorkspaceRequired
	}
	workspace, err := s.Repo.GetWorkspace(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrWorkspaceNotFound) {
			return entities.Workspace{}, err
		}
		return entities.Workspace{}, unavailable(err)
	}
	return workspace, nil
}

// ListTransactions returns one page of the workspace log, newest first.
func (s Service) ListTransactions(
	ctx context.Context,
	workspaceID string,
	txType entities.TransactionType,
	page int,
	pageSize int,
) (TransactionPage, error) {
	workspaceID = strings.TrimSpace(workspaceID)
	if workspaceID == "" {
		return TransactionPage{}, domainerrors.ErrWorkspaceRequired
	}
	if txType != "" && !txType.Valid() {
		return TransactionPage{}, domainerrors.ErrInvalidTransactionType
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	items, total, err := s.Repo.ListTransactions(ctx, ports.TransactionFilter{
		WorkspaceID: workspaceID,
		Type:        txType,
		Limit:       pageSize,
		Offset:      (page - 1) * pageSize,
	})
	if err != nil {
		return TransactionPage{}, unavailable(err)
	}
	return TransactionPage{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

// Reconcile checks that the balance equals the initial grant plus the sum of
// every logged transaction.
func (s Service) Reconcile(ctx context.Context, workspaceID string) (entities.Reconciliation, error) {
	workspace, err := s.GetBalance(ctx, workspaceID)
	if err != nil {
		return entities.Reconciliation{}, err
	}
	sum, err := s.Repo.SumTransactions(ctx, workspace.WorkspaceID)
	if err != nil {
		return entities.Reconciliation{}, unavailable(err)
	}

	result := entities.NewReconciliation(workspace, sum)
	if !result.Balanced() {
		ResolveLogger(s.Logger).Error("credit ledger drift detected",
			"event", "credit_ledger_drift",
			"module", moduleName,
			"layer", "application",
			"workspace_id", workspace.WorkspaceID,
			"balance", result.Balance,
			"initial_grant", result.InitialGrant,
			"transaction_sum", result.TransactionSum,
			"drift", result.Drift,
		)
	}
	return result, nil
}

func (s Service) newEntry(
	ctx context.Context,
	workspaceID string,
	amount int,
	txType entities.TransactionType,
	referenceID string,
	description string,
	eventType string,
) (ports.LedgerEntry, error) {
	transactionID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.LedgerEntry{}, err
	}
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.LedgerEntry{}, err
	}

	now := s.now()
	transaction := entities.CreditTransaction{
		TransactionID: transactionID,
		WorkspaceID:   workspaceID,
		Amount:        amount,
		Type:          txType,
		ReferenceID:   strings.TrimSpace(referenceID),
		Description:   description,
		CreatedAt:     now,
	}
	envelope, err := eventsv1.NewEnvelope(eventID, eventType, sourceService, "workspace_id", workspaceID, now, map[string]any{
		"transaction_id": transaction.TransactionID,
		"workspace_id":   transaction.WorkspaceID,
		"amount":         transaction.Amount,
		"type":           string(transaction.Type),
		"kind":           string(transaction.Kind()),
		"reference_id":   transaction.ReferenceID,
		"description":    transaction.Description,
		"occurred_at":    now.Format(time.RFC3339),
	})
	if err != nil {
		return ports.LedgerEntry{}, err
	}
	return ports.LedgerEntry{Transaction: transaction, Event: envelope}, nil
}

func (s Service) failLoud(message string, workspaceID string, amount int, txType entities.TransactionType, err error) error {
	ResolveLogger(s.Logger).Error(message,
		"event", "credit_ledger_unavailable",
		"module", moduleName,
		"layer", "application",
		"workspace_id", workspaceID,
		"amount", amount,
		"type", string(txType),
		"error", err.Error(),
	)
	return unavailable(err)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) telemetry() ports.Telemetry {
	if s.Telemetry == nil {
		return noopTelemetry{}
	}
	return s.Telemetry
}

func receiptFrom(transaction entities.CreditTransaction, balance int) Receipt {
	amount := transaction.Amount
	if amount < 0 {
		amount = -amount
	}
	return Receipt{
		TransactionID: transaction.TransactionID,
		WorkspaceID:   transaction.WorkspaceID,
		Amount:        amount,
		BalanceAfter:  balance,
		Type:          transaction.Type,
		Description:   transaction.Description,
	}
}

func unavailable(err error) error {
	if errors.Is(err, domainerrors.ErrLedgerUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", domainerrors.ErrLedgerUnavailable, err)
}

type noopTelemetry struct{}

func (noopTelemetry) CreditsDebited(string, int)  {}
func (noopTelemetry) CreditsReturned(string, int) {}
func (noopTelemetry) DebitRejected(string)        {}
