package ports

import (
	"context"
	"time"

	eventsv1 "voltic/contracts/events/v1"
	"voltic/contexts/billing/credit-ledger/domain/entities"
)

type EventEnvelope = eventsv1.Envelope

// LedgerEntry is one balance movement committed together with its
// transaction row and outbox event.
type LedgerEntry struct {
	Transaction entities.CreditTransaction
	Event       EventEnvelope
}

type TransactionFilter struct {
	WorkspaceID string
	Type        entities.TransactionType
	Limit       int
	Offset      int
}

type Repository interface {
	CreateWorkspace(ctx context.Context, workspace entities.Workspace) error
	GetWorkspace(ctx context.Context, workspaceID string) (entities.Workspace, error)
	// ApplyDebit subtracts -entry.Transaction.Amount only when the balance
	// covers it and returns the balance after the debit.
	ApplyDebit(ctx context.Context, entry LedgerEntry) (int, error)
	// ApplyCredit adds entry.Transaction.Amount and returns the new balance.
	ApplyCredit(ctx context.Context, entry LedgerEntry) (int, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]entities.CreditTransaction, int, error)
	SumTransactions(ctx context.Context, workspaceID string) (int, error)
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type Telemetry interface {
	CreditsDebited(txType string, amount int)
	CreditsReturned(txType string, amount int)
	DebitRejected(txType string)
}
