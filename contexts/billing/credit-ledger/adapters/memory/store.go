package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"voltic/contexts/billing/credit-ledger/domain/entities"
	domainerrors "voltic/contexts/billing/credit-ledger/domain/errors"
	"voltic/contexts/billing/credit-ledger/ports"

	"github.com/google/uuid"
)

// Store is the in-process ledger used by tests and the local runtime. One
// mutex serializes every balance movement.
type Store struct {
	mu sync.RWMutex

	workspaces   map[string]entities.Workspace
	transactions []entities.CreditTransaction
	outbox       []outboxRecord
}

type outboxRecord struct {
	Message     ports.OutboxMessage
	PublishedAt *time.Time
}

func NewStore() *Store {
	return &Store{
		workspaces: make(map[string]entities.Workspace),
	}
}

func (s *Store) CreateWorkspace(_ context.Context, workspace entities.Workspace) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(workspace.WorkspaceID)
	if _, exists := s.workspaces[id]; exists {
		return domainerrors.ErrWorkspaceExists
	}
	workspace.WorkspaceID = id
	s.workspaces[id] = workspace
	return nil
}

func (s *Store) GetWorkspace(_ context.Context, workspaceID string) (entities.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	workspace, ok := s.workspaces[strings.TrimSpace(workspaceID)]
	if !ok {
		return entities.Workspace{}, domainerrors.ErrWorkspaceNotFound
	}
	return workspace, nil
}

func (s *Store) ApplyDebit(_ context.Context, entry ports.LedgerEntry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	amount := -entry.Transaction.Amount
	if amount <= 0 {
		return 0, domainerrors.ErrInvalidAmount
	}
	id := strings.TrimSpace(entry.Transaction.WorkspaceID)
	workspace, ok := s.workspaces[id]
	if !ok {
		return 0, domainerrors.ErrWorkspaceNotFound
	}
	if workspace.CreditBalance < amount {
		return 0, domainerrors.ErrInsufficientCredits
	}
	record, err := outboxRecordFor(entry)
	if err != nil {
		return 0, err
	}
	workspace.CreditBalance -= amount
	workspace.UpdatedAt = entry.Transaction.CreatedAt
	s.workspaces[id] = workspace
	s.transactions = append(s.transactions, entry.Transaction)
	s.outbox = append(s.outbox, record)
	return workspace.CreditBalance, nil
}

func (s *Store) ApplyCredit(_ context.Context, entry ports.LedgerEntry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	amount := entry.Transaction.Amount
	if amount <= 0 {
		return 0, domainerrors.ErrInvalidAmount
	}
	id := strings.TrimSpace(entry.Transaction.WorkspaceID)
	workspace, ok := s.workspaces[id]
	if !ok {
		return 0, domainerrors.ErrWorkspaceNotFound
	}
	record, err := outboxRecordFor(entry)
	if err != nil {
		return 0, err
	}
	workspace.CreditBalance += amount
	workspace.UpdatedAt = entry.Transaction.CreatedAt
	s.workspaces[id] = workspace
	s.transactions = append(s.transactions, entry.Transaction)
	s.outbox = append(s.outbox, record)
	return workspace.CreditBalance, nil
}

func (s *Store) ListTransactions(
	_ context.Context,
	filter ports.TransactionFilter,
) ([]entities.CreditTransaction, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]entities.CreditTransaction, 0)
	for i := len(s.transactions) - 1; i >= 0; i-- {
		item := s.transactions[i]
		if item.WorkspaceID != strings.TrimSpace(filter.WorkspaceID) {
			continue
		}
		if filter.Type != "" && item.Type != filter.Type {
			continue
		}
		matched = append(matched, item)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []entities.CreditTransaction{}, total, nil
	}
	end := total
	if filter.Limit > 0 && offset+filter.Limit < end {
		end = offset + filter.Limit
	}
	return append([]entities.CreditTransaction(nil), matched[offset:end]...), total, nil
}

func (s *Store) SumTransactions(_ context.Context, workspaceID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := 0
	for _, item := range s.transactions {
		if item.WorkspaceID == strings.TrimSpace(workspaceID) {
			sum += item.Amount
		}
	}
	return sum, nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, limit)
	for _, record := range s.outbox {
		if record.PublishedAt != nil {
			continue
		}
		items = append(items, record.Message)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].Message.OutboxID == strings.TrimSpace(outboxID) {
			at := publishedAt.UTC()
			s.outbox[i].PublishedAt = &at
			return nil
		}
	}
	return nil
}

// Transactions returns a copy of the log in commit order.
func (s *Store) Transactions() []entities.CreditTransaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.CreditTransaction(nil), s.transactions...)
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func outboxRecordFor(entry ports.LedgerEntry) (outboxRecord, error) {
	payload, err := json.Marshal(entry.Event)
	if err != nil {
		return outboxRecord{}, err
	}
	return outboxRecord{
		Message: ports.OutboxMessage{
			OutboxID:     entry.Event.EventID,
			EventType:    entry.Event.EventType,
			PartitionKey: entry.Event.PartitionKey,
			Payload:      payload,
			CreatedAt:    entry.Event.OccurredAt,
		},
	}, nil
}
