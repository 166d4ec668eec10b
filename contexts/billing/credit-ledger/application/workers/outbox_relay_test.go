package workers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltic/contexts/billing/credit-ledger/adapters/memory"
	"voltic/contexts/billing/credit-ledger/application"
	"voltic/contexts/billing/credit-ledger/domain/entities"
	"voltic/contexts/billing/credit-ledger/ports"
)

type recordingPublisher struct {
	topics []string
	fail   bool
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, _ ports.EventEnvelope) error {
	if p.fail {
		return errors.New("bus down")
	}
	p.topics = append(p.topics, topic)
	return nil
}

func seedLedger(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	service := application.Service{Repo: store, Clock: store, IDGen: store}
	ctx := context.Background()
	_, err := service.ProvisionWorkspace(ctx, "ws-1", "Acme", 100)
	require.NoError(t, err)
	_, err = service.CheckAndDeduct(ctx, "ws-1", 10, entities.TransactionTypeVariation, "")
	require.NoError(t, err)
	_, err = service.Refund(ctx, "ws-1", 10, entities.TransactionTypeVariation, "var-1")
	require.NoError(t, err)
	return store
}

func TestOutboxRelayPublishesOnce(t *testing.T) {
	store := seedLedger(t)
	publisher := &recordingPublisher{}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store}

	require.NoError(t, relay.RunOnce(context.Background()))
	assert.Equal(t, []string{application.EventCreditsDebited, application.EventCreditsRefunded}, publisher.topics)

	require.NoError(t, relay.RunOnce(context.Background()))
	assert.Len(t, publisher.topics, 2)
}

func TestOutboxRelayKeepsRowsWhenPublishFails(t *testing.T) {
	store := seedLedger(t)
	relay := OutboxRelay{Outbox: store, Publisher: &recordingPublisher{fail: true}}

	require.Error(t, relay.RunOnce(context.Background()))

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}
