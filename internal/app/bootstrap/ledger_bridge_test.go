package bootstrap

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	creditledger "voltic/contexts/billing/credit-ledger"
	ledgerentities "voltic/contexts/billing/credit-ledger/domain/entities"
	insighterrors "voltic/contexts/creative-generation/insight-service/domain/errors"
	variationerrors "voltic/contexts/creative-generation/variation-service/domain/errors"
)

func provisionedLedger(t *testing.T, balance int) creditledger.Module {
	t.Helper()
	module := creditledger.NewInMemoryModule(slog.Default())
	_, err := module.Service.ProvisionWorkspace(context.Background(), "ws-1", "Glow", balance)
	require.NoError(t, err)
	return module
}

func TestVariationBridgeDebitsAndRefunds(t *testing.T) {
	module := provisionedLedger(t, 100)
	bridge := newVariationLedger(module.Service)
	ctx := context.Background()

	require.NoError(t, bridge.CheckAndDeduct(ctx, "ws-1", 20, "variation", "batch-1"))
	require.NoError(t, bridge.Refund(ctx, "ws-1", 10, "variation", "var-2"))

	workspace, err := module.Service.GetBalance(ctx, "ws-1")
	require.NoError(t, err)
	assert.Equal(t, 90, workspace.CreditBalance)

	page, err := module.Service.ListTransactions(ctx, "ws-1", "", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, ledgerentities.TransactionTypeRefund, page.Items[0].Type)
	assert.Equal(t, "var-2", page.Items[0].ReferenceID)

	reconciliation, err := module.Service.Reconcile(ctx, "ws-1")
	require.NoError(t, err)
	assert.True(t, reconciliation.Balanced())
}

func TestBridgeTranslatesLedgerErrors(t *testing.T) {
	module := provisionedLedger(t, 25)
	ctx := context.Background()

	variations := newVariationLedger(module.Service)
	err := variations.CheckAndDeduct(ctx, "ws-1", 30, "variation", "batch-1")
	require.ErrorIs(t, err, variationerrors.ErrInsufficientCredits)

	err = variations.CheckAndDeduct(ctx, "ws-404", 10, "variation", "batch-2")
	require.ErrorIs(t, err, variationerrors.ErrWorkspaceNotFound)

	err = variations.CheckAndDeduct(ctx, "ws-1", 10, "bogus", "batch-3")
	require.ErrorIs(t, err, variationerrors.ErrInvalidRequest)

	insights := newInsightLedger(module.Service)
	err = insights.CheckAndDeduct(ctx, "ws-1", 30, "ad_insight", "ad-1")
	require.ErrorIs(t, err, insighterrors.ErrInsufficientCredits)

	workspace, err := module.Service.GetBalance(ctx, "ws-1")
	require.NoError(t, err)
	assert.Equal(t, 25, workspace.CreditBalance)
}

func TestNormalizeAddr(t *testing.T) {
	assert.Equal(t, ":8080", normalizeAddr(""))
	assert.Equal(t, ":9090", normalizeAddr("9090"))
	assert.Equal(t, ":7070", normalizeAddr(":7070"))
}
