package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltic/contexts/creative-generation/insight-service/adapters/fake"
	"voltic/contexts/creative-generation/insight-service/adapters/memory"
	"voltic/contexts/creative-generation/insight-service/domain/entities"
	domainerrors "voltic/contexts/creative-generation/insight-service/domain/errors"
)

type testLedger struct {
	balance   int
	debits    int
	refunds   int
	refundErr error
}

func (l *testLedger) CheckAndDeduct(_ context.Context, _ string, amount int, reason string, _ string) error {
	if reason != LedgerReason {
		return errors.New("unexpected reason " + reason)
	}
	if l.balance < amount {
		return domainerrors.ErrInsufficientCredits
	}
	l.balance -= amount
	l.debits++
	return nil
}

func (l *testLedger) Refund(_ context.Context, _ string, amount int, _ string, _ string) error {
	if l.refundErr != nil {
		return l.refundErr
	}
	l.balance += amount
	l.refunds++
	return nil
}

func newUseCase(balance int) (GenerateInsightUseCase, *memory.Store, *testLedger, *fake.Analyzer) {
	store := memory.NewStore()
	store.SeedSavedAd(entities.SavedAd{
		AdID:        "ad-lib",
		WorkspaceID: "ws-1",
		Identity:    entities.ExternalAdIdentity{LibraryID: "lib-1"},
		BrandName:   "Rival",
	})
	store.SeedSavedAd(entities.SavedAd{
		AdID:        "ad-local",
		WorkspaceID: "ws-1",
		Identity:    entities.LocalAdIdentity{},
		BrandName:   "Upload",
	})
	ledger := &testLedger{balance: balance}
	analyzer := fake.NewAnalyzer()
	return GenerateInsightUseCase{
		Ads:      store,
		Cache:    store,
		Ledger:   ledger,
		Analyzer: analyzer,
		Clock:    store,
		IDGen:    store,
		Cost:     2,
	}, store, ledger, analyzer
}

func TestSecondRequestIsServedFromCache(t *testing.T) {
	uc, store, ledger, analyzer := newUseCase(10)
	cmd := GenerateInsightCommand{WorkspaceID: "ws-1", AdID: "ad-lib"}

	first, err := uc.Execute(context.Background(), cmd)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, "lib-1", first.Insight.LibraryID)

	second, err := uc.Execute(context.Background(), cmd)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Insight.InsightID, second.Insight.InsightID)

	assert.Equal(t, 1, ledger.debits)
	assert.Equal(t, 8, ledger.balance)
	assert.Equal(t, 1, analyzer.Calls())
	assert.Equal(t, 1, store.InsightCount())
}

func TestLocalAdsAreNeverCached(t *testing.T) {
	uc, store, ledger, _ := newUseCase(10)
	cmd := GenerateInsightCommand{WorkspaceID: "ws-1", AdID: "ad-local"}

	for i := 0; i < 2; i++ {
		result, err := uc.Execute(context.Background(), cmd)
		require.NoError(t, err)
		assert.False(t, result.Cached)
	}
	assert.Equal(t, 2, ledger.debits)
	assert.Equal(t, 0, store.InsightCount())
}

func TestAnalysisFailureIsRefunded(t *testing.T) {
	uc, store, ledger, analyzer := newUseCase(10)
	analyzer.Fail(nil)

	_, err := uc.Execute(context.Background(), GenerateInsightCommand{WorkspaceID: "ws-1", AdID: "ad-lib"})
	require.ErrorIs(t, err, domainerrors.ErrAnalysisFailed)
	assert.Equal(t, 10, ledger.balance)
	assert.Equal(t, 1, ledger.refunds)
	assert.Equal(t, 0, store.InsightCount())
}

func TestRefundFailureSurfacesLedgerError(t *testing.T) {
	uc, _, ledger, analyzer := newUseCase(10)
	analyzer.Fail(nil)
	ledger.refundErr = errors.New("db down")

	_, err := uc.Execute(context.Background(), GenerateInsightCommand{WorkspaceID: "ws-1", AdID: "ad-local"})
	require.ErrorIs(t, err, domainerrors.ErrLedgerUnavailable)
}

type failingIDs struct{}

func (failingIDs) NewID(context.Context) (string, error) {
	return "", errors.New("id source down")
}

func TestIDFailureHappensBeforeCharging(t *testing.T) {
	uc, _, ledger, analyzer := newUseCase(10)
	uc.IDGen = failingIDs{}

	_, err := uc.Execute(context.Background(), GenerateInsightCommand{WorkspaceID: "ws-1", AdID: "ad-lib"})
	require.ErrorContains(t, err, "id source down")
	assert.Equal(t, 10, ledger.balance)
	assert.Equal(t, 0, ledger.debits)
	assert.Equal(t, 0, analyzer.Calls())
}

func TestCacheErrorsDegradeToUncachedAnalysis(t *testing.T) {
	uc, store, ledger, _ := newUseCase(10)
	store.FailCache(errors.New("read timeout"), errors.New("write timeout"))

	result, err := uc.Execute(context.Background(), GenerateInsightCommand{WorkspaceID: "ws-1", AdID: "ad-lib"})
	require.NoError(t, err)
	assert.False(t, result.Cached)
	assert.Equal(t, 1, ledger.debits)
	assert.Equal(t, 0, ledger.refunds)
}

func TestInsufficientCreditsSkipsAnalysis(t *testing.T) {
	uc, _, _, analyzer := newUseCase(1)

	_, err := uc.Execute(context.Background(), GenerateInsightCommand{WorkspaceID: "ws-1", AdID: "ad-lib"})
	require.ErrorIs(t, err, domainerrors.ErrInsufficientCredits)
	assert.Equal(t, 0, analyzer.Calls())
}

func TestUnknownAdIsTerminal(t *testing.T) {
	uc, _, ledger, _ := newUseCase(10)

	_, err := uc.Execute(context.Background(), GenerateInsightCommand{WorkspaceID: "ws-2", AdID: "ad-lib"})
	require.ErrorIs(t, err, domainerrors.ErrAdNotFound)
	assert.Equal(t, 0, ledger.debits)
}
