package commands

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltic/contexts/creative-generation/variation-service/adapters/fake"
	"voltic/contexts/creative-generation/variation-service/adapters/memory"
	"voltic/contexts/creative-generation/variation-service/domain/entities"
	domainerrors "voltic/contexts/creative-generation/variation-service/domain/errors"
)

type ledgerCall struct {
	op          string
	amount      int
	referenceID string
}

type testLedger struct {
	mu      sync.Mutex
	balance int
	calls   []ledgerCall

	// failRefunds rejects that many refunds before accepting again.
	failRefunds int
}

func (l *testLedger) CheckAndDeduct(_ context.Context, _ string, amount int, _ string, referenceID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balance < amount {
		return domainerrors.ErrInsufficientCredits
	}
	l.balance -= amount
	l.calls = append(l.calls, ledgerCall{op: "debit", amount: amount, referenceID: referenceID})
	return nil
}

func (l *testLedger) Refund(_ context.Context, _ string, amount int, _ string, referenceID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failRefunds > 0 {
		l.failRefunds--
		return errors.New("ledger down")
	}
	l.balance += amount
	l.calls = append(l.calls, ledgerCall{op: "refund", amount: amount, referenceID: referenceID})
	return nil
}

func (l *testLedger) Balance() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

type fixture struct {
	store  *memory.Store
	ledger *testLedger
	caps   *fake.Capabilities
	uc     GenerateVariationsUseCase
}

func newFixture(balance int) fixture {
	store := memory.NewStore()
	store.SeedSourceAd("ws-1", entities.SourceAd{AdID: "ad-1", BrandName: "Rival", Headline: "Shine", Format: "image"})
	store.SeedAsset("ws-1", entities.TargetAsset{AssetID: "asset-1", Name: "Serum", ImageURL: "https://assets.test/serum.png"})
	ledger := &testLedger{balance: balance}
	caps := fake.NewCapabilities()
	return fixture{
		store:  store,
		ledger: ledger,
		caps:   caps,
		uc: GenerateVariationsUseCase{
			Ledger:       ledger,
			Variations:   store,
			SourceAds:    store,
			Assets:       store,
			Guidelines:   store,
			Capabilities: caps,
			Idempotency:  store,
			Clock:        store,
			IDGenerator:  store,
			UnitCost:     10,
		},
	}
}

func competitorCommand(strategies ...string) GenerateVariationsCommand {
	return GenerateVariationsCommand{
		WorkspaceID:   "ws-1",
		SourceKind:    entities.SourceCompetitor,
		SourceAdID:    "ad-1",
		TargetAssetID: "asset-1",
		Strategies:    strategies,
	}
}

func listAll(t *testing.T, store *memory.Store) []entities.Variation {
	t.Helper()
	items, err := store.ListVariations(context.Background(), entities.VariationFilter{WorkspaceID: "ws-1"})
	require.NoError(t, err)
	return items
}

func TestBatchRejectedWhenBalanceCannotCoverEveryUnit(t *testing.T) {
	f := newFixture(25)

	_, err := f.uc.Execute(context.Background(), competitorCommand("hero_product", "curiosity", "pain_point"))
	require.ErrorIs(t, err, domainerrors.ErrInsufficientCredits)
	assert.Equal(t, 25, f.ledger.Balance())
	assert.Empty(t, listAll(t, f.store))
	assert.Empty(t, f.caps.Calls())
}

func TestFailedUnitIsRefundedAndIsolated(t *testing.T) {
	f := newFixture(100)
	f.caps.FailImage(entities.StrategyCuriosity, errors.New("image model down"))

	result, err := f.uc.Execute(context.Background(), competitorCommand("hero_product", "curiosity"))
	require.NoError(t, err)

	assert.Equal(t, 90, f.ledger.Balance())
	require.Len(t, result.Batch.Results, 2)
	assert.True(t, result.Batch.Results[0].Success)
	assert.False(t, result.Batch.Results[1].Success)
	assert.Contains(t, result.Batch.Results[1].Error, "image model down")
	assert.Equal(t, "1 of 2 succeeded", result.Batch.Summary())
	assert.Equal(t, 10, result.Batch.CreditsCharged)

	completed, err := f.store.GetVariation(context.Background(), "ws-1", result.Batch.Results[0].VariationID)
	require.NoError(t, err)
	assert.Equal(t, entities.VariationStatusCompleted, completed.Status)
	assert.NotEmpty(t, completed.GeneratedImageURL)

	failed, err := f.store.GetVariation(context.Background(), "ws-1", result.Batch.Results[1].VariationID)
	require.NoError(t, err)
	assert.Equal(t, entities.VariationStatusFailed, failed.Status)

	last := f.ledger.calls[len(f.ledger.calls)-1]
	assert.Equal(t, ledgerCall{op: "refund", amount: 10, referenceID: failed.VariationID}, last)
}

func TestNetChargeMatchesSuccessfulUnits(t *testing.T) {
	f := newFixture(100)
	f.caps.FailText(entities.StrategyPainPoint, nil)
	f.caps.FailImage(entities.StrategyImageOnly, nil)

	result, err := f.uc.Execute(context.Background(), competitorCommand("hero_product", "pain_point", "image_only", "text_only"))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Batch.Succeeded())
	assert.Equal(t, 100-10*2, f.ledger.Balance())
	assert.Len(t, listAll(t, f.store), 4)
}

func TestTextOnlyNeverRequestsImage(t *testing.T) {
	f := newFixture(100)

	result, err := f.uc.Execute(context.Background(), competitorCommand("text_only"))
	require.NoError(t, err)
	assert.True(t, result.Batch.Results[0].Success)
	assert.Equal(t, []string{"text:text_only"}, f.caps.Calls())
}

func TestAssetSourceEditsInsteadOfGenerating(t *testing.T) {
	f := newFixture(100)
	cmd := competitorCommand("hero_product")
	cmd.SourceKind = entities.SourceAsset
	cmd.SourceAdID = ""
	cmd.CreativeOptions = &entities.CreativeOptions{Lighting: "studio"}

	result, err := f.uc.Execute(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, []string{"text:hero_product", "edit:hero_product"}, f.caps.Calls())

	variation, err := f.store.GetVariation(context.Background(), "ws-1", result.Batch.Results[0].VariationID)
	require.NoError(t, err)
	require.NotNil(t, variation.CreativeOptions)
	assert.Equal(t, entities.LightingStyle("studio"), variation.CreativeOptions.Lighting)
}

func TestUnresolvedSourceRefundsWholeBatch(t *testing.T) {
	f := newFixture(50)
	cmd := competitorCommand("hero_product", "curiosity")
	cmd.SourceAdID = "missing"

	_, err := f.uc.Execute(context.Background(), cmd)
	require.ErrorIs(t, err, domainerrors.ErrSourceAdNotFound)
	assert.Equal(t, 50, f.ledger.Balance())
	assert.Empty(t, listAll(t, f.store))
}

func TestRefundFailureDoesNotAbandonLaterUnits(t *testing.T) {
	f := newFixture(100)
	f.caps.FailText(entities.StrategyHeroProduct, nil)
	f.caps.FailImage(entities.StrategyPainPoint, nil)
	f.ledger.failRefunds = 1
	cmd := competitorCommand("hero_product", "curiosity", "pain_point")
	cmd.IdempotencyKey = "req-9"

	result, err := f.uc.Execute(context.Background(), cmd)
	require.ErrorIs(t, err, domainerrors.ErrLedgerUnavailable)
	assert.Contains(t, err.Error(), "10 credits unreconciled")

	require.Len(t, result.Batch.Results, 3)
	assert.False(t, result.Batch.Results[0].Success)
	assert.True(t, result.Batch.Results[1].Success)
	assert.False(t, result.Batch.Results[2].Success)
	assert.Equal(t, 10, result.Batch.CreditsCharged)
	assert.Equal(t, 10, result.Batch.CreditsUnreconciled)

	assert.Equal(t, []string{
		"text:hero_product",
		"text:curiosity",
		"image:curiosity",
		"text:pain_point",
		"image:pain_point",
	}, f.caps.Calls())
	// hero_product's refund was lost; pain_point's went through.
	assert.Equal(t, 100-30+10, f.ledger.Balance())
	assert.Len(t, listAll(t, f.store), 3)

	_, stored, err := f.store.GetRecord(context.Background(), "ws-1:req-9", time.Now())
	require.NoError(t, err)
	assert.False(t, stored)
}

type stuckTransitions struct {
	*memory.Store
}

func (stuckTransitions) CompleteVariation(context.Context, string, entities.GeneratedContent, time.Time) (entities.Variation, error) {
	return entities.Variation{}, errors.New("db write failed")
}

func (stuckTransitions) FailVariation(context.Context, string, string, time.Time) (entities.Variation, error) {
	return entities.Variation{}, errors.New("db write failed")
}

func TestUnitIsRefundedWhenStatusCannotBeRecorded(t *testing.T) {
	f := newFixture(100)
	f.uc.Variations = stuckTransitions{Store: f.store}

	result, err := f.uc.Execute(context.Background(), competitorCommand("hero_product"))
	require.NoError(t, err)
	require.Len(t, result.Batch.Results, 1)
	assert.False(t, result.Batch.Results[0].Success)
	assert.Contains(t, result.Batch.Results[0].Error, "db write failed")
	assert.Equal(t, 0, result.Batch.CreditsCharged)
	assert.Equal(t, 100, f.ledger.Balance())

	variation, err := f.store.GetVariation(context.Background(), "ws-1", result.Batch.Results[0].VariationID)
	require.NoError(t, err)
	assert.Equal(t, entities.VariationStatusPending, variation.Status)
}

func TestIdempotentReplayDoesNotCharge(t *testing.T) {
	f := newFixture(100)
	cmd := competitorCommand("hero_product")
	cmd.IdempotencyKey = "req-1"

	first, err := f.uc.Execute(context.Background(), cmd)
	require.NoError(t, err)
	second, err := f.uc.Execute(context.Background(), cmd)
	require.NoError(t, err)

	assert.True(t, second.Replayed)
	assert.Equal(t, first.Batch.BatchID, second.Batch.BatchID)
	assert.Equal(t, 90, f.ledger.Balance())

	cmd.Strategies = []string{"curiosity"}
	_, err = f.uc.Execute(context.Background(), cmd)
	require.ErrorIs(t, err, domainerrors.ErrIdempotencyConflict)
}

func TestGuidelineFallsBackToWorkspaceDefault(t *testing.T) {
	f := newFixture(100)
	f.store.SeedGuideline("ws-1", entities.GuidelineContext{GuidelineID: "g-1", BrandName: "Glow"}, true)

	plan, err := planBatch(competitorCommand("hero_product"))
	require.NoError(t, err)
	inputs, err := f.uc.resolveInputs(context.Background(), plan)
	require.NoError(t, err)
	require.NotNil(t, inputs.guideline)
	assert.Equal(t, "g-1", inputs.guideline.GuidelineID)

	plan.guidelineID = "unknown"
	inputs, err = f.uc.resolveInputs(context.Background(), plan)
	require.NoError(t, err)
	assert.Nil(t, inputs.guideline)
}

func TestPlanBatchValidation(t *testing.T) {
	cases := []struct {
		name string
		cmd  GenerateVariationsCommand
		want error
	}{
		{name: "no strategies", cmd: competitorCommand(), want: domainerrors.ErrInvalidStrategy},
		{name: "unknown strategy", cmd: competitorCommand("viral"), want: domainerrors.ErrInvalidStrategy},
		{name: "duplicate", cmd: competitorCommand("curiosity", "Curiosity"), want: domainerrors.ErrDuplicateStrategy},
		{
			name: "too many",
			cmd:  competitorCommand("hero_product", "curiosity", "pain_point", "proof_point", "image_only", "text_only", "hero_product"),
			want: domainerrors.ErrInvalidStrategy,
		},
		{
			name: "competitor without ad",
			cmd: GenerateVariationsCommand{
				WorkspaceID:   "ws-1",
				SourceKind:    entities.SourceCompetitor,
				TargetAssetID: "asset-1",
				Strategies:    []string{"curiosity"},
			},
			want: domainerrors.ErrSourceAdRequired,
		},
		{
			name: "bad options",
			cmd: GenerateVariationsCommand{
				WorkspaceID:     "ws-1",
				SourceKind:      entities.SourceAsset,
				TargetAssetID:   "asset-1",
				Strategies:      []string{"curiosity"},
				CreativeOptions: &entities.CreativeOptions{Angle: "upside_down"},
			},
			want: domainerrors.ErrInvalidCreativeOptions,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := planBatch(tc.cmd)
			require.ErrorIs(t, err, tc.want)
		})
	}
}
