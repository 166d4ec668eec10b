package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeMatchesProductCopy(t *testing.T) {
	cases := []struct {
		txType TransactionType
		amount int
		want   string
	}{
		{TransactionTypeVariation, -10, "AI Variation generation (-10 credits)"},
		{TransactionTypeCreativeEnhance, -5, "Creative Enhancement (-5 credits)"},
		{TransactionTypeAdInsight, -3, "AI Ad Insight generation (-3 credits)"},
		{TransactionTypeComparison, -2, "AI Ad Comparison (-2 credits)"},
		{TransactionTypeCompetitorReport, -1, "Competitor Report generation (-1 credits)"},
		{TransactionTypeDecomposition, -4, "Ad Decomposition analysis (-4 credits)"},
		{TransactionTypePurchase, 100, "Credit purchase (+100 credits)"},
		{TransactionTypeRefund, 50, "Refund (+50 credits)"},
		{TransactionTypeWelcomeBonus, 25, "Welcome bonus (+25 credits)"},
		{TransactionType("mystery"), 42, "Credit transaction (42 credits)"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Describe(tc.txType, tc.amount), string(tc.txType))
	}
}

func TestDescribeRefundNamesReason(t *testing.T) {
	assert.Equal(t, "Refund (+10 credits) for Variation", DescribeRefund(10, TransactionTypeVariation))
	assert.Equal(t, "Refund (+2 credits)", DescribeRefund(2, TransactionType("")))
}

func TestTransactionKind(t *testing.T) {
	assert.Equal(t, KindDebit, CreditTransaction{Amount: -10, Type: TransactionTypeVariation}.Kind())
	assert.Equal(t, KindRefund, CreditTransaction{Amount: 10, Type: TransactionTypeRefund}.Kind())
	assert.Equal(t, KindGrant, CreditTransaction{Amount: 100, Type: TransactionTypePurchase}.Kind())
}

func TestParseTransactionType(t *testing.T) {
	parsed, ok := ParseTransactionType(" Ad_Insight ")
	require.True(t, ok)
	assert.Equal(t, TransactionTypeAdInsight, parsed)
	assert.True(t, parsed.IsSpend())
	assert.False(t, TransactionTypeRefund.IsSpend())
	assert.True(t, TransactionTypeWelcomeBonus.IsGrant())

	_, ok = ParseTransactionType("bogus")
	assert.False(t, ok)
}

func TestReconciliationDrift(t *testing.T) {
	balanced := NewReconciliation(Workspace{WorkspaceID: "ws", CreditBalance: 90, InitialGrant: 100}, -10)
	assert.True(t, balanced.Balanced())

	drifted := NewReconciliation(Workspace{WorkspaceID: "ws", CreditBalance: 95, InitialGrant: 100}, -10)
	assert.Equal(t, 5, drifted.Drift)
	assert.False(t, drifted.Balanced())
}

func TestFindCreditPackage(t *testing.T) {
	pkg, ok := FindCreditPackage("PRO")
	require.True(t, ok)
	assert.Equal(t, 500, pkg.Credits)
	assert.True(t, pkg.Popular)

	_, ok = FindCreditPackage("platinum")
	assert.False(t, ok)
	assert.Len(t, CreditPackages(), 3)
}
