package entities

import (
	"fmt"
	"strings"
	"time"
)

type TransactionType string

const (
	TransactionTypeVariation        TransactionType = "variation"
	TransactionTypeCreativeEnhance  TransactionType = "creative_enhance"
	TransactionTypeAdInsight        TransactionType = "ad_insight"
	TransactionTypeComparison       TransactionType = "comparison"
	TransactionTypeCompetitorReport TransactionType = "competitor_report"
	TransactionTypeDecomposition    TransactionType = "decomposition"
	TransactionTypePurchase         TransactionType = "purchase"
	TransactionTypeRefund           TransactionType = "refund"
	TransactionTypeWelcomeBonus     TransactionType = "welcome_bonus"
)

// Kind classifies a transaction by its effect on the balance.
type Kind string

const (
	KindDebit  Kind = "debit"
	KindRefund Kind = "refund"
	KindGrant  Kind = "grant"
)

type transactionTypeInfo struct {
	label  string
	spend  bool
	format string
}

var transactionTypes = map[TransactionType]transactionTypeInfo{
	TransactionTypeVariation:        {label: "Variation", spend: true, format: "AI Variation generation (-%d credits)"},
	TransactionTypeCreativeEnhance:  {label: "Enhancement", spend: true, format: "Creative Enhancement (-%d credits)"},
	TransactionTypeAdInsight:        {label: "Ad Insight", spend: true, format: "AI Ad Insight generation (-%d credits)"},
	TransactionTypeComparison:       {label: "Comparison", spend: true, format: "AI Ad Comparison (-%d credits)"},
	TransactionTypeCompetitorReport: {label: "Competitor Report", spend: true, format: "Competitor Report generation (-%d credits)"},
	TransactionTypeDecomposition:    {label: "Decomposition", spend: true, format: "Ad Decomposition analysis (-%d credits)"},
	TransactionTypePurchase:         {label: "Purchase", format: "Credit purchase (+%d credits)"},
	TransactionTypeRefund:           {label: "Refund", format: "Refund (+%d credits)"},
	TransactionTypeWelcomeBonus:     {label: "Welcome Bonus", format: "Welcome bonus (+%d credits)"},
}

func ParseTransactionType(raw string) (TransactionType, bool) {
	value := TransactionType(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := transactionTypes[value]
	return value, ok
}

func (t TransactionType) Valid() bool {
	_, ok := transactionTypes[t]
	return ok
}

// IsSpend reports whether the type names a billable operation that debits credits.
func (t TransactionType) IsSpend() bool {
	return transactionTypes[t].spend
}

// IsGrant reports whether the type adds credits from outside the workspace.
func (t TransactionType) IsGrant() bool {
	return t == TransactionTypePurchase || t == TransactionTypeWelcomeBonus
}

func (t TransactionType) Label() string {
	if info, ok := transactionTypes[t]; ok {
		return info.label
	}
	return string(t)
}

// Describe renders the human readable description stored with a transaction.
// Unknown types fall back to a generic signed description.
func Describe(t TransactionType, amount int) string {
	info, ok := transactionTypes[t]
	if !ok {
		return fmt.Sprintf("Credit transaction (%d credits)", amount)
	}
	if amount < 0 {
		amount = -amount
	}
	return fmt.Sprintf(info.format, amount)
}

// DescribeRefund names the spend being refunded.
func DescribeRefund(amount int, reason TransactionType) string {
	base := Describe(TransactionTypeRefund, amount)
	if !reason.Valid() || reason == TransactionTypeRefund {
		return base
	}
	return base + " for " + reason.Label()
}

type CreditTransaction struct {
	TransactionID string
	WorkspaceID   string
	Amount        int
	Type          TransactionType
	ReferenceID   string
	Description   string
	CreatedAt     time.Time
}

func (t CreditTransaction) Kind() Kind {
	switch {
	case t.Amount < 0:
		return KindDebit
	case t.Type == TransactionTypeRefund:
		return KindRefund
	default:
		return KindGrant
	}
}
