package entities

import "time"

// DefaultInitialGrant matches the balance a freshly created workspace receives.
const DefaultInitialGrant = 100

type Workspace struct {
	WorkspaceID   string
	Name          string
	CreditBalance int
	InitialGrant  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Reconciliation compares the stored balance with the transaction log.
type Reconciliation struct {
	WorkspaceID    string
	Balance        int
	InitialGrant   int
	TransactionSum int
	Drift          int
}

func NewReconciliation(workspace Workspace, transactionSum int) Reconciliation {
	return Reconciliation{
		WorkspaceID:    workspace.WorkspaceID,
		Balance:        workspace.CreditBalance,
		InitialGrant:   workspace.InitialGrant,
		TransactionSum: transactionSum,
		Drift:          workspace.CreditBalance - workspace.InitialGrant - transactionSum,
	}
}

func (r Reconciliation) Balanced() bool {
	return r.Drift == 0
}
