package postgresadapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"voltic/contexts/billing/credit-ledger/domain/entities"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost dbname=voltic sslmode=disable"}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db
}

func TestZeroGrantWorkspaceInsertsZeroBalance(t *testing.T) {
	db := dryRunDB(t)
	row := workspaceModelFromEntity(entities.Workspace{WorkspaceID: "ws-0", Name: "zero"})

	stmt := db.Create(&row).Statement
	sql := stmt.SQL.String()
	assert.Contains(t, sql, "credit_balance")
	assert.Contains(t, sql, "initial_grant")
	require.GreaterOrEqual(t, len(stmt.Vars), 4)
	assert.Equal(t, []any{"ws-0", "zero", 0, 0}, stmt.Vars[:4])
}
