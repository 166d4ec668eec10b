package bootstrap

import (
	"context"
	"log/slog"

	creditledger "voltic/contexts/billing/credit-ledger"
	ledgerapp "voltic/contexts/billing/credit-ledger/application"
	"voltic/internal/platform/config"
	"voltic/internal/platform/db"
)

// LedgerApp backs the operator CLI. It talks to the ledger directly and
// never starts HTTP or the relay.
type LedgerApp struct {
	ledger   creditledger.Module
	postgres *db.Postgres
}

func BuildLedgerCLI() (*LedgerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	// The CLI migrates on request only.
	cfg.AutoMigrate = false

	logger := slog.Default().With("service", cfg.ServiceName, "process", "creditctl")
	pg, err := connect(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &LedgerApp{
		ledger:   newLedgerModule(pg, nil, logger),
		postgres: pg,
	}, nil
}

func (a *LedgerApp) Service() ledgerapp.Service {
	return a.ledger.Service
}

func (a *LedgerApp) Migrate(ctx context.Context) error {
	return migrate(ctx, a.postgres)
}

func (a *LedgerApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}
