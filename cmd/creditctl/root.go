package main

import (
	"context"

	"github.com/spf13/cobra"

	ledgerapp "voltic/contexts/billing/credit-ledger/application"
	"voltic/internal/app/bootstrap"
)

// ledgerBackend is what the commands need from the composition root.
type ledgerBackend interface {
	Service() ledgerapp.Service
	Migrate(ctx context.Context) error
	Close() error
}

type opener func() (ledgerBackend, error)

func openLedger() (ledgerBackend, error) {
	app, err := bootstrap.BuildLedgerCLI()
	if err != nil {
		return nil, err
	}
	return app, nil
}

type commandContext struct {
	open opener
}

// withLedger opens the backend for one command and always closes it.
func (c *commandContext) withLedger(fn func(ledgerBackend) error) (err error) {
	backend, err := c.open()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := backend.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(backend)
}

func newRootCommand(open opener) *cobra.Command {
	ctx := &commandContext{open: open}

	rootCmd := &cobra.Command{
		Use:           "creditctl",
		Short:         "Operate workspace credit ledgers",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newProvisionCommand(ctx))
	rootCmd.AddCommand(newGrantCommand(ctx))
	rootCmd.AddCommand(newBalanceCommand(ctx))
	rootCmd.AddCommand(newTransactionsCommand(ctx))
	rootCmd.AddCommand(newReconcileCommand(ctx))

	return rootCmd
}
