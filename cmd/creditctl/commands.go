package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"voltic/contexts/billing/credit-ledger/domain/entities"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update every table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(backend ledgerBackend) error {
				if err := backend.Migrate(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Schema up to date")
				return nil
			})
		},
	}
}

func newProvisionCommand(ctx *commandContext) *cobra.Command {
	var name string
	var grant int

	cmd := &cobra.Command{
		Use:   "provision <workspace-id>",
		Short: "Create a workspace with its opening grant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(backend ledgerBackend) error {
				workspace, err := backend.Service().ProvisionWorkspace(cmd.Context(), args[0], name, grant)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Provisioned %s with %d credits\n", workspace.WorkspaceID, workspace.CreditBalance)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Workspace display name")
	cmd.Flags().IntVar(&grant, "initial-grant", entities.DefaultInitialGrant, "Opening credit balance")
	return cmd
}

func newGrantCommand(ctx *commandContext) *cobra.Command {
	var packageID string
	var amount int
	var txType string
	var reference string
	var description string

	cmd := &cobra.Command{
		Use:   "grant <workspace-id>",
		Short: "Add purchased or bonus credits",
		Long:  "Grant either a catalogued package (--package) or an explicit amount (--amount with --type).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			packageID = strings.TrimSpace(packageID)
			if packageID == "" && amount <= 0 {
				return errors.New("one of --package or --amount is required")
			}
			if packageID != "" && amount > 0 {
				return errors.New("--package and --amount are mutually exclusive")
			}

			return ctx.withLedger(func(backend ledgerBackend) error {
				service := backend.Service()
				if packageID != "" {
					receipt, err := service.GrantPackage(cmd.Context(), args[0], packageID, reference)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Granted %d credits (%s), balance %d\n", receipt.Amount, packageID, receipt.BalanceAfter)
					return nil
				}

				parsed, ok := entities.ParseTransactionType(txType)
				if !ok || !parsed.IsGrant() {
					return fmt.Errorf("--type must be a grant type, got %q", txType)
				}
				receipt, err := service.Grant(cmd.Context(), args[0], amount, parsed, reference, description)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Granted %d credits (%s), balance %d\n", receipt.Amount, parsed, receipt.BalanceAfter)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&packageID, "package", "", "Credit package id (starter, pro, enterprise)")
	cmd.Flags().IntVar(&amount, "amount", 0, "Credits to grant")
	cmd.Flags().StringVar(&txType, "type", string(entities.TransactionTypePurchase), "Grant type (purchase, welcome_bonus)")
	cmd.Flags().StringVar(&reference, "reference", "", "External reference such as a payment id")
	cmd.Flags().StringVar(&description, "description", "", "Description stored on the transaction")
	return cmd
}

func newBalanceCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <workspace-id>",
		Short: "Show the current credit balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(backend ledgerBackend) error {
				workspace, err := backend.Service().GetBalance(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d credits\n", workspace.WorkspaceID, workspace.CreditBalance)
				return nil
			})
		},
	}
}

func newTransactionsCommand(ctx *commandContext) *cobra.Command {
	var txType string
	var page int
	var pageSize int

	cmd := &cobra.Command{
		Use:   "transactions <workspace-id>",
		Short: "List ledger transactions, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter entities.TransactionType
			if strings.TrimSpace(txType) != "" {
				parsed, ok := entities.ParseTransactionType(txType)
				if !ok {
					return fmt.Errorf("unknown transaction type %q", txType)
				}
				filter = parsed
			}
			return ctx.withLedger(func(backend ledgerBackend) error {
				result, err := backend.Service().ListTransactions(cmd.Context(), args[0], filter, page, pageSize)
				if err != nil {
					return err
				}
				out := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(out, "CREATED\tAMOUNT\tTYPE\tREFERENCE\tDESCRIPTION")
				for _, item := range result.Items {
					fmt.Fprintf(out, "%s\t%+d\t%s\t%s\t%s\n",
						item.CreatedAt.UTC().Format(time.RFC3339),
						item.Amount,
						item.Type,
						item.ReferenceID,
						item.Description,
					)
				}
				if err := out.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Page %d of %d (%d total)\n", result.Page, result.TotalPages, result.TotalCount)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&txType, "type", "", "Only this transaction type")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "Rows per page, max 100")
	return cmd
}

func newReconcileCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile <workspace-id>",
		Short: "Check the balance against the transaction log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(backend ledgerBackend) error {
				result, err := backend.Service().Reconcile(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Balance:         %d\n", result.Balance)
				fmt.Fprintf(out, "Initial grant:   %d\n", result.InitialGrant)
				fmt.Fprintf(out, "Transaction sum: %d\n", result.TransactionSum)
				if !result.Balanced() {
					return fmt.Errorf("ledger drift of %d credits in %s", result.Drift, result.WorkspaceID)
				}
				fmt.Fprintln(out, "Balanced")
				return nil
			})
		},
	}
}
