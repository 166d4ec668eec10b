package bootstrap

import (
	"context"
	"errors"
	"fmt"

	ledgerapp "voltic/contexts/billing/credit-ledger/application"
	ledgerentities "voltic/contexts/billing/credit-ledger/domain/entities"
	ledgererrors "voltic/contexts/billing/credit-ledger/domain/errors"
	insighterrors "voltic/contexts/creative-generation/insight-service/domain/errors"
	insightports "voltic/contexts/creative-generation/insight-service/ports"
	variationerrors "voltic/contexts/creative-generation/variation-service/domain/errors"
	variationports "voltic/contexts/creative-generation/variation-service/ports"
)

// ledgerErrors names the sentinels a consuming context expects in place of
// the ledger's own.
type ledgerErrors struct {
	insufficient      error
	workspaceNotFound error
	unavailable       error
	invalid           error
}

// ledgerBridge exposes the credit ledger to a generation context. Contexts
// never import each other; the bridge translates reasons and errors here.
type ledgerBridge struct {
	service ledgerapp.Service
	errs    ledgerErrors
}

var (
	_ variationports.CreditLedger = ledgerBridge{}
	_ insightports.CreditLedger   = ledgerBridge{}
)

func newVariationLedger(service ledgerapp.Service) ledgerBridge {
	return ledgerBridge{
		service: service,
		errs: ledgerErrors{
			insufficient:      variationerrors.ErrInsufficientCredits,
			workspaceNotFound: variationerrors.ErrWorkspaceNotFound,
			unavailable:       variationerrors.ErrLedgerUnavailable,
			invalid:           variationerrors.ErrInvalidRequest,
		},
	}
}

func newInsightLedger(service ledgerapp.Service) ledgerBridge {
	return ledgerBridge{
		service: service,
		errs: ledgerErrors{
			insufficient:      insighterrors.ErrInsufficientCredits,
			workspaceNotFound: insighterrors.ErrWorkspaceNotFound,
			unavailable:       insighterrors.ErrLedgerUnavailable,
			invalid:           insighterrors.ErrInvalidRequest,
		},
	}
}

func (b ledgerBridge) CheckAndDeduct(ctx context.Context, workspaceID string, amount int, reason string, referenceID string) error {
	txType, err := b.reason(reason)
	if err != nil {
		return err
	}
	_, err = b.service.CheckAndDeduct(ctx, workspaceID, amount, txType, referenceID)
	return b.translate(err)
}

func (b ledgerBridge) Refund(ctx context.Context, workspaceID string, amount int, reason string, referenceID string) error {
	txType, err := b.reason(reason)
	if err != nil {
		return err
	}
	_, err = b.service.Refund(ctx, workspaceID, amount, txType, referenceID)
	return b.translate(err)
}

func (b ledgerBridge) reason(raw string) (ledgerentities.TransactionType, error) {
	txType, ok := ledgerentities.ParseTransactionType(raw)
	if !ok {
		return "", fmt.Errorf("%w: unknown ledger reason %q", b.errs.invalid, raw)
	}
	return txType, nil
}

func (b ledgerBridge) translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ledgererrors.ErrInsufficientCredits):
		return b.errs.insufficient
	case errors.Is(err, ledgererrors.ErrWorkspaceNotFound):
		return b.errs.workspaceNotFound
	case errors.Is(err, ledgererrors.ErrInvalidAmount),
		errors.Is(err, ledgererrors.ErrInvalidTransactionType),
		errors.Is(err, ledgererrors.ErrWorkspaceRequired):
		return fmt.Errorf("%w: %v", b.errs.invalid, err)
	default:
		return fmt.Errorf("%w: %v", b.errs.unavailable, err)
	}
}
