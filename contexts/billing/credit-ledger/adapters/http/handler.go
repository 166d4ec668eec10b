package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"voltic/contexts/billing/credit-ledger/application"
	"voltic/contexts/billing/credit-ledger/domain/entities"
	domainerrors "voltic/contexts/billing/credit-ledger/domain/errors"
	httptransport "voltic/contexts/billing/credit-ledger/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// GetBalanceHandler godoc
// @Summary Get credit balance
// @Description Returns the current credit balance of the workspace.
// @Tags credit-ledger
// @Produce json
// @Param X-Workspace-Id header string true "Workspace id"
// @Success 200 {object} httptransport.BalanceResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 503 {object} httptransport.ErrorResponse
// @Router /v1/credits/balance [get]
func (h Handler) GetBalanceHandler(ctx context.Context, workspaceID string) (httptransport.BalanceResponse, error) {
	workspace, err := h.Service.GetBalance(ctx, workspaceID)
	if err != nil {
		return httptransport.BalanceResponse{}, err
	}
	resp := httptransport.BalanceResponse{Status: "success"}
	resp.Data.WorkspaceID = workspace.WorkspaceID
	resp.Data.CreditBalance = workspace.CreditBalance
	return resp, nil
}

// ListTransactionsHandler godoc
// @Summary List credit transactions
// @Description Returns the workspace transaction log, newest first.
// @Tags credit-ledger
// @Produce json
// @Param X-Workspace-Id header string true "Workspace id"
// @Param type query string false "Transaction type filter"
// @Param page query int false "Page number, starting at 1"
// @Param page_size query int false "Page size, max 100"
// @Success 200 {object} httptransport.ListTransactionsResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /v1/credits/transactions [get]
func (h Handler) ListTransactionsHandler(
	ctx context.Context,
	workspaceID string,
	req httptransport.ListTransactionsRequest,
) (httptransport.ListTransactionsResponse, error) {
	var txType entities.TransactionType
	if strings.TrimSpace(req.Type) != "" {
		parsed, ok := entities.ParseTransactionType(req.Type)
		if !ok {
			return httptransport.ListTransactionsResponse{}, domainerrors.ErrInvalidTransactionType
		}
		txType = parsed
	}

	page, err := h.Service.ListTransactions(ctx, workspaceID, txType, req.Page, req.PageSize)
	if err != nil {
		return httptransport.ListTransactionsResponse{}, err
	}
	resp := httptransport.ListTransactionsResponse{
		Status:     "success",
		Data:       make([]httptransport.CreditTransactionDTO, 0, len(page.Items)),
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalCount: page.TotalCount,
		TotalPages: page.TotalPages,
	}
	for _, item := range page.Items {
		resp.Data = append(resp.Data, httptransport.CreditTransactionDTO{
			TransactionID: item.TransactionID,
			Amount:        item.Amount,
			Type:          string(item.Type),
			TypeLabel:     item.Type.Label(),
			Kind:          string(item.Kind()),
			ReferenceID:   item.ReferenceID,
			Description:   item.Description,
			CreatedAt:     item.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return resp, nil
}

// ListPackagesHandler godoc
// @Summary List credit packages
// @Tags credit-ledger
// @Produce json
// @Success 200 {object} httptransport.ListPackagesResponse
// @Router /v1/credits/packages [get]
func (h Handler) ListPackagesHandler(_ context.Context) httptransport.ListPackagesResponse {
	packages := entities.CreditPackages()
	resp := httptransport.ListPackagesResponse{
		Status: "success",
		Data:   make([]httptransport.CreditPackageDTO, 0, len(packages)),
	}
	for _, item := range packages {
		resp.Data = append(resp.Data, httptransport.CreditPackageDTO{
			PackageID: item.PackageID,
			Credits:   item.Credits,
			PriceUSD:  item.PriceUSD,
			Popular:   item.Popular,
		})
	}
	return resp
}
