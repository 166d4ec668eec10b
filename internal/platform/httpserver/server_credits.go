package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	ledgererrors "voltic/contexts/billing/credit-ledger/domain/errors"
	ledgerhttp "voltic/contexts/billing/credit-ledger/transport/http"
)

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := requireWorkspace(w, r)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.GetBalanceHandler(r.Context(), workspaceID)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := requireWorkspace(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	req := ledgerhttp.ListTransactionsRequest{Type: query.Get("type")}
	if raw := strings.TrimSpace(query.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			writeLedgerError(w, http.StatusBadRequest, "invalid_page", "page must be an integer")
			return
		}
		req.Page = page
	}
	if raw := strings.TrimSpace(query.Get("page_size")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			writeLedgerError(w, http.StatusBadRequest, "invalid_page_size", "page_size must be an integer")
			return
		}
		req.PageSize = size
	}

	resp, err := s.ledger.Handler.ListTransactionsHandler(r.Context(), workspaceID, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListPackages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.Handler.ListPackagesHandler(r.Context()))
}

func writeLedgerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledgererrors.ErrWorkspaceNotFound):
		writeLedgerError(w, http.StatusNotFound, "workspace_not_found", err.Error())
	case errors.Is(err, ledgererrors.ErrInsufficientCredits):
		writeLedgerError(w, http.StatusPaymentRequired, "insufficient_credits", err.Error())
	case errors.Is(err, ledgererrors.ErrInvalidTransactionType),
		errors.Is(err, ledgererrors.ErrInvalidAmount),
		errors.Is(err, ledgererrors.ErrWorkspaceRequired),
		errors.Is(err, ledgererrors.ErrUnknownPackage):
		writeLedgerError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, ledgererrors.ErrWorkspaceExists):
		writeLedgerError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, ledgererrors.ErrLedgerUnavailable):
		writeLedgerError(w, http.StatusServiceUnavailable, "ledger_unavailable", err.Error())
	default:
		writeLedgerError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeLedgerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ledgerhttp.ErrorResponse{Code: code, Message: message})
}
