package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	variationerrors "voltic/contexts/creative-generation/variation-service/domain/errors"
	variationhttp "voltic/contexts/creative-generation/variation-service/transport/http"
)

const maxBatchBodyBytes = 64 << 10

func (s *Server) handleGenerateVariations(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := requireWorkspace(w, r)
	if !ok {
		return
	}
	var req variationhttp.GenerateVariationsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBatchBodyBytes)).Decode(&req); err != nil {
		writeVariationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.variations.Handler.GenerateVariationsHandler(
		r.Context(),
		workspaceID,
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writeVariationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListVariations(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := requireWorkspace(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	req := variationhttp.ListVariationsRequest{SavedAdID: query.Get("saved_ad_id")}
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeVariationError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		req.Limit = limit
	}

	resp, err := s.variations.Handler.ListVariationsHandler(r.Context(), workspaceID, req)
	if err != nil {
		writeVariationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetVariation(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := requireWorkspace(w, r)
	if !ok {
		return
	}
	resp, err := s.variations.Handler.GetVariationHandler(r.Context(), workspaceID, r.PathValue("variation_id"))
	if err != nil {
		writeVariationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteVariation(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := requireWorkspace(w, r)
	if !ok {
		return
	}
	resp, err := s.variations.Handler.DeleteVariationHandler(r.Context(), workspaceID, r.PathValue("variation_id"))
	if err != nil {
		writeVariationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeVariationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, variationerrors.ErrInsufficientCredits):
		writeVariationError(w, http.StatusPaymentRequired, "insufficient_credits", err.Error())
	case errors.Is(err, variationerrors.ErrSourceAdNotFound),
		errors.Is(err, variationerrors.ErrAssetNotFound),
		errors.Is(err, variationerrors.ErrVariationNotFound),
		errors.Is(err, variationerrors.ErrWorkspaceNotFound):
		writeVariationError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, variationerrors.ErrInvalidRequest),
		errors.Is(err, variationerrors.ErrInvalidStrategy),
		errors.Is(err, variationerrors.ErrDuplicateStrategy),
		errors.Is(err, variationerrors.ErrInvalidCreativeOptions),
		errors.Is(err, variationerrors.ErrSourceAdRequired):
		writeVariationError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, variationerrors.ErrIdempotencyConflict),
		errors.Is(err, variationerrors.ErrInvalidStatusTransition):
		writeVariationError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, variationerrors.ErrLedgerUnavailable):
		writeVariationError(w, http.StatusServiceUnavailable, "ledger_unavailable", err.Error())
	default:
		writeVariationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeVariationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, variationhttp.ErrorResponse{Code: code, Message: message})
}
