package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	insighterrors "voltic/contexts/creative-generation/insight-service/domain/errors"
	insighthttp "voltic/contexts/creative-generation/insight-service/transport/http"
)

func (s *Server) handleGenerateInsight(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := requireWorkspace(w, r)
	if !ok {
		return
	}
	var req insighthttp.GenerateInsightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInsightError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.insights.Handler.GenerateInsightHandler(r.Context(), workspaceID, req)
	if err != nil {
		writeInsightDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleListInsights accepts library_id repeated or comma separated.
func (s *Server) handleListInsights(w http.ResponseWriter, r *http.Request) {
	workspaceID, ok := requireWorkspace(w, r)
	if !ok {
		return
	}
	libraryIDs := make([]string, 0)
	for _, raw := range r.URL.Query()["library_id"] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				libraryIDs = append(libraryIDs, part)
			}
		}
	}
	resp, err := s.insights.Handler.ListInsightsHandler(r.Context(), workspaceID, libraryIDs)
	if err != nil {
		writeInsightDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeInsightDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, insighterrors.ErrInsufficientCredits):
		writeInsightError(w, http.StatusPaymentRequired, "insufficient_credits", err.Error())
	case errors.Is(err, insighterrors.ErrAdNotFound),
		errors.Is(err, insighterrors.ErrInsightNotFound),
		errors.Is(err, insighterrors.ErrWorkspaceNotFound):
		writeInsightError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, insighterrors.ErrInvalidRequest):
		writeInsightError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, insighterrors.ErrLedgerUnavailable):
		writeInsightError(w, http.StatusServiceUnavailable, "ledger_unavailable", err.Error())
	case errors.Is(err, insighterrors.ErrAnalysisFailed):
		writeInsightError(w, http.StatusBadGateway, "analysis_failed", err.Error())
	default:
		writeInsightError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeInsightError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, insighthttp.ErrorResponse{Code: code, Message: message})
}
