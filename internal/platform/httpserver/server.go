package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	creditledger "voltic/contexts/billing/credit-ledger"
	insightservice "voltic/contexts/creative-generation/insight-service"
	variationservice "voltic/contexts/creative-generation/variation-service"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "voltic/internal/platform/httpserver/docs"
)

const workspaceHeader = "X-Workspace-Id"

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	ledger     creditledger.Module
	variations variationservice.Module
	insights   insightservice.Module
	metrics    http.Handler
	httpServer *http.Server
}

func New(
	ledger creditledger.Module,
	variations variationservice.Module,
	insights insightservice.Module,
	metrics http.Handler,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		ledger:     ledger,
		variations: variations,
		insights:   insights,
		metrics:    metrics,
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.recoverPanics(s.mux)
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests and waits for in-flight batches.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics)
	}
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("GET /v1/credits/balance", s.handleGetBalance)
	s.mux.HandleFunc("GET /v1/credits/transactions", s.handleListTransactions)
	s.mux.HandleFunc("GET /v1/credits/packages", s.handleListPackages)

	s.mux.HandleFunc("POST /v1/variations/batches", s.handleGenerateVariations)
	s.mux.HandleFunc("GET /v1/variations", s.handleListVariations)
	s.mux.HandleFunc("GET /v1/variations/{variation_id}", s.handleGetVariation)
	s.mux.HandleFunc("DELETE /v1/variations/{variation_id}", s.handleDeleteVariation)

	s.mux.HandleFunc("POST /v1/insights", s.handleGenerateInsight)
	s.mux.HandleFunc("GET /v1/insights", s.handleListInsights)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				s.logger.Error("http handler panicked",
					"event", "http_handler_panic",
					"module", "internal/platform/httpserver",
					"layer", "platform",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", recovered,
					"stack", string(debug.Stack()),
				)
				writeJSON(w, http.StatusInternalServerError, errorBody{
					Code:    "internal_error",
					Message: "internal server error",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requireWorkspace reads the caller's workspace. Authentication happens in
// front of this service; the header is trusted as-is.
func requireWorkspace(w http.ResponseWriter, r *http.Request) (string, bool) {
	workspaceID := strings.TrimSpace(r.Header.Get(workspaceHeader))
	if workspaceID == "" {
		writeJSON(w, http.StatusUnauthorized, errorBody{
			Code:    "workspace_required",
			Message: workspaceHeader + " header is required",
		})
		return "", false
	}
	return workspaceID, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
