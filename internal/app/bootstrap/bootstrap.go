package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	creditledger "voltic/contexts/billing/credit-ledger"
	ledgerpostgres "voltic/contexts/billing/credit-ledger/adapters/postgres"
	ledgerapp "voltic/contexts/billing/credit-ledger/application"
	ledgerworkers "voltic/contexts/billing/credit-ledger/application/workers"
	insightservice "voltic/contexts/creative-generation/insight-service"
	insightcache "voltic/contexts/creative-generation/insight-service/adapters/cache"
	insightfake "voltic/contexts/creative-generation/insight-service/adapters/fake"
	insightgenai "voltic/contexts/creative-generation/insight-service/adapters/genai"
	insightpostgres "voltic/contexts/creative-generation/insight-service/adapters/postgres"
	insightports "voltic/contexts/creative-generation/insight-service/ports"
	variationservice "voltic/contexts/creative-generation/variation-service"
	variationfake "voltic/contexts/creative-generation/variation-service/adapters/fake"
	variationgenai "voltic/contexts/creative-generation/variation-service/adapters/genai"
	variationpostgres "voltic/contexts/creative-generation/variation-service/adapters/postgres"
	variationports "voltic/contexts/creative-generation/variation-service/ports"
	eventsv1 "voltic/contracts/events/v1"
	"voltic/integrations/gemini"
	"voltic/integrations/objectstore"
	"voltic/internal/platform/config"
	"voltic/internal/platform/db"
	"voltic/internal/platform/httpserver"
	"voltic/internal/platform/messaging"
	"voltic/internal/platform/metrics"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	bus          *messaging.Bus
	outboxRelay  ledgerworkers.OutboxRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

// shutdownTimeout covers a full batch of image generations in flight.
const shutdownTimeout = 2 * time.Minute

var ledgerTopics = []string{
	ledgerapp.EventCreditsDebited,
	ledgerapp.EventCreditsRefunded,
	ledgerapp.EventCreditsGranted,
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	pg, err := connect(cfg, logger)
	if err != nil {
		return nil, err
	}

	telemetry := metrics.Default()
	ledger := newLedgerModule(pg, telemetry, logger)

	capabilities, analyzer, err := buildModels(cfg, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	variationRepo := variationpostgres.NewRepository(pg.DB, logger)
	variations := variationservice.NewModule(variationservice.Dependencies{
		Ledger:         newVariationLedger(ledger.Service),
		Variations:     variationRepo,
		SourceAds:      variationRepo,
		Assets:         variationRepo,
		Guidelines:     variationRepo,
		Capabilities:   capabilities,
		Idempotency:    variationRepo,
		Clock:          variationpostgres.SystemClock{},
		IDGenerator:    variationpostgres.UUIDGenerator{},
		Telemetry:      telemetry,
		UnitCost:       cfg.VariationUnitCost,
		IdempotencyTTL: 24 * time.Hour,
		Logger:         logger,
	})

	insightRepo := insightpostgres.NewRepository(pg.DB, logger)
	cache, err := insightcache.NewLRU(insightRepo, cfg.InsightCacheSize)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}
	insights := insightservice.NewModule(insightservice.Dependencies{
		Ads:         insightRepo,
		Cache:       cache,
		Ledger:      newInsightLedger(ledger.Service),
		Analyzer:    analyzer,
		Clock:       insightpostgres.SystemClock{},
		IDGenerator: insightpostgres.UUIDGenerator{},
		Telemetry:   telemetry,
		Cost:        cfg.InsightCreditCost,
		Logger:      logger,
	})

	server := httpserver.New(ledger, variations, insights, telemetry.Handler(), logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	pg, err := connect(cfg, logger)
	if err != nil {
		return nil, err
	}

	repo := ledgerpostgres.NewRepository(pg.DB, logger)
	bus := messaging.NewBus(0, logger)
	pollSeconds := cfg.OutboxPollSeconds
	if pollSeconds <= 0 {
		pollSeconds = 2
	}
	return &WorkerApp{
		postgres: pg,
		bus:      bus,
		outboxRelay: ledgerworkers.OutboxRelay{
			Outbox:    repo,
			Publisher: bus,
			Clock:     ledgerpostgres.SystemClock{},
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		},
		pollInterval: time.Duration(pollSeconds) * time.Second,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}

	errs := make(chan error, 1)
	go func() {
		errs <- a.server.Start()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errs
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	for _, topic := range ledgerTopics {
		if err := w.bus.Subscribe(ctx, topic, "ledger-audit", w.auditLedgerEvent); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) auditLedgerEvent(_ context.Context, event eventsv1.Envelope) error {
	w.logger.Info("ledger event relayed",
		"event", "ledger_event_relayed",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"workspace_id", event.PartitionKey,
	)
	return nil
}

func connect(cfg config.Config, logger *slog.Logger) (*db.Postgres, error) {
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := migrate(context.Background(), pg); err != nil {
			_ = pg.Close()
			return nil, err
		}
		logger.Info("schema migrated",
			"event", "bootstrap_schema_migrated",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return pg, nil
}

// migrate creates every table the processes touch. The catalog tables are
// owned upstream and only created here for local runs.
func migrate(ctx context.Context, pg *db.Postgres) error {
	models := make([]any, 0, 12)
	models = append(models, ledgerpostgres.Models()...)
	models = append(models, variationpostgres.Models()...)
	models = append(models, variationpostgres.CatalogModels()...)
	models = append(models, insightpostgres.Models()...)
	models = append(models, insightpostgres.CatalogModels()...)
	return pg.Migrate(ctx, models...)
}

func newLedgerModule(pg *db.Postgres, telemetry *metrics.Metrics, logger *slog.Logger) creditledger.Module {
	return creditledger.NewModule(creditledger.Dependencies{
		Repository:  ledgerpostgres.NewRepository(pg.DB, logger),
		Clock:       ledgerpostgres.SystemClock{},
		IDGenerator: ledgerpostgres.UUIDGenerator{},
		Telemetry:   telemetry,
		Logger:      logger,
	})
}

// buildModels selects Gemini when an API key is configured and the
// deterministic fakes otherwise.
func buildModels(cfg config.Config, logger *slog.Logger) (variationports.Capabilities, insightports.Analyzer, error) {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		logger.Warn("gemini api key not set, using fake generation",
			"event", "bootstrap_fake_models",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		return variationfake.NewCapabilities(), insightfake.NewAnalyzer(), nil
	}

	client, err := gemini.New(context.Background(), gemini.Config{
		APIKey:     cfg.GeminiAPIKey,
		TextModel:  cfg.GeminiTextModel,
		ImageModel: cfg.GeminiImageModel,
		RPS:        cfg.GeminiRPS,
		Burst:      cfg.GeminiBurst,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	images, err := buildImageStore(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	capabilities := variationgenai.Capabilities{
		Model:   client,
		Images:  images,
		Fetcher: objectstore.Fetcher{Client: &http.Client{Timeout: 30 * time.Second}},
		Logger:  logger,
	}
	return capabilities, insightgenai.Analyzer{Model: client}, nil
}

func buildImageStore(cfg config.Config, logger *slog.Logger) (variationgenai.ImageStore, error) {
	if strings.TrimSpace(cfg.ObjectStoreEndpoint) == "" {
		logger.Warn("object store not configured, images are returned inline",
			"event", "bootstrap_inline_images",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		return objectstore.InlineStore{}, nil
	}
	store, err := objectstore.New(objectstore.Config{
		Endpoint:  cfg.ObjectStoreEndpoint,
		Region:    cfg.ObjectStoreRegion,
		AccessKey: cfg.ObjectStoreAccessKey,
		SecretKey: cfg.ObjectStoreSecretKey,
		Bucket:    cfg.ObjectStoreBucket,
		UseSSL:    cfg.ObjectStoreUseSSL,
		PublicURL: cfg.ObjectStorePublicURL,
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
