package insightservice

import (
	"log/slog"

	"voltic/contexts/creative-generation/insight-service/adapters/fake"
	httpadapter "voltic/contexts/creative-generation/insight-service/adapters/http"
	"voltic/contexts/creative-generation/insight-service/adapters/memory"
	"voltic/contexts/creative-generation/insight-service/application/commands"
	"voltic/contexts/creative-generation/insight-service/application/queries"
	"voltic/contexts/creative-generation/insight-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Ads         ports.AdRepository
	Cache       ports.InsightCache
	Ledger      ports.CreditLedger
	Analyzer    ports.Analyzer
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Telemetry   ports.Telemetry
	Cost        int
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			GenerateInsight: commands.GenerateInsightUseCase{
				Ads:       deps.Ads,
				Cache:     deps.Cache,
				Ledger:    deps.Ledger,
				Analyzer:  deps.Analyzer,
				Clock:     deps.Clock,
				IDGen:     deps.IDGenerator,
				Telemetry: deps.Telemetry,
				Cost:      deps.Cost,
				Logger:    deps.Logger,
			},
			ListInsights: queries.ListInsightsUseCase{
				Cache: deps.Cache,
			},
			Logger: deps.Logger,
		},
	}
}

// NewInMemoryModule wires the memory store. A nil analyzer selects the fake.
func NewInMemoryModule(ledger ports.CreditLedger, analyzer ports.Analyzer, logger *slog.Logger) Module {
	store := memory.NewStore()
	if analyzer == nil {
		analyzer = fake.NewAnalyzer()
	}
	module := NewModule(Dependencies{
		Ads:         store,
		Cache:       store,
		Ledger:      ledger,
		Analyzer:    analyzer,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
