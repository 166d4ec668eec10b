package variationservice

import (
	"log/slog"
	"time"

	"voltic/contexts/creative-generation/variation-service/adapters/fake"
	httpadapter "voltic/contexts/creative-generation/variation-service/adapters/http"
	"voltic/contexts/creative-generation/variation-service/adapters/memory"
	"voltic/contexts/creative-generation/variation-service/application/commands"
	"voltic/contexts/creative-generation/variation-service/application/queries"
	"voltic/contexts/creative-generation/variation-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Ledger         ports.CreditLedger
	Variations     ports.VariationRepository
	SourceAds      ports.SourceAdRepository
	Assets         ports.AssetRepository
	Guidelines     ports.GuidelineRepository
	Capabilities   ports.Capabilities
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	Telemetry      ports.Telemetry
	UnitCost       int
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			GenerateVariations: commands.GenerateVariationsUseCase{
				Ledger:         deps.Ledger,
				Variations:     deps.Variations,
				SourceAds:      deps.SourceAds,
				Assets:         deps.Assets,
				Guidelines:     deps.Guidelines,
				Capabilities:   deps.Capabilities,
				Idempotency:    deps.Idempotency,
				Clock:          deps.Clock,
				IDGenerator:    deps.IDGenerator,
				Telemetry:      deps.Telemetry,
				UnitCost:       deps.UnitCost,
				IdempotencyTTL: deps.IdempotencyTTL,
				Logger:         deps.Logger,
			},
			DeleteVariation: commands.DeleteVariationUseCase{
				Variations: deps.Variations,
				Logger:     deps.Logger,
			},
			GetVariation: queries.GetVariationUseCase{
				Variations: deps.Variations,
			},
			ListVariations: queries.ListVariationsUseCase{
				Variations: deps.Variations,
				Logger:     deps.Logger,
			},
			Logger: deps.Logger,
		},
	}
}

// NewInMemoryModule wires the memory store. A nil capabilities value selects
// the deterministic fake.
func NewInMemoryModule(ledger ports.CreditLedger, capabilities ports.Capabilities, logger *slog.Logger) Module {
	store := memory.NewStore()
	if capabilities == nil {
		capabilities = fake.NewCapabilities()
	}
	module := NewModule(Dependencies{
		Ledger:       ledger,
		Variations:   store,
		SourceAds:    store,
		Assets:       store,
		Guidelines:   store,
		Capabilities: capabilities,
		Idempotency:  store,
		Clock:        store,
		IDGenerator:  store,
		Logger:       logger,
	})
	module.Store = store
	return module
}
