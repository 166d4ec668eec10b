package creditledger

import (
	"log/slog"

	httpadapter "voltic/contexts/billing/credit-ledger/adapters/http"
	"voltic/contexts/billing/credit-ledger/adapters/memory"
	"voltic/contexts/billing/credit-ledger/application"
	"voltic/contexts/billing/credit-ledger/ports"
)

type Module struct {
	Service application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository  ports.Repository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Telemetry   ports.Telemetry
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:      deps.Repository,
		Clock:     deps.Clock,
		IDGen:     deps.IDGenerator,
		Telemetry: deps.Telemetry,
		Logger:    deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
