package app

import (
	httpx "github.com/feedmill/feedmill-backend/internal/http"
)

func wireRouter(h Handlers) *httpx.Server {
	return httpx.NewServer(httpx.RouterConfig{
		MaterialHandler:    h.Material,
		ProfileHandler:     h.Profile,
		LedgerHandler:      h.Ledger,
		FormulationHandler: h.Formulation,
		HealthHandler:      h.Health,
	})
}
