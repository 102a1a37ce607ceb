package app

import (
	httpH "github.com/feedmill/feedmill-backend/internal/http/handlers"
	"github.com/feedmill/feedmill-backend/internal/platform/logger"
)

type Handlers struct {
	Material    *httpH.MaterialHandler
	Profile     *httpH.ProfileHandler
	Ledger      *httpH.LedgerHandler
	Formulation *httpH.FormulationHandler
	Health      *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, svcs Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Material:    httpH.NewMaterialHandler(svcs.Material),
		Profile:     httpH.NewProfileHandler(svcs.Profile),
		Ledger:      httpH.NewLedgerHandler(svcs.Ledger),
		Formulation: httpH.NewFormulationHandler(svcs.Formulation),
		Health:      httpH.NewHealthHandler(),
	}
}
