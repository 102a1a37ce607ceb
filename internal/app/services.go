package app

import (
	"gorm.io/gorm"

	"github.com/feedmill/feedmill-backend/internal/platform/logger"
	"github.com/feedmill/feedmill-backend/internal/services"
)

type Services struct {
	Material    services.MaterialService
	Profile     services.ProfileService
	Ledger      services.LedgerService
	Formulation services.FormulationService
}

func wireServices(db *gorm.DB, log *logger.Logger, repos Repos) Services {
	log.Info("Wiring services...")
	return Services{
		Material: services.NewMaterialService(repos.RawMaterial, log),
		Profile:  services.NewProfileService(repos.NutrientProfile, log),
		Ledger:   services.NewLedgerService(db, repos.RawMaterial, repos.Movement, log),
		Formulation: services.NewFormulationService(
			repos.Formulation,
			repos.NutrientProfile,
			repos.RawMaterial,
			nil, // default finalize notifier logs the event
			log,
		),
	}
}
