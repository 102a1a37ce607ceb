package app

import (
	"gorm.io/gorm"

	catalogrepo "github.com/feedmill/feedmill-backend/internal/data/repos/catalog"
	formulationrepo "github.com/feedmill/feedmill-backend/internal/data/repos/formulation"
	inventoryrepo "github.com/feedmill/feedmill-backend/internal/data/repos/inventory"
	"github.com/feedmill/feedmill-backend/internal/platform/logger"
)

type Repos struct {
	RawMaterial     catalogrepo.RawMaterialRepo
	NutrientProfile catalogrepo.NutrientProfileRepo
	Movement        inventoryrepo.MovementRepo
	Formulation     formulationrepo.FormulationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		RawMaterial:     catalogrepo.NewRawMaterialRepo(db, log),
		NutrientProfile: catalogrepo.NewNutrientProfileRepo(db, log),
		Movement:        inventoryrepo.NewMovementRepo(db, log),
		Formulation:     formulationrepo.NewFormulationRepo(db, log),
	}
}
