package db

import (
	types "github.com/feedmill/feedmill-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Catalog master data
		&types.RawMaterial{},
		&types.NutrientProfile{},

		// WAC ledger
		&types.InventoryMovement{},

		// Formulations
		&types.Formulation{},
		&types.FormulationIngredient{},
	)
}
