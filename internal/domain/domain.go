package domain

import (
	"github.com/feedmill/feedmill-backend/internal/domain/catalog"
	"github.com/feedmill/feedmill-backend/internal/domain/formulation"
	"github.com/feedmill/feedmill-backend/internal/domain/inventory"
)

// Flat aliases so callers can import one types package.

type (
	RawMaterial     = catalog.RawMaterial
	NutrientProfile = catalog.NutrientProfile

	InventoryMovement = inventory.InventoryMovement
	MovementType      = inventory.MovementType

	Formulation           = formulation.Formulation
	FormulationIngredient = formulation.FormulationIngredient
	FormulationStatus     = formulation.Status
)

const (
	MovementReceive = inventory.MovementReceive
	MovementIssue   = inventory.MovementIssue

	FormulationDraft     = formulation.StatusDraft
	FormulationFinalized = formulation.StatusFinalized
	FormulationArchived  = formulation.StatusArchived
)
