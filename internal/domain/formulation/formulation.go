package formulation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/feedmill/feedmill-backend/internal/domain/catalog"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusFinalized Status = "finalized"
	StatusArchived  Status = "archived"
)

// Formulation is a batch recipe with its cost and status. Once Finalized the
// ingredient set is immutable to regeneration until explicitly unfinalized.
type Formulation struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name              string     `gorm:"column:name;not null" json:"name"`
	NutrientProfileID *uuid.UUID `gorm:"type:uuid;index" json:"nutrient_profile_id,omitempty"`

	BatchSizeKg float64         `gorm:"column:batch_size_kg;not null" json:"batch_size_kg"`
	CostPerKg   decimal.Decimal `gorm:"column:cost_per_kg;type:numeric(14,3);not null;default:0" json:"cost_per_kg"`

	Status    Status `gorm:"column:status;not null;default:'draft';index" json:"status"`
	Locked    bool   `gorm:"column:locked;not null;default:false" json:"locked"`
	Finalized bool   `gorm:"column:finalized;not null;default:false" json:"finalized"`

	Ingredients []FormulationIngredient `gorm:"constraint:OnDelete:CASCADE;foreignKey:FormulationID;references:ID" json:"ingredients,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Formulation) TableName() string { return "formulation" }

// FormulationIngredient is one recipe line, owned exclusively by its parent.
// CostPerKg snapshots the material cost at generation time; a locked line keeps
// its quantity through re-optimization.
type FormulationIngredient struct {
	ID            uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	FormulationID uuid.UUID            `gorm:"type:uuid;not null;index" json:"formulation_id"`
	RawMaterialID uuid.UUID            `gorm:"type:uuid;not null;index" json:"raw_material_id"`
	RawMaterial   *catalog.RawMaterial `gorm:"foreignKey:RawMaterialID;references:ID" json:"raw_material,omitempty"`

	Position   int             `gorm:"column:position;not null;default:0" json:"position"`
	Name       string          `gorm:"column:name;not null" json:"name"`
	QuantityKg float64         `gorm:"column:quantity_kg;not null" json:"quantity_kg"`
	Percentage float64         `gorm:"column:percentage;not null" json:"percentage"`
	CostPerKg  decimal.Decimal `gorm:"column:cost_per_kg;type:numeric(14,3);not null;default:0" json:"cost_per_kg"`
	Locked     bool            `gorm:"column:locked;not null;default:false" json:"locked"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (FormulationIngredient) TableName() string { return "formulation_ingredient" }
