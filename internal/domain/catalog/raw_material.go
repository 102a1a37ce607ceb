package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RawMaterial is a priced, nutrient-characterized inventory item. Nutrient
// contents are percentages by weight. CostPerKg and InStockKg are mutated only
// through the WAC ledger; everything else is catalog master data.
type RawMaterial struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"column:name;not null;uniqueIndex" json:"name"`

	CrudeProteinPct     float64 `gorm:"column:crude_protein_pct;not null;default:0" json:"crude_protein_pct"`
	MetabolizableEnergy float64 `gorm:"column:metabolizable_energy;not null;default:0" json:"metabolizable_energy"`
	CalciumPct          float64 `gorm:"column:calcium_pct;not null;default:0" json:"calcium_pct"`
	FatPct              float64 `gorm:"column:fat_pct;not null;default:0" json:"fat_pct"`
	FiberPct            float64 `gorm:"column:fiber_pct;not null;default:0" json:"fiber_pct"`
	AshPct              float64 `gorm:"column:ash_pct;not null;default:0" json:"ash_pct"`

	CostPerKg decimal.Decimal `gorm:"column:cost_per_kg;type:numeric(14,3);not null;default:0" json:"cost_per_kg"`
	InStockKg float64         `gorm:"column:in_stock_kg;not null;default:0" json:"in_stock_kg"`

	// MinStockKg is the reorder level the low-stock scan alerts on. Zero disables it.
	MinStockKg float64 `gorm:"column:min_stock_kg;not null;default:0" json:"min_stock_kg"`

	// Locked keeps the material out of automatic blend selection; a profile can
	// still name it as mandatory. Archived keeps it out of all new formulation
	// and ledger activity.
	Locked   bool `gorm:"column:locked;not null;default:false" json:"locked"`
	Archived bool `gorm:"column:archived;not null;default:false;index" json:"archived"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (RawMaterial) TableName() string { return "raw_material" }
