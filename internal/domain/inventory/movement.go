package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/feedmill/feedmill-backend/internal/domain/catalog"
)

type MovementType string

const (
	MovementReceive MovementType = "RECEIVE"
	MovementIssue   MovementType = "ISSUE"
)

// InventoryMovement is one append-only ledger entry. Rows are created exactly
// once per receive/issue and never updated or deleted. For an ISSUE, UnitCost
// is the material's weighted-average cost at the instant of issue.
type InventoryMovement struct {
	ID            uuid.UUID            `gorm:"type:uuid;primaryKey" json:"id"`
	RawMaterialID uuid.UUID            `gorm:"type:uuid;not null;index" json:"raw_material_id"`
	RawMaterial   *catalog.RawMaterial `gorm:"foreignKey:RawMaterialID;references:ID" json:"raw_material,omitempty"`

	Type       MovementType    `gorm:"column:type;not null;index" json:"type"`
	QuantityKg float64         `gorm:"column:quantity_kg;not null" json:"quantity_kg"`
	UnitCost   decimal.Decimal `gorm:"column:unit_cost;type:numeric(14,3);not null" json:"unit_cost"`
	TotalCost  decimal.Decimal `gorm:"column:total_cost;type:numeric(16,3);not null" json:"total_cost"`
	Reference  string          `gorm:"column:reference" json:"reference,omitempty"`

	MovedAt   time.Time `gorm:"column:moved_at;not null;index" json:"moved_at"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (InventoryMovement) TableName() string { return "inventory_movement" }
