package catalog

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NutrientProfile is the nutrient target set for one feed type/stage.
// TargetNutrients maps nutrient name to target percentage; the ingredient name
// lists steer candidate selection. The profile is read-only to the generator.
type NutrientProfile struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Stage string    `gorm:"column:stage" json:"stage,omitempty"`

	TargetNutrients       datatypes.JSON `gorm:"column:target_nutrients;type:jsonb" json:"target_nutrients"`             // map[string]float64
	MandatoryIngredients  datatypes.JSON `gorm:"column:mandatory_ingredients;type:jsonb" json:"mandatory_ingredients"`   // []string
	RestrictedIngredients datatypes.JSON `gorm:"column:restricted_ingredients;type:jsonb" json:"restricted_ingredients"` // []string

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (NutrientProfile) TableName() string { return "nutrient_profile" }

func (p *NutrientProfile) Targets() (map[string]float64, error) {
	targets := map[string]float64{}
	if len(p.TargetNutrients) == 0 {
		return targets, nil
	}
	if err := json.Unmarshal(p.TargetNutrients, &targets); err != nil {
		return nil, err
	}
	return targets, nil
}

func (p *NutrientProfile) SetTargets(targets map[string]float64) error {
	data, err := json.Marshal(targets)
	if err != nil {
		return err
	}
	p.TargetNutrients = data
	return nil
}

func (p *NutrientProfile) Mandatory() ([]string, error) {
	return decodeNames(p.MandatoryIngredients)
}

func (p *NutrientProfile) SetMandatory(names []string) error {
	data, err := json.Marshal(names)
	if err != nil {
		return err
	}
	p.MandatoryIngredients = data
	return nil
}

func (p *NutrientProfile) Restricted() ([]string, error) {
	return decodeNames(p.RestrictedIngredients)
}

func (p *NutrientProfile) SetRestricted(names []string) error {
	data, err := json.Marshal(names)
	if err != nil {
		return err
	}
	p.RestrictedIngredients = data
	return nil
}

func decodeNames(raw datatypes.JSON) ([]string, error) {
	var names []string
	if len(raw) == 0 {
		return names, nil
	}
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, err
	}
	return names, nil
}
