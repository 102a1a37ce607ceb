package testutil

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/feedmill/feedmill-backend/internal/domain"
)

// SeedRawMaterial inserts m after filling in an ID and name when missing.
func SeedRawMaterial(tb testing.TB, ctx context.Context, tx *gorm.DB, m types.RawMaterial) *types.RawMaterial {
	tb.Helper()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Name == "" {
		m.Name = "material-" + m.ID.String()[:8]
	}
	if err := tx.WithContext(ctx).Create(&m).Error; err != nil {
		tb.Fatalf("seed raw material: %v", err)
	}
	return &m
}

func SeedNutrientProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, targets map[string]float64, mandatory, restricted []string) *types.NutrientProfile {
	tb.Helper()
	p := &types.NutrientProfile{
		ID:   uuid.New(),
		Name: name,
	}
	p.TargetNutrients = mustJSON(tb, targets)
	p.MandatoryIngredients = mustJSON(tb, orEmpty(mandatory))
	p.RestrictedIngredients = mustJSON(tb, orEmpty(restricted))
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed nutrient profile: %v", err)
	}
	return p
}

func mustJSON(tb testing.TB, v interface{}) []byte {
	tb.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		tb.Fatalf("marshal fixture: %v", err)
	}
	return data
}

func orEmpty(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}
