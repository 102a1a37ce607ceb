package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogrepo "github.com/feedmill/feedmill-backend/internal/data/repos/catalog"
	types "github.com/feedmill/feedmill-backend/internal/domain"
	"github.com/feedmill/feedmill-backend/internal/pkg/apperr"
	"github.com/feedmill/feedmill-backend/internal/pkg/dbctx"
	"github.com/feedmill/feedmill-backend/internal/platform/logger"
)

type CreateMaterialInput struct {
	Name                string
	CrudeProteinPct     float64
	MetabolizableEnergy float64
	CalciumPct          float64
	FatPct              float64
	FiberPct            float64
	AshPct              float64
	CostPerKg           decimal.Decimal
	MinStockKg          float64
}

// UpdateMaterialInput carries partial updates; nil fields are left alone.
// Stock and average cost are deliberately absent: only the ledger moves those.
type UpdateMaterialInput struct {
	Name                *string
	CrudeProteinPct     *float64
	MetabolizableEnergy *float64
	CalciumPct          *float64
	FatPct              *float64
	FiberPct            *float64
	AshPct              *float64
	MinStockKg          *float64
	Locked              *bool
}

type MaterialService interface {
	Create(ctx context.Context, in CreateMaterialInput) (*types.RawMaterial, error)
	Get(ctx context.Context, id uuid.UUID) (*types.RawMaterial, error)
	List(ctx context.Context, includeArchived bool) ([]*types.RawMaterial, error)
	ListLowStock(ctx context.Context) ([]*types.RawMaterial, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateMaterialInput) (*types.RawMaterial, error)
	// Archive hides the material from new formulations and ledger activity.
	// History referencing it stays intact.
	Archive(ctx context.Context, id uuid.UUID) error
	Unarchive(ctx context.Context, id uuid.UUID) error
}

type materialService struct {
	materials catalogrepo.RawMaterialRepo
	log       *logger.Logger
}

func NewMaterialService(materials catalogrepo.RawMaterialRepo, baseLog *logger.Logger) MaterialService {
	return &materialService{
		materials: materials,
		log:       baseLog.With("service", "MaterialService"),
	}
}

func validatePct(field string, v float64) error {
	if v < 0 || v > 100 {
		return fmt.Errorf("%s must be between 0 and 100, got %v: %w", field, v, apperr.ErrInvalidArgument)
	}
	return nil
}

func (s *materialService) Create(ctx context.Context, in CreateMaterialInput) (*types.RawMaterial, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("material name is required: %w", apperr.ErrInvalidArgument)
	}
	for _, chk := range []struct {
		field string
		v     float64
	}{
		{"crude protein", in.CrudeProteinPct},
		{"calcium", in.CalciumPct},
		{"fat", in.FatPct},
		{"fiber", in.FiberPct},
		{"ash", in.AshPct},
	} {
		if err := validatePct(chk.field, chk.v); err != nil {
			return nil, err
		}
	}
	if in.CostPerKg.IsNegative() {
		return nil, fmt.Errorf("cost per kg must not be negative: %w", apperr.ErrInvalidArgument)
	}
	if in.MinStockKg < 0 {
		return nil, fmt.Errorf("reorder level must not be negative: %w", apperr.ErrInvalidArgument)
	}

	dbc := dbctx.Context{Ctx: ctx}
	if _, err := s.materials.GetByName(dbc, in.Name); err == nil {
		return nil, fmt.Errorf("material %q already exists: %w", in.Name, apperr.ErrInvalidArgument)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	m := &types.RawMaterial{
		Name:                in.Name,
		CrudeProteinPct:     in.CrudeProteinPct,
		MetabolizableEnergy: in.MetabolizableEnergy,
		CalciumPct:          in.CalciumPct,
		FatPct:              in.FatPct,
		FiberPct:            in.FiberPct,
		AshPct:              in.AshPct,
		CostPerKg:           in.CostPerKg,
		MinStockKg:          in.MinStockKg,
	}
	if err := s.materials.Create(dbc, m); err != nil {
		return nil, err
	}
	s.log.Info("raw material created", "material_id", m.ID.String(), "name", m.Name)
	return m, nil
}

func (s *materialService) Get(ctx context.Context, id uuid.UUID) (*types.RawMaterial, error) {
	return s.materials.GetByID(dbctx.Context{Ctx: ctx}, id)
}

func (s *materialService) List(ctx context.Context, includeArchived bool) ([]*types.RawMaterial, error) {
	return s.materials.List(dbctx.Context{Ctx: ctx}, includeArchived)
}

func (s *materialService) ListLowStock(ctx context.Context) ([]*types.RawMaterial, error) {
	return s.materials.ListLowStock(dbctx.Context{Ctx: ctx})
}

func (s *materialService) Update(ctx context.Context, id uuid.UUID, in UpdateMaterialInput) (*types.RawMaterial, error) {
	updates := map[string]interface{}{}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, fmt.Errorf("material name is required: %w", apperr.ErrInvalidArgument)
		}
		updates["name"] = *in.Name
	}
	for _, chk := range []struct {
		field  string
		column string
		v      *float64
	}{
		{"crude protein", "crude_protein_pct", in.CrudeProteinPct},
		{"calcium", "calcium_pct", in.CalciumPct},
		{"fat", "fat_pct", in.FatPct},
		{"fiber", "fiber_pct", in.FiberPct},
		{"ash", "ash_pct", in.AshPct},
	} {
		if chk.v == nil {
			continue
		}
		if err := validatePct(chk.field, *chk.v); err != nil {
			return nil, err
		}
		updates[chk.column] = *chk.v
	}
	if in.MetabolizableEnergy != nil {
		updates["metabolizable_energy"] = *in.MetabolizableEnergy
	}
	if in.MinStockKg != nil {
		if *in.MinStockKg < 0 {
			return nil, fmt.Errorf("reorder level must not be negative: %w", apperr.ErrInvalidArgument)
		}
		updates["min_stock_kg"] = *in.MinStockKg
	}
	if in.Locked != nil {
		updates["locked"] = *in.Locked
	}

	dbc := dbctx.Context{Ctx: ctx}
	if err := s.materials.UpdateFields(dbc, id, updates); err != nil {
		return nil, err
	}
	return s.materials.GetByID(dbc, id)
}

func (s *materialService) Archive(ctx context.Context, id uuid.UUID) error {
	err := s.materials.UpdateFields(dbctx.Context{Ctx: ctx}, id, map[string]interface{}{"archived": true})
	if err != nil {
		return err
	}
	s.log.Info("raw material archived", "material_id", id.String())
	return nil
}

func (s *materialService) Unarchive(ctx context.Context, id uuid.UUID) error {
	return s.materials.UpdateFields(dbctx.Context{Ctx: ctx}, id, map[string]interface{}{"archived": false})
}
